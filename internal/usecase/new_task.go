package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase/shared"
)

// NewTaskInput contains the parameters for creating a task.
// Fields are ordered to minimize memory padding.
type NewTaskInput struct {
	Column      string   // Column ID, title or ID prefix; empty = first column
	Title       string   // Task title (required)
	Description string   // Task description (optional)
	Priority    string   // Priority (optional, default medium)
	Tags        []string // Tag IDs or names (optional)
}

// NewTaskOutput contains the result of creating a task.
type NewTaskOutput struct {
	Task   domain.Task   // The created task
	Column domain.Column // The column it was added to
}

// NewTask is the use case for creating a new task.
type NewTask struct {
	store BoardStore
}

// NewNewTask creates a new NewTask use case.
func NewNewTask(store BoardStore) *NewTask {
	return &NewTask{
		store: store,
	}
}

// Execute creates a new task with the given input.
func (uc *NewTask) Execute(_ context.Context, in NewTaskInput) (*NewTaskOutput, error) {
	board, err := uc.store.Board()
	if err != nil {
		return nil, err
	}

	var col domain.Column
	if in.Column == "" {
		cols := board.SortedColumns()
		if len(cols) == 0 {
			return nil, fmt.Errorf("board has no columns: %w", domain.ErrColumnNotFound)
		}
		col = cols[0]
	} else if col, err = shared.ResolveColumn(board, in.Column); err != nil {
		return nil, err
	}

	// Validate everything before the first mutation
	var patch domain.TaskPatch
	if in.Description != "" {
		patch.Description = &in.Description
	}
	if in.Priority != "" {
		p, err := domain.ParsePriority(in.Priority)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, in.Priority)
		}
		patch.Priority = &p
	}
	if len(in.Tags) > 0 {
		tags, err := shared.ResolveTags(board, in.Tags)
		if err != nil {
			return nil, err
		}
		ids := tagIDs(tags)
		patch.Tags = &ids
	}

	task, err := uc.store.AddTask(col.ID, in.Title)
	if err != nil {
		return nil, err
	}
	if !patch.IsEmpty() {
		if task, err = uc.store.UpdateTask(task.ID, patch); err != nil {
			return nil, fmt.Errorf("set task fields: %w", err)
		}
	}

	return &NewTaskOutput{Task: task, Column: col}, nil
}

func tagIDs(tags []domain.Tag) []string {
	ids := make([]string, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}
