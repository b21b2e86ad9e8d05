package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase/shared"
)

// EditTaskInput contains the parameters for editing a task.
// All fields except TaskID are optional. Only non-nil/non-empty fields will be updated.
type EditTaskInput struct {
	Title       *string  // New title (nil = no change)
	Description *string  // New description (nil = no change)
	Status      *string  // New status (nil = no change)
	Priority    *string  // New priority (nil = no change)
	TaskID      string   // Task ID or ID prefix (required)
	AddTags     []string // Tag IDs or names to add
	RemoveTags  []string // Tag IDs or names to remove
}

// EditTaskOutput contains the result of editing a task.
type EditTaskOutput struct {
	Task domain.Task // The updated task
}

// EditTask is the use case for editing an existing task.
type EditTask struct {
	store BoardStore
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(store BoardStore) *EditTask {
	return &EditTask{
		store: store,
	}
}

// Execute edits a task with the given input.
func (uc *EditTask) Execute(_ context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	if in.Title == nil && in.Description == nil && in.Status == nil && in.Priority == nil &&
		len(in.AddTags) == 0 && len(in.RemoveTags) == 0 {
		return nil, domain.ErrNoFieldsToUpdate
	}

	board, err := uc.store.Board()
	if err != nil {
		return nil, err
	}
	task, err := shared.ResolveTask(board, in.TaskID)
	if err != nil {
		return nil, err
	}

	patch := domain.TaskPatch{
		Title:       in.Title,
		Description: in.Description,
	}
	if in.Status != nil {
		s, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, *in.Status)
		}
		patch.Status = &s
	}
	if in.Priority != nil {
		p, err := domain.ParsePriority(*in.Priority)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, *in.Priority)
		}
		patch.Priority = &p
	}
	if len(in.AddTags) > 0 || len(in.RemoveTags) > 0 {
		add, err := shared.ResolveTags(board, in.AddTags)
		if err != nil {
			return nil, err
		}
		remove, err := shared.ResolveTags(board, in.RemoveTags)
		if err != nil {
			return nil, err
		}
		tags := updateTags(task.Tags, tagIDs(add), tagIDs(remove))
		patch.Tags = &tags
	}

	updated, err := uc.store.UpdateTask(task.ID, patch)
	if err != nil {
		return nil, err
	}
	return &EditTaskOutput{Task: updated}, nil
}

// updateTags adds and removes tag IDs, keeping the existing order and
// appending new IDs at the end. Duplicates are dropped.
func updateTags(current, add, remove []string) []string {
	result := make([]string, 0, len(current)+len(add))
	for _, id := range slices.Concat(current, add) {
		if slices.Contains(remove, id) || slices.Contains(result, id) {
			continue
		}
		result = append(result, id)
	}
	return result
}
