package usecase

import (
	"context"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase/shared"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	TaskID string // Task ID or ID prefix (required)
}

// ShowTaskOutput contains the result of showing a task.
type ShowTaskOutput struct {
	Task     domain.Task   // The task details
	Column   domain.Column // The column holding the task
	TagNames []string      // Names of the task's tags
}

// ShowTask is the use case for displaying task details.
type ShowTask struct {
	store BoardStore
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(store BoardStore) *ShowTask {
	return &ShowTask{
		store: store,
	}
}

// Execute retrieves and returns the task details.
func (uc *ShowTask) Execute(_ context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	board, err := uc.store.Board()
	if err != nil {
		return nil, err
	}
	task, err := shared.ResolveTask(board, in.TaskID)
	if err != nil {
		return nil, err
	}
	col, _ := board.Column(task.ColumnID)

	return &ShowTaskOutput{
		Task:     task,
		Column:   col,
		TagNames: board.TagNames(task),
	}, nil
}
