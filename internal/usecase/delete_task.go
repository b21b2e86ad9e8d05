package usecase

import (
	"context"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase/shared"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID string // Task ID or ID prefix
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct {
	Task domain.Task // The deleted task
}

// DeleteTask is the use case for deleting a task.
type DeleteTask struct {
	store BoardStore
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(store BoardStore) *DeleteTask {
	return &DeleteTask{
		store: store,
	}
}

// Execute deletes the task.
func (uc *DeleteTask) Execute(_ context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	board, err := uc.store.Board()
	if err != nil {
		return nil, err
	}
	task, err := shared.ResolveTask(board, in.TaskID)
	if err != nil {
		return nil, err
	}
	if err := uc.store.DeleteTask(task.ID); err != nil {
		return nil, err
	}
	return &DeleteTaskOutput{Task: task}, nil
}
