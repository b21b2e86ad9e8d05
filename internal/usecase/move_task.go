package usecase

import (
	"context"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase/shared"
)

// MoveTaskInput contains the parameters for moving a task.
type MoveTaskInput struct {
	Position *int   // Zero-based position in the target column (nil = end)
	TaskID   string // Task ID or ID prefix
	Column   string // Target column ID, title or ID prefix
}

// MoveTaskOutput contains the result of moving a task.
type MoveTaskOutput struct {
	Task   domain.Task   // The moved task
	Column domain.Column // The target column
}

// MoveTask is the use case for moving a task between or within columns.
type MoveTask struct {
	store BoardStore
}

// NewMoveTask creates a new MoveTask use case.
func NewMoveTask(store BoardStore) *MoveTask {
	return &MoveTask{
		store: store,
	}
}

// Execute moves the task. Out-of-range positions are clamped.
func (uc *MoveTask) Execute(_ context.Context, in MoveTaskInput) (*MoveTaskOutput, error) {
	board, err := uc.store.Board()
	if err != nil {
		return nil, err
	}
	task, err := shared.ResolveTask(board, in.TaskID)
	if err != nil {
		return nil, err
	}
	col, err := shared.ResolveColumn(board, in.Column)
	if err != nil {
		return nil, err
	}

	pos := len(board.ColumnTasks(col.ID))
	if in.Position != nil {
		pos = *in.Position
	}
	if err := uc.store.MoveTask(task.ID, col.ID, pos); err != nil {
		return nil, err
	}

	board, err = uc.store.Board()
	if err != nil {
		return nil, err
	}
	moved, _ := board.Task(task.ID)
	return &MoveTaskOutput{Task: moved, Column: col}, nil
}
