package usecase

import (
	"context"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/search"
	"github.com/runoshun/taskboard/internal/usecase/shared"
)

// ShowBoardInput contains the parameters for showing the board.
type ShowBoardInput struct {
	Column string // Restrict to one column (ID, title or ID prefix); empty = all
}

// ShowBoardOutput contains the board grouped by column.
type ShowBoardOutput struct {
	Board   domain.Board         // Full board
	Columns []search.ColumnTasks // Columns in order, each with its tasks in order
}

// ShowBoard is the use case for listing the board.
type ShowBoard struct {
	store BoardStore
}

// NewShowBoard creates a new ShowBoard use case.
func NewShowBoard(store BoardStore) *ShowBoard {
	return &ShowBoard{
		store: store,
	}
}

// Execute returns the board grouped by column.
func (uc *ShowBoard) Execute(_ context.Context, in ShowBoardInput) (*ShowBoardOutput, error) {
	board, err := uc.store.Board()
	if err != nil {
		return nil, err
	}
	if in.Column == "" {
		return &ShowBoardOutput{Board: board, Columns: search.GroupByColumn(board)}, nil
	}

	col, err := shared.ResolveColumn(board, in.Column)
	if err != nil {
		return nil, err
	}
	return &ShowBoardOutput{
		Board:   board,
		Columns: []search.ColumnTasks{{Column: col, Tasks: board.ColumnTasks(col.ID)}},
	}, nil
}
