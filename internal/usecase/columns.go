package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase/shared"
)

// AddColumnInput contains the parameters for adding a column.
type AddColumnInput struct {
	Title string
}

// AddColumn is the use case for appending a column.
type AddColumn struct {
	store BoardStore
}

// NewAddColumn creates a new AddColumn use case.
func NewAddColumn(store BoardStore) *AddColumn {
	return &AddColumn{store: store}
}

// Execute appends the column.
func (uc *AddColumn) Execute(_ context.Context, in AddColumnInput) (domain.Column, error) {
	return uc.store.AddColumn(in.Title)
}

// RenameColumnInput contains the parameters for renaming a column.
type RenameColumnInput struct {
	Column string // Column ID, title or ID prefix
	Title  string // New title
}

// RenameColumn is the use case for renaming a column.
type RenameColumn struct {
	store BoardStore
}

// NewRenameColumn creates a new RenameColumn use case.
func NewRenameColumn(store BoardStore) *RenameColumn {
	return &RenameColumn{store: store}
}

// Execute renames the column.
func (uc *RenameColumn) Execute(_ context.Context, in RenameColumnInput) (domain.Column, error) {
	board, err := uc.store.Board()
	if err != nil {
		return domain.Column{}, err
	}
	col, err := shared.ResolveColumn(board, in.Column)
	if err != nil {
		return domain.Column{}, err
	}
	if err := uc.store.UpdateColumn(col.ID, in.Title); err != nil {
		return domain.Column{}, err
	}
	board, err = uc.store.Board()
	if err != nil {
		return domain.Column{}, err
	}
	col, _ = board.Column(col.ID)
	return col, nil
}

// DeleteColumnInput contains the parameters for deleting a column.
type DeleteColumnInput struct {
	Column string // Column ID, title or ID prefix
}

// DeleteColumnOutput contains the result of deleting a column.
type DeleteColumnOutput struct {
	Column       domain.Column // The deleted column
	DeletedTasks int           // Number of tasks removed with it
}

// DeleteColumn is the use case for deleting a column and its tasks.
type DeleteColumn struct {
	store BoardStore
}

// NewDeleteColumn creates a new DeleteColumn use case.
func NewDeleteColumn(store BoardStore) *DeleteColumn {
	return &DeleteColumn{store: store}
}

// Execute deletes the column.
func (uc *DeleteColumn) Execute(_ context.Context, in DeleteColumnInput) (*DeleteColumnOutput, error) {
	board, err := uc.store.Board()
	if err != nil {
		return nil, err
	}
	col, err := shared.ResolveColumn(board, in.Column)
	if err != nil {
		return nil, err
	}
	n := len(board.ColumnTasks(col.ID))
	if err := uc.store.DeleteColumn(col.ID); err != nil {
		return nil, err
	}
	return &DeleteColumnOutput{Column: col, DeletedTasks: n}, nil
}

// OrderColumnsInput contains the new column order.
type OrderColumnsInput struct {
	Columns []string // Every column, by ID, title or ID prefix, in the new order
}

// OrderColumns is the use case for reordering columns.
type OrderColumns struct {
	store BoardStore
}

// NewOrderColumns creates a new OrderColumns use case.
func NewOrderColumns(store BoardStore) *OrderColumns {
	return &OrderColumns{store: store}
}

// Execute reorders the columns.
func (uc *OrderColumns) Execute(_ context.Context, in OrderColumnsInput) ([]domain.Column, error) {
	board, err := uc.store.Board()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(in.Columns))
	for i, ref := range in.Columns {
		col, err := shared.ResolveColumn(board, ref)
		if err != nil {
			return nil, err
		}
		ids[i] = col.ID
	}
	if err := uc.store.OrderColumns(ids); err != nil {
		return nil, err
	}
	board, err = uc.store.Board()
	if err != nil {
		return nil, err
	}
	return board.SortedColumns(), nil
}

// SetColumnTasksInput contains the bulk update for a column.
// At least one of Status and Priority must be set.
type SetColumnTasksInput struct {
	Status   *string
	Priority *string
	Column   string // Column ID, title or ID prefix
}

// SetColumnTasks is the use case for updating every task of a column.
type SetColumnTasks struct {
	store BoardStore
}

// NewSetColumnTasks creates a new SetColumnTasks use case.
func NewSetColumnTasks(store BoardStore) *SetColumnTasks {
	return &SetColumnTasks{store: store}
}

// Execute applies the status and/or priority and returns the number of
// tasks affected.
func (uc *SetColumnTasks) Execute(_ context.Context, in SetColumnTasksInput) (int, error) {
	if in.Status == nil && in.Priority == nil {
		return 0, domain.ErrNoFieldsToUpdate
	}
	board, err := uc.store.Board()
	if err != nil {
		return 0, err
	}
	col, err := shared.ResolveColumn(board, in.Column)
	if err != nil {
		return 0, err
	}

	var status domain.Status
	if in.Status != nil {
		if status, err = domain.ParseStatus(*in.Status); err != nil {
			return 0, fmt.Errorf("%w: %s", err, *in.Status)
		}
	}
	var priority domain.Priority
	if in.Priority != nil {
		if priority, err = domain.ParsePriority(*in.Priority); err != nil {
			return 0, fmt.Errorf("%w: %s", err, *in.Priority)
		}
	}

	if in.Status != nil {
		if err := uc.store.SetColumnTasksStatus(col.ID, status); err != nil {
			return 0, err
		}
	}
	if in.Priority != nil {
		if err := uc.store.SetColumnTasksPriority(col.ID, priority); err != nil {
			return 0, err
		}
	}
	return len(board.ColumnTasks(col.ID)), nil
}
