package usecase

import (
	"context"
	"fmt"
	"os"

	"github.com/runoshun/taskboard/internal/codec"
	"github.com/runoshun/taskboard/internal/domain"
)

// ImportBoardInput contains the parameters for importing an export file.
// Exactly one of Path and Data is used; Data wins when both are set.
type ImportBoardInput struct {
	Path string // Export file to read
	Data []byte // Export file content
}

// ImportBoardOutput summarizes the imported board.
type ImportBoardOutput struct {
	Columns int `json:"columns"`
	Tasks   int `json:"tasks"`
	Tags    int `json:"tags"`
}

// ImportBoard is the use case for replacing the board with an export file.
type ImportBoard struct {
	store BoardStore
}

// NewImportBoard creates a new ImportBoard use case.
func NewImportBoard(store BoardStore) *ImportBoard {
	return &ImportBoard{store: store}
}

// Execute decodes the export and replaces the whole board. A rejected file
// leaves the board untouched.
func (uc *ImportBoard) Execute(_ context.Context, in ImportBoardInput) (*ImportBoardOutput, error) {
	data := in.Data
	if data == nil {
		var err error
		data, err = os.ReadFile(in.Path)
		if err != nil {
			return nil, fmt.Errorf("read import: %w", err)
		}
	}

	board, err := codec.Import(data)
	if err != nil {
		return nil, err
	}
	if err := uc.store.ImportBoardState(board); err != nil {
		return nil, err
	}
	return summarize(board), nil
}

func summarize(b domain.Board) *ImportBoardOutput {
	return &ImportBoardOutput{
		Columns: len(b.Columns),
		Tasks:   len(b.Tasks),
		Tags:    len(b.Tags),
	}
}
