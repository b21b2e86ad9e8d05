package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/runoshun/taskboard/internal/codec"
	"github.com/runoshun/taskboard/internal/domain"
)

// ExportBoardInput contains the parameters for exporting the board.
type ExportBoardInput struct {
	Path string // Target file or directory; empty = current directory
}

// ExportBoardOutput contains the result of an export.
type ExportBoardOutput struct {
	Path  string // Written file
	Bytes int    // Compressed size
}

// ExportBoard is the use case for writing the board to an export file.
type ExportBoard struct {
	store BoardStore
	clock domain.Clock
}

// NewExportBoard creates a new ExportBoard use case.
func NewExportBoard(store BoardStore, clock domain.Clock) *ExportBoard {
	return &ExportBoard{store: store, clock: clock}
}

// Execute writes the export file. A directory target gets the default
// dated file name; a file target gets the .json.gz extension if missing.
func (uc *ExportBoard) Execute(_ context.Context, in ExportBoardInput) (*ExportBoardOutput, error) {
	board, err := uc.store.Board()
	if err != nil {
		return nil, err
	}
	data, err := codec.Export(board)
	if err != nil {
		return nil, err
	}

	path := exportPath(in.Path, uc.clock)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("write export: %w", err)
	}
	return &ExportBoardOutput{Path: path, Bytes: len(data)}, nil
}

func exportPath(target string, clock domain.Clock) string {
	if target == "" {
		return codec.ExportFileName("", clock.Now())
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return filepath.Join(target, codec.ExportFileName("", clock.Now()))
	}
	dir, base := filepath.Split(target)
	return filepath.Join(dir, codec.ExportFileName(base, clock.Now()))
}

// ExportBytes is the use case for exporting the board to memory, used by
// the HTTP download.
type ExportBytes struct {
	store BoardStore
	clock domain.Clock
}

// NewExportBytes creates a new ExportBytes use case.
func NewExportBytes(store BoardStore, clock domain.Clock) *ExportBytes {
	return &ExportBytes{store: store, clock: clock}
}

// Execute returns the export file content and its default name.
func (uc *ExportBytes) Execute(_ context.Context) ([]byte, string, error) {
	board, err := uc.store.Board()
	if err != nil {
		return nil, "", err
	}
	data, err := codec.Export(board)
	if err != nil {
		return nil, "", err
	}
	return data, codec.ExportFileName("", uc.clock.Now()), nil
}
