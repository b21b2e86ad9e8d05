package usecase

import (
	"context"
	"time"

	"github.com/runoshun/taskboard/internal/domain"
)

// RecoverBoardOutput describes the backup the board was restored from.
type RecoverBoardOutput struct {
	Timestamp time.Time
	Source    string // Tier name
	Summary   ImportBoardOutput
}

// RecoverBoard is the use case for replacing the board with the best backup.
type RecoverBoard struct {
	store  BoardStore
	engine RecoveryEngine
}

// NewRecoverBoard creates a new RecoverBoard use case.
func NewRecoverBoard(store BoardStore, engine RecoveryEngine) *RecoverBoard {
	return &RecoverBoard{store: store, engine: engine}
}

// Execute restores the board from the highest priority valid backup.
// It returns domain.ErrNoRecovery when no tier holds one.
func (uc *RecoverBoard) Execute(ctx context.Context) (*RecoverBoardOutput, error) {
	rec, ok := uc.engine.Recover(ctx)
	if !ok {
		return nil, domain.ErrNoRecovery
	}
	if err := uc.store.ImportBoardState(rec.Board); err != nil {
		return nil, err
	}
	return &RecoverBoardOutput{
		Source:    rec.Source,
		Timestamp: rec.Timestamp,
		Summary:   *summarize(rec.Board),
	}, nil
}
