package usecase

import (
	"context"

	"github.com/runoshun/taskboard/internal/recovery"
)

// RunBackup is the use case for writing a backup to every tier on demand.
type RunBackup struct {
	store BoardStore
}

// NewRunBackup creates a new RunBackup use case.
func NewRunBackup(store BoardStore) *RunBackup {
	return &RunBackup{store: store}
}

// Execute backs up the current board. A backup that no tier accepted is
// reported through Outcome.Success, not as an error.
func (uc *RunBackup) Execute(ctx context.Context) (recovery.Outcome, error) {
	return uc.store.Backup(ctx)
}

// BackupStatus is the use case for inspecting the backup held by every tier.
type BackupStatus struct {
	engine RecoveryEngine
}

// NewBackupStatus creates a new BackupStatus use case.
func NewBackupStatus(engine RecoveryEngine) *BackupStatus {
	return &BackupStatus{engine: engine}
}

// Execute returns one status per tier in recovery priority order.
func (uc *BackupStatus) Execute(ctx context.Context) []recovery.TierStatus {
	return uc.engine.Inspect(ctx)
}

// ClearBackups is the use case for removing the backup from every tier.
type ClearBackups struct {
	engine RecoveryEngine
}

// NewClearBackups creates a new ClearBackups use case.
func NewClearBackups(engine RecoveryEngine) *ClearBackups {
	return &ClearBackups{engine: engine}
}

// Execute clears every tier. Per-tier failures are only logged by the engine.
func (uc *ClearBackups) Execute(ctx context.Context) {
	uc.engine.ClearAll(ctx)
}
