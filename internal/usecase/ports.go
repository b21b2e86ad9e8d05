// Package usecase contains the application use cases.
package usecase

import (
	"context"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/recovery"
)

// BoardStore is the board state the use cases read and mutate.
// It is implemented by boardstore.Store.
type BoardStore interface {
	Board() (domain.Board, error)
	Backup(ctx context.Context) (recovery.Outcome, error)

	AddColumn(title string) (domain.Column, error)
	UpdateColumn(id, title string) error
	DeleteColumn(id string) error
	OrderColumns(ids []string) error
	SetColumnTasksStatus(columnID string, status domain.Status) error
	SetColumnTasksPriority(columnID string, priority domain.Priority) error

	AddTask(columnID, title string) (domain.Task, error)
	UpdateTask(id string, patch domain.TaskPatch) (domain.Task, error)
	DeleteTask(id string) error
	MoveTask(id, columnID string, newOrder int) error

	AddTag(name, color string) (domain.Tag, error)
	UpdateTag(id string, name, color *string) error
	DeleteTag(id string) error

	AddSubtask(taskID, title string) (domain.Subtask, error)
	ToggleSubtask(taskID, subtaskID string) error
	DeleteSubtask(taskID, subtaskID string) error
	AddNote(taskID, content string) (domain.Note, error)
	DeleteNote(taskID, noteID string) error
	AddAttachment(taskID string, a domain.Attachment) (domain.Attachment, error)
	DeleteAttachment(taskID, attachmentID string) error

	ImportBoardState(board domain.Board) error
}

// RecoveryEngine inspects and restores backups.
// It is implemented by recovery.Engine.
type RecoveryEngine interface {
	Recover(ctx context.Context) (recovery.Recovered, bool)
	ClearAll(ctx context.Context)
	Inspect(ctx context.Context) []recovery.TierStatus
}
