package domain

import "errors"

// Domain errors.
var (
	ErrNotFound          = errors.New("key not found")
	ErrPayloadTooLarge   = errors.New("payload exceeds storage capacity")
	ErrStorageClosed     = errors.New("storage is closed")
	ErrNotReady          = errors.New("board store is not ready")
	ErrColumnNotFound    = errors.New("column not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrTagNotFound       = errors.New("tag not found")
	ErrSubtaskNotFound   = errors.New("subtask not found")
	ErrNoteNotFound      = errors.New("note not found")
	ErrAttachmentMissing = errors.New("attachment not found")
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrEmptyContent      = errors.New("content cannot be empty")
	ErrEmptyQuery        = errors.New("query cannot be empty")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrInvalidAttachment = errors.New("invalid attachment type")
	ErrNoFieldsToUpdate  = errors.New("no fields to update")
	ErrNoRecovery        = errors.New("no recovery available")
	ErrUnknownBackend    = errors.New("unknown storage backend")
	ErrAmbiguousID       = errors.New("ambiguous id")
	ErrConfigExists      = errors.New("config file already exists")
	ErrInvalidSchedule   = errors.New("invalid backup schedule")
)
