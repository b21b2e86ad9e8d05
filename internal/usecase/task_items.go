package usecase

import (
	"context"
	"fmt"
	"net/url"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase/shared"
)

// ItemKind selects the nested task record a TaskItem use case works on.
type ItemKind string

const (
	ItemSubtask    ItemKind = "subtask"
	ItemNote       ItemKind = "note"
	ItemAttachment ItemKind = "attachment"
)

// AddTaskItemInput contains the parameters for adding a nested record.
// Fields are ordered to minimize memory padding.
type AddTaskItemInput struct {
	TaskID string   // Task ID or ID prefix
	Kind   ItemKind // What to add
	Text   string   // Subtask title, note content or link URL
	Name   string   // Link name (attachments only; empty = URL)
}

// AddTaskItemOutput contains the record that was added.
type AddTaskItemOutput struct {
	Task       domain.Task
	ID         string // ID of the new record
	Subtask    *domain.Subtask
	Note       *domain.Note
	Attachment *domain.Attachment
}

// AddTaskItem is the use case for adding subtasks, notes and links.
type AddTaskItem struct {
	store BoardStore
}

// NewAddTaskItem creates a new AddTaskItem use case.
func NewAddTaskItem(store BoardStore) *AddTaskItem {
	return &AddTaskItem{store: store}
}

// Execute adds the record to the task.
func (uc *AddTaskItem) Execute(_ context.Context, in AddTaskItemInput) (*AddTaskItemOutput, error) {
	board, err := uc.store.Board()
	if err != nil {
		return nil, err
	}
	task, err := shared.ResolveTask(board, in.TaskID)
	if err != nil {
		return nil, err
	}

	out := &AddTaskItemOutput{Task: task}
	switch in.Kind {
	case ItemSubtask:
		sub, err := uc.store.AddSubtask(task.ID, in.Text)
		if err != nil {
			return nil, err
		}
		out.ID, out.Subtask = sub.ID, &sub
	case ItemNote:
		note, err := uc.store.AddNote(task.ID, in.Text)
		if err != nil {
			return nil, err
		}
		out.ID, out.Note = note.ID, &note
	case ItemAttachment:
		u, err := url.Parse(in.Text)
		if err != nil || u.Scheme == "" {
			return nil, fmt.Errorf("%w: not an absolute url: %q", domain.ErrInvalidAttachment, in.Text)
		}
		a, err := uc.store.AddAttachment(task.ID, domain.Attachment{
			Type: domain.AttachmentLink,
			Name: in.Name,
			URL:  in.Text,
		})
		if err != nil {
			return nil, err
		}
		out.ID, out.Attachment = a.ID, &a
	default:
		return nil, fmt.Errorf("unknown item kind: %q", in.Kind)
	}
	return out, nil
}

// TaskItemInput identifies one nested record of a task.
type TaskItemInput struct {
	TaskID string   // Task ID or ID prefix
	Kind   ItemKind // Record kind
	Item   string   // Record ID, ID prefix or name/title where the kind has one
}

// RemoveTaskItem is the use case for deleting subtasks, notes and attachments.
type RemoveTaskItem struct {
	store BoardStore
}

// NewRemoveTaskItem creates a new RemoveTaskItem use case.
func NewRemoveTaskItem(store BoardStore) *RemoveTaskItem {
	return &RemoveTaskItem{store: store}
}

// Execute deletes the record and returns its ID.
func (uc *RemoveTaskItem) Execute(_ context.Context, in TaskItemInput) (string, error) {
	board, err := uc.store.Board()
	if err != nil {
		return "", err
	}
	task, err := shared.ResolveTask(board, in.TaskID)
	if err != nil {
		return "", err
	}

	switch in.Kind {
	case ItemSubtask:
		sub, err := shared.ResolveSubtask(task, in.Item)
		if err != nil {
			return "", err
		}
		return sub.ID, uc.store.DeleteSubtask(task.ID, sub.ID)
	case ItemNote:
		note, err := shared.ResolveNote(task, in.Item)
		if err != nil {
			return "", err
		}
		return note.ID, uc.store.DeleteNote(task.ID, note.ID)
	case ItemAttachment:
		a, err := shared.ResolveAttachment(task, in.Item)
		if err != nil {
			return "", err
		}
		return a.ID, uc.store.DeleteAttachment(task.ID, a.ID)
	default:
		return "", fmt.Errorf("unknown item kind: %q", in.Kind)
	}
}

// ToggleSubtask is the use case for checking or unchecking a subtask.
type ToggleSubtask struct {
	store BoardStore
}

// NewToggleSubtask creates a new ToggleSubtask use case.
func NewToggleSubtask(store BoardStore) *ToggleSubtask {
	return &ToggleSubtask{store: store}
}

// Execute flips the subtask and returns its new state.
func (uc *ToggleSubtask) Execute(_ context.Context, in TaskItemInput) (domain.Subtask, error) {
	board, err := uc.store.Board()
	if err != nil {
		return domain.Subtask{}, err
	}
	task, err := shared.ResolveTask(board, in.TaskID)
	if err != nil {
		return domain.Subtask{}, err
	}
	sub, err := shared.ResolveSubtask(task, in.Item)
	if err != nil {
		return domain.Subtask{}, err
	}
	if err := uc.store.ToggleSubtask(task.ID, sub.ID); err != nil {
		return domain.Subtask{}, err
	}
	sub.Completed = !sub.Completed
	return sub, nil
}
