package boardstore

import (
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/taskboard/internal/domain"
)

// Mutations validate their arguments against the current board, apply the
// matching domain operation and queue persistence. A validation error leaves
// the board untouched.

func requireColumn(b domain.Board, id string) error {
	if _, ok := b.Column(id); !ok {
		return fmt.Errorf("%w: %s", domain.ErrColumnNotFound, id)
	}
	return nil
}

func requireTask(b domain.Board, id string) (domain.Task, error) {
	t, ok := b.Task(id)
	if !ok {
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	return t, nil
}

func requireTag(b domain.Board, id string) error {
	if _, ok := b.Tag(id); !ok {
		return fmt.Errorf("%w: %s", domain.ErrTagNotFound, id)
	}
	return nil
}

func requireTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", domain.ErrEmptyTitle
	}
	return title, nil
}

// AddColumn appends a column.
func (s *Store) AddColumn(title string) (domain.Column, error) {
	title, err := requireTitle(title)
	if err != nil {
		return domain.Column{}, err
	}
	id := s.ids.NewID()
	var col domain.Column
	err = s.mutate(func(b domain.Board, _ time.Time) (domain.Board, error) {
		next := b.AddColumn(id, title)
		col, _ = next.Column(id)
		return next, nil
	})
	return col, err
}

// UpdateColumn renames a column.
func (s *Store) UpdateColumn(id, title string) error {
	title, err := requireTitle(title)
	if err != nil {
		return err
	}
	return s.mutate(func(b domain.Board, _ time.Time) (domain.Board, error) {
		if err := requireColumn(b, id); err != nil {
			return b, err
		}
		return b.UpdateColumn(id, title), nil
	})
}

// DeleteColumn removes a column and its tasks.
func (s *Store) DeleteColumn(id string) error {
	return s.mutate(func(b domain.Board, _ time.Time) (domain.Board, error) {
		if err := requireColumn(b, id); err != nil {
			return b, err
		}
		return b.DeleteColumn(id), nil
	})
}

// ReorderColumns replaces the column list wholesale.
func (s *Store) ReorderColumns(columns []domain.Column) error {
	return s.mutate(func(b domain.Board, _ time.Time) (domain.Board, error) {
		return b.ReorderColumns(columns), nil
	})
}

// OrderColumns reorders the columns to follow ids, which must name every
// column exactly once.
func (s *Store) OrderColumns(ids []string) error {
	return s.mutate(func(b domain.Board, _ time.Time) (domain.Board, error) {
		if len(ids) != len(b.Columns) {
			return b, fmt.Errorf("expected %d column ids, got %d", len(b.Columns), len(ids))
		}
		seen := make(map[string]bool, len(ids))
		columns := make([]domain.Column, 0, len(ids))
		for i, id := range ids {
			col, ok := b.Column(id)
			if !ok {
				return b, fmt.Errorf("%w: %s", domain.ErrColumnNotFound, id)
			}
			if seen[id] {
				return b, fmt.Errorf("duplicate column id: %s", id)
			}
			seen[id] = true
			col.Order = i
			columns = append(columns, col)
		}
		return b.ReorderColumns(columns), nil
	})
}

// AddTask appends a task to the column.
func (s *Store) AddTask(columnID, title string) (domain.Task, error) {
	title, err := requireTitle(title)
	if err != nil {
		return domain.Task{}, err
	}
	id := s.ids.NewID()
	var task domain.Task
	err = s.mutate(func(b domain.Board, now time.Time) (domain.Board, error) {
		if err := requireColumn(b, columnID); err != nil {
			return b, err
		}
		next := b.AddTask(id, columnID, title, now)
		task, _ = next.Task(id)
		return next, nil
	})
	return task, err
}

// UpdateTask merges the patch into the task.
func (s *Store) UpdateTask(id string, patch domain.TaskPatch) (domain.Task, error) {
	if patch.IsEmpty() {
		return domain.Task{}, domain.ErrNoFieldsToUpdate
	}
	if patch.Title != nil {
		title, err := requireTitle(*patch.Title)
		if err != nil {
			return domain.Task{}, err
		}
		patch.Title = &title
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrInvalidStatus, *patch.Status)
	}
	if patch.Priority != nil && !patch.Priority.IsValid() {
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrInvalidPriority, *patch.Priority)
	}

	var task domain.Task
	err := s.mutate(func(b domain.Board, now time.Time) (domain.Board, error) {
		if _, err := requireTask(b, id); err != nil {
			return b, err
		}
		if patch.Tags != nil {
			for _, tagID := range *patch.Tags {
				if err := requireTag(b, tagID); err != nil {
					return b, err
				}
			}
		}
		next := b.UpdateTask(id, patch, now)
		task, _ = next.Task(id)
		return next, nil
	})
	return task, err
}

// DeleteTask removes the task.
func (s *Store) DeleteTask(id string) error {
	return s.mutate(func(b domain.Board, _ time.Time) (domain.Board, error) {
		if _, err := requireTask(b, id); err != nil {
			return b, err
		}
		return b.DeleteTask(id), nil
	})
}

// MoveTask moves the task to position newOrder of the column.
func (s *Store) MoveTask(id, columnID string, newOrder int) error {
	return s.mutate(func(b domain.Board, _ time.Time) (domain.Board, error) {
		if _, err := requireTask(b, id); err != nil {
			return b, err
		}
		if err := requireColumn(b, columnID); err != nil {
			return b, err
		}
		return b.MoveTask(id, columnID, newOrder), nil
	})
}

// SetColumnTasksStatus sets the status of every task in the column.
func (s *Store) SetColumnTasksStatus(columnID string, status domain.Status) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidStatus, status)
	}
	return s.mutate(func(b domain.Board, now time.Time) (domain.Board, error) {
		if err := requireColumn(b, columnID); err != nil {
			return b, err
		}
		return b.SetColumnTasksStatus(columnID, status, now), nil
	})
}

// SetColumnTasksPriority sets the priority of every task in the column.
func (s *Store) SetColumnTasksPriority(columnID string, priority domain.Priority) error {
	if !priority.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidPriority, priority)
	}
	return s.mutate(func(b domain.Board, _ time.Time) (domain.Board, error) {
		if err := requireColumn(b, columnID); err != nil {
			return b, err
		}
		return b.SetColumnTasksPriority(columnID, priority), nil
	})
}

// AddTag creates a tag. An empty color selects gray.
func (s *Store) AddTag(name, color string) (domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Tag{}, domain.ErrEmptyName
	}
	if color == "" {
		color = domain.ColorGray
	}
	id := s.ids.NewID()
	var tag domain.Tag
	err := s.mutate(func(b domain.Board, _ time.Time) (domain.Board, error) {
		next := b.AddTag(id, name, color)
		tag, _ = next.Tag(id)
		return next, nil
	})
	return tag, err
}

// UpdateTag changes the name and/or color of a tag.
func (s *Store) UpdateTag(id string, name, color *string) error {
	if name == nil && color == nil {
		return domain.ErrNoFieldsToUpdate
	}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return domain.ErrEmptyName
		}
		name = &trimmed
	}
	return s.mutate(func(b domain.Board, _ time.Time) (domain.Board, error) {
		if err := requireTag(b, id); err != nil {
			return b, err
		}
		return b.UpdateTag(id, name, color), nil
	})
}

// DeleteTag removes the tag from the board and from every task.
func (s *Store) DeleteTag(id string) error {
	return s.mutate(func(b domain.Board, _ time.Time) (domain.Board, error) {
		if err := requireTag(b, id); err != nil {
			return b, err
		}
		return b.DeleteTag(id), nil
	})
}

// AddSubtask appends a subtask to the task.
func (s *Store) AddSubtask(taskID, title string) (domain.Subtask, error) {
	title, err := requireTitle(title)
	if err != nil {
		return domain.Subtask{}, err
	}
	id := s.ids.NewID()
	var sub domain.Subtask
	err = s.mutate(func(b domain.Board, now time.Time) (domain.Board, error) {
		if _, err := requireTask(b, taskID); err != nil {
			return b, err
		}
		sub = domain.Subtask{ID: id, Title: title, CreatedAt: now}
		return b.AddSubtask(taskID, id, title, now), nil
	})
	return sub, err
}

func requireSubtask(t domain.Task, id string) error {
	for _, s := range t.Subtasks {
		if s.ID == id {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrSubtaskNotFound, id)
}

// ToggleSubtask flips the completed flag of a subtask.
func (s *Store) ToggleSubtask(taskID, subtaskID string) error {
	return s.mutate(func(b domain.Board, now time.Time) (domain.Board, error) {
		t, err := requireTask(b, taskID)
		if err != nil {
			return b, err
		}
		if err := requireSubtask(t, subtaskID); err != nil {
			return b, err
		}
		return b.ToggleSubtask(taskID, subtaskID, now), nil
	})
}

// DeleteSubtask removes a subtask.
func (s *Store) DeleteSubtask(taskID, subtaskID string) error {
	return s.mutate(func(b domain.Board, now time.Time) (domain.Board, error) {
		t, err := requireTask(b, taskID)
		if err != nil {
			return b, err
		}
		if err := requireSubtask(t, subtaskID); err != nil {
			return b, err
		}
		return b.DeleteSubtask(taskID, subtaskID, now), nil
	})
}

// AddNote appends a note to the task.
func (s *Store) AddNote(taskID, content string) (domain.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Note{}, domain.ErrEmptyContent
	}
	id := s.ids.NewID()
	var note domain.Note
	err := s.mutate(func(b domain.Board, now time.Time) (domain.Board, error) {
		if _, err := requireTask(b, taskID); err != nil {
			return b, err
		}
		note = domain.Note{ID: id, Content: content, CreatedAt: now}
		return b.AddNote(taskID, id, content, now), nil
	})
	return note, err
}

// DeleteNote removes a note.
func (s *Store) DeleteNote(taskID, noteID string) error {
	return s.mutate(func(b domain.Board, now time.Time) (domain.Board, error) {
		t, err := requireTask(b, taskID)
		if err != nil {
			return b, err
		}
		found := false
		for _, n := range t.Notes {
			found = found || n.ID == noteID
		}
		if !found {
			return b, fmt.Errorf("%w: %s", domain.ErrNoteNotFound, noteID)
		}
		return b.DeleteNote(taskID, noteID, now), nil
	})
}

// AddAttachment attaches a to the task. ID and CreatedAt are assigned here;
// an empty name falls back to the URL.
func (s *Store) AddAttachment(taskID string, a domain.Attachment) (domain.Attachment, error) {
	if !a.Type.IsValid() {
		return domain.Attachment{}, fmt.Errorf("%w: %s", domain.ErrInvalidAttachment, a.Type)
	}
	if strings.TrimSpace(a.URL) == "" {
		return domain.Attachment{}, fmt.Errorf("%w: empty url", domain.ErrInvalidAttachment)
	}
	if strings.TrimSpace(a.Name) == "" {
		a.Name = a.URL
	}
	a.ID = s.ids.NewID()
	err := s.mutate(func(b domain.Board, now time.Time) (domain.Board, error) {
		if _, err := requireTask(b, taskID); err != nil {
			return b, err
		}
		a.CreatedAt = now
		return b.AddAttachment(taskID, a, now), nil
	})
	return a, err
}

// DeleteAttachment removes an attachment.
func (s *Store) DeleteAttachment(taskID, attachmentID string) error {
	return s.mutate(func(b domain.Board, now time.Time) (domain.Board, error) {
		t, err := requireTask(b, taskID)
		if err != nil {
			return b, err
		}
		found := false
		for _, a := range t.Attachments {
			found = found || a.ID == attachmentID
		}
		if !found {
			return b, fmt.Errorf("%w: %s", domain.ErrAttachmentMissing, attachmentID)
		}
		return b.DeleteAttachment(taskID, attachmentID, now), nil
	})
}

// ImportBoardState replaces the board wholesale. The board is taken as is;
// callers migrate it first when needed.
func (s *Store) ImportBoardState(board domain.Board) error {
	return s.mutate(func(_ domain.Board, _ time.Time) (domain.Board, error) {
		return board.Clone(), nil
	})
}
