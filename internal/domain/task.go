// Package domain contains core business entities and interfaces.
package domain

import (
	"slices"
	"time"
)

// Board is the complete persisted application state.
type Board struct {
	Columns []Column `json:"columns"`
	Tasks   []Task   `json:"tasks"`
	Tags    []Tag    `json:"tags"`
}

// Column is an ordered lane on the board.
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"` // Left-to-right position
}

// Task represents a card on the board.
// Fields are ordered to minimize memory padding.
type Task struct {
	CreatedAt   time.Time    `json:"createdAt"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"` // Set while Status is done
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Priority    Priority     `json:"priority"`
	Status      Status       `json:"status"`
	ColumnID    string       `json:"columnId"`
	Subtasks    []Subtask    `json:"subtasks"`
	Notes       []Note       `json:"notes"`
	Attachments []Attachment `json:"attachments"`
	Tags        []string     `json:"tags"` // Tag IDs
	Order       int          `json:"order"` // Position within the column
}

// Subtask is a checklist item of a task.
type Subtask struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
}

// Note is a free-text note attached to a task.
type Note struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	Content   string    `json:"content"`
}

// Attachment is a link, image or file attached to a task.
// URL holds either an external URL or an embedded data URL.
type Attachment struct {
	CreatedAt time.Time      `json:"createdAt"`
	ID        string         `json:"id"`
	Type      AttachmentType `json:"type"`
	Name      string         `json:"name"`
	URL       string         `json:"url"`
	MimeType  string         `json:"mimeType,omitempty"`
	Size      int64          `json:"size,omitempty"`
}

// Tag is a colored label that tasks reference by ID.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// IsDone returns true if the task status is done.
func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

// HasTag returns true if the task references the tag ID.
func (t *Task) HasTag(tagID string) bool {
	return slices.Contains(t.Tags, tagID)
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	c.Subtasks = slices.Clone(t.Subtasks)
	c.Notes = slices.Clone(t.Notes)
	c.Attachments = slices.Clone(t.Attachments)
	c.Tags = slices.Clone(t.Tags)
	return c
}

// Clone returns a deep copy of the board.
// No slice of the copy aliases the original.
func (b Board) Clone() Board {
	c := Board{
		Columns: slices.Clone(b.Columns),
		Tags:    slices.Clone(b.Tags),
	}
	if b.Tasks != nil {
		c.Tasks = make([]Task, len(b.Tasks))
		for i, t := range b.Tasks {
			c.Tasks[i] = t.Clone()
		}
	}
	return c
}

// Column returns the column with the given ID.
func (b Board) Column(id string) (Column, bool) {
	for _, c := range b.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// Task returns the task with the given ID.
func (b Board) Task(id string) (Task, bool) {
	for _, t := range b.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Tag returns the tag with the given ID.
func (b Board) Tag(id string) (Tag, bool) {
	for _, t := range b.Tags {
		if t.ID == id {
			return t, true
		}
	}
	return Tag{}, false
}

// SortedColumns returns the columns ordered by Order, ties by list position.
func (b Board) SortedColumns() []Column {
	cols := slices.Clone(b.Columns)
	slices.SortStableFunc(cols, func(a, c Column) int {
		return a.Order - c.Order
	})
	return cols
}

// ColumnTasks returns the tasks of a column ordered by Order, ties by list position.
func (b Board) ColumnTasks(columnID string) []Task {
	var tasks []Task
	for _, t := range b.Tasks {
		if t.ColumnID == columnID {
			tasks = append(tasks, t)
		}
	}
	slices.SortStableFunc(tasks, func(a, c Task) int {
		return a.Order - c.Order
	})
	return tasks
}

// TagNames resolves the task's tag IDs to names.
// Dangling references are skipped.
func (b Board) TagNames(t Task) []string {
	names := make([]string, 0, len(t.Tags))
	for _, id := range t.Tags {
		if tag, ok := b.Tag(id); ok {
			names = append(names, tag.Name)
		}
	}
	return names
}
