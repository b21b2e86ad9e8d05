package domain

import (
	"slices"
	"time"
)

// Every operation in this file takes the board by value and returns the next
// board. The receiver is never modified: each operation starts from Clone.
// Operations referencing an unknown ID return an unchanged copy.

// TaskPatch holds the fields to merge into a task. Nil fields are left as is.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *Priority
	Status      *Status
	Subtasks    *[]Subtask
	Notes       *[]Note
	Attachments *[]Attachment
	Tags        *[]string
}

// IsEmpty returns true if the patch sets no field.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil && p.Status == nil &&
		p.Subtasks == nil && p.Notes == nil && p.Attachments == nil && p.Tags == nil
}

// applyStatus sets the status and keeps CompletedAt in step with it:
// set on the transition into done, cleared on any status other than done.
func applyStatus(t *Task, status Status, now time.Time) {
	if status == StatusDone {
		if t.Status != StatusDone || t.CompletedAt == nil {
			at := now
			t.CompletedAt = &at
		}
	} else {
		t.CompletedAt = nil
	}
	t.Status = status
}

func (b Board) taskIndex(id string) int {
	return slices.IndexFunc(b.Tasks, func(t Task) bool { return t.ID == id })
}

// AddColumn appends a column whose order is the current column count.
func (b Board) AddColumn(id, title string) Board {
	next := b.Clone()
	next.Columns = append(next.Columns, Column{ID: id, Title: title, Order: len(b.Columns)})
	return next
}

// UpdateColumn replaces the title of the column.
func (b Board) UpdateColumn(id, title string) Board {
	next := b.Clone()
	for i := range next.Columns {
		if next.Columns[i].ID == id {
			next.Columns[i].Title = title
		}
	}
	return next
}

// DeleteColumn removes the column and every task it owns.
func (b Board) DeleteColumn(id string) Board {
	next := b.Clone()
	next.Columns = slices.DeleteFunc(next.Columns, func(c Column) bool { return c.ID == id })
	next.Tasks = slices.DeleteFunc(next.Tasks, func(t Task) bool { return t.ColumnID == id })
	return next
}

// ReorderColumns replaces the column list wholesale.
// The caller supplies the order values.
func (b Board) ReorderColumns(columns []Column) Board {
	next := b.Clone()
	next.Columns = slices.Clone(columns)
	return next
}

// AddTask appends a not-started, medium-priority task at the end of the column.
func (b Board) AddTask(id, columnID, title string, now time.Time) Board {
	next := b.Clone()
	order := 0
	for _, t := range b.Tasks {
		if t.ColumnID == columnID {
			order++
		}
	}
	next.Tasks = append(next.Tasks, Task{
		ID:          id,
		Title:       title,
		Priority:    PriorityMedium,
		Status:      StatusNotStarted,
		Subtasks:    []Subtask{},
		Notes:       []Note{},
		Attachments: []Attachment{},
		Tags:        []string{},
		ColumnID:    columnID,
		Order:       order,
		CreatedAt:   now,
	})
	return next
}

// UpdateTask merges the patch into the task.
func (b Board) UpdateTask(id string, patch TaskPatch, now time.Time) Board {
	next := b.Clone()
	i := next.taskIndex(id)
	if i < 0 {
		return next
	}
	t := &next.Tasks[i]
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Status != nil {
		applyStatus(t, *patch.Status, now)
	}
	if patch.Subtasks != nil {
		t.Subtasks = slices.Clone(*patch.Subtasks)
	}
	if patch.Notes != nil {
		t.Notes = slices.Clone(*patch.Notes)
	}
	if patch.Attachments != nil {
		t.Attachments = slices.Clone(*patch.Attachments)
	}
	if patch.Tags != nil {
		t.Tags = slices.Clone(*patch.Tags)
	}
	return next
}

// DeleteTask removes the task.
func (b Board) DeleteTask(id string) Board {
	next := b.Clone()
	next.Tasks = slices.DeleteFunc(next.Tasks, func(t Task) bool { return t.ID == id })
	return next
}

// MoveTask moves the task to position newOrder of the target column.
// newOrder is clamped to the valid range and the target column is renumbered
// 0..n-1. The source column keeps its order values, gaps included.
func (b Board) MoveTask(id, columnID string, newOrder int) Board {
	next := b.Clone()
	i := next.taskIndex(id)
	if i < 0 {
		return next
	}

	// Target column tasks without the moved one, in order.
	var target []int
	for j, t := range next.Tasks {
		if j != i && t.ColumnID == columnID {
			target = append(target, j)
		}
	}
	slices.SortStableFunc(target, func(x, y int) int {
		return next.Tasks[x].Order - next.Tasks[y].Order
	})

	newOrder = max(0, min(newOrder, len(target)))
	target = slices.Insert(target, newOrder, i)

	next.Tasks[i].ColumnID = columnID
	for pos, j := range target {
		next.Tasks[j].Order = pos
	}
	return next
}

// SetColumnTasksStatus applies the status to every task in the column.
func (b Board) SetColumnTasksStatus(columnID string, status Status, now time.Time) Board {
	next := b.Clone()
	for i := range next.Tasks {
		if next.Tasks[i].ColumnID == columnID {
			applyStatus(&next.Tasks[i], status, now)
		}
	}
	return next
}

// SetColumnTasksPriority sets the priority of every task in the column.
func (b Board) SetColumnTasksPriority(columnID string, priority Priority) Board {
	next := b.Clone()
	for i := range next.Tasks {
		if next.Tasks[i].ColumnID == columnID {
			next.Tasks[i].Priority = priority
		}
	}
	return next
}

// AddTag appends a tag.
func (b Board) AddTag(id, name, color string) Board {
	next := b.Clone()
	next.Tags = append(next.Tags, Tag{ID: id, Name: name, Color: color})
	return next
}

// UpdateTag changes the name and/or color of a tag.
func (b Board) UpdateTag(id string, name, color *string) Board {
	next := b.Clone()
	for i := range next.Tags {
		if next.Tags[i].ID != id {
			continue
		}
		if name != nil {
			next.Tags[i].Name = *name
		}
		if color != nil {
			next.Tags[i].Color = *color
		}
	}
	return next
}

// DeleteTag removes the tag and scrubs its ID from every task.
// No task is removed.
func (b Board) DeleteTag(id string) Board {
	next := b.Clone()
	next.Tags = slices.DeleteFunc(next.Tags, func(t Tag) bool { return t.ID == id })
	for i := range next.Tasks {
		next.Tasks[i].Tags = slices.DeleteFunc(next.Tasks[i].Tags, func(tagID string) bool { return tagID == id })
	}
	return next
}

// AddSubtask appends an uncompleted subtask to the task.
func (b Board) AddSubtask(taskID, subtaskID, title string, now time.Time) Board {
	t, ok := b.Task(taskID)
	if !ok {
		return b.Clone()
	}
	subtasks := append(slices.Clone(t.Subtasks), Subtask{ID: subtaskID, Title: title, CreatedAt: now})
	return b.UpdateTask(taskID, TaskPatch{Subtasks: &subtasks}, now)
}

// ToggleSubtask flips the completed flag of the subtask.
func (b Board) ToggleSubtask(taskID, subtaskID string, now time.Time) Board {
	t, ok := b.Task(taskID)
	if !ok {
		return b.Clone()
	}
	subtasks := slices.Clone(t.Subtasks)
	for i := range subtasks {
		if subtasks[i].ID == subtaskID {
			subtasks[i].Completed = !subtasks[i].Completed
		}
	}
	return b.UpdateTask(taskID, TaskPatch{Subtasks: &subtasks}, now)
}

// DeleteSubtask removes the subtask from the task.
func (b Board) DeleteSubtask(taskID, subtaskID string, now time.Time) Board {
	t, ok := b.Task(taskID)
	if !ok {
		return b.Clone()
	}
	subtasks := slices.DeleteFunc(slices.Clone(t.Subtasks), func(s Subtask) bool { return s.ID == subtaskID })
	return b.UpdateTask(taskID, TaskPatch{Subtasks: &subtasks}, now)
}

// AddNote appends a note to the task.
func (b Board) AddNote(taskID, noteID, content string, now time.Time) Board {
	t, ok := b.Task(taskID)
	if !ok {
		return b.Clone()
	}
	notes := append(slices.Clone(t.Notes), Note{ID: noteID, Content: content, CreatedAt: now})
	return b.UpdateTask(taskID, TaskPatch{Notes: &notes}, now)
}

// DeleteNote removes the note from the task.
func (b Board) DeleteNote(taskID, noteID string, now time.Time) Board {
	t, ok := b.Task(taskID)
	if !ok {
		return b.Clone()
	}
	notes := slices.DeleteFunc(slices.Clone(t.Notes), func(n Note) bool { return n.ID == noteID })
	return b.UpdateTask(taskID, TaskPatch{Notes: &notes}, now)
}

// AddAttachment appends the attachment to the task.
func (b Board) AddAttachment(taskID string, a Attachment, now time.Time) Board {
	t, ok := b.Task(taskID)
	if !ok {
		return b.Clone()
	}
	attachments := append(slices.Clone(t.Attachments), a)
	return b.UpdateTask(taskID, TaskPatch{Attachments: &attachments}, now)
}

// DeleteAttachment removes the attachment from the task.
func (b Board) DeleteAttachment(taskID, attachmentID string, now time.Time) Board {
	t, ok := b.Task(taskID)
	if !ok {
		return b.Clone()
	}
	attachments := slices.DeleteFunc(slices.Clone(t.Attachments), func(a Attachment) bool { return a.ID == attachmentID })
	return b.UpdateTask(taskID, TaskPatch{Attachments: &attachments}, now)
}
