// Package search ranks tasks against a free-text query.
//
// Every searchable field of a task is scored on its own, weighted by field,
// and summed into the task score. Matching is case-insensitive and combines
// substring, prefix, token, edit-distance and acronym matching.
package search

import (
	"sort"

	"github.com/runoshun/taskboard/internal/domain"
)

// Field names.
const (
	FieldTitle         = "title"
	FieldDescription   = "description"
	FieldStatus        = "status"
	FieldPriority      = "priority"
	FieldTag           = "tag"
	FieldSubtask       = "subtask"
	FieldNote          = "note"
	FieldAttachment    = "attachment"
	FieldAttachmentURL = "attachment-url"
)

// fieldWeights multiply the raw field score.
var fieldWeights = map[string]int{
	FieldTitle:         10,
	FieldDescription:   7,
	FieldTag:           8,
	FieldSubtask:       6,
	FieldNote:          5,
	FieldAttachment:    4,
	FieldAttachmentURL: 2,
	FieldStatus:        3,
	FieldPriority:      3,
}

// Weight returns the weight of a field.
func Weight(field string) int {
	return fieldWeights[field]
}

// ColumnTasks is a column with its tasks, in display order.
type ColumnTasks struct {
	Column domain.Column
	Tasks  []domain.Task
}

// FieldMatch is one matching field of a task.
type FieldMatch struct {
	Field  string  `json:"field"`
	Value  string  `json:"value"`
	Ranges []Range `json:"ranges"` // Merged, sorted by start
	Score  int     `json:"score"`  // Weighted
}

// Result is a matching task.
// Fields are ordered to minimize memory padding.
type Result struct {
	Task     domain.Task  `json:"task"`
	TaskID   string       `json:"taskId"`
	ColumnID string       `json:"columnId"`
	Matches  []FieldMatch `json:"matches"`
	Score    int          `json:"score"` // Sum of the match scores
}

// Options tunes SearchBoard.
type Options struct {
	Limit int // Maximum results; <= 0 returns all
}

// GroupByColumn returns the board's columns in order, each with its tasks in
// order.
func GroupByColumn(b domain.Board) []ColumnTasks {
	cols := b.SortedColumns()
	out := make([]ColumnTasks, len(cols))
	for i, c := range cols {
		out[i] = ColumnTasks{Column: c, Tasks: b.ColumnTasks(c.ID)}
	}
	return out
}

// Search returns the tasks matching query, best first. Tasks with equal
// scores keep their column-then-task order. A blank query matches nothing.
func Search(columns []ColumnTasks, rawQuery string, tags []domain.Tag) []Result {
	q := newQuery(rawQuery)
	if q.empty() {
		return nil
	}

	tagNames := make(map[string]string, len(tags))
	for _, t := range tags {
		tagNames[t.ID] = t.Name
	}

	var results []Result
	for _, col := range columns {
		for _, task := range col.Tasks {
			matches := matchTask(task, q, tagNames)
			if len(matches) == 0 {
				continue
			}
			total := 0
			for _, m := range matches {
				total += m.Score
			}
			results = append(results, Result{
				Task:     task,
				TaskID:   task.ID,
				ColumnID: col.Column.ID,
				Matches:  matches,
				Score:    total,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// SearchBoard searches the whole board and applies opts.
func SearchBoard(b domain.Board, rawQuery string, opts Options) []Result {
	results := Search(GroupByColumn(b), rawQuery, b.Tags)
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results
}

func matchTask(t domain.Task, q query, tagNames map[string]string) []FieldMatch {
	var matches []FieldMatch
	add := func(field, value string) {
		raw, ranges := scoreField(value, q)
		if raw == 0 {
			return
		}
		matches = append(matches, FieldMatch{
			Field:  field,
			Value:  value,
			Ranges: ranges,
			Score:  raw * fieldWeights[field],
		})
	}

	add(FieldTitle, t.Title)
	add(FieldDescription, t.Description)
	add(FieldStatus, string(t.Status))
	add(FieldPriority, string(t.Priority))
	for _, id := range t.Tags {
		if name, ok := tagNames[id]; ok {
			add(FieldTag, name)
		}
	}
	for _, s := range t.Subtasks {
		add(FieldSubtask, s.Title)
	}
	for _, n := range t.Notes {
		add(FieldNote, n.Content)
	}
	for _, a := range t.Attachments {
		add(FieldAttachment, a.Name)
		if a.Type == domain.AttachmentLink {
			add(FieldAttachmentURL, a.URL)
		}
	}
	return matches
}
