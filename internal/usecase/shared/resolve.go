// Package shared holds helpers used by several use cases.
package shared

import (
	"fmt"
	"strings"

	"github.com/runoshun/taskboard/internal/domain"
)

// resolve finds the item a user reference points at. A reference matches, in
// order: an exact ID, a case-insensitive name, a unique ID prefix.
func resolve[T any](items []T, ref string, id, name func(T) string, notFound error) (T, error) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, notFound
	}

	for _, it := range items {
		if id(it) == ref {
			return it, nil
		}
	}

	var byName []T
	for _, it := range items {
		if name != nil && strings.EqualFold(name(it), ref) {
			byName = append(byName, it)
		}
	}
	if len(byName) == 1 {
		return byName[0], nil
	}
	if len(byName) > 1 {
		return zero, fmt.Errorf("%w: %q matches %d names", domain.ErrAmbiguousID, ref, len(byName))
	}

	var byPrefix []T
	for _, it := range items {
		if strings.HasPrefix(id(it), ref) {
			byPrefix = append(byPrefix, it)
		}
	}
	switch len(byPrefix) {
	case 0:
		return zero, fmt.Errorf("%w: %s", notFound, ref)
	case 1:
		return byPrefix[0], nil
	default:
		return zero, fmt.Errorf("%w: %q matches %d ids", domain.ErrAmbiguousID, ref, len(byPrefix))
	}
}

// ResolveTask finds a task by ID or unique ID prefix.
func ResolveTask(b domain.Board, ref string) (domain.Task, error) {
	return resolve(b.Tasks, ref,
		func(t domain.Task) string { return t.ID },
		nil,
		domain.ErrTaskNotFound)
}

// ResolveColumn finds a column by ID, title or unique ID prefix.
func ResolveColumn(b domain.Board, ref string) (domain.Column, error) {
	return resolve(b.Columns, ref,
		func(c domain.Column) string { return c.ID },
		func(c domain.Column) string { return c.Title },
		domain.ErrColumnNotFound)
}

// ResolveTag finds a tag by ID, name or unique ID prefix.
func ResolveTag(b domain.Board, ref string) (domain.Tag, error) {
	return resolve(b.Tags, ref,
		func(t domain.Tag) string { return t.ID },
		func(t domain.Tag) string { return t.Name },
		domain.ErrTagNotFound)
}

// ResolveTags resolves every reference, failing on the first unknown one.
func ResolveTags(b domain.Board, refs []string) ([]domain.Tag, error) {
	tags := make([]domain.Tag, 0, len(refs))
	for _, ref := range refs {
		tag, err := ResolveTag(b, ref)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// ResolveSubtask finds a subtask of t by ID, title or unique ID prefix.
func ResolveSubtask(t domain.Task, ref string) (domain.Subtask, error) {
	return resolve(t.Subtasks, ref,
		func(s domain.Subtask) string { return s.ID },
		func(s domain.Subtask) string { return s.Title },
		domain.ErrSubtaskNotFound)
}

// ResolveNote finds a note of t by ID or unique ID prefix.
func ResolveNote(t domain.Task, ref string) (domain.Note, error) {
	return resolve(t.Notes, ref,
		func(n domain.Note) string { return n.ID },
		nil,
		domain.ErrNoteNotFound)
}

// ResolveAttachment finds an attachment of t by ID, name or unique ID prefix.
func ResolveAttachment(t domain.Task, ref string) (domain.Attachment, error) {
	return resolve(t.Attachments, ref,
		func(a domain.Attachment) string { return a.ID },
		func(a domain.Attachment) string { return a.Name },
		domain.ErrAttachmentMissing)
}
