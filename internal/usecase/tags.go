package usecase

import (
	"context"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase/shared"
)

// AddTagInput contains the parameters for creating a tag.
type AddTagInput struct {
	Name  string
	Color string // Empty = gray
}

// AddTag is the use case for creating a tag.
type AddTag struct {
	store BoardStore
}

// NewAddTag creates a new AddTag use case.
func NewAddTag(store BoardStore) *AddTag {
	return &AddTag{store: store}
}

// Execute creates the tag.
func (uc *AddTag) Execute(_ context.Context, in AddTagInput) (domain.Tag, error) {
	return uc.store.AddTag(in.Name, in.Color)
}

// EditTagInput contains the parameters for editing a tag.
type EditTagInput struct {
	Name  *string // New name (nil = no change)
	Color *string // New color (nil = no change)
	Tag   string  // Tag ID, name or ID prefix
}

// EditTag is the use case for renaming or recoloring a tag.
type EditTag struct {
	store BoardStore
}

// NewEditTag creates a new EditTag use case.
func NewEditTag(store BoardStore) *EditTag {
	return &EditTag{store: store}
}

// Execute edits the tag.
func (uc *EditTag) Execute(_ context.Context, in EditTagInput) (domain.Tag, error) {
	board, err := uc.store.Board()
	if err != nil {
		return domain.Tag{}, err
	}
	tag, err := shared.ResolveTag(board, in.Tag)
	if err != nil {
		return domain.Tag{}, err
	}
	if err := uc.store.UpdateTag(tag.ID, in.Name, in.Color); err != nil {
		return domain.Tag{}, err
	}
	board, err = uc.store.Board()
	if err != nil {
		return domain.Tag{}, err
	}
	tag, _ = board.Tag(tag.ID)
	return tag, nil
}

// DeleteTagInput contains the parameters for deleting a tag.
type DeleteTagInput struct {
	Tag string // Tag ID, name or ID prefix
}

// DeleteTag is the use case for deleting a tag.
type DeleteTag struct {
	store BoardStore
}

// NewDeleteTag creates a new DeleteTag use case.
func NewDeleteTag(store BoardStore) *DeleteTag {
	return &DeleteTag{store: store}
}

// Execute deletes the tag and removes it from every task.
func (uc *DeleteTag) Execute(_ context.Context, in DeleteTagInput) (domain.Tag, error) {
	board, err := uc.store.Board()
	if err != nil {
		return domain.Tag{}, err
	}
	tag, err := shared.ResolveTag(board, in.Tag)
	if err != nil {
		return domain.Tag{}, err
	}
	return tag, uc.store.DeleteTag(tag.ID)
}

// TagUsage is a tag with the number of tasks referencing it.
type TagUsage struct {
	Tag   domain.Tag
	Tasks int
}

// ListTags is the use case for listing tags.
type ListTags struct {
	store BoardStore
}

// NewListTags creates a new ListTags use case.
func NewListTags(store BoardStore) *ListTags {
	return &ListTags{store: store}
}

// Execute returns every tag with its usage count, in board order.
func (uc *ListTags) Execute(_ context.Context) ([]TagUsage, error) {
	board, err := uc.store.Board()
	if err != nil {
		return nil, err
	}
	out := make([]TagUsage, len(board.Tags))
	for i, tag := range board.Tags {
		out[i].Tag = tag
		for _, t := range board.Tasks {
			if t.HasTag(tag.ID) {
				out[i].Tasks++
			}
		}
	}
	return out, nil
}
