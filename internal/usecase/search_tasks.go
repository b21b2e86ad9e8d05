package usecase

import (
	"context"
	"strings"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/search"
)

// SearchTasksInput contains the parameters for searching tasks.
type SearchTasksInput struct {
	Query string // Free-text query (required)
	Limit int    // Maximum results; <= 0 = unlimited
}

// SearchHit is one ranked task with a preview of its best field match.
type SearchHit struct {
	search.Result
	ColumnTitle string            `json:"column"`
	Best        search.FieldMatch `json:"best"`    // Highest scoring field
	Preview     string            `json:"preview"` // Excerpt of Best around its first highlight
}

// SearchTasksOutput contains the ranked results.
type SearchTasksOutput struct {
	Hits  []SearchHit
	Total int // Matches before Limit was applied
}

// SearchTasks is the use case for ranked fuzzy search.
type SearchTasks struct {
	store BoardStore
}

// NewSearchTasks creates a new SearchTasks use case.
func NewSearchTasks(store BoardStore) *SearchTasks {
	return &SearchTasks{store: store}
}

// Execute runs the search.
func (uc *SearchTasks) Execute(_ context.Context, in SearchTasksInput) (*SearchTasksOutput, error) {
	if strings.TrimSpace(in.Query) == "" {
		return nil, domain.ErrEmptyQuery
	}
	board, err := uc.store.Board()
	if err != nil {
		return nil, err
	}

	results := search.SearchBoard(board, in.Query, search.Options{})
	out := &SearchTasksOutput{Total: len(results)}
	if in.Limit > 0 && len(results) > in.Limit {
		results = results[:in.Limit]
	}

	out.Hits = make([]SearchHit, len(results))
	for i, r := range results {
		col, _ := board.Column(r.ColumnID)
		best := bestMatch(r.Matches)
		var first search.Range
		if len(best.Ranges) > 0 {
			first = best.Ranges[0]
		}
		out.Hits[i] = SearchHit{
			Result:      r,
			ColumnTitle: col.Title,
			Best:        best,
			Preview:     search.Preview(best.Value, first, search.DefaultPreviewLength),
		}
	}
	return out, nil
}

// bestMatch returns the highest scoring match, the first one on ties.
func bestMatch(matches []search.FieldMatch) search.FieldMatch {
	var best search.FieldMatch
	for i, m := range matches {
		if i == 0 || m.Score > best.Score {
			best = m
		}
	}
	return best
}
