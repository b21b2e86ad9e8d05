package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/tui"
)

// newSearchContainer returns a board with three tasks, two of them about login.
func newSearchContainer(t *testing.T) *app.Container {
	t.Helper()
	c := newTestContainer(t)
	mustExecute(t, newTaskCommand(c), "add", "Fix login bug", "--tag", "Bug")
	mustExecute(t, newTaskCommand(c), "add", "Write docs")
	mustExecute(t, newTaskCommand(c), "add", "Refactor auth", "--desc", "Split the login handler")
	return c
}

// stubLaunchSearch replaces the interactive search for the test and records
// its arguments.
func stubLaunchSearch(t *testing.T) *struct {
	limit  int
	query  string
	called bool
} {
	t.Helper()
	got := &struct {
		limit  int
		query  string
		called bool
	}{}
	orig := launchSearchFunc
	launchSearchFunc = func(_ tui.Searcher, limit int, query string) error {
		got.called, got.limit, got.query = true, limit, query
		return nil
	}
	t.Cleanup(func() { launchSearchFunc = orig })
	return got
}

func TestSearch(t *testing.T) {
	c := newSearchContainer(t)

	out := mustExecute(t, newSearchCommand(c), "login")

	lines := splitLines(out)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], " 1. Fix login bug")
	assert.Contains(t, lines[0], "[To Do] id-4 not-started")
	assert.Contains(t, lines[1], " 2. Refactor auth")
	assert.Contains(t, lines[2], "description: ")
	assert.Contains(t, lines[2], "login")
	assert.NotContains(t, out, "Write docs")
}

func TestSearch_Limit(t *testing.T) {
	c := newSearchContainer(t)

	out := mustExecute(t, newSearchCommand(c), "login", "--limit", "1")

	assert.Contains(t, out, "Fix login bug")
	assert.NotContains(t, out, "Refactor auth")
	assert.Contains(t, out, "Showing 1 of 2 matches (use --limit to see more)")
}

func TestSearch_NoMatches(t *testing.T) {
	c := newSearchContainer(t)

	out := mustExecute(t, newSearchCommand(c), "zzzzqqq")

	assert.Equal(t, "No matching tasks\n", out)
}

func TestSearch_EmptyQuery(t *testing.T) {
	c := newSearchContainer(t)

	_, err := execute(t, newSearchCommand(c))

	assert.ErrorIs(t, err, domain.ErrEmptyQuery)
}

func TestSearch_JSON(t *testing.T) {
	c := newSearchContainer(t)

	out := mustExecute(t, newSearchCommand(c), "login", "--json")

	var got struct {
		Results []struct {
			Column  string `json:"column"`
			Preview string `json:"preview"`
		} `json:"results"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.Total)
	require.Len(t, got.Results, 2)
	assert.Equal(t, "To Do", got.Results[0].Column)
}

func TestSearch_Interactive(t *testing.T) {
	c := newSearchContainer(t)
	got := stubLaunchSearch(t)

	mustExecute(t, newSearchCommand(c), "-i", "--limit", "5", "fix", "login")

	assert.True(t, got.called)
	assert.Equal(t, 5, got.limit)
	assert.Equal(t, "fix login", got.query)
}
