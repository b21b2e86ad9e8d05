// Package tui provides the interactive search view.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/taskboard/internal/usecase"
)

// Searcher runs a ranked search. *usecase.SearchTasks satisfies it.
type Searcher interface {
	Execute(ctx context.Context, in usecase.SearchTasksInput) (*usecase.SearchTasksOutput, error)
}

// Model is the bubbletea model of the search view.
type Model struct {
	// Dependencies
	searcher Searcher
	err      error

	// State
	hits []usecase.SearchHit

	// Components
	keys   KeyMap
	styles Styles
	help   help.Model
	input  textinput.Model

	// Numeric state
	total      int
	limit      int
	cursor     int
	width      int
	height     int
	showDetail bool
}

// New creates a search view. query pre-fills the input.
func New(s Searcher, limit int, query string) *Model {
	in := textinput.New()
	in.Placeholder = "Search tasks..."
	in.CharLimit = 200
	in.Prompt = ""
	in.SetValue(query)
	in.Focus()

	return &Model{
		searcher: s,
		keys:     DefaultKeyMap(),
		styles:   DefaultStyles(),
		help:     help.New(),
		input:    in,
		limit:    limit,
	}
}

// Init starts the cursor blink and runs the initial query, if any.
func (m *Model) Init() tea.Cmd {
	if strings.TrimSpace(m.input.Value()) == "" {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, m.search(m.input.Value()))
}

// search returns a command that runs the query.
func (m *Model) search(query string) tea.Cmd {
	searcher, limit := m.searcher, m.limit
	return func() tea.Msg {
		out, err := searcher.Execute(context.Background(), usecase.SearchTasksInput{
			Query: query,
			Limit: limit,
		})
		if err != nil {
			return MsgError{Query: query, Err: err}
		}
		return MsgResults{Query: query, Out: out}
	}
}

// Selected returns the selected hit, or nil if there are no results.
func (m *Model) Selected() *usecase.SearchHit {
	if m.cursor < 0 || m.cursor >= len(m.hits) {
		return nil
	}
	return &m.hits[m.cursor]
}

// Query returns the current query text.
func (m *Model) Query() string {
	return m.input.Value()
}

// Run starts the search view in the alternate screen and blocks until it
// exits.
func Run(s Searcher, limit int, query string) error {
	p := tea.NewProgram(New(s, limit, query), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
