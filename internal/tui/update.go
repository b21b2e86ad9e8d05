package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-16, 10)
		m.help.Width = msg.Width
		return m, nil

	case MsgResults:
		// Results of a query the user has already typed past
		if msg.Query != m.input.Value() {
			return m, nil
		}
		m.err = nil
		m.hits = msg.Out.Hits
		m.total = msg.Out.Total
		m.cursor = min(m.cursor, max(len(m.hits)-1, 0))
		return m, nil

	case MsgError:
		if msg.Query != m.input.Value() {
			return m, nil
		}
		m.err = msg.Err
		m.hits = nil
		m.total = 0
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.hits)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Detail):
		if len(m.hits) > 0 {
			m.showDetail = !m.showDetail
		}
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.input.SetValue("")
		m.reset()
		return m, nil
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	query := m.input.Value()
	if query == prev {
		return m, cmd
	}

	m.cursor = 0
	if strings.TrimSpace(query) == "" {
		m.reset()
		return m, cmd
	}
	return m, tea.Batch(cmd, m.search(query))
}

// reset clears the results.
func (m *Model) reset() {
	m.hits = nil
	m.total = 0
	m.cursor = 0
	m.err = nil
	m.showDetail = false
}
