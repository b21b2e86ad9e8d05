package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/taskboard/internal/search"
	"github.com/runoshun/taskboard/internal/usecase"
)

// linesPerHit is the height of one result in the list.
const linesPerHit = 2

// View renders the search view.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render("taskboard search"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.InputPrompt.Render("Query: "))
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Count.Render(m.countLine()))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(m.styles.ErrorMsg.Render("Error: "+m.err.Error()) + "\n\n")
	}

	list := m.viewList()
	if sel := m.Selected(); m.showDetail && sel != nil {
		detailWidth := max(m.width/2-4, 20)
		list = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(m.width-detailWidth-6).Render(list),
			m.styles.Detail.Width(detailWidth).Render(m.viewDetail(*sel)),
		)
	}
	b.WriteString(list)
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return m.styles.App.Render(b.String())
}

func (m *Model) countLine() string {
	switch {
	case strings.TrimSpace(m.input.Value()) == "":
		return "Type to search titles, descriptions, tags, subtasks, notes and attachments"
	case m.total > len(m.hits):
		return fmt.Sprintf("%d of %d matches", len(m.hits), m.total)
	case m.total == 1:
		return "1 match"
	default:
		return fmt.Sprintf("%d matches", m.total)
	}
}

// visibleRange returns the window of hits that fits the terminal, keeping
// the cursor in view.
func (m *Model) visibleRange() (int, int) {
	n := len(m.hits)
	if m.height <= 0 {
		return 0, n
	}
	rows := max((m.height-12)/linesPerHit, 1)
	if n <= rows {
		return 0, n
	}
	start := max(m.cursor-rows+1, 0)
	return start, min(start+rows, n)
}

func (m *Model) viewList() string {
	if len(m.hits) == 0 {
		if strings.TrimSpace(m.input.Value()) != "" && m.err == nil {
			return m.styles.Footer.Render("No matching tasks") + "\n"
		}
		return ""
	}

	var b strings.Builder
	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		b.WriteString(m.viewHit(m.hits[i], i == m.cursor))
	}
	return b.String()
}

func (m *Model) viewHit(hit usecase.SearchHit, selected bool) string {
	cursor, base := "  ", m.styles.Item
	if selected {
		cursor, base = m.styles.Cursor.Render("> "), m.styles.ItemSelected
	}

	title := base.Render(hit.Task.Title)
	if fm, ok := fieldMatch(hit, search.FieldTitle); ok {
		title = RenderSegments(search.Segments(fm.Value, fm.Ranges), base, m.styles.Match)
	}

	line := fmt.Sprintf("%s%s  %s %s\n",
		cursor,
		title,
		m.styles.Column.Render("["+hit.ColumnTitle+"]"),
		StatusStyle(hit.Task.Status).Render(string(hit.Task.Status)),
	)
	preview := ""
	if hit.Best.Field != search.FieldTitle && hit.Preview != "" {
		preview = hit.Best.Field + ": " + hit.Preview
	}
	return line + "    " + m.styles.Preview.Render(preview) + "\n"
}

func (m *Model) viewDetail(hit usecase.SearchHit) string {
	task := hit.Task
	label := m.styles.DetailLabel.Render

	var b strings.Builder
	b.WriteString(m.styles.Header.Render(task.Title) + "\n\n")
	_, _ = fmt.Fprintf(&b, "%s %s\n", label("Column:"), hit.ColumnTitle)
	_, _ = fmt.Fprintf(&b, "%s %s\n", label("Status:"), StatusStyle(task.Status).Render(string(task.Status)))
	_, _ = fmt.Fprintf(&b, "%s %s\n", label("Priority:"), task.Priority)
	_, _ = fmt.Fprintf(&b, "%s %d\n", label("Score:"), hit.Score)

	if task.Description != "" {
		b.WriteString("\n" + task.Description + "\n")
	}
	if len(task.Subtasks) > 0 {
		b.WriteString("\n" + label("Subtasks:") + "\n")
		for _, s := range task.Subtasks {
			mark := "[ ]"
			if s.Completed {
				mark = "[x]"
			}
			_, _ = fmt.Fprintf(&b, "  %s %s\n", mark, s.Title)
		}
	}

	b.WriteString("\n" + label("Matches:") + "\n")
	for _, fm := range hit.Matches {
		_, _ = fmt.Fprintf(&b, "  %s (%d): %s\n",
			fm.Field,
			fm.Score,
			RenderSegments(search.Segments(fm.Value, fm.Ranges), m.styles.Item, m.styles.Match),
		)
	}
	return b.String()
}

// fieldMatch returns the first match on field.
func fieldMatch(hit usecase.SearchHit, field string) (search.FieldMatch, bool) {
	for _, fm := range hit.Matches {
		if fm.Field == field {
			return fm, true
		}
	}
	return search.FieldMatch{}, false
}
