package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/search"
)

// Colors defines the color palette.
var Colors = struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Highlight lipgloss.Color
	Text      lipgloss.Color
	Selected  lipgloss.Color

	// Status colors
	NotStarted lipgloss.Color
	InProgress lipgloss.Color
	Paused     lipgloss.Color
	Done       lipgloss.Color
}{
	Primary:   lipgloss.Color("#6C5CE7"), // Purple
	Secondary: lipgloss.Color("#A29BFE"), // Lavender
	Muted:     lipgloss.Color("#636E72"), // Gray
	Error:     lipgloss.Color("#D63031"), // Red
	Highlight: lipgloss.Color("#FDCB6E"), // Yellow
	Text:      lipgloss.Color("#DFE6E9"), // Light gray
	Selected:  lipgloss.Color("#FFEAA7"), // Pale yellow

	NotStarted: lipgloss.Color("#74B9FF"), // Light blue
	InProgress: lipgloss.Color("#FDCB6E"), // Yellow
	Paused:     lipgloss.Color("#A29BFE"), // Lavender
	Done:       lipgloss.Color("#00B894"), // Green
}

// Styles contains the lipgloss styles of the search view.
type Styles struct {
	App         lipgloss.Style
	Header      lipgloss.Style
	InputPrompt lipgloss.Style
	Count       lipgloss.Style

	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	Cursor       lipgloss.Style
	Column       lipgloss.Style
	Preview      lipgloss.Style
	Match        lipgloss.Style // Highlighted query match

	Detail      lipgloss.Style
	DetailLabel lipgloss.Style

	ErrorMsg lipgloss.Style
	Footer   lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().Padding(1, 2),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),
		InputPrompt: lipgloss.NewStyle().Foreground(Colors.Secondary),
		Count:       lipgloss.NewStyle().Foreground(Colors.Muted),

		Item:         lipgloss.NewStyle().Foreground(Colors.Text),
		ItemSelected: lipgloss.NewStyle().Foreground(Colors.Selected).Bold(true),
		Cursor:       lipgloss.NewStyle().Foreground(Colors.Primary).Bold(true),
		Column:       lipgloss.NewStyle().Foreground(Colors.Secondary),
		Preview:      lipgloss.NewStyle().Foreground(Colors.Muted),
		Match:        lipgloss.NewStyle().Foreground(Colors.Highlight).Bold(true).Underline(true),

		Detail: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Muted).
			Padding(0, 1),
		DetailLabel: lipgloss.NewStyle().Foreground(Colors.Secondary).Bold(true),

		ErrorMsg: lipgloss.NewStyle().Foreground(Colors.Error).Bold(true),
		Footer:   lipgloss.NewStyle().Foreground(Colors.Muted),
	}
}

// StatusStyle returns the style for a task status.
func StatusStyle(s domain.Status) lipgloss.Style {
	style := lipgloss.NewStyle()
	switch s {
	case domain.StatusNotStarted:
		return style.Foreground(Colors.NotStarted)
	case domain.StatusInProgress:
		return style.Foreground(Colors.InProgress)
	case domain.StatusPaused:
		return style.Foreground(Colors.Paused)
	case domain.StatusDone:
		return style.Foreground(Colors.Done)
	}
	return style.Foreground(Colors.Muted)
}

// RenderSegments renders highlight segments, styling matched text with hl
// and the rest with base.
func RenderSegments(segs []search.Segment, base, hl lipgloss.Style) string {
	var b strings.Builder
	for _, s := range segs {
		if s.Highlight {
			b.WriteString(hl.Render(s.Text))
		} else {
			b.WriteString(base.Render(s.Text))
		}
	}
	return b.String()
}
