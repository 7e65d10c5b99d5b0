package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/focus-pilot/internal/domain"
)

// Colors defines the color palette for the focus screen.
var Colors = struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color

	// Priority colors
	High   lipgloss.Color
	Medium lipgloss.Color
	Low    lipgloss.Color
}{
	Primary: lipgloss.Color("#6C5CE7"), // Purple
	Muted:   lipgloss.Color("#636E72"), // Gray
	Error:   lipgloss.Color("#D63031"), // Red
	Success: lipgloss.Color("#00B894"), // Green
	Warning: lipgloss.Color("#FDCB6E"), // Yellow

	High:   lipgloss.Color("#D63031"),
	Medium: lipgloss.Color("#FDCB6E"),
	Low:    lipgloss.Color("#74B9FF"),
}

// Styles holds the rendered styles of the focus screen.
type Styles struct {
	App      lipgloss.Style
	Title    lipgloss.Style
	Task     lipgloss.Style
	Clock    lipgloss.Style
	State    lipgloss.Style
	Paused   lipgloss.Style
	Done     lipgloss.Style
	ErrorMsg lipgloss.Style
	Footer   lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		App:      lipgloss.NewStyle().Padding(1, 2),
		Title:    lipgloss.NewStyle().Bold(true).Foreground(Colors.Primary),
		Task:     lipgloss.NewStyle().Bold(true),
		Clock:    lipgloss.NewStyle().Bold(true).Padding(1, 0),
		State:    lipgloss.NewStyle().Foreground(Colors.Muted),
		Paused:   lipgloss.NewStyle().Foreground(Colors.Warning),
		Done:     lipgloss.NewStyle().Bold(true).Foreground(Colors.Success),
		ErrorMsg: lipgloss.NewStyle().Foreground(Colors.Error),
		Footer:   lipgloss.NewStyle().Foreground(Colors.Muted).MarginTop(1),
	}
}

// PriorityStyle returns the badge style for a priority.
func PriorityStyle(p domain.Priority) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch p {
	case domain.PriorityHigh:
		return base.Foreground(Colors.High)
	case domain.PriorityMedium:
		return base.Foreground(Colors.Medium)
	case domain.PriorityLow:
		return base.Foreground(Colors.Low)
	}
	return base.Foreground(Colors.Muted)
}

// PriorityBadge renders a priority label.
func PriorityBadge(p domain.Priority) string {
	return PriorityStyle(p).Render(string(p))
}
