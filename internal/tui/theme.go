package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles of the viewer chrome. Cards come from render.
type Theme struct {
	Title  lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Help   lipgloss.Style
	Panel  lipgloss.Style
}

// DefaultTheme returns the viewer's styles
func DefaultTheme() Theme {
	return Theme{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E8C07D")),
		Status: lipgloss.NewStyle().Faint(true),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		Help:   lipgloss.NewStyle().Faint(true),
		Panel: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
	}
}
