package tui

import (
	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/relabel/internal/config"
)

// Styles holds the rendered look of the console, derived from the theme
type Styles struct {
	Title    lipgloss.Style
	Key      lipgloss.Style
	OldValue lipgloss.Style
	NewValue lipgloss.Style
	Meta     lipgloss.Style
	Command  lipgloss.Style
	Reply    lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Status   map[ConnectionStatus]lipgloss.Style
	Frame    lipgloss.Style
	Help     lipgloss.Style
}

// NewStyles builds console styles from a theme
func NewStyles(theme config.Theme) Styles {
	theme.ApplyDefaults()
	color := func(hex string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}

	return Styles{
		Title:    color(theme.Title).Bold(true),
		Key:      color(theme.Key).Bold(true),
		OldValue: color(theme.Subtle),
		NewValue: color(theme.Success),
		Meta:     color(theme.Subtle),
		Command:  color(theme.Accent).Bold(true),
		Reply:    color(theme.Normal),
		Error:    color(theme.Error).Bold(true),
		Warning:  color(theme.Warning),
		Status: map[ConnectionStatus]lipgloss.Style{
			Connected:    color(theme.Success),
			Connecting:   color(theme.Warning),
			Disconnected: color(theme.Error),
		},
		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.Border)).
			Padding(0, 1),
		Help: color(theme.Subtle),
	}
}
