package styles

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/relabel/internal/config"
	"github.com/thenoetrevino/relabel/internal/models"
)

var (
	// Card styles
	CardStyle lipgloss.Style
	CardWidth = 80

	// Text styles
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	KeyStyle      lipgloss.Style // Label keys
	ValueStyle    lipgloss.Style // Label values
	SectionStyle  lipgloss.Style // Page headers

	// Status styles
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
)

// Init initializes all CLI styles with the given theme
func Init(theme config.Theme) {
	theme.ApplyDefaults()

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Border)).
		Padding(1, 2).
		Width(CardWidth)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Title))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Subtle))

	KeyStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Key))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Normal))

	SectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Accent)).
		Bold(true).
		MarginTop(1)

	SuccessStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Success))

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Error))

	WarningStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Warning))
}

// ColoredText renders text with a hex color
func ColoredText(text, hexColor string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(hexColor)).
		Render(text)
}

// RenderLabel renders a label as `key  "value"`
func RenderLabel(label *models.Label) string {
	return fmt.Sprintf("%s  %s", KeyStyle.Render(label.Key), ValueStyle.Render(fmt.Sprintf("%q", label.Value)))
}

// RenderChange renders a value transition as `"old" → "new"`
func RenderChange(oldValue, newValue string) string {
	return fmt.Sprintf("%s → %s",
		SubtitleStyle.Render(fmt.Sprintf("%q", oldValue)),
		SuccessStyle.Render(fmt.Sprintf("%q", newValue)))
}

// RenderHistoryEntry renders one audit record on a single line
// Format: "2026-01-02 15:04  key  "old" → "new"  by alice (chatbot)"
func RenderHistoryEntry(entry *models.HistoryEntry) string {
	return fmt.Sprintf("%s  %s  %s  %s",
		SubtitleStyle.Render(entry.CreatedAt.Local().Format("2006-01-02 15:04:05")),
		KeyStyle.Render(entry.LabelKey),
		RenderChange(entry.OldValue, entry.NewValue),
		SubtitleStyle.Render(fmt.Sprintf("by %s (%s)", entry.ChangedBy, entry.ChangeType)))
}

// RenderCard wraps content in a styled card border
func RenderCard(content string) string {
	return CardStyle.Render(content)
}
