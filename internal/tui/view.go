package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/relabel/internal/cli/styles"
)

// View renders the console
func (m Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	// Wait for terminal size to be initialized
	if m.width == 0 {
		view.Content = "Loading..."
		return view
	}

	bodyHeight := max(1, m.height-5)
	var body string
	if m.showHelp {
		body = m.renderHelp()
	} else {
		body = strings.Join(m.visibleLines(bodyHeight), "\n")
	}

	frame := m.styles.Frame.
		Width(max(10, m.width-2)).
		Height(bodyHeight).
		Render(body)

	view.Content = lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		frame,
		m.input.View(),
		m.renderFooter(),
	)
	return view
}

func (m Model) renderHeader() string {
	parts := []string{
		m.styles.Title.Render("relabel watch"),
		m.styles.Status[m.status].Render("● " + m.status.String()),
		m.styles.Meta.Render(fmt.Sprintf("%d labels", len(m.values))),
	}
	if m.paused {
		parts = append(parts, m.styles.Warning.Render(fmt.Sprintf("paused (%d new)", m.missed)))
	}
	if m.pending > 0 {
		parts = append(parts, m.styles.Meta.Render("sending…"))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	if m.input.Focused() {
		return m.styles.Help.Render(fmt.Sprintf("%s send · %s cancel", m.keys.Send, m.keys.Blur))
	}
	return m.styles.Help.Render(fmt.Sprintf("%s command · %s help · %s quit", m.keys.FocusInput, m.keys.ShowHelp, m.keys.Quit))
}

func (m Model) renderHelp() string {
	rows := [][2]string{
		{m.keys.FocusInput, "type a chat command"},
		{m.keys.Send, "send the command"},
		{m.keys.Blur, "leave the prompt"},
		{m.keys.ScrollUp, "scroll up"},
		{m.keys.ScrollDown, "scroll down"},
		{m.keys.ClearFeed, "clear the feed"},
		{m.keys.TogglePause, "pause / resume the feed"},
		{m.keys.ShowHelp, "toggle this help"},
		{m.keys.Quit, "quit"},
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Keys") + "\n\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "  %s  %s\n", m.styles.Key.Render(fmt.Sprintf("%-6s", r[0])), r[1])
	}
	return strings.TrimRight(b.String(), "\n")
}

// visibleLines returns the window of feed lines for the current scroll offset
func (m Model) visibleLines(height int) []string {
	var lines []string
	for _, e := range m.feed {
		lines = append(lines, strings.Split(m.renderEntry(e), "\n")...)
	}

	end := max(0, len(lines)-m.scroll)
	start := max(0, end-height)
	return lines[start:end]
}

func (m Model) renderEntry(e feedEntry) string {
	ts := m.styles.Meta.Render(e.at.Local().Format("15:04:05"))

	switch e.kind {
	case entryChange:
		ev := e.event
		return fmt.Sprintf("%s  %s  %s → %s  %s",
			ts,
			m.styles.Key.Render(ev.Key),
			m.styles.OldValue.Render(fmt.Sprintf("%q", ev.OldValue)),
			m.styles.NewValue.Render(fmt.Sprintf("%q", ev.NewValue)),
			m.styles.Meta.Render(fmt.Sprintf("%s · %s", ev.ChangedBy, ev.ChangeType)))

	case entryCommand:
		return fmt.Sprintf("%s  %s", ts, m.styles.Command.Render("» "+e.text))

	case entryReply:
		if e.markdown {
			return styles.RenderMarkdown(e.text, max(20, m.width-6))
		}
		if e.isError {
			return "          " + m.styles.Error.Render(e.text)
		}
		return "          " + m.styles.Reply.Render(e.text)

	default:
		style := m.styles.Meta
		if e.isError {
			style = m.styles.Error
		}
		return fmt.Sprintf("%s  %s", ts, style.Render("• "+e.text))
	}
}
