package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/relabel/internal/events"
)

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case ConnectedMsg:
		m.status = Connected
		m.events = msg.Events
		m.notice("Connected to event stream", false)
		return m, waitForEvent(m.ctx, m.events)

	case ConnectErrorMsg:
		m.status = Disconnected
		m.notice(fmt.Sprintf("Could not connect: %v", msg.Err), true)
		return m, nil

	case StreamClosedMsg:
		m.status = Disconnected
		m.events = nil
		m.notice("Event stream closed", true)
		return m, nil

	case EventMsg:
		m.applyEvent(msg)
		return m, waitForEvent(m.ctx, m.events)

	case LabelsLoadedMsg:
		if msg.Err != nil {
			m.notice(fmt.Sprintf("Could not load labels: %v", msg.Err), true)
			return m, nil
		}
		for _, l := range msg.Labels {
			m.values[l.Key] = l.Value
		}
		m.notice(fmt.Sprintf("Loaded %d labels", len(msg.Labels)), false)
		return m, nil

	case CommandResultMsg:
		m.pending = max(0, m.pending-1)
		m.applyReply(msg)
		return m, nil
	}

	return m, nil
}

func (m *Model) applyEvent(msg EventMsg) {
	ev := msg.Event
	if ev.Type != "" && ev.Type != events.EventLabelUpdated {
		return
	}
	m.values[ev.Key] = ev.NewValue

	if m.paused {
		m.missed++
		return
	}
	m.push(feedEntry{kind: entryChange, at: ev.Timestamp, event: ev})
}

func (m *Model) applyReply(msg CommandResultMsg) {
	if msg.Err != nil {
		m.push(feedEntry{kind: entryReply, text: msg.Err.Error(), isError: true})
		return
	}

	resp := msg.Response
	text := resp.Response
	if len(resp.Suggestions) > 0 {
		text += "\n\nAvailable labels: " + strings.Join(resp.Suggestions, ", ")
	}
	m.push(feedEntry{
		kind:     entryReply,
		text:     text,
		markdown: resp.Type == "help" || resp.Type == "list" || resp.Type == "error",
		isError:  resp.Type == "error",
	})
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.input.Focused() {
		return m.handleInputKey(msg)
	}

	switch key {
	case m.keys.Quit:
		return m, tea.Quit
	case m.keys.FocusInput:
		m.showHelp = false
		return m, m.input.Focus()
	case m.keys.ScrollUp, "up":
		m.scroll++
	case m.keys.ScrollDown, "down":
		m.scroll = max(0, m.scroll-1)
	case m.keys.ClearFeed:
		m.feed = nil
		m.scroll = 0
	case m.keys.TogglePause:
		m.paused = !m.paused
		if !m.paused && m.missed > 0 {
			m.notice(fmt.Sprintf("%d changes arrived while paused", m.missed), false)
			m.missed = 0
		}
	case m.keys.ShowHelp:
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.keys.Blur:
		m.input.Blur()
		return m, nil

	case m.keys.Send:
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.Reset()
		m.scroll = 0
		m.pending++
		m.push(feedEntry{kind: entryCommand, text: text})
		return m, sendCommand(m.ctx, m.api, text)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
