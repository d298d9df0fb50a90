package tui

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/relabel/internal/client"
	"github.com/thenoetrevino/relabel/internal/events"
	"github.com/thenoetrevino/relabel/internal/models"
)

// ConnectedMsg is sent once the event stream is established
type ConnectedMsg struct {
	Events <-chan events.Event
}

// ConnectErrorMsg is sent when the initial connection fails
type ConnectErrorMsg struct {
	Err error
}

// EventMsg carries one label change from the stream
type EventMsg struct {
	Event events.Event
}

// StreamClosedMsg is sent when the listener gives up reconnecting
type StreamClosedMsg struct{}

// CommandResultMsg carries the server's answer to a chat command
type CommandResultMsg struct {
	Command  string
	Response *client.CommandResponse
	Err      error
}

// LabelsLoadedMsg carries the initial label snapshot
type LabelsLoadedMsg struct {
	Labels []*models.Label
	Err    error
}

// API is the subset of the HTTP client the console uses
type API interface {
	ListLabels(ctx context.Context) (*client.LabelsResponse, error)
	SendCommand(ctx context.Context, command string) (*client.CommandResponse, error)
}

func connect(ctx context.Context, listener events.Listener) tea.Cmd {
	return func() tea.Msg {
		if err := listener.Connect(ctx); err != nil {
			return ConnectErrorMsg{Err: err}
		}
		ch, err := listener.Listen(ctx)
		if err != nil {
			return ConnectErrorMsg{Err: err}
		}
		return ConnectedMsg{Events: ch}
	}
}

// waitForEvent blocks for the next event. Returns nil when ctx ends.
func waitForEvent(ctx context.Context, ch <-chan events.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case event, ok := <-ch:
			if !ok {
				return StreamClosedMsg{}
			}
			return EventMsg{Event: event}
		case <-ctx.Done():
			return nil
		}
	}
}

func sendCommand(ctx context.Context, api API, text string) tea.Cmd {
	return func() tea.Msg {
		resp, err := api.SendCommand(ctx, text)
		return CommandResultMsg{Command: text, Response: resp, Err: err}
	}
}

func loadLabels(ctx context.Context, api API) tea.Cmd {
	return func() tea.Msg {
		resp, err := api.ListLabels(ctx)
		if err != nil {
			return LabelsLoadedMsg{Err: err}
		}
		return LabelsLoadedMsg{Labels: resp.RawLabels}
	}
}
