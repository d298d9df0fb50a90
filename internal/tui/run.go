package tui

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/relabel/internal/client"
	"github.com/thenoetrevino/relabel/internal/config"
	"github.com/thenoetrevino/relabel/internal/events"
)

// Run starts the watch console against the server api points at and blocks until quit
func Run(ctx context.Context, cfg *config.Config, api *client.Client) error {
	listener := events.NewClient(api.EventsURL(), api.Token(),
		events.WithRetries(8, 500*time.Millisecond))
	defer listener.Close()

	p := tea.NewProgram(New(ctx, api, listener, cfg), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
