package app

import (
	"github.com/thenoetrevino/relabel/internal/events"
	"github.com/thenoetrevino/relabel/internal/hub"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	publisher  events.Publisher
	hubOptions []hub.Option
}

// WithPublisher routes change notifications to p instead of the hub
func WithPublisher(p events.Publisher) Option {
	return func(cfg *appConfig) {
		cfg.publisher = p
	}
}

// WithHubOptions configures the event hub
func WithHubOptions(opts ...hub.Option) Option {
	return func(cfg *appConfig) {
		cfg.hubOptions = append(cfg.hubOptions, opts...)
	}
}
