package app

import (
	"github.com/thenoetrevino/relabel/internal/database"
	"github.com/thenoetrevino/relabel/internal/events"
	"github.com/thenoetrevino/relabel/internal/hub"
	"github.com/thenoetrevino/relabel/internal/services/history"
	"github.com/thenoetrevino/relabel/internal/services/label"
	"github.com/thenoetrevino/relabel/internal/services/mutation"
)

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	// Repository layer (direct database access)
	repo *database.Repository

	// Event fan-out for live viewers
	Hub *hub.Hub

	// Service layer (business logic)
	Store     *label.Store
	Ledger    *history.Ledger
	Mutations *mutation.Service
}

// New creates a new App with all services initialized.
// Mutations publish to the hub unless WithPublisher overrides it.
func New(repo *database.Repository, opts ...Option) *App {
	cfg := &appConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	h := hub.New(cfg.hubOptions...)
	var publisher events.Publisher = h
	if cfg.publisher != nil {
		publisher = cfg.publisher
	}

	store := label.NewStore(repo.Labels)
	ledger := history.NewLedger(repo.History)

	return &App{
		repo:      repo,
		Hub:       h,
		Store:     store,
		Ledger:    ledger,
		Mutations: mutation.NewService(store, ledger, publisher),
	}
}

// Repo returns the underlying repository
func (a *App) Repo() *database.Repository {
	return a.repo
}

// Close stops the hub, ending every subscriber stream, then closes the database
func (a *App) Close() error {
	a.Hub.Close()
	return a.repo.Close()
}
