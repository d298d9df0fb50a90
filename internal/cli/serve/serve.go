// Package serve implements `relabel serve`, the HTTP API and live event stream.
package serve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/thenoetrevino/relabel/internal/app"
	"github.com/thenoetrevino/relabel/internal/auth"
	"github.com/thenoetrevino/relabel/internal/cli"
	"github.com/thenoetrevino/relabel/internal/config"
	"github.com/thenoetrevino/relabel/internal/database"
	"github.com/thenoetrevino/relabel/internal/events"
	"github.com/thenoetrevino/relabel/internal/httpapi"
	"github.com/thenoetrevino/relabel/internal/hub"
	"github.com/thenoetrevino/relabel/internal/metrics"
)

// ErrNoSecret is returned when serving without a token signing secret
var ErrNoSecret = errors.New("auth.secret (RELABEL_AUTH_SECRET) is required to serve")

// ServeCmd returns the serve subcommand
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the label API server",
		Long: `Run the HTTP API and the live event stream.

Examples:
  RELABEL_AUTH_SECRET=change-me relabel serve

  # Listen elsewhere and provision the default labels first
  relabel serve --addr=127.0.0.1:9090 --seed
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cli.ConfigFrom(cmd.Context())
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Server.Addr = addr
			}
			seed, _ := cmd.Flags().GetBool("seed")
			return Run(cmd.Context(), cfg, seed)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().Bool("seed", false, "Provision the default labels before serving")

	return cmd
}

// Run listens on cfg.Server.Addr and serves until ctx is cancelled
func Run(ctx context.Context, cfg *config.Config, seed bool) error {
	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Addr, err)
	}
	return Serve(ctx, cfg, ln, seed)
}

// Serve runs the API on ln. On cancellation the hub is closed first, which ends
// every event stream with a close frame, then in-flight requests are drained.
func Serve(ctx context.Context, cfg *config.Config, ln net.Listener, seed bool) error {
	defer ln.Close()

	if cfg.Auth.Secret == "" {
		return ErrNoSecret
	}
	issuer, err := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	repo, err := cli.OpenRepository(ctx, cfg)
	if err != nil {
		return err
	}

	if seed {
		n, err := database.Seed(ctx, repo.Labels, database.DefaultLabels)
		if err != nil {
			_ = repo.Close()
			return fmt.Errorf("failed to seed labels: %w", err)
		}
		slog.Info("default labels provisioned", "created", n)
	}

	application := app.New(repo, app.WithHubOptions(
		hub.WithBufferSize(cfg.Hub.SubscriberBuffer),
		hub.WithEvictHook(func(sub *hub.Subscription, event events.Event) {
			metrics.SubscribersEvicted.Inc()
		}),
	))
	defer func() {
		if err := application.Close(); err != nil {
			slog.Error("failed to close application", "error", err)
		}
	}()

	api := httpapi.New(httpapi.Deps{
		Store:     application.Store,
		Ledger:    application.Ledger,
		Mutations: application.Mutations,
		Hub:       application.Hub,
		Issuer:    issuer,
	}, httpapi.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		PingInterval:   cfg.Hub.PingInterval,
	})

	srv := &http.Server{
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("relabel server starting", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("relabel server shutting down gracefully")

		application.Hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
