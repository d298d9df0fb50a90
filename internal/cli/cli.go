package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/relabel/internal/client"
	"github.com/thenoetrevino/relabel/internal/config"
	"github.com/thenoetrevino/relabel/internal/database"
)

type configKey struct{}

// WithConfig stores the loaded config on ctx for subcommands
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// ConfigFrom returns the config stored by WithConfig, or defaults
func ConfigFrom(ctx context.Context) *config.Config {
	if ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok && cfg != nil {
			return cfg
		}
	}
	return config.Default()
}

// CLI represents the per-invocation context shared by subcommands
type CLI struct {
	Config    *config.Config
	Client    *client.Client
	Formatter *OutputFormatter
	ctx       context.Context
}

// NewCLI builds the CLI context from the command's flags and loaded config
func NewCLI(cmd *cobra.Command) *CLI {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := ConfigFrom(ctx)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")

	return &CLI{
		Config: cfg,
		Client: client.New(cfg.Client.Server, cfg.Client.Token),
		Formatter: &OutputFormatter{
			JSON:  jsonOutput,
			Quiet: quietMode,
			Out:   cmd.OutOrStdout(),
			Err:   cmd.ErrOrStderr(),
		},
		ctx: ctx,
	}
}

// Context returns the command context
func (c *CLI) Context() context.Context {
	return c.ctx
}

// Fail reports err through the formatter and returns it tagged with an exit code
func (c *CLI) Fail(err error) error {
	code := ExitCodeFor(err)
	_ = c.Formatter.ErrorWithSuggestion(ErrorCode(err), err.Error(), suggestionFor(err))
	return &StatusError{Code: code, Err: err, reported: true}
}

// OpenRepository opens the local sqlite database named in the config
func OpenRepository(ctx context.Context, cfg *config.Config) (*database.Repository, error) {
	db, err := database.InitDB(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return database.NewRepository(db), nil
}
