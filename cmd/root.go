package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/relabel/internal/cli"
	"github.com/thenoetrevino/relabel/internal/cli/admin"
	"github.com/thenoetrevino/relabel/internal/cli/chat"
	"github.com/thenoetrevino/relabel/internal/cli/label"
	"github.com/thenoetrevino/relabel/internal/cli/serve"
	"github.com/thenoetrevino/relabel/internal/cli/styles"
	"github.com/thenoetrevino/relabel/internal/cli/watch"
	"github.com/thenoetrevino/relabel/internal/config"
	"github.com/thenoetrevino/relabel/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "relabel",
	Short: "Relabel - runtime label management",
	Long: `Relabel lets operators rename user-facing text labels at runtime, through
direct edits or free-text commands, with an audit trail of every change and
live updates to every connected viewer.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default $XDG_CONFIG_HOME/relabel/config.yaml)")
	flags.String("server", "", "Server URL (overrides client.server)")
	flags.String("token", "", "Bearer token (overrides client.token)")
	flags.Bool("json", false, "Output in JSON format")
	flags.Bool("quiet", false, "Minimal output (IDs only)")

	rootCmd.AddCommand(serve.ServeCmd())
	rootCmd.AddCommand(admin.SeedCmd())
	rootCmd.AddCommand(admin.TokenCmd())
	rootCmd.AddCommand(label.Commands()...)
	rootCmd.AddCommand(chat.ChatCmd())
	rootCmd.AddCommand(watch.WatchCmd())
}

func loadConfig(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return &cli.StatusError{Code: cli.ExitUsage, Err: err}
	}

	if server, _ := cmd.Flags().GetString("server"); server != "" {
		cfg.Client.Server = server
	}
	if token, _ := cmd.Flags().GetString("token"); token != "" {
		cfg.Client.Token = token
	}

	if err := logging.Init(cfg.Log); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	styles.Init(cfg.Theme)

	cmd.SetContext(cli.WithConfig(cmd.Context(), cfg))
	return nil
}

// Execute runs the root command with ctx
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
