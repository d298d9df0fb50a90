// Package watch implements `relabel watch`.
package watch

import (
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/relabel/internal/cli"
	"github.com/thenoetrevino/relabel/internal/tui"
)

// WatchCmd returns the watch subcommand
func WatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow label changes live",
		Long: `Open a terminal console that shows every label change as it happens.
Press ':' to type chat commands, '?' for all keys.

Keys are configurable under key_mappings in the config file.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cli.NewCLI(cmd)
			if err := tui.Run(c.Context(), c.Config, c.Client); err != nil {
				return c.Fail(err)
			}
			return nil
		},
	}
}
