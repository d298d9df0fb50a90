package label

import (
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/relabel/internal/cli"
	"github.com/thenoetrevino/relabel/internal/services/history"
)

// HistoryCmd returns the history subcommand
func HistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the label change history",
		Long: `Show recorded label changes, newest first.

Examples:
  # Latest 50 changes across all labels
  relabel history

  # Latest 10 changes of one label
  relabel history --key=nav_about --limit=10
`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().String("key", "", "Only show changes to this label key")
	cmd.Flags().Int("limit", history.DefaultLimit, "Maximum number of entries")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	c := cli.NewCLI(cmd)
	key, _ := cmd.Flags().GetString("key")
	limit, _ := cmd.Flags().GetInt("limit")

	if err := cli.ValidateLimit(limit); err != nil {
		return c.Fail(err)
	}
	if key != "" {
		if err := cli.ValidateLabelKey(key); err != nil {
			return c.Fail(err)
		}
	}

	entries, err := c.Client.History(c.Context(), key, limit)
	if err != nil {
		return c.Fail(err)
	}
	return c.Formatter.Success(entries)
}
