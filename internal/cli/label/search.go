package label

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/relabel/internal/cli"
)

// SearchCmd returns the search subcommand
func SearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <text...>",
		Short: "Find labels by key or value",
		Long: `Find labels whose key or value contains the text (case-insensitive).

Examples:
  relabel search about
  relabel search "contact us" --json
`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	c := cli.NewCLI(cmd)

	labels, err := c.Client.Search(c.Context(), strings.Join(args, " "))
	if err != nil {
		return c.Fail(err)
	}
	return c.Formatter.Success(labels)
}
