package label

import (
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/relabel/internal/cli"
)

// ListCmd returns the labels subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "List all labels",
		Long: `List every label, grouped by page.

Examples:
  # Human-readable list
  relabel labels

  # JSON output for agents
  relabel labels --json

  # Quiet mode (one ID per line)
  relabel labels --quiet
`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cmd.Flags().String("page", "", "Only show labels on this page")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	c := cli.NewCLI(cmd)
	page, _ := cmd.Flags().GetString("page")

	resp, err := c.Client.ListLabels(c.Context())
	if err != nil {
		return c.Fail(err)
	}

	labels := resp.RawLabels
	if page != "" {
		filtered := labels[:0]
		for _, lbl := range labels {
			if lbl.Page == page {
				filtered = append(filtered, lbl)
			}
		}
		labels = filtered
	}

	return c.Formatter.Success(labels)
}
