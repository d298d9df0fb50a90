package label

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/relabel/internal/cli"
)

// EditCmd returns the edit subcommand
func EditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <key> <value...>",
		Short: "Set a label's value",
		Long: `Set a label's value directly. The change is recorded in the audit
history as a manual edit and pushed to every live viewer.

Examples:
  relabel edit nav_about "Our Story"

  # Remaining arguments are joined with spaces
  relabel edit nav_contact Reach Out

  # JSON output
  relabel edit nav_home Start --json
`,
		Args: cobra.MinimumNArgs(2),
		RunE: runEdit,
	}
}

func runEdit(cmd *cobra.Command, args []string) error {
	c := cli.NewCLI(cmd)
	key := args[0]
	value := strings.Join(args[1:], " ")

	if err := cli.ValidateLabelKey(key); err != nil {
		return c.Fail(err)
	}

	resp, err := c.Client.UpdateLabel(c.Context(), key, value)
	if err != nil {
		return c.Fail(err)
	}

	if c.Formatter.Quiet && !c.Formatter.JSON {
		return nil
	}
	return c.Formatter.Success(resp)
}
