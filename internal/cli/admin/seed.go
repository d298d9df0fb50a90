// Package admin holds the operator commands that run against local state:
// provisioning labels and minting tokens.
package admin

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/relabel/internal/cli"
	"github.com/thenoetrevino/relabel/internal/database"
)

// SeedCmd returns the seed subcommand
func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Provision labels in the local database",
		Long: `Insert the default label set, or the labels of a YAML file.
Labels that already exist keep their current value.

Examples:
  relabel seed
  relabel seed --file=labels.yaml
`,
		Args: cobra.NoArgs,
		RunE: runSeed,
	}

	cmd.Flags().String("file", "", "YAML file with a top-level 'labels' list")

	return cmd
}

// SeedResult reports what the seed command provisioned
type SeedResult struct {
	Created int `json:"created"`
	Total   int `json:"total"`
}

func runSeed(cmd *cobra.Command, args []string) error {
	c := cli.NewCLI(cmd)
	file, _ := cmd.Flags().GetString("file")

	labels := database.DefaultLabels
	if file != "" {
		loaded, err := database.LoadSeedFile(file)
		if err != nil {
			return c.Fail(err)
		}
		labels = loaded
	}

	repo, err := cli.OpenRepository(c.Context(), c.Config)
	if err != nil {
		return c.Fail(err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	created, err := database.Seed(c.Context(), repo.Labels, labels)
	if err != nil {
		return c.Fail(err)
	}

	result := SeedResult{Created: created, Total: len(labels)}
	if c.Formatter.JSON {
		return c.Formatter.Success(result)
	}
	if c.Formatter.Quiet {
		return nil
	}
	return c.Formatter.Success(fmt.Sprintf("✓ %d of %d labels created in %s", created, len(labels), c.Config.Database.Path))
}
