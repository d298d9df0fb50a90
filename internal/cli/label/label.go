// Package label holds the CLI commands that read and edit labels through a running server.
package label

import (
	"github.com/spf13/cobra"
)

// Commands returns the label commands registered at the top level
func Commands() []*cobra.Command {
	return []*cobra.Command{
		ListCmd(),
		EditCmd(),
		HistoryCmd(),
		SearchCmd(),
	}
}
