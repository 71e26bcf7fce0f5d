// Package report implements the progress report commands for dsommctl.
package report

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for the progress report.
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Show the progress report",
	Long: `Show the progress of the selected teams on every activity, grouped by
sub-dimension. What the report includes is stored on the server and can
be overridden per call.

Examples:
  # Report with the stored configuration
  dsommctl report show

  # Only level 1 and 2 of two teams
  dsommctl report show --max-level 2 --team "Team A" --team "Team B"

  # Change the stored configuration
  dsommctl report config set --column samm2 --column risk`,
}

func init() {
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(configCmd)
}
