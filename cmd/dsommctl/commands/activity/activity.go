// Package activity implements the activity browsing commands for dsommctl.
package activity

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for activities.
var Cmd = &cobra.Command{
	Use:     "activity",
	Aliases: []string{"activities"},
	Short:   "Browse maturity model activities",
	Long: `Browse the activities of the maturity model loaded on the server.

Examples:
  # List all activities
  dsommctl activity list

  # Activities of one dimension up to level 2
  dsommctl activity list --dimension "Build" --max-level 2

  # Show one activity
  dsommctl activity show 11111111-0000-0000-0000-000000000001`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
}
