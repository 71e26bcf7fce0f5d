// Package progress implements the progress tracking commands for dsommctl.
package progress

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for progress tracking.
var Cmd = &cobra.Command{
	Use:   "progress",
	Short: "Track team progress on activities",
	Long: `Show and record how far teams got with each activity.

Moving a team forward fills in every skipped state with today's date;
moving it back keeps the later dates so they come back when the team
moves forward again.

Examples:
  # Progress of the default team
  dsommctl progress list

  # Record progress, picking the state interactively
  dsommctl progress set 11111111-0000-0000-0000-000000000001 --team "Team A"

  # Record progress non-interactively
  dsommctl progress set 11111111-0000-0000-0000-000000000001 Implemented

  # Export as a team progress YAML file
  dsommctl progress export --out team-progress.yaml`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(setCmd)
	Cmd.AddCommand(exportCmd)
	Cmd.AddCommand(resetCmd)
}
