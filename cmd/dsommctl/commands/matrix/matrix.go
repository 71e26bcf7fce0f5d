// Package matrix implements the maturity matrix commands for dsommctl.
package matrix

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for the matrix view.
var Cmd = &cobra.Command{
	Use:   "matrix",
	Short: "Show the maturity matrix",
	Long: `Show the activities arranged by sub-dimension and maturity level.

Tag and dimension filters can be passed per call or stored on the server,
where they are shared by every client.

Examples:
  # Matrix with the stored filters
  dsommctl matrix show

  # Only activities tagged "ci"
  dsommctl matrix show --tag ci

  # Store a filter selection
  dsommctl matrix filters set --tag ci --tag scanning

  # Clear the stored filters
  dsommctl matrix filters clear`,
}

func init() {
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(filtersCmd)
}
