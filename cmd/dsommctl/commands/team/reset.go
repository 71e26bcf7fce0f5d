package team

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Revert to the teams of meta.yaml",
	Long: `Discard all team and group edits and return to the teams defined in
meta.yaml. Recorded progress is kept.

Examples:
  dsommctl team reset
  dsommctl team reset --force`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip confirmation prompt")
}

func runReset(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	return cmdutil.RunWithConfirmation("Discard all team and group edits", resetForce, func() error {
		if _, err := client.ResetTeams(); err != nil {
			return fmt.Errorf("failed to reset teams: %w", err)
		}
		return nil
	}, "Teams reset to meta.yaml")
}
