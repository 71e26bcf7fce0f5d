package progress

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/internal/cli/prompt"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard all progress recorded on the server",
	Long: `Discard every progress edit stored on the server. Progress from the
team progress file in the data repository is loaded again.

You must type "reset" to confirm unless --force is given.

Examples:
  dsommctl progress reset`,
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

	if !resetForce {
		confirmed, err := prompt.ConfirmDanger("This discards all recorded progress", "reset")
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := client.ResetProgress(); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	cmdutil.PrintSuccess("Progress reset")
	return nil
}
