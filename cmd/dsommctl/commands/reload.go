package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
)

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Re-read the data files on the server",
	Long: `Make the server re-read meta.yaml and the activity files.

Recorded progress, teams and settings are kept. Requires a write token.

Examples:
  dsommctl reload`,
	RunE: runReload,
}

func runReload(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	meta, err := client.Reload()
	if err != nil {
		return fmt.Errorf("failed to reload: %w", err)
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, meta,
		fmt.Sprintf("Reloaded %d activities in %d dimensions", meta.Activities, len(meta.Dimensions)))
}
