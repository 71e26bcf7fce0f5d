package context

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
)

var renameCmd = &cobra.Command{
	Use:   "rename <old-name> <new-name>",
	Short: "Rename a context",
	Long: `Rename a saved context.

Examples:
  dsommctl context rename localhost-8080 dev`,
	Args: cobra.ExactArgs(2),
	RunE: runRename,
}

func runRename(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	if err := store.RenameContext(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to rename context: %w", err)
	}

	cmdutil.PrintSuccess(fmt.Sprintf("Context %q renamed to %q", args[0], args[1]))
	return nil
}
