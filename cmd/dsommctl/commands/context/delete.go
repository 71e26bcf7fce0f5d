package context

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a context",
	Long: `Delete a saved context and its token.

Examples:
  # Delete with confirmation
  dsommctl context delete dev

  # Delete without confirmation
  dsommctl context delete dev --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	store, err := openStore()
	if err != nil {
		return err
	}
	if _, err := store.GetContext(name); err != nil {
		return fmt.Errorf("context %q: %w", name, err)
	}

	return cmdutil.RunWithConfirmation(fmt.Sprintf("Delete context %q", name), deleteForce, func() error {
		return store.DeleteContext(name)
	}, fmt.Sprintf("Context %q deleted", name))
}
