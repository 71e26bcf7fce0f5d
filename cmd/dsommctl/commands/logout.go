package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/internal/cli/credentials"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the token of the current context",
	Long: `Remove the token of the current context.

The context itself is kept, so read-only commands keep working against
the same server. Use 'dsommctl context delete' to remove it entirely.

Examples:
  dsommctl logout`,
	RunE: runLogout,
}

func runLogout(cmd *cobra.Command, args []string) error {
	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("failed to initialize credential store: %w", err)
	}

	name := store.GetCurrentContextName()
	if err := store.ClearCurrentContext(); err != nil {
		return err
	}

	cmdutil.PrintSuccess(fmt.Sprintf("Logged out of context %q", name))
	return nil
}
