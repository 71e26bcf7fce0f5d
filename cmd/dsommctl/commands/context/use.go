package context

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/internal/cli/prompt"
)

var useCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Switch to a different context",
	Long: `Switch the current context. Without a name you pick one interactively.

Examples:
  dsommctl context use prod
  dsommctl context use`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUse,
}

func runUse(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		names := store.ListContexts()
		if len(names) == 0 {
			return fmt.Errorf("no contexts configured. Run 'dsommctl login' first")
		}
		options := make([]prompt.Option, 0, len(names))
		for _, n := range names {
			ctx, _ := store.GetContext(n)
			desc := ""
			if ctx != nil {
				desc = ctx.ServerURL
			}
			options = append(options, prompt.Option{Label: n, Value: n, Hint: desc})
		}
		name, err = prompt.Select("Context", options, store.GetCurrentContextName())
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	if err := store.UseContext(name); err != nil {
		return fmt.Errorf("failed to switch context: %w", err)
	}

	cmdutil.PrintSuccess(fmt.Sprintf("Switched to context %q", name))
	return nil
}
