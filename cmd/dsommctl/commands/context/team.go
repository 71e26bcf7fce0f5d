package context

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/internal/cli/prompt"
)

var teamCmd = &cobra.Command{
	Use:   "team [name]",
	Short: "Set the default team of the current context",
	Long: `Set the team that progress commands act on when --team is omitted.

Without a name you pick one of the server's teams interactively. Pass an
empty string to clear the default.

Examples:
  dsommctl context team "Team A"
  dsommctl context team
  dsommctl context team ""`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTeam,
}

func runTeam(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	ctx, err := store.GetCurrentContext()
	if err != nil {
		return fmt.Errorf("no current context. Run 'dsommctl login' first")
	}

	var team string
	if len(args) == 1 {
		team = args[0]
	} else {
		client, err := cmdutil.GetClient()
		if err != nil {
			return err
		}
		meta, err := client.Meta()
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		if len(meta.Teams) == 0 {
			return fmt.Errorf("the server defines no teams")
		}
		options := make([]prompt.Option, len(meta.Teams))
		for i, t := range meta.Teams {
			options[i] = prompt.Option{Label: t, Value: t}
		}
		team, err = prompt.Select("Team", options, ctx.Team)
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	if err := store.SetTeam(team); err != nil {
		return err
	}

	if team == "" {
		cmdutil.PrintSuccess("Default team cleared")
	} else {
		cmdutil.PrintSuccess(fmt.Sprintf("Default team set to %q", team))
	}
	return nil
}
