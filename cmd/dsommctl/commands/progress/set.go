package progress

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/internal/cli/output"
	"github.com/marmos91/dsomm/internal/cli/prompt"
)

var setTeam string

var setCmd = &cobra.Command{
	Use:   "set <activity-uuid> [state]",
	Short: "Record the progress of a team",
	Long: `Move a team to a progress state on an activity.

Without a state you pick one from the progress definition interactively.
Requires a write token.

Examples:
  dsommctl progress set 11111111-0000-0000-0000-000000000001 Implemented --team "Team A"
  dsommctl progress set 11111111-0000-0000-0000-000000000001`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSet,
}

func init() {
	setCmd.Flags().StringVarP(&setTeam, "team", "t", "", "Team (default from context)")
}

func runSet(cmd *cobra.Command, args []string) error {
	uuid := args[0]

	team, err := cmdutil.ResolveTeam(setTeam)
	if err != nil {
		return err
	}

	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	activity, err := client.GetActivity(uuid, false)
	if err != nil {
		return fmt.Errorf("failed to get activity: %w", err)
	}

	var title string
	if len(args) == 2 {
		title = args[1]
	} else {
		meta, err := client.Meta()
		if err != nil {
			return fmt.Errorf("failed to get meta: %w", err)
		}
		progress, err := client.ListProgress()
		if err != nil {
			return fmt.Errorf("failed to get progress: %w", err)
		}
		current, _, _ := currentState(progress[uuid][team], meta.ProgressTitles)

		options := make([]prompt.Option, 0, len(meta.ProgressTitles))
		for _, t := range meta.ProgressTitles {
			def := meta.ProgressDefinition[t]
			options = append(options, prompt.Option{
				Label: fmt.Sprintf("%s (%s)", t, output.Percent(def.Score)),
				Value: t,
				Hint:  def.Definition,
			})
		}
		title, err = prompt.Select(fmt.Sprintf("%s / %s", team, activity.Name), options, current)
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	tp, err := client.SetProgress(uuid, team, title)
	if err != nil {
		return fmt.Errorf("failed to set progress: %w", err)
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, tp,
		fmt.Sprintf("%s is now %q on %s", team, title, activity.Name))
}
