package team

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/pkg/model"
	"github.com/marmos91/dsomm/pkg/tracker"
)

var removeForce bool

var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a team",
	Long: `Add a team. Without a name the next free "Team N" is used.

Examples:
  dsommctl team add "Platform"
  dsommctl team add`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

var renameCmd = &cobra.Command{
	Use:   "rename <old-name> <new-name>",
	Short: "Rename a team",
	Long: `Rename a team. Its recorded progress and group memberships move to
the new name.

Examples:
  dsommctl team rename "Team A" "Red Team"`,
	Args: cobra.ExactArgs(2),
	RunE: runRename,
}

var removeCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a team",
	Long: `Remove a team from the team list and every group.

Progress recorded for the team stays stored and reappears when the team
is added again.

Examples:
  dsommctl team remove "Team C"
  dsommctl team remove "Team C" --force`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "Skip confirmation prompt")
}

func runAdd(cmd *cobra.Command, args []string) error {
	var added string
	doc, err := editTeams(func(doc *model.TeamsDocument) error {
		if len(args) == 0 {
			added = tracker.AddTeam(doc)
			return nil
		}
		added = args[0]
		if slices.Contains(doc.Teams, added) {
			return fmt.Errorf("team %q already exists", added)
		}
		doc.Teams = append(doc.Teams, added)
		return nil
	})
	if err != nil {
		return err
	}
	return cmdutil.PrintResourceWithSuccess(os.Stdout, doc, fmt.Sprintf("Team %q added", added))
}

func runRename(cmd *cobra.Command, args []string) error {
	oldName, newName := args[0], args[1]
	doc, err := editTeams(func(doc *model.TeamsDocument) error {
		return tracker.RenameTeam(doc, oldName, newName)
	})
	if err != nil {
		return err
	}
	return cmdutil.PrintResourceWithSuccess(os.Stdout, doc, fmt.Sprintf("Team %q renamed to %q", oldName, newName))
}

func runRemove(cmd *cobra.Command, args []string) error {
	name := args[0]
	return cmdutil.RunWithConfirmation(fmt.Sprintf("Remove team %q", name), removeForce, func() error {
		_, err := editTeams(func(doc *model.TeamsDocument) error {
			if !slices.Contains(doc.Teams, name) {
				return fmt.Errorf("%w: %s", model.ErrTeamNotFound, name)
			}
			tracker.DeleteTeam(doc, name)
			return nil
		})
		return err
	}, fmt.Sprintf("Team %q removed", name))
}
