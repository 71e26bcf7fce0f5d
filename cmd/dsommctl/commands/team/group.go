package team

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/pkg/model"
	"github.com/marmos91/dsomm/pkg/tracker"
)

var groupDeleteForce bool

var groupCmd = &cobra.Command{
	Use:     "group",
	Aliases: []string{"groups"},
	Short:   "Manage team groups",
	Long: `Manage the groups teams are organized in.

Examples:
  dsommctl team group list
  dsommctl team group add Backend
  dsommctl team group add-member Backend "Team A"
  dsommctl team group remove-member Backend "Team A"
  dsommctl team group rename Backend Services
  dsommctl team group delete Services`,
}

var groupListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List groups",
	RunE:    runGroupList,
}

var groupAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add an empty group",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGroupAdd,
}

var groupRenameCmd = &cobra.Command{
	Use:   "rename <old-name> <new-name>",
	Short: "Rename a group",
	Args:  cobra.ExactArgs(2),
	RunE:  runGroupRename,
}

var groupDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a group, keeping its teams",
	Args:    cobra.ExactArgs(1),
	RunE:    runGroupDelete,
}

var groupAddMemberCmd = &cobra.Command{
	Use:   "add-member <group> <team>...",
	Short: "Add teams to a group",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setMembership(args[0], args[1:], true)
	},
}

var groupRemoveMemberCmd = &cobra.Command{
	Use:   "remove-member <group> <team>...",
	Short: "Remove teams from a group",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setMembership(args[0], args[1:], false)
	},
}

func init() {
	groupDeleteCmd.Flags().BoolVarP(&groupDeleteForce, "force", "f", false, "Skip confirmation prompt")

	groupCmd.AddCommand(groupListCmd)
	groupCmd.AddCommand(groupAddCmd)
	groupCmd.AddCommand(groupRenameCmd)
	groupCmd.AddCommand(groupDeleteCmd)
	groupCmd.AddCommand(groupAddMemberCmd)
	groupCmd.AddCommand(groupRemoveMemberCmd)
}

// GroupList is a list of groups for table rendering.
type GroupList model.Groups

// Headers implements TableRenderer.
func (gl GroupList) Headers() []string {
	return []string{"GROUP", "TEAMS"}
}

// Rows implements TableRenderer.
func (gl GroupList) Rows() [][]string {
	rows := make([][]string, 0, len(gl))
	for _, g := range gl {
		rows = append(rows, []string{g.Name, cmdutil.EmptyOr(strings.Join(g.Teams, ", "), "-")})
	}
	return rows
}

func runGroupList(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	doc, err := client.ListTeams()
	if err != nil {
		return fmt.Errorf("failed to list groups: %w", err)
	}

	groups := doc.TeamGroups
	if groups == nil {
		groups = model.Groups{}
	}
	return cmdutil.PrintOutput(os.Stdout, groups, len(groups) == 0, "No groups defined.", GroupList(groups))
}

func runGroupAdd(cmd *cobra.Command, args []string) error {
	var added string
	doc, err := editTeams(func(doc *model.TeamsDocument) error {
		if len(args) == 0 {
			added = tracker.AddGroup(doc)
			return nil
		}
		added = args[0]
		if _, ok := doc.TeamGroups.Find(added); ok {
			return fmt.Errorf("group %q already exists", added)
		}
		doc.TeamGroups = append(doc.TeamGroups, model.Group{Name: added, Teams: []string{}})
		return nil
	})
	if err != nil {
		return err
	}
	return cmdutil.PrintResourceWithSuccess(os.Stdout, doc, fmt.Sprintf("Group %q added", added))
}

func runGroupRename(cmd *cobra.Command, args []string) error {
	doc, err := editTeams(func(doc *model.TeamsDocument) error {
		return tracker.RenameGroup(doc, args[0], args[1])
	})
	if err != nil {
		return err
	}
	return cmdutil.PrintResourceWithSuccess(os.Stdout, doc, fmt.Sprintf("Group %q renamed to %q", args[0], args[1]))
}

func runGroupDelete(cmd *cobra.Command, args []string) error {
	name := args[0]
	return cmdutil.RunWithConfirmation(fmt.Sprintf("Delete group %q", name), groupDeleteForce, func() error {
		_, err := editTeams(func(doc *model.TeamsDocument) error {
			if _, ok := doc.TeamGroups.Find(name); !ok {
				return fmt.Errorf("%w: %s", model.ErrGroupNotFound, name)
			}
			tracker.DeleteGroup(doc, name)
			return nil
		})
		return err
	}, fmt.Sprintf("Group %q deleted", name))
}

// setMembership adds or removes teams, leaving teams already in the wanted
// state untouched.
func setMembership(group string, teams []string, member bool) error {
	doc, err := editTeams(func(doc *model.TeamsDocument) error {
		if _, ok := doc.TeamGroups.Find(group); !ok {
			return fmt.Errorf("%w: %s", model.ErrGroupNotFound, group)
		}
		for _, t := range teams {
			if slices.Contains(tracker.RelatedTeams(doc, group), t) == member {
				continue
			}
			if err := tracker.ToggleTeamInGroup(doc, t, group); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	verb := "added to"
	if !member {
		verb = "removed from"
	}
	return cmdutil.PrintResourceWithSuccess(os.Stdout, doc,
		fmt.Sprintf("%s %s group %q", strings.Join(teams, ", "), verb, group))
}
