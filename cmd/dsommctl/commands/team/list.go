package team

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/pkg/model"
	"github.com/marmos91/dsomm/pkg/tracker"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List teams and groups",
	Long: `List the teams and the groups they belong to.

Examples:
  dsommctl team list
  dsommctl team list -o yaml`,
	RunE: runList,
}

// TeamList renders the teams document with one row per team.
type TeamList struct {
	Doc *model.TeamsDocument
}

// Headers implements TableRenderer.
func (tl TeamList) Headers() []string {
	return []string{"TEAM", "GROUPS"}
}

// Rows implements TableRenderer.
func (tl TeamList) Rows() [][]string {
	rows := make([][]string, 0, len(tl.Doc.Teams))
	for _, t := range tl.Doc.Teams {
		groups := tracker.RelatedGroups(tl.Doc, t)
		rows = append(rows, []string{t, cmdutil.EmptyOr(strings.Join(groups, ", "), "-")})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	doc, err := client.ListTeams()
	if err != nil {
		return fmt.Errorf("failed to list teams: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, doc, len(doc.Teams) == 0, "No teams defined.", TeamList{Doc: doc})
}
