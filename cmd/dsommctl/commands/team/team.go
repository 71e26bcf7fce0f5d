// Package team implements team and group management commands for dsommctl.
package team

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/pkg/apiclient"
	"github.com/marmos91/dsomm/pkg/model"
)

// Cmd is the parent command for team management.
var Cmd = &cobra.Command{
	Use:     "team",
	Aliases: []string{"teams"},
	Short:   "Team and group management",
	Long: `Manage the teams and team groups tracked by the dsomm server.

Edits are stored on the server and override the teams of meta.yaml until
they are reset. Renaming a team keeps its recorded progress; the server
only allows renames when allowChangeTeamNameInBrowser is set.

Examples:
  # List teams and their groups
  dsommctl team list

  # Add and rename teams
  dsommctl team add "Team C"
  dsommctl team rename "Team C" "Platform"

  # Put a team into a group
  dsommctl team group add-member Backend Platform

  # Summary of a team or a group
  dsommctl team summary "Team A"
  dsommctl team summary --group Backend

  # Export teams as YAML for meta.yaml
  dsommctl team export --out teams.yaml`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(renameCmd)
	Cmd.AddCommand(removeCmd)
	Cmd.AddCommand(groupCmd)
	Cmd.AddCommand(summaryCmd)
	Cmd.AddCommand(exportCmd)
	Cmd.AddCommand(resetCmd)
}

// editTeams fetches the teams document, applies edit and stores the result.
func editTeams(edit func(doc *model.TeamsDocument) error) (*model.TeamsDocument, error) {
	client, err := cmdutil.GetClient()
	if err != nil {
		return nil, err
	}
	return editTeamsWith(client, edit)
}

func editTeamsWith(client *apiclient.Client, edit func(doc *model.TeamsDocument) error) (*model.TeamsDocument, error) {
	doc, err := client.ListTeams()
	if err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}
	if err := edit(doc); err != nil {
		return nil, err
	}
	updated, err := client.UpdateTeams(*doc)
	if err != nil {
		return nil, fmt.Errorf("failed to update teams: %w", err)
	}
	return updated, nil
}
