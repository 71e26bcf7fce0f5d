package apiclient

import (
	"github.com/marmos91/dsomm/pkg/model"
	"github.com/marmos91/dsomm/pkg/views"
)

// ListTeams returns the current teams and groups.
func (c *Client) ListTeams() (*model.TeamsDocument, error) {
	return getResource[model.TeamsDocument](c, "/api/v1/teams")
}

// UpdateTeams replaces all teams and groups. Teams renamed in place keep
// their progress when the server allows renames.
func (c *Client) UpdateTeams(doc model.TeamsDocument) (*model.TeamsDocument, error) {
	return updateResource[model.TeamsDocument](c, "/api/v1/teams", doc)
}

// ResetTeams reverts to the teams and groups of meta.yaml.
func (c *Client) ResetTeams() (*model.TeamsDocument, error) {
	var doc model.TeamsDocument
	if err := c.delete("/api/v1/teams", &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ExportTeams returns the teams and groups as a meta.yaml fragment.
func (c *Client) ExportTeams() (string, error) {
	b, err := c.getRaw("/api/v1/teams/export", "application/yaml")
	return string(b), err
}

// TeamSummary returns the KPIs of one team.
func (c *Client) TeamSummary(team string) (*views.TeamSummary, error) {
	return getResource[views.TeamSummary](c, resourcePath("/api/v1/teams/%s/summary", team))
}

// GroupSummary returns the KPIs of a group of teams.
func (c *Client) GroupSummary(group string) (*views.TeamSummary, error) {
	return getResource[views.TeamSummary](c, resourcePath("/api/v1/groups/%s/summary", group))
}
