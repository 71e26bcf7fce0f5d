package apiclient

import (
	"github.com/marmos91/dsomm/pkg/model"
)

// SetProgressRequest moves a team to a progress state.
type SetProgressRequest struct {
	Title string `json:"title"`
}

// ListProgress returns the progress of every team on every activity.
func (c *Client) ListProgress() (model.Progress, error) {
	var p model.Progress
	if err := c.get("/api/v1/progress", &p); err != nil {
		return nil, err
	}
	return p, nil
}

// ExportProgress returns the progress as a team progress YAML file.
func (c *Client) ExportProgress() (string, error) {
	b, err := c.getRaw("/api/v1/progress/export", "application/yaml")
	return string(b), err
}

// SetProgress moves team to title on the activity and returns the team's
// resulting progress on it.
func (c *Client) SetProgress(activityUUID, team, title string) (model.TeamProgress, error) {
	var tp model.TeamProgress
	path := resourcePath("/api/v1/progress/%s/%s", activityUUID, team)
	if err := c.put(path, SetProgressRequest{Title: title}, &tp); err != nil {
		return nil, err
	}
	return tp, nil
}

// ResetProgress forgets every progress edit stored on the server.
func (c *Client) ResetProgress() error {
	return deleteResource(c, "/api/v1/progress")
}
