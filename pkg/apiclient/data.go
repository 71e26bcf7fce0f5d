package apiclient

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/marmos91/dsomm/pkg/model"
)

// Meta describes the loaded data set.
type Meta struct {
	Lang                         string                              `json:"lang"`
	Levels                       []string                            `json:"levels"`
	MaxLevel                     int                                 `json:"maxLevel"`
	Categories                   []string                            `json:"categories"`
	Dimensions                   []string                            `json:"dimensions"`
	Teams                        []string                            `json:"teams"`
	TeamGroups                   model.Groups                        `json:"teamGroups"`
	ProgressTitles               []string                            `json:"progressTitles"`
	ProgressDefinition           map[string]model.ProgressDefinition `json:"progressDefinition"`
	AllowChangeTeamNameInBrowser bool                                `json:"allowChangeTeamNameInBrowser"`
	ActivityMeta                 *model.ActivityMeta                 `json:"activityMeta,omitempty"`
	Activities                   int                                 `json:"activities"`
}

// ActivityQuery filters ListActivities. Zero values do not filter.
type ActivityQuery struct {
	Dimension string
	Level     int
	MaxLevel  int
}

// Activity is an activity with its markdown texts optionally rendered to HTML.
type Activity struct {
	model.Activity
	HTML map[string]string `json:"html,omitempty"`
}

// Meta returns the description of the loaded data set.
func (c *Client) Meta() (*Meta, error) {
	return getResource[Meta](c, "/api/v1/meta")
}

// ListActivities returns the activities matching q.
func (c *Client) ListActivities(q ActivityQuery) ([]model.Activity, error) {
	v := url.Values{}
	if q.Dimension != "" {
		v.Set("dimension", q.Dimension)
	}
	if q.Level > 0 {
		v.Set("level", strconv.Itoa(q.Level))
	}
	if q.MaxLevel > 0 {
		v.Set("max_level", strconv.Itoa(q.MaxLevel))
	}
	return listResources[model.Activity](c, withQuery("/api/v1/activities", v))
}

// GetActivity returns one activity by uuid.
func (c *Client) GetActivity(uuid string, html bool) (*Activity, error) {
	v := url.Values{}
	if html {
		v.Set("html", "true")
	}
	return getResource[Activity](c, withQuery(resourcePath("/api/v1/activities/%s", uuid), v))
}

// Reload makes the server re-read its data files.
func (c *Client) Reload() (*Meta, error) {
	var meta Meta
	if err := c.do(http.MethodPost, "/api/v1/reload", nil, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
