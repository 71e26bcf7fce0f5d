package apiclient

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/marmos91/dsomm/pkg/views"
)

// MappingQuery filters and orders the mapping rows.
type MappingQuery struct {
	Terms    []string
	Sort     views.SortMode
	MaxLevel int
}

func (q MappingQuery) values() url.Values {
	v := url.Values{}
	if len(q.Terms) > 0 {
		v.Set("q", strings.Join(q.Terms, " "))
	}
	if q.Sort != "" {
		v.Set("sort", string(q.Sort))
	}
	if q.MaxLevel > 0 {
		v.Set("max_level", strconv.Itoa(q.MaxLevel))
	}
	return v
}

// Mapping returns the activity to SAMM and ISO 27001 mapping.
func (c *Client) Mapping(q MappingQuery) ([]views.MappingRow, error) {
	return listResources[views.MappingRow](c, withQuery("/api/v1/mapping", q.values()))
}

// MappingCSV returns the mapping as a CSV document.
func (c *Client) MappingCSV(q MappingQuery) ([]byte, error) {
	v := q.values()
	v.Set("format", "csv")
	return c.getRaw(withQuery("/api/v1/mapping", v), "text/csv")
}

// HeatmapQuery selects the teams of the heatmap. Team wins over Group,
// Group over Teams; nothing set means all teams.
type HeatmapQuery struct {
	Team     string
	Group    string
	Teams    []string
	MaxLevel int
}

func (q HeatmapQuery) values() url.Values {
	v := url.Values{}
	if q.Team != "" {
		v.Set("team", q.Team)
	}
	if q.Group != "" {
		v.Set("group", q.Group)
	}
	for _, t := range q.Teams {
		v.Add("teams", t)
	}
	if q.MaxLevel > 0 {
		v.Set("max_level", strconv.Itoa(q.MaxLevel))
	}
	return v
}

// Heatmap returns the heatmap sectors for q.
func (c *Client) Heatmap(q HeatmapQuery) (*views.Heatmap, error) {
	return getResource[views.Heatmap](c, withQuery("/api/v1/heatmap", q.values()))
}

// HeatmapSVG renders the heatmap on the server. theme is "light" or "dark".
func (c *Client) HeatmapSVG(q HeatmapQuery, theme string) ([]byte, error) {
	v := q.values()
	v.Set("format", "svg")
	if theme != "" {
		v.Set("theme", theme)
	}
	return c.getRaw(withQuery("/api/v1/heatmap", v), "image/svg+xml")
}

// ReportQuery overrides fields of the stored report configuration for one
// request. Zero values keep the stored value.
type ReportQuery struct {
	MaxLevel   int
	Dimensions []string
	Tags       []string
	Teams      []string
	Columns    []string
}

// Report returns the progress report.
func (c *Client) Report(q ReportQuery) (*views.Report, error) {
	v := url.Values{}
	if q.MaxLevel > 0 {
		v.Set("max_level", strconv.Itoa(q.MaxLevel))
	}
	for name, list := range map[string][]string{
		"dimension": q.Dimensions,
		"tag":       q.Tags,
		"team":      q.Teams,
		"column":    q.Columns,
	} {
		for _, item := range list {
			v.Add(name, item)
		}
	}
	return getResource[views.Report](c, withQuery("/api/v1/report", v))
}

// ReportConfig returns the stored report configuration.
func (c *Client) ReportConfig() (*views.ReportConfig, error) {
	return getResource[views.ReportConfig](c, "/api/v1/report/config")
}

// SetReportConfig stores the report configuration.
func (c *Client) SetReportConfig(cfg views.ReportConfig) (*views.ReportConfig, error) {
	return updateResource[views.ReportConfig](c, "/api/v1/report/config", cfg)
}
