package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DateLayout is the layout used for progress dates in YAML files.
const DateLayout = "2006-01-02"

// TeamProgress maps a progress title to the date the team reached it.
type TeamProgress map[string]time.Time

// Progress maps activity uuid to team name to the team's progress.
type Progress map[string]map[string]TeamProgress

// TeamProgressFile is the document stored in the team progress file.
type TeamProgressFile struct {
	Progress Progress `yaml:"progress"`
}

// ProgressDefinition describes one progress state. Score is the share of
// completion in the range 0 to 1.
type ProgressDefinition struct {
	Score      float64 `yaml:"-" mapstructure:"-" json:"score"`
	RawScore   any     `yaml:"score" mapstructure:"score" json:"-"`
	Definition string  `yaml:"definition,omitempty" mapstructure:"definition" json:"definition,omitempty"`
}

// ProgressRecord is one reached progress state, the unit persisted by state stores.
type ProgressRecord struct {
	ActivityUUID string
	Team         string
	Title        string
	Date         time.Time
}

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000Z",
}

// ParseDate parses a progress date and truncates it to a UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// DateOnly drops the time of day, keeping the UTC calendar date.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// UnmarshalYAML reads "title: date" pairs. Titles without a date are skipped.
func (tp *TeamProgress) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected title to date mapping", n.Line)
	}
	out := make(TeamProgress, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		title, val := n.Content[i].Value, n.Content[i+1]
		if val.Tag == "!!null" || val.Value == "" {
			continue
		}
		d, err := ParseDate(val.Value)
		if err != nil {
			return fmt.Errorf("line %d: %s: %w", val.Line, title, err)
		}
		out[title] = d
	}
	*tp = out
	return nil
}

// ParseScore converts a score written as a fraction ("0.2", 0.2) or as a
// percentage ("20%") to a fraction.
func ParseScore(v any) (float64, error) {
	switch s := v.(type) {
	case int:
		return float64(s), nil
	case float64:
		return s, nil
	case string:
		str := strings.TrimSpace(s)
		pct := strings.HasSuffix(str, "%")
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(str, "%")), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid score %q", s)
		}
		if pct {
			f /= 100
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("missing score")
	}
	return 0, fmt.Errorf("invalid score %v", v)
}

// Clone returns a deep copy.
func (p Progress) Clone() Progress {
	out := make(Progress, len(p))
	for uuid, teams := range p {
		t := make(map[string]TeamProgress, len(teams))
		for team, tp := range teams {
			t[team] = tp.Clone()
		}
		out[uuid] = t
	}
	return out
}

func (tp TeamProgress) Clone() TeamProgress {
	if tp == nil {
		return nil
	}
	out := make(TeamProgress, len(tp))
	for k, v := range tp {
		out[k] = v
	}
	return out
}
