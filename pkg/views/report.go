package views

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/marmos91/dsomm/pkg/model"
)

// Report columns besides the activity name and the team progress.
const (
	ColumnLevel       = "level"
	ColumnDescription = "description"
	ColumnRisk        = "risk"
	ColumnMeasure     = "measure"
	ColumnTags        = "tags"
	ColumnDependsOn   = "dependsOn"
	ColumnKnowledge   = "knowledge"
	ColumnTime        = "time"
	ColumnResources   = "resources"
	ColumnUsefulness  = "usefulness"
	ColumnSAMM        = "samm2"
	ColumnISO17       = "iso27001_2017"
	ColumnISO22       = "iso27001_2022"
)

// ReportColumns lists every optional report column in display order.
var ReportColumns = []string{
	ColumnLevel, ColumnDescription, ColumnRisk, ColumnMeasure, ColumnTags, ColumnDependsOn,
	ColumnKnowledge, ColumnTime, ColumnResources, ColumnUsefulness,
	ColumnSAMM, ColumnISO17, ColumnISO22,
}

// ReportConfig selects what the report shows. Empty lists mean everything.
type ReportConfig struct {
	MaxLevel   int      `json:"maxLevel" yaml:"maxLevel"`
	Dimensions []string `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Tags       []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Teams      []string `json:"teams,omitempty" yaml:"teams,omitempty"`
	Columns    []string `json:"columns,omitempty" yaml:"columns,omitempty"`
	DateFormat string   `json:"dateFormat,omitempty" yaml:"dateFormat,omitempty"`
}

func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		Columns:    []string{ColumnLevel, ColumnSAMM, ColumnISO22},
		DateFormat: DefaultDateLayout,
	}
}

// Validate checks the config against the loaded data.
func (c *ReportConfig) Validate(data *model.DataStore) error {
	if c.MaxLevel < 0 {
		return fmt.Errorf("maxLevel must not be negative")
	}
	for _, col := range c.Columns {
		if !slices.Contains(ReportColumns, col) {
			return fmt.Errorf("unknown report column %q", col)
		}
	}
	dims := data.Activities.AllDimensionNames()
	for _, d := range c.Dimensions {
		if !slices.Contains(dims, d) {
			return fmt.Errorf("unknown dimension %q", d)
		}
	}
	for _, t := range c.Teams {
		if !data.Meta.HasTeam(t) {
			return fmt.Errorf("%w: %s", model.ErrTeamNotFound, t)
		}
	}
	return nil
}

// ReportCell is the progress of one team on one activity.
type ReportCell struct {
	Title string  `json:"title"`
	Date  string  `json:"date,omitempty"`
	Value float64 `json:"value"`
}

// ReportRow is one activity of the report.
type ReportRow struct {
	UUID   string                `json:"uuid"`
	Name   string                `json:"name"`
	Level  int                   `json:"level"`
	Fields map[string]string     `json:"fields,omitempty"`
	Teams  map[string]ReportCell `json:"teams"`
}

// ReportSection groups the rows of one dimension.
type ReportSection struct {
	Category  string      `json:"category"`
	Dimension string      `json:"dimension"`
	Progress  float64     `json:"progress"`
	Rows      []ReportRow `json:"rows"`
}

// Report is the printable progress report.
type Report struct {
	Config    ReportConfig    `json:"config"`
	Teams     []string        `json:"teams"`
	Columns   []string        `json:"columns"`
	Progress  float64         `json:"progress"`
	Sections  []ReportSection `json:"sections"`
	Generated string          `json:"generated"`
}

// BuildReport renders the report for cfg. Sections follow the dimension
// order of the activity files; rows within a section are ordered by level.
func BuildReport(data *model.DataStore, cfg ReportConfig, now time.Time) *Report {
	teams := cfg.Teams
	if len(teams) == 0 {
		teams = data.Meta.Teams
	}
	layout := cfg.DateFormat
	if layout == "" {
		layout = DefaultDateLayout
	}
	tags := make(map[string]bool, len(cfg.Tags))
	for _, t := range cfg.Tags {
		tags[t] = true
	}
	maxLevel := cfg.MaxLevel
	if maxLevel <= 0 {
		maxLevel = data.MaxLevel()
	}

	r := &Report{
		Config:    cfg,
		Teams:     append([]string{}, teams...),
		Columns:   append([]string{}, cfg.Columns...),
		Generated: DateStr(now, layout),
	}

	var total float64
	var cells int
	for _, dim := range data.Activities.AllDimensionNames() {
		if len(cfg.Dimensions) > 0 && !slices.Contains(cfg.Dimensions, dim) {
			continue
		}
		var sec ReportSection
		var secTotal float64
		for lvl := 1; lvl <= maxLevel; lvl++ {
			for _, a := range data.Activities.Activities(dim, lvl) {
				if len(tags) > 0 && !a.HasAnyTag(tags) {
					continue
				}
				sec.Category, sec.Dimension = a.Category, a.Dimension
				row := ReportRow{
					UUID:   a.UUID,
					Name:   a.Name,
					Level:  a.Level,
					Fields: reportFields(data, a, cfg.Columns),
					Teams:  make(map[string]ReportCell, len(teams)),
				}
				for _, team := range teams {
					cell := reportCell(data.Progress, a.UUID, team, layout)
					row.Teams[team] = cell
					secTotal += cell.Value
				}
				sec.Rows = append(sec.Rows, row)
			}
		}
		if len(sec.Rows) == 0 {
			continue
		}
		n := len(sec.Rows) * len(teams)
		if n > 0 {
			sec.Progress = secTotal / float64(n)
		}
		total += secTotal
		cells += n
		r.Sections = append(r.Sections, sec)
	}
	if cells > 0 {
		r.Progress = total / float64(cells)
	}
	return r
}

func reportCell(ps *model.ProgressStore, uuid, team, layout string) ReportCell {
	title := ps.TeamProgressTitle(uuid, team)
	cell := ReportCell{Title: title, Value: ps.TeamActivityProgressValue(uuid, team, false)}
	if d, ok := ps.TeamProgress(uuid, team, false)[title]; ok {
		cell.Date = DateStr(d, layout)
	}
	return cell
}

func reportFields(data *model.DataStore, a *model.Activity, columns []string) map[string]string {
	if len(columns) == 0 {
		return nil
	}
	levels := data.Levels()
	fields := make(map[string]string, len(columns))
	for _, col := range columns {
		var v string
		switch col {
		case ColumnLevel:
			if a.Level >= 1 && a.Level <= len(levels) {
				v = levels[a.Level-1]
			}
		case ColumnDescription:
			v = a.Description.String()
		case ColumnRisk:
			v = a.Risk.String()
		case ColumnMeasure:
			v = a.Measure.String()
		case ColumnTags:
			v = joinList(a.Tags)
		case ColumnDependsOn:
			v = joinList(a.DependsOn)
		case ColumnKnowledge:
			v = RatingLabel(data, "knowledgeLabels", a.DifficultyOfImplementation.Knowledge)
		case ColumnTime:
			v = RatingLabel(data, "labels", a.DifficultyOfImplementation.Time)
		case ColumnResources:
			v = RatingLabel(data, "labels", a.DifficultyOfImplementation.Resources)
		case ColumnUsefulness:
			v = RatingLabel(data, "labels", a.Usefulness)
		case ColumnSAMM:
			v = joinList(a.References.SAMM2)
		case ColumnISO17:
			v = joinList(a.References.ISO27001v17)
		case ColumnISO22:
			v = joinList(a.References.ISO27001v22)
		}
		fields[col] = v
	}
	return fields
}

func joinList(l model.StringList) string {
	return strings.Join(l, ", ")
}
