package tracker

import (
	"context"
	"fmt"
	"slices"

	"github.com/marmos91/dsomm/pkg/model"
	"github.com/marmos91/dsomm/pkg/views"
)

// MetaView describes the loaded data set for clients.
type MetaView struct {
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

func (s *Service) Meta(ctx context.Context) (*MetaView, error) {
	var out *MetaView
	err := s.read(ctx, func(data *model.DataStore) error {
		defs := make(map[string]model.ProgressDefinition, len(data.Meta.ProgressDefinition))
		for k, v := range data.Meta.ProgressDefinition {
			defs[k] = v
		}
		out = &MetaView{
			Lang:                         data.Meta.Lang,
			Levels:                       data.Levels(),
			MaxLevel:                     data.MaxLevel(),
			Categories:                   slices.Clone(data.Activities.AllCategoryNames()),
			Dimensions:                   slices.Clone(data.Activities.AllDimensionNames()),
			Teams:                        slices.Clone(data.Meta.Teams),
			TeamGroups:                   views.TeamGroups(data),
			ProgressTitles:               slices.Clone(data.Progress.Titles()),
			ProgressDefinition:           defs,
			AllowChangeTeamNameInBrowser: data.Meta.AllowChangeTeamNameInBrowser,
			ActivityMeta:                 data.Meta.ActivityMeta,
			Activities:                   len(data.Activities.AllActivities()),
		}
		return nil
	})
	return out, err
}

// ActivityQuery narrows an activity listing. Zero values select everything.
type ActivityQuery struct {
	Dimension string
	Level     int
	MaxLevel  int
}

// Activities lists activities in file order.
func (s *Service) Activities(ctx context.Context, q ActivityQuery) ([]*model.Activity, error) {
	out := []*model.Activity{}
	err := s.read(ctx, func(data *model.DataStore) error {
		for _, a := range data.Activities.AllActivitiesUpToLevel(q.MaxLevel) {
			if q.Dimension != "" && a.Dimension != q.Dimension {
				continue
			}
			if q.Level > 0 && a.Level != q.Level {
				continue
			}
			out = append(out, a)
		}
		return nil
	})
	return out, err
}

// Activity returns a single activity by uuid.
func (s *Service) Activity(ctx context.Context, uuid string) (*model.Activity, error) {
	var out *model.Activity
	err := s.read(ctx, func(data *model.DataStore) error {
		a, ok := data.Activities.ActivityByUUID(uuid)
		if !ok {
			return fmt.Errorf("%w: %s", model.ErrActivityNotFound, uuid)
		}
		out = a
		return nil
	})
	return out, err
}

// MatrixView is the matrix page after applying a chip selection.
type MatrixView struct {
	Levels           []views.LevelLabel `json:"levels"`
	Categories       []string           `json:"categories"`
	Columns          []string           `json:"columns"`
	TagFilters       views.Filters      `json:"tagFilters"`
	DimensionFilters views.Filters      `json:"dimensionFilters"`
	HasFilterValues  bool               `json:"hasFilterValues"`
	Rows             []views.MatrixRow  `json:"rows"`
}

// Matrix builds the matrix for sel. A nil selection uses the stored filters.
func (s *Service) Matrix(ctx context.Context, sel *views.MatrixSelection) (*MatrixView, error) {
	if sel == nil {
		stored, err := s.MatrixFilters(ctx)
		if err != nil {
			return nil, err
		}
		sel = &stored
	}

	var out *MatrixView
	err := s.read(ctx, func(data *model.DataStore) error {
		m := views.NewMatrix(data)
		m.Select(*sel)
		out = &MatrixView{
			Levels:           m.Levels,
			Categories:       m.Categories,
			Columns:          m.ColumnNames(),
			TagFilters:       m.TagFilters,
			DimensionFilters: m.DimensionFilters,
			HasFilterValues:  views.HasFilterValues(m.TagFilters) || views.HasFilterValues(m.DimensionFilters),
			Rows:             m.Visible(),
		}
		return nil
	})
	return out, err
}

// TeamSummary summarizes one team, or the teams of a group when team is empty.
func (s *Service) TeamSummary(ctx context.Context, team, group string) (*views.TeamSummary, error) {
	var out *views.TeamSummary
	err := s.read(ctx, func(data *model.DataStore) error {
		var name string
		var teams []string
		if team == "" {
			if g, ok := views.TeamGroups(data).Find(group); ok {
				name, teams = g.Name, g.Teams
			}
		}
		if name == "" {
			var err error
			name, teams, err = views.SelectTeams(data.Meta, team, group)
			if err != nil {
				if team != "" {
					return fmt.Errorf("%w: %s", err, team)
				}
				return fmt.Errorf("%w: %s", err, group)
			}
		}
		out = views.MakeTeamSummary(data, name, teams)
		return nil
	})
	return out, err
}

// MappingQuery selects and orders mapping rows.
type MappingQuery struct {
	Terms    []string
	Sort     views.SortMode
	MaxLevel int
}

// Mapping returns the activity to SAMM and ISO mapping. Without an explicit
// max level the stored preference applies.
func (s *Service) Mapping(ctx context.Context, q MappingQuery) ([]views.MappingRow, error) {
	maxLevel, err := s.effectiveMaxLevel(ctx, q.MaxLevel)
	if err != nil {
		return nil, err
	}
	var out []views.MappingRow
	err = s.read(ctx, func(data *model.DataStore) error {
		rows := views.FilterMapping(views.BuildMappingRows(data, maxLevel), q.Terms)
		views.SortMapping(rows, q.Sort)
		out = rows
		return nil
	})
	return out, err
}

// HeatmapQuery selects the visible teams. Team wins over Group, Group over
// Teams; nothing selected shows every team.
type HeatmapQuery struct {
	Team     string
	Group    string
	Teams    []string
	MaxLevel int
}

func (s *Service) Heatmap(ctx context.Context, q HeatmapQuery) (*views.Heatmap, error) {
	maxLevel, err := s.effectiveMaxLevel(ctx, q.MaxLevel)
	if err != nil {
		return nil, err
	}
	var out *views.Heatmap
	err = s.read(ctx, func(data *model.DataStore) error {
		var visible []string
		switch {
		case q.Team != "":
			if !data.Meta.HasTeam(q.Team) {
				return fmt.Errorf("%w: %s", model.ErrTeamNotFound, q.Team)
			}
			visible = []string{q.Team}
		case q.Group != "":
			teams, err := views.VisibleTeamsForGroup(data, q.Group)
			if err != nil {
				return fmt.Errorf("%w: %s", err, q.Group)
			}
			visible = teams
		default:
			for _, t := range q.Teams {
				if !data.Meta.HasTeam(t) {
					return fmt.Errorf("%w: %s", model.ErrTeamNotFound, t)
				}
			}
			visible = q.Teams
		}
		out = views.BuildHeatmap(data, maxLevel, visible)
		return nil
	})
	return out, err
}

// Report builds the progress report. A nil config uses the stored one.
func (s *Service) Report(ctx context.Context, cfg *views.ReportConfig) (*views.Report, error) {
	if cfg == nil {
		stored, err := s.ReportConfig(ctx)
		if err != nil {
			return nil, err
		}
		cfg = &stored
	}
	var out *views.Report
	err := s.read(ctx, func(data *model.DataStore) error {
		if err := cfg.Validate(data); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSettingValue, err)
		}
		out = views.BuildReport(data, *cfg, s.clock())
		return nil
	})
	return out, err
}

func (s *Service) effectiveMaxLevel(ctx context.Context, requested int) (int, error) {
	if requested > 0 {
		return requested, nil
	}
	prefs, err := s.Settings(ctx)
	if err != nil {
		return 0, err
	}
	return prefs.MaxLevel, nil
}
