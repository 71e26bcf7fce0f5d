package views

import (
	"slices"

	"github.com/marmos91/dsomm/pkg/model"
)

// DefaultAllTeamsGroupName is used when meta.yaml has no allTeamsGroupName string.
const DefaultAllTeamsGroupName = "All"

// Sector is one (dimension, level) cell of the circular heatmap.
type Sector struct {
	Index      int               `json:"index"`
	Dimension  string            `json:"dimension"`
	Level      int               `json:"level"`
	Activities []*model.Activity `json:"activities"`
}

// BuildSectors returns the sectors level by level, dimensions in first-seen
// order within a level. Sector i is drawn in ring i/len(dims).
func BuildSectors(store *model.ActivityStore, maxLevel int) []Sector {
	dims := store.AllDimensionNames()
	out := make([]Sector, 0, maxLevel*len(dims))
	for lvl := 1; lvl <= maxLevel; lvl++ {
		for _, dim := range dims {
			out = append(out, Sector{
				Index:      len(out),
				Dimension:  dim,
				Level:      lvl,
				Activities: store.Activities(dim, lvl),
			})
		}
	}
	return out
}

// SectorIndex locates the sector of an activity, or -1.
func SectorIndex(dims []string, a *model.Activity) int {
	for i, d := range dims {
		if d == a.Dimension {
			return i + len(dims)*(a.Level-1)
		}
	}
	return -1
}

// SectorProgress averages the progress of the sector activities over the
// visible teams. It returns false for sectors without activities or teams.
func SectorProgress(ps *model.ProgressStore, sector Sector, teams []string) (float64, bool) {
	if len(sector.Activities) == 0 || len(teams) == 0 {
		return 0, false
	}
	var sum float64
	for _, a := range sector.Activities {
		for _, t := range teams {
			sum += ps.TeamActivityProgressValue(a.UUID, t, false)
		}
	}
	return sum / float64(len(sector.Activities)*len(teams)), true
}

// HeatmapSector is a sector with its computed progress.
type HeatmapSector struct {
	Index      int     `json:"index"`
	Dimension  string  `json:"dimension"`
	Level      int     `json:"level"`
	Activities int     `json:"activities"`
	Progress   float64 `json:"progress"`
	Disabled   bool    `json:"disabled"`
}

// Heatmap is the circular heatmap for a team selection.
type Heatmap struct {
	MaxLevel       int             `json:"maxLevel"`
	Dimensions     []string        `json:"dimensions"`
	Levels         []string        `json:"levels"`
	VisibleTeams   []string        `json:"visibleTeams"`
	SelectedGroups []string        `json:"selectedGroups"`
	ProgressStates []string        `json:"progressStates"`
	Sectors        []HeatmapSector `json:"sectors"`

	raw []Sector
}

// BuildHeatmap computes every sector for the visible teams. An empty
// visible set means all teams. maxLevel <= 0 uses the highest activity level.
func BuildHeatmap(data *model.DataStore, maxLevel int, visible []string) *Heatmap {
	if maxLevel <= 0 {
		maxLevel = data.MaxLevel()
	}
	teams := visible
	if len(teams) == 0 {
		teams = data.Meta.Teams
	}

	h := &Heatmap{
		MaxLevel:       maxLevel,
		Dimensions:     data.Activities.AllDimensionNames(),
		Levels:         data.Levels(),
		VisibleTeams:   append([]string{}, teams...),
		SelectedGroups: MatchingGroups(TeamGroups(data), visible),
		ProgressStates: data.Progress.Titles(),
		raw:            BuildSectors(data.Activities, maxLevel),
	}
	h.Sectors = make([]HeatmapSector, len(h.raw))
	for i, s := range h.raw {
		p, ok := SectorProgress(data.Progress, s, teams)
		h.Sectors[i] = HeatmapSector{
			Index:      s.Index,
			Dimension:  s.Dimension,
			Level:      s.Level,
			Activities: len(s.Activities),
			Progress:   p,
			Disabled:   !ok,
		}
	}
	return h
}

// Sector returns the activities of sector i.
func (h *Heatmap) Sector(i int) (Sector, bool) {
	if i < 0 || i >= len(h.raw) {
		return Sector{}, false
	}
	return h.raw[i], true
}

// AllTeamsGroupName is the localized name of the group of every team.
func AllTeamsGroupName(data *model.DataStore) string {
	if name := data.Meta.String("allTeamsGroupName", -1); name != "" {
		return name
	}
	return DefaultAllTeamsGroupName
}

// TeamGroups returns the team groups headed by the group of all teams.
func TeamGroups(data *model.DataStore) model.Groups {
	groups := make(model.Groups, 0, len(data.Meta.TeamGroups)+1)
	groups = append(groups, model.Group{Name: AllTeamsGroupName(data), Teams: append([]string{}, data.Meta.Teams...)})
	return append(groups, data.Meta.TeamGroups.Clone()...)
}

// VisibleTeamsForGroup returns the teams a group chip selects.
func VisibleTeamsForGroup(data *model.DataStore, group string) ([]string, error) {
	g, ok := TeamGroups(data).Find(group)
	if !ok {
		return nil, model.ErrGroupNotFound
	}
	return g.Teams, nil
}

// MatchingGroups lists the groups whose members equal the selected teams,
// ignoring order. No selection matches the group of all teams only.
func MatchingGroups(groups model.Groups, selected []string) []string {
	if len(selected) == 0 && len(groups) > 0 {
		return []string{groups[0].Name}
	}
	want := sortedCopy(selected)
	var out []string
	for _, g := range groups {
		if slices.Equal(sortedCopy(g.Teams), want) {
			out = append(out, g.Name)
		}
	}
	return out
}

func sortedCopy(s []string) []string {
	out := slices.Clone(s)
	slices.Sort(out)
	return out
}
