package views

import (
	"time"

	"github.com/marmos91/dsomm/pkg/model"
)

// TeamSummaryActivityProgress is one row of the teams page table.
type TeamSummaryActivityProgress struct {
	Team         string             `json:"team,omitempty"`
	ActivityUUID string             `json:"activityUuid"`
	Activity     *model.Activity    `json:"activity,omitempty"`
	Progress     model.TeamProgress `json:"progress"`
	LastUpdated  time.Time          `json:"lastUpdated"`
}

// TeamSummary holds the KPIs of a team or a group of teams.
type TeamSummary struct {
	Name                            string                        `json:"name"`
	Teams                           []string                      `json:"teams"`
	LastUpdated                     *time.Time                    `json:"lastUpdated"`
	ActivitiesCompleted             []TeamSummaryActivityProgress `json:"activitiesCompleted"`
	ActivitiesInProgress            []TeamSummaryActivityProgress `json:"activitiesInProgress"`
	UniqueActivitiesCompletedCount  int                           `json:"uniqueActivitiesCompletedCount"`
	UniqueActivitiesInProgressCount int                           `json:"uniqueActivitiesInProgressCount"`
	ColumnNames                     []string                      `json:"columnNames"`
}

// MakeTeamSummary summarizes the progress of teams under name.
func MakeTeamSummary(data *model.DataStore, name string, teams []string) *TeamSummary {
	ps := data.Progress
	started := ps.ActivitiesStartedForTeams(teams)

	s := &TeamSummary{
		Name:                 name,
		Teams:                append([]string{}, teams...),
		ActivitiesCompleted:  includeActivities(data, ps.ActivitiesCompletedForTeams(teams)),
		ActivitiesInProgress: includeActivities(data, ps.ActivitiesInProgressForTeams(teams)),
		ColumnNames:          TeamColumnNames(teams, ps.InProgressTitles()),
	}
	s.UniqueActivitiesCompletedCount = uniqueActivities(s.ActivitiesCompleted)
	s.UniqueActivitiesInProgressCount = uniqueActivities(s.ActivitiesInProgress)

	for _, p := range started {
		last := lastUpdated(p.Progress)
		if s.LastUpdated == nil || last.After(*s.LastUpdated) {
			s.LastUpdated = &last
		}
	}
	return s
}

// TeamColumnNames lists the table columns. The Team column is only shown
// when several teams are summarized.
func TeamColumnNames(teams, progressTitles []string) []string {
	var cols []string
	if len(teams) > 1 {
		cols = append(cols, "Team")
	}
	cols = append(cols, "SubDimension", "Activity")
	return append(cols, progressTitles...)
}

// SelectTeams resolves a team or group selection to its title and teams. A
// team takes precedence over a group.
func SelectTeams(meta *model.MetaStore, team, group string) (string, []string, error) {
	if team != "" {
		if !meta.HasTeam(team) {
			return "", nil, model.ErrTeamNotFound
		}
		return team, []string{team}, nil
	}
	g, ok := meta.TeamGroups.Find(group)
	if !ok {
		return "", nil, model.ErrGroupNotFound
	}
	return g.Name, g.Teams, nil
}

func includeActivities(data *model.DataStore, in []model.TeamActivityProgress) []TeamSummaryActivityProgress {
	out := make([]TeamSummaryActivityProgress, 0, len(in))
	for _, p := range in {
		a, _ := data.Activities.ActivityByUUID(p.ActivityUUID)
		out = append(out, TeamSummaryActivityProgress{
			Team:         p.Team,
			ActivityUUID: p.ActivityUUID,
			Activity:     a,
			Progress:     p.Progress.Clone(),
			LastUpdated:  lastUpdated(p.Progress),
		})
	}
	return out
}

func lastUpdated(tp model.TeamProgress) time.Time {
	var last time.Time
	for _, d := range tp {
		if d.After(last) {
			last = d
		}
	}
	return last
}

func uniqueActivities(rows []TeamSummaryActivityProgress) int {
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		seen[r.ActivityUUID] = true
	}
	return len(seen)
}
