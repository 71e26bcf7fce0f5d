package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TeamActivityProgress is the progress of one team on one activity. Team is
// empty for entries that summarize several teams.
type TeamActivityProgress struct {
	Team         string       `json:"team"`
	ActivityUUID string       `json:"activityUuid"`
	Progress     TeamProgress `json:"progress"`
}

// ProgressStore tracks the dates each team reached each progress state of each
// activity. Dates removed by moving a team backwards are kept in a backup so
// they can be restored when the team moves forward again.
type ProgressStore struct {
	activityMap map[string]string
	progress    Progress
	backup      Progress
	definitions map[string]ProgressDefinition
	titles      []string // ascending by score
	titlesDesc  []string

	now func() time.Time
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{
		activityMap: make(map[string]string),
		progress:    make(Progress),
		backup:      make(Progress),
		now:         time.Now,
	}
}

// Init sets the progress definition. Titles are ordered from not started to
// completed by score.
func (s *ProgressStore) Init(defs map[string]ProgressDefinition) {
	s.definitions = make(map[string]ProgressDefinition, len(defs))
	titles := make([]string, 0, len(defs))
	for title, def := range defs {
		s.definitions[title] = def
		titles = append(titles, title)
	}
	sort.SliceStable(titles, func(i, j int) bool {
		si, sj := defs[titles[i]].Score, defs[titles[j]].Score
		if si != sj {
			return si < sj
		}
		return titles[i] < titles[j]
	})

	s.titles = titles
	s.titlesDesc = make([]string, len(titles))
	for i, t := range titles {
		s.titlesDesc[len(titles)-1-i] = t
	}
}

// SetClock replaces the time source used for new progress dates.
func (s *ProgressStore) SetClock(now func() time.Time) { s.now = now }

// SetActivityMap sets the uuid to name map used for comments in exports.
func (s *ProgressStore) SetActivityMap(m map[string]string) { s.activityMap = m }

// Data returns the live progress map.
func (s *ProgressStore) Data() Progress { return s.progress }

// Titles returns the progress titles from not started to completed.
func (s *ProgressStore) Titles() []string { return s.titles }

// Definition returns the definition of a progress title.
func (s *ProgressStore) Definition(title string) (ProgressDefinition, bool) {
	d, ok := s.definitions[title]
	return d, ok
}

// AddProgressData merges progress into the store. When both sides have a
// date for the same title, the earlier date wins.
func (s *ProgressStore) AddProgressData(in Progress) {
	for uuid, teams := range in {
		org, ok := s.progress[uuid]
		if !ok || len(org) == 0 {
			org = make(map[string]TeamProgress, len(teams))
			s.progress[uuid] = org
		}
		for team, tp := range teams {
			existing := org[team]
			if len(existing) == 0 {
				org[team] = tp.Clone()
				continue
			}
			for title, date := range tp {
				if isOutdated(existing[title], date) {
					existing[title] = date
				}
			}
		}
	}
}

func isOutdated(orgDate, inDate time.Time) bool {
	if inDate.IsZero() {
		return false
	}
	if orgDate.IsZero() {
		return true
	}
	return inDate.Before(orgDate)
}

// RenameTeam moves a team's progress, including backed up dates, to a new name.
func (s *ProgressStore) RenameTeam(oldName, newName string) {
	if oldName == newName {
		return
	}
	for _, store := range []Progress{s.progress, s.backup} {
		for _, teams := range store {
			if tp, ok := teams[oldName]; ok {
				teams[newName] = tp
				delete(teams, oldName)
			}
		}
	}
}

// RenameProgressTitle renames a progress state in the data and the title order.
func (s *ProgressStore) RenameProgressTitle(oldTitle, newTitle string) {
	if oldTitle == newTitle {
		return
	}
	for _, store := range []Progress{s.progress, s.backup} {
		for _, teams := range store {
			for _, tp := range teams {
				if d, ok := tp[oldTitle]; ok {
					tp[newTitle] = d
					delete(tp, oldTitle)
				}
			}
		}
	}
	for _, list := range [][]string{s.titles, s.titlesDesc} {
		for i, t := range list {
			if t == oldTitle {
				list[i] = newTitle
			}
		}
	}
	if def, ok := s.definitions[oldTitle]; ok {
		s.definitions[newTitle] = def
		delete(s.definitions, oldTitle)
	}
}

// TeamProgress returns the dates of a team on an activity, or the backed up
// dates when backup is set.
func (s *ProgressStore) TeamProgress(uuid, team string, backup bool) TeamProgress {
	src := s.progress
	if backup {
		src = s.backup
	}
	return src[uuid][team]
}

// TeamProgressTitle is the highest progress title the team reached, or the
// first title when it has not started.
func (s *ProgressStore) TeamProgressTitle(uuid, team string) string {
	return s.TeamActivityTitle(uuid, team, false)
}

// TeamActivityTitle is TeamProgressTitle reading from either the live or
// the backup dates.
func (s *ProgressStore) TeamActivityTitle(uuid, team string, backup bool) string {
	if len(s.titles) == 0 {
		return ""
	}
	tp := s.TeamProgress(uuid, team, backup)
	for _, title := range s.titlesDesc {
		if _, ok := tp[title]; ok {
			return title
		}
	}
	return s.titles[0]
}

// TeamActivityProgressValue is the score of the highest title the team reached.
func (s *ProgressStore) TeamActivityProgressValue(uuid, team string, backup bool) float64 {
	return s.progressValue(s.TeamProgress(uuid, team, backup))
}

func (s *ProgressStore) progressValue(tp TeamProgress) float64 {
	if len(tp) == 0 {
		return 0
	}
	for _, title := range s.titlesDesc {
		if _, ok := tp[title]; ok {
			return s.definitions[title].Score
		}
	}
	return 0
}

// InProgressTitles returns the titles between not started and completed.
func (s *ProgressStore) InProgressTitles() []string {
	if len(s.titles) < 2 {
		return nil
	}
	return s.titles[1 : len(s.titles)-1]
}

// CompletedProgressTitle is the title with the highest score.
func (s *ProgressStore) CompletedProgressTitle() string {
	if len(s.titles) == 0 {
		return ""
	}
	return s.titles[len(s.titles)-1]
}

func (s *ProgressStore) startedTitle() string {
	if len(s.titles) < 2 {
		return ""
	}
	return s.titles[1]
}

func (s *ProgressStore) sortedUUIDs() []string {
	uuids := make([]string, 0, len(s.progress))
	for uuid := range s.progress {
		uuids = append(uuids, uuid)
	}
	sort.Strings(uuids)
	return uuids
}

func (s *ProgressStore) reached(uuid, team, title string) bool {
	if title == "" {
		return false
	}
	_, ok := s.progress[uuid][team][title]
	return ok
}

// ActivitiesCompletedForTeams returns the activities that every one of teams
// completed. Entries carry an empty team name.
func (s *ProgressStore) ActivitiesCompletedForTeams(teams []string) []TeamActivityProgress {
	completed := s.CompletedProgressTitle()
	var out []TeamActivityProgress
	if len(teams) == 0 {
		return out
	}
	for _, uuid := range s.sortedUUIDs() {
		all := true
		for _, team := range teams {
			if !s.reached(uuid, team, completed) {
				all = false
				break
			}
		}
		if all {
			out = append(out, TeamActivityProgress{
				ActivityUUID: uuid,
				Progress:     s.progress[uuid][teams[len(teams)-1]],
			})
		}
	}
	return out
}

// ActivitiesStartedForTeams returns one entry per team and activity the team
// started.
func (s *ProgressStore) ActivitiesStartedForTeams(teams []string) []TeamActivityProgress {
	started := s.startedTitle()
	var out []TeamActivityProgress
	for _, uuid := range s.sortedUUIDs() {
		for _, team := range teams {
			if s.reached(uuid, team, started) {
				out = append(out, TeamActivityProgress{Team: team, ActivityUUID: uuid, Progress: s.progress[uuid][team]})
			}
		}
	}
	return out
}

// ActivitiesInProgressForTeams returns one entry per team and activity the
// team started but did not complete.
func (s *ProgressStore) ActivitiesInProgressForTeams(teams []string) []TeamActivityProgress {
	started, completed := s.startedTitle(), s.CompletedProgressTitle()
	var out []TeamActivityProgress
	for _, uuid := range s.sortedUUIDs() {
		for _, team := range teams {
			if s.reached(uuid, team, started) && !s.reached(uuid, team, completed) {
				out = append(out, TeamActivityProgress{Team: team, ActivityUUID: uuid, Progress: s.progress[uuid][team]})
			}
		}
	}
	return out
}

func (s *ProgressStore) titleIndex(title string) int {
	for i, t := range s.titles {
		if t == title {
			return i
		}
	}
	return -1
}

// Today is the current UTC calendar date.
func (s *ProgressStore) Today() time.Time {
	return DateOnly(s.now())
}

// SetTeamActivityProgressState moves a team to a new progress state.
//
// Moving backwards removes the dates of the states above the new one and keeps
// them as backup. Moving forwards restores backed up dates, and fills states
// without one with the date of the next higher state, starting from today.
func (s *ProgressStore) SetTeamActivityProgressState(uuid, team, title string) error {
	if len(s.titles) == 0 {
		return ErrProgressNotReady
	}
	newIndex := s.titleIndex(title)
	if newIndex < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownProgressTitle, title)
	}

	if s.progress[uuid] == nil {
		s.progress[uuid] = make(map[string]TeamProgress)
	}
	if s.progress[uuid][team] == nil {
		s.progress[uuid][team] = make(TeamProgress)
	}

	orgIndex := s.titleIndex(s.TeamProgressTitle(uuid, team))
	switch {
	case newIndex < orgIndex:
		s.clearProgress(uuid, team, newIndex+1, orgIndex)
	case newIndex > orgIndex:
		s.setProgress(uuid, team, orgIndex+1, newIndex)
	}
	return nil
}

func (s *ProgressStore) clearProgress(uuid, team string, start, end int) {
	current := s.progress[uuid][team]
	if start > 0 {
		if _, ok := current[s.titles[start-1]]; !ok {
			current[s.titles[start-1]] = s.Today()
		}
	}

	if s.backup[uuid] == nil {
		s.backup[uuid] = make(map[string]TeamProgress)
	}
	if s.backup[uuid][team] == nil {
		s.backup[uuid][team] = make(TeamProgress)
	}
	saved := s.backup[uuid][team]

	for i := start; i <= end; i++ {
		title := s.titles[i]
		if d, ok := current[title]; ok {
			saved[title] = d
		}
		delete(current, title)
	}
}

func (s *ProgressStore) setProgress(uuid, team string, start, end int) {
	current := s.progress[uuid][team]
	saved := s.backup[uuid][team]

	prev := s.Today()
	for i := end; i >= start; i-- {
		title := s.titles[i]
		if d, ok := saved[title]; ok {
			prev = d
			delete(saved, title)
		}
		current[title] = prev
	}
}

// Records flattens the progress into records, leaving out the not-started
// state which carries no information.
func (s *ProgressStore) Records() []ProgressRecord {
	var first string
	if len(s.titles) > 0 {
		first = s.titles[0]
	}
	var out []ProgressRecord
	for _, uuid := range s.sortedUUIDs() {
		teams := s.progress[uuid]
		for _, team := range sortedKeys(teams) {
			for _, title := range s.orderedTitles(teams[team]) {
				if title == first {
					continue
				}
				out = append(out, ProgressRecord{ActivityUUID: uuid, Team: team, Title: title, Date: teams[team][title]})
			}
		}
	}
	return out
}

// ProgressFromRecords groups records back into a Progress map.
func ProgressFromRecords(records []ProgressRecord) Progress {
	p := make(Progress)
	for _, r := range records {
		if p[r.ActivityUUID] == nil {
			p[r.ActivityUUID] = make(map[string]TeamProgress)
		}
		if p[r.ActivityUUID][r.Team] == nil {
			p[r.ActivityUUID][r.Team] = make(TeamProgress)
		}
		p[r.ActivityUUID][r.Team][r.Title] = DateOnly(r.Date)
	}
	return p
}

// orderedTitles lists the titles in tp in progress order, followed by any
// unknown titles sorted by name.
func (s *ProgressStore) orderedTitles(tp TeamProgress) []string {
	out := make([]string, 0, len(tp))
	known := make(map[string]bool, len(s.titles))
	for _, t := range s.titles {
		known[t] = true
		if _, ok := tp[t]; ok {
			out = append(out, t)
		}
	}
	var unknown []string
	for t := range tp {
		if !known[t] {
			unknown = append(unknown, t)
		}
	}
	sort.Strings(unknown)
	return append(out, unknown...)
}

// AsYAML renders the progress in the team progress file format, with the
// activity name as a comment after each uuid. Teams and activities without
// any reached state are left out.
func (s *ProgressStore) AsYAML() string {
	return s.toYAML(s.progress)
}

func (s *ProgressStore) toYAML(progress Progress) string {
	const tab = "  "
	var first string
	if len(s.titles) > 0 {
		first = s.titles[0]
	}

	var b strings.Builder
	b.WriteString("progress:\n")

	uuids := sortedKeys(progress)
	for _, uuid := range uuids {
		var activity strings.Builder
		for _, team := range sortedKeys(progress[uuid]) {
			tp := progress[uuid][team]
			var teamBlock strings.Builder
			for _, title := range s.orderedTitles(tp) {
				if title == first {
					continue
				}
				fmt.Fprintf(&teamBlock, "%s%s%s%s: %s\n", tab, tab, tab, quoteYAML(title), tp[title].UTC().Format(DateLayout))
			}
			if teamBlock.Len() > 0 {
				fmt.Fprintf(&activity, "%s%s%s:\n", tab, tab, quoteYAML(team))
				activity.WriteString(teamBlock.String())
			}
		}
		if activity.Len() == 0 {
			continue
		}
		comment := ""
		if name := s.activityMap[uuid]; name != "" {
			comment = "  # " + name
		}
		fmt.Fprintf(&b, "%s%s:%s\n", tab, uuid, comment)
		b.WriteString(activity.String())
	}
	return b.String()
}

func quoteYAML(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
