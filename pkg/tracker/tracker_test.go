package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/dsomm/pkg/model"
	"github.com/marmos91/dsomm/pkg/source"
	"github.com/marmos91/dsomm/pkg/state"
	"github.com/marmos91/dsomm/pkg/views"
)

const (
	uuidBuild   = "11111111-0000-0000-0000-000000000001"
	uuidPinning = "11111111-0000-0000-0000-000000000002"
	uuidSCA     = "22222222-0000-0000-0000-000000000001"
)

const testMetaFmt = `
strings:
  en:
    maturity_levels: [Basic, Intermediate]
    allTeamsGroupName: All
progressDefinition:
  Not implemented:
    score: 0%%
  Assessed:
    score: "20%%"
  Implemented:
    score: 1
teams: [Team A, Team B, Team C]
teamGroups:
  Backend: [Team A, Team X]
  Frontend: [Team C]
allowChangeTeamNameInBrowser: %t
activityFiles:
  - activities.yaml
teamProgressFile: team-progress.yaml
`

const testActivities = `
Build and Deployment:
  Build:
    Building and testing of artifacts in virtual environments:
      uuid: 11111111-0000-0000-0000-000000000001
      level: 1
      tags: [ci]
    Pinning of artifacts:
      uuid: 11111111-0000-0000-0000-000000000002
      level: 2
Test and Verification:
  Static depth for applications:
    Software composition analysis:
      uuid: 22222222-0000-0000-0000-000000000001
      level: 1
      description: Use **SCA**
`

const testProgress = `
progress:
  11111111-0000-0000-0000-000000000001:
    Team A:
      Assessed: 2024-01-10
      Implemented: 2024-02-10
`

type fixture struct {
	src   source.Source
	store state.Store
	now   func() time.Time
}

func newFixture(t *testing.T, allowRename bool) *fixture {
	t.Helper()
	fsys := fstest.MapFS{
		"meta.yaml":          {Data: []byte(fmt.Sprintf(testMetaFmt, allowRename))},
		"activities.yaml":    {Data: []byte(testActivities)},
		"team-progress.yaml": {Data: []byte(testProgress)},
	}
	store, err := state.New(&state.Config{Type: state.DatabaseTypeSQLite, SQLite: state.SQLiteConfig{Path: ":memory:"}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return &fixture{
		src:   source.NewFS(fsys),
		store: store,
		now:   func() time.Time { return time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC) },
	}
}

// service returns a fresh service over the fixture's files and store, the
// way a restarted process would see them.
func (f *fixture) service() *Service {
	return New(f.src, f.store, WithClock(f.now))
}

func TestLoadAndMeta(t *testing.T) {
	ctx := context.Background()
	svc := newFixture(t, false).service()

	assert.False(t, svc.Loaded())
	meta, err := svc.Meta(ctx)
	require.NoError(t, err)
	assert.True(t, svc.Loaded())

	assert.Equal(t, []string{"Basic", "Intermediate"}, meta.Levels)
	assert.Equal(t, 2, meta.MaxLevel)
	assert.Equal(t, []string{"Team A", "Team B", "Team C"}, meta.Teams)
	assert.Equal(t, []string{"All", "Backend", "Frontend"}, meta.TeamGroups.Names())
	assert.Equal(t, []string{"Not implemented", "Assessed", "Implemented"}, meta.ProgressTitles)
	assert.Equal(t, 3, meta.Activities)
}

func TestActivities(t *testing.T) {
	ctx := context.Background()
	svc := newFixture(t, false).service()

	all, err := svc.Activities(ctx, ActivityQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	build, err := svc.Activities(ctx, ActivityQuery{Dimension: "Build", MaxLevel: 1})
	require.NoError(t, err)
	require.Len(t, build, 1)
	assert.Equal(t, uuidBuild, build[0].UUID)

	level2, err := svc.Activities(ctx, ActivityQuery{Level: 2})
	require.NoError(t, err)
	require.Len(t, level2, 1)
	assert.Equal(t, uuidPinning, level2[0].UUID)

	a, err := svc.Activity(ctx, uuidSCA)
	require.NoError(t, err)
	assert.Equal(t, "Software composition analysis", a.Name)

	_, err = svc.Activity(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrActivityNotFound)
}

func TestSetProgressPersists(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	svc := f.service()

	require.NoError(t, svc.SetProgress(ctx, uuidBuild, "Team B", "Implemented"))

	progress, err := svc.Progress(ctx)
	require.NoError(t, err)
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, model.TeamProgress{"Assessed": day, "Implemented": day}, progress[uuidBuild]["Team B"])

	records, err := f.store.LoadProgress(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, "Team B", r.Team)
	}

	restarted := f.service()
	data, err := restarted.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Implemented", data.Progress.TeamProgressTitle(uuidBuild, "Team B"))
	assert.Equal(t, "Implemented", data.Progress.TeamProgressTitle(uuidBuild, "Team A"))
}

func TestSetProgressRegressionReplacesStoredRecords(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	svc := f.service()

	require.NoError(t, svc.SetProgress(ctx, uuidSCA, "Team C", "Implemented"))
	require.NoError(t, svc.SetProgress(ctx, uuidSCA, "Team C", "Assessed"))

	records, err := f.store.LoadProgress(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Assessed", records[0].Title)

	data, err := f.service().Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Assessed", data.Progress.TeamProgressTitle(uuidSCA, "Team C"))
}

func TestSetProgressErrors(t *testing.T) {
	ctx := context.Background()
	svc := newFixture(t, false).service()

	assert.ErrorIs(t, svc.SetProgress(ctx, "missing", "Team A", "Assessed"), model.ErrActivityNotFound)
	assert.ErrorIs(t, svc.SetProgress(ctx, uuidBuild, "Nobody", "Assessed"), model.ErrTeamNotFound)
	assert.ErrorIs(t, svc.SetProgress(ctx, uuidBuild, "Team A", "Done-ish"), model.ErrUnknownProgressTitle)
}

func TestDeleteStoredProgress(t *testing.T) {
	ctx := context.Background()
	svc := newFixture(t, false).service()

	require.NoError(t, svc.SetProgress(ctx, uuidBuild, "Team A", "Not implemented"))
	progress, err := svc.Progress(ctx)
	require.NoError(t, err)
	assert.NotContains(t, progress[uuidBuild]["Team A"], "Implemented")

	require.NoError(t, svc.DeleteStoredProgress(ctx))
	progress, err = svc.Progress(ctx)
	require.NoError(t, err)
	assert.Contains(t, progress[uuidBuild]["Team A"], "Implemented")
}

func TestExportProgressYAML(t *testing.T) {
	ctx := context.Background()
	svc := newFixture(t, false).service()

	out, err := svc.ExportProgressYAML(ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "progress:\n")
	assert.Contains(t, out, uuidBuild+":  # Building and testing of artifacts in virtual environments")
	assert.Contains(t, out, "'Implemented': 2024-02-10")
}

func TestUpdateTeamsAndGroups(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	svc := f.service()

	doc := model.TeamsDocument{
		Teams: []string{"Team A", "Team B", "Team C", "Team D"},
		TeamGroups: model.Groups{
			{Name: "Backend", Teams: []string{"Team A", "Team D", "Ghost"}},
		},
	}
	require.NoError(t, svc.UpdateTeamsAndGroups(ctx, doc))

	got, err := svc.Teams(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc.Teams, got.Teams)
	assert.Equal(t, []string{"Team A", "Team D"}, got.TeamGroups[0].Teams)

	restarted, err := f.service().Teams(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, restarted)

	out, err := svc.ExportTeamsYAML(ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "Team D")
	assert.Contains(t, out, "teamGroups:")

	err = svc.UpdateTeamsAndGroups(ctx, model.TeamsDocument{Teams: []string{"Team A", "Team A"}})
	assert.ErrorIs(t, err, model.ErrDuplicateName)
}

func TestUpdateTeamsRejectsRenameWhenDisabled(t *testing.T) {
	ctx := context.Background()
	svc := newFixture(t, false).service()

	err := svc.UpdateTeamsAndGroups(ctx, model.TeamsDocument{Teams: []string{"Red Team", "Team B", "Team C"}})
	assert.ErrorIs(t, err, ErrRenameNotAllowed)

	got, err := svc.Teams(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Team A", "Team B", "Team C"}, got.Teams)
}

func TestUpdateTeamsRenamesProgress(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	svc := f.service()

	doc := model.TeamsDocument{
		Teams:      []string{"Red Team", "Team B", "Team C"},
		TeamGroups: model.Groups{{Name: "Backend", Teams: []string{"Red Team"}}},
	}
	require.NoError(t, svc.UpdateTeamsAndGroups(ctx, doc))

	progress, err := svc.Progress(ctx)
	require.NoError(t, err)
	assert.NotContains(t, progress[uuidBuild], "Team A")
	assert.Contains(t, progress[uuidBuild]["Red Team"], "Implemented")

	data, err := f.service().Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Red Team", "Team B", "Team C"}, data.Meta.Teams)
	assert.Equal(t, "Implemented", data.Progress.TeamProgressTitle(uuidBuild, "Red Team"))
}

// settingsDownStore fails every settings write.
type settingsDownStore struct {
	state.Store
}

func (settingsDownStore) SetSetting(context.Context, string, string) error {
	return errors.New("settings table unavailable")
}

func TestUpdateTeamsKeepsStateWhenStoreFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	svc := New(f.src, settingsDownStore{f.store}, WithClock(f.now))

	err := svc.UpdateTeamsAndGroups(ctx, model.TeamsDocument{Teams: []string{"Red Team", "Team B", "Team C"}})
	require.Error(t, err)

	got, err := svc.Teams(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Team A", "Team B", "Team C"}, got.Teams)
	assert.Equal(t, []string{"Team A"}, got.TeamGroups[0].Teams)

	progress, err := svc.Progress(ctx)
	require.NoError(t, err)
	assert.Contains(t, progress[uuidBuild], "Team A")
	assert.NotContains(t, progress[uuidBuild], "Red Team")

	records, err := f.store.LoadProgress(ctx)
	require.NoError(t, err)
	for _, r := range records {
		assert.NotEqual(t, "Red Team", r.Team)
	}
}

func TestResetTeamsAndGroups(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	svc := f.service()

	require.NoError(t, svc.UpdateTeamsAndGroups(ctx, model.TeamsDocument{Teams: []string{"Team A"}}))
	require.NoError(t, svc.ResetTeamsAndGroups(ctx))

	got, err := svc.Teams(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Team A", "Team B", "Team C"}, got.Teams)
	assert.Equal(t, []string{"Backend", "Frontend"}, got.TeamGroups.Names())

	_, err = f.store.GetSetting(ctx, state.SettingTeams)
	assert.ErrorIs(t, err, state.ErrSettingNotFound)
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	svc := f.service()

	prefs, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, Settings{DateFormat: "2006-01-02"}, prefs)

	require.NoError(t, svc.SetSettings(ctx, Settings{MaxLevel: 1, DateFormat: "02.01.2006"}))
	prefs, err = f.service().Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, Settings{MaxLevel: 1, DateFormat: "02.01.2006"}, prefs)

	assert.ErrorIs(t, svc.SetSettings(ctx, Settings{MaxLevel: 3}), ErrInvalidSettingValue)
	assert.ErrorIs(t, svc.SetSettings(ctx, Settings{MaxLevel: -1}), ErrInvalidSettingValue)
	assert.ErrorIs(t, svc.SetSettings(ctx, Settings{DateFormat: "no date here"}), ErrInvalidSettingValue)
}

func TestRawSettings(t *testing.T) {
	ctx := context.Background()
	svc := newFixture(t, false).service()

	require.NoError(t, svc.SetSetting(ctx, "ui.theme", "dark"))
	v, err := svc.Setting(ctx, "ui.theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", v)

	assert.ErrorIs(t, svc.SetSetting(ctx, state.SettingMaxLevel, "two"), ErrInvalidSettingValue)
	assert.ErrorIs(t, svc.SetSetting(ctx, state.SettingMaxLevel, "9"), ErrInvalidSettingValue)
	require.NoError(t, svc.SetSetting(ctx, state.SettingMaxLevel, " 2 "))

	require.NoError(t, svc.SetSetting(ctx, state.SettingTeams, "teams: [Team A, Team B, Team C, Team Z]\n"))
	teams, err := svc.Teams(ctx)
	require.NoError(t, err)
	assert.Contains(t, teams.Teams, "Team Z")

	list, err := svc.ListSettings(ctx)
	require.NoError(t, err)
	var keys []string
	for _, s := range list {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{state.SettingMaxLevel, state.SettingTeams, "ui.theme"}, keys)

	require.NoError(t, svc.DeleteSetting(ctx, state.SettingTeams))
	teams, err = svc.Teams(ctx)
	require.NoError(t, err)
	assert.NotContains(t, teams.Teams, "Team Z")

	require.NoError(t, svc.DeleteSetting(ctx, "ui.theme"))
	_, err = svc.Setting(ctx, "ui.theme")
	assert.ErrorIs(t, err, state.ErrSettingNotFound)
}

func TestMatrixUsesStoredFilters(t *testing.T) {
	ctx := context.Background()
	svc := newFixture(t, false).service()

	m, err := svc.Matrix(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, m.Rows, 2)
	assert.False(t, m.HasFilterValues)

	require.NoError(t, svc.SetMatrixFilters(ctx, views.MatrixSelection{Tags: []string{"ci"}}))
	m, err = svc.Matrix(ctx, nil)
	require.NoError(t, err)
	require.Len(t, m.Rows, 1)
	assert.Equal(t, "Build", m.Rows[0].Dimension)
	assert.Len(t, m.Rows[0].Level1, 1)
	assert.Empty(t, m.Rows[0].Level2)

	m, err = svc.Matrix(ctx, &views.MatrixSelection{Dimensions: []string{"Static depth for applications"}})
	require.NoError(t, err)
	require.Len(t, m.Rows, 1)
	assert.True(t, m.HasFilterValues)

	require.NoError(t, svc.SetMatrixFilters(ctx, views.MatrixSelection{}))
	sel, err := svc.MatrixFilters(ctx)
	require.NoError(t, err)
	assert.Empty(t, sel.Tags)
}

func TestTeamSummary(t *testing.T) {
	ctx := context.Background()
	svc := newFixture(t, false).service()

	s, err := svc.TeamSummary(ctx, "Team A", "")
	require.NoError(t, err)
	assert.Equal(t, "Team A", s.Name)
	assert.Equal(t, 1, s.UniqueActivitiesCompletedCount)

	s, err = svc.TeamSummary(ctx, "", "All")
	require.NoError(t, err)
	assert.Equal(t, []string{"Team A", "Team B", "Team C"}, s.Teams)
	assert.Equal(t, 0, s.UniqueActivitiesCompletedCount)

	s, err = svc.TeamSummary(ctx, "", "Backend")
	require.NoError(t, err)
	assert.Equal(t, []string{"Team A"}, s.Teams)

	_, err = svc.TeamSummary(ctx, "Nobody", "")
	assert.ErrorIs(t, err, model.ErrTeamNotFound)
	_, err = svc.TeamSummary(ctx, "", "Nope")
	assert.ErrorIs(t, err, model.ErrGroupNotFound)
}

func TestMappingRespectsMaxLevel(t *testing.T) {
	ctx := context.Background()
	svc := newFixture(t, false).service()

	rows, err := svc.Mapping(ctx, MappingQuery{})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	require.NoError(t, svc.SetSettings(ctx, Settings{MaxLevel: 1}))
	rows, err = svc.Mapping(ctx, MappingQuery{Sort: views.SortByActivity})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Building and testing of artifacts in virtual environments", rows[0].ActivityName)

	rows, err = svc.Mapping(ctx, MappingQuery{Terms: []string{"composition"}, MaxLevel: 2})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, uuidSCA, rows[0].UUID)
}

func TestHeatmap(t *testing.T) {
	ctx := context.Background()
	svc := newFixture(t, false).service()

	h, err := svc.Heatmap(ctx, HeatmapQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Team A", "Team B", "Team C"}, h.VisibleTeams)
	assert.Equal(t, []string{"All"}, h.SelectedGroups)
	assert.Len(t, h.Sectors, 4)

	h, err = svc.Heatmap(ctx, HeatmapQuery{Group: "Backend"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Team A"}, h.VisibleTeams)
	assert.Equal(t, []string{"Backend"}, h.SelectedGroups)
	assert.InDelta(t, 1.0, h.Sectors[0].Progress, 1e-9)

	_, err = svc.Heatmap(ctx, HeatmapQuery{Team: "Nobody"})
	assert.ErrorIs(t, err, model.ErrTeamNotFound)
	_, err = svc.Heatmap(ctx, HeatmapQuery{Teams: []string{"Team A", "Nobody"}})
	assert.ErrorIs(t, err, model.ErrTeamNotFound)
	_, err = svc.Heatmap(ctx, HeatmapQuery{Group: "Nope"})
	assert.ErrorIs(t, err, model.ErrGroupNotFound)
}

func TestReport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	svc := f.service()

	r, err := svc.Report(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Team A", "Team B", "Team C"}, r.Teams)
	assert.Equal(t, "2024-05-01", r.Generated)
	require.Len(t, r.Sections, 2)

	cfg := views.ReportConfig{Teams: []string{"Team A"}, Columns: []string{views.ColumnLevel}}
	require.NoError(t, svc.SetReportConfig(ctx, cfg))
	require.NoError(t, svc.SetSettings(ctx, Settings{DateFormat: "02/01/2006"}))

	r, err = f.service().Report(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Team A"}, r.Teams)
	assert.Equal(t, "01/05/2024", r.Generated)
	assert.Equal(t, "10/02/2024", r.Sections[0].Rows[0].Teams["Team A"].Date)

	err = svc.SetReportConfig(ctx, views.ReportConfig{Teams: []string{"Nobody"}})
	assert.ErrorIs(t, err, ErrInvalidSettingValue)
	err = svc.SetReportConfig(ctx, views.ReportConfig{DateFormat: "plain"})
	assert.ErrorIs(t, err, ErrInvalidSettingValue)
}

func TestConcurrentEditsAndReads(t *testing.T) {
	ctx := context.Background()
	svc := newFixture(t, false).service()
	_, err := svc.Load(ctx)
	require.NoError(t, err)

	titles := []string{"Not implemented", "Assessed", "Implemented"}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, svc.SetProgress(ctx, uuidSCA, "Team B", titles[i%len(titles)]))
		}(i)
		go func() {
			defer wg.Done()
			_, err := svc.Heatmap(ctx, HeatmapQuery{})
			assert.NoError(t, err)
			_, err = svc.TeamSummary(ctx, "Team B", "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestReloadKeepsStoredEdits(t *testing.T) {
	ctx := context.Background()
	svc := newFixture(t, false).service()

	require.NoError(t, svc.SetProgress(ctx, uuidPinning, "Team C", "Assessed"))
	first, err := svc.Load(ctx)
	require.NoError(t, err)

	reloaded, err := svc.Reload(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, reloaded)
	assert.Equal(t, "Assessed", reloaded.Progress.TeamProgressTitle(uuidPinning, "Team C"))
}
