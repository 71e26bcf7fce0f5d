package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testMeta = `
strings:
  en:
    maturity_levels: [Basic, Advanced]
    labels: [Very Low, Low, Medium, High, Very High]
    allTeamsGroupName: Everyone
progressDefinition:
  Not implemented:
    score: 0%
  Implemented:
    score: 1
    definition: Done
teams: [Team A, Team B, Team C]
teamGroups:
  Frontend: [Team B, Team A]
  Backend: [Team C, Ghost]
activityFiles: [activities.yaml]
teamProgressFile: team-progress.yaml
allowChangeTeamNameInBrowser: true
`

func parseTestMeta(t *testing.T) *MetaStore {
	t.Helper()
	m, err := ParseMeta(parseDoc(t, testMeta))
	require.NoError(t, err)
	return m
}

func TestParseMeta(t *testing.T) {
	m := parseTestMeta(t)

	assert.Equal(t, DefaultLang, m.Lang)
	assert.Equal(t, []string{"Team A", "Team B", "Team C"}, m.Teams)
	assert.Equal(t, []string{"Frontend", "Backend"}, m.TeamGroups.Names())
	assert.True(t, m.AllowChangeTeamNameInBrowser)
	assert.Equal(t, "0%", m.ProgressDefinition["Not implemented"].RawScore)
	assert.Equal(t, "Done", m.ProgressDefinition["Implemented"].Definition)

	assert.Equal(t, "Everyone", m.String("allTeamsGroupName", -1))
	assert.Equal(t, "Medium", m.String("labels", 2))
	assert.Equal(t, "", m.String("labels", 9))
	assert.Equal(t, []string{"Basic", "Advanced"}, m.StringList("maturity_levels"))
}

func TestMetaTeamEdits(t *testing.T) {
	m := parseTestMeta(t)
	m.FilterGroupMembers()
	backend, ok := m.TeamGroups.Find("Backend")
	require.True(t, ok)
	assert.Equal(t, []string{"Team C"}, backend.Teams)

	m.UpdateTeamsAndGroups([]string{"Team X"}, Groups{{Name: "Solo", Teams: []string{"Team X", "Team A"}}})
	assert.Equal(t, []string{"Team X"}, m.Teams)
	solo, _ := m.TeamGroups.Find("Solo")
	assert.Equal(t, []string{"Team X"}, solo.Teams)
	assert.True(t, m.HasTeam("Team X"))

	out, err := m.TeamsYAML()
	require.NoError(t, err)
	var doc TeamsDocument
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, m.TeamsDocument(), doc)

	m.ResetTeamsAndGroups()
	assert.Equal(t, []string{"Team A", "Team B", "Team C"}, m.Teams)
	assert.Equal(t, []string{"Frontend", "Backend"}, m.TeamGroups.Names())
}

func TestActivityMetaNewerThan(t *testing.T) {
	v := func(s string) *ActivityMeta { return &ActivityMeta{DsommVersion: s} }

	assert.True(t, v("v1.10.0").NewerThan(v("v1.9.3")))
	assert.False(t, v("1.2").NewerThan(v("1.2.0")))
	assert.True(t, v("1.2.1").NewerThan(nil))
	assert.False(t, v("").NewerThan(v("1.0")))
	assert.True(t, v("1.0-rc2").NewerThan(v("1.0-rc1")))
}

func TestDataStoreLevels(t *testing.T) {
	d := NewDataStore()
	d.Meta = parseTestMeta(t)
	_, err := d.Activities.AddActivityFile(parseDoc(t, `
C:
  D:
    A1: {uuid: u1, level: 1}
    A3: {uuid: u3, level: 3}
`))
	require.NoError(t, err)

	assert.Equal(t, 3, d.MaxLevel())
	assert.Equal(t, []string{"Basic", "Advanced", "Level 3"}, d.Levels())
	assert.Equal(t, "Low", d.MetaString("labels", 1))
	assert.Equal(t, "missing", d.MetaString("missing", -1))
	assert.Equal(t, "labels[7]", d.MetaString("labels", 7))
}

func TestTeamsDocumentNormalized(t *testing.T) {
	doc := TeamsDocument{
		Teams:      []string{"Team A", "Team B"},
		TeamGroups: Groups{{Name: "Backend", Teams: []string{"Team A", "Ghost"}}},
	}
	got := doc.Normalized()
	assert.Equal(t, []string{"Team A"}, got.TeamGroups[0].Teams)
	assert.Equal(t, []string{"Team A", "Ghost"}, doc.TeamGroups[0].Teams, "input is left untouched")

	out, err := got.YAML()
	require.NoError(t, err)
	assert.Contains(t, out, "Backend:")
	assert.NotContains(t, out, "Ghost")
}
