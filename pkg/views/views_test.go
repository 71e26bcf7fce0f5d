package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/marmos91/dsomm/pkg/model"
)

const (
	uuidBuild   = "11111111-0000-0000-0000-000000000001"
	uuidPin     = "11111111-0000-0000-0000-000000000002"
	uuidSCA     = "22222222-0000-0000-0000-000000000001"
	uuidDAST    = "22222222-0000-0000-0000-000000000002"
	uuidLogging = "33333333-0000-0000-0000-000000000001"
)

const viewsMeta = `
strings:
  en:
    maturity_levels: [Basic, Intermediate, Advanced]
    knowledgeLabels: [Very Low, Low, Medium]
    labels: [Very Low, Low, Medium]
    allTeamsGroupName: Everyone
progressDefinition:
  Not implemented: {score: 0}
  Assessed: {score: 0.2}
  Planned: {score: 0.5}
  Implemented: {score: 1}
teams: [Team A, Team B, Team C]
teamGroups:
  Backend: [Team A, Team B]
  Frontend: [Team C]
`

const viewsActivities = `
Build and Deployment:
  Build:
    Building in virtual environments:
      uuid: 11111111-0000-0000-0000-000000000001
      level: 1
      tags: [ci]
      difficultyOfImplementation: {knowledge: 2, time: 1, resources: 3}
      usefulness: 3
      references:
        samm2: [I-SB-A-1]
        iso27001-2022: ["8.25"]
    Pinning of artifacts:
      uuid: 11111111-0000-0000-0000-000000000002
      level: 2
      tags: [supply-chain]
      references:
        samm2: [I-SB-A-2]
        iso27001-2017: ["14.2.6"]
Test and Verification:
  Dynamic depth:
    Software composition analysis:
      uuid: 22222222-0000-0000-0000-000000000001
      level: 1
      tags: [ci, scanning]
      references:
        iso27001-2022: ["8.8"]
    Simple DAST:
      uuid: 22222222-0000-0000-0000-000000000002
      level: 3
      tags: [scanning]
Information Gathering:
  Logging:
    Centralized logging:
      uuid: 33333333-0000-0000-0000-000000000001
      level: 2
`

func day(s string) time.Time {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testData(t *testing.T) *model.DataStore {
	t.Helper()

	var metaNode yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(viewsMeta), &metaNode))
	meta, err := model.ParseMeta(metaNode.Content[0])
	require.NoError(t, err)
	for title, def := range meta.ProgressDefinition {
		def.Score, err = model.ParseScore(def.RawScore)
		require.NoError(t, err)
		meta.ProgressDefinition[title] = def
	}

	var actNode yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(viewsActivities), &actNode))
	store := model.NewActivityStore()
	problems, err := store.AddActivityFile(&actNode)
	require.NoError(t, err)
	require.Empty(t, problems)

	data := model.NewDataStore()
	data.Meta = meta
	data.AddActivities(store)
	data.Progress.Init(meta.ProgressDefinition)
	data.Progress.SetClock(func() time.Time { return day("2024-06-01") })
	data.AddProgressData(model.Progress{
		uuidBuild: {
			"Team A": {"Assessed": day("2024-01-01"), "Planned": day("2024-01-15"), "Implemented": day("2024-02-01")},
			"Team B": {"Assessed": day("2024-01-02"), "Planned": day("2024-01-20"), "Implemented": day("2024-03-01")},
		},
		uuidSCA: {
			"Team A": {"Assessed": day("2024-04-01")},
			"Team C": {"Not implemented": day("2024-01-01")},
		},
		uuidPin: {
			"Team B": {"Assessed": day("2024-05-05"), "Planned": day("2024-05-06")},
		},
	})
	return data
}
