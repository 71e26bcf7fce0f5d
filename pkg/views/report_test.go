package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/dsomm/pkg/model"
)

func TestBuildReportDefaults(t *testing.T) {
	data := testData(t)
	cfg := DefaultReportConfig()
	require.NoError(t, cfg.Validate(data))

	r := BuildReport(data, cfg, day("2024-06-01"))
	assert.Equal(t, "2024-06-01", r.Generated)
	assert.Equal(t, []string{"Team A", "Team B", "Team C"}, r.Teams)
	require.Len(t, r.Sections, 3)

	build := r.Sections[0]
	assert.Equal(t, "Build and Deployment", build.Category)
	assert.Equal(t, "Build", build.Dimension)
	require.Len(t, build.Rows, 2)
	assert.InDelta(t, 2.5/6.0, build.Progress, 1e-9)

	row := build.Rows[0]
	assert.Equal(t, "Basic", row.Fields[ColumnLevel])
	assert.Equal(t, "I-SB-A-1", row.Fields[ColumnSAMM])
	assert.Equal(t, "8.25", row.Fields[ColumnISO22])
	assert.Equal(t, ReportCell{Title: "Implemented", Date: "2024-02-01", Value: 1}, row.Teams["Team A"])
	assert.Equal(t, ReportCell{Title: "Not implemented"}, row.Teams["Team C"])

	assert.Equal(t, ReportCell{Title: "Planned", Date: "2024-05-06", Value: 0.5}, build.Rows[1].Teams["Team B"])
}

func TestBuildReportSelections(t *testing.T) {
	data := testData(t)

	r := BuildReport(data, ReportConfig{Tags: []string{"scanning"}}, day("2024-06-01"))
	require.Len(t, r.Sections, 1)
	assert.Equal(t, "Dynamic depth", r.Sections[0].Dimension)
	assert.Len(t, r.Sections[0].Rows, 2)
	assert.Nil(t, r.Sections[0].Rows[0].Fields)

	r = BuildReport(data, ReportConfig{Dimensions: []string{"Logging"}, Teams: []string{"Team A"}}, day("2024-06-01"))
	require.Len(t, r.Sections, 1)
	assert.Equal(t, []string{"Team A"}, r.Teams)
	assert.Len(t, r.Sections[0].Rows[0].Teams, 1)

	r = BuildReport(data, ReportConfig{MaxLevel: 1, DateFormat: "02/01/2006"}, day("2024-06-01"))
	require.Len(t, r.Sections, 2)
	assert.Equal(t, "01/02/2024", r.Sections[0].Rows[0].Teams["Team A"].Date)
}

func TestReportConfigValidate(t *testing.T) {
	data := testData(t)

	bad := ReportConfig{Columns: []string{"owner"}}
	assert.Error(t, bad.Validate(data))

	bad = ReportConfig{Teams: []string{"Team Z"}}
	assert.ErrorIs(t, bad.Validate(data), model.ErrTeamNotFound)

	bad = ReportConfig{Dimensions: []string{"Nowhere"}}
	assert.Error(t, bad.Validate(data))

	bad = ReportConfig{MaxLevel: -1}
	assert.Error(t, bad.Validate(data))
}
