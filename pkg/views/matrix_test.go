package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMatrixData(t *testing.T) {
	data := testData(t)
	rows := BuildMatrixData(data.Activities)

	require.Len(t, rows, 3)
	assert.Equal(t, "Build and Deployment", rows[0].Category)
	assert.Equal(t, "Build", rows[0].Dimension)
	require.Len(t, rows[0].Level1, 1)
	assert.Equal(t, uuidBuild, rows[0].Level1[0].UUID)
	assert.Len(t, rows[0].Level2, 1)
	assert.Empty(t, rows[0].Level3)
	assert.Len(t, rows[1].Level3, 1)
	assert.Equal(t, 2, rows[1].Count())
}

func TestBuildLevelsAndColumns(t *testing.T) {
	m := NewMatrix(testData(t))

	assert.Equal(t, []LevelLabel{
		{Key: "level1", Name: "Basic"},
		{Key: "level2", Name: "Intermediate"},
		{Key: "level3", Name: "Advanced"},
	}, m.Levels)
	assert.Equal(t, []string{"Category", "Dimension", "level1", "level2", "level3"}, m.ColumnNames())
	assert.Equal(t, Filters{"ci": false, "scanning": false, "supply-chain": false}, m.TagFilters)
	assert.Equal(t, Filters{"Build": false, "Dynamic depth": false, "Logging": false}, m.DimensionFilters)
}

func TestApplyFilters(t *testing.T) {
	m := NewMatrix(testData(t))

	tests := []struct {
		name       string
		selection  MatrixSelection
		dimensions []string
		count      int
	}{
		{"no filters", MatrixSelection{}, []string{"Build", "Dynamic depth", "Logging"}, 5},
		{"dimension", MatrixSelection{Dimensions: []string{"Logging"}}, []string{"Logging"}, 1},
		{"tag drops empty rows", MatrixSelection{Tags: []string{"ci"}}, []string{"Build", "Dynamic depth"}, 2},
		{"tag any of", MatrixSelection{Tags: []string{"ci", "supply-chain"}}, []string{"Build", "Dynamic depth"}, 3},
		{"dimension and tag", MatrixSelection{Tags: []string{"scanning"}, Dimensions: []string{"Build"}}, nil, 0},
		{"unknown names ignored", MatrixSelection{Tags: []string{"nope"}}, []string{"Build", "Dynamic depth", "Logging"}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.Select(tt.selection)
			rows := m.Visible()

			var dims []string
			count := 0
			for _, r := range rows {
				dims = append(dims, r.Dimension)
				count += r.Count()
			}
			assert.Equal(t, tt.dimensions, dims)
			assert.Equal(t, tt.count, count)
		})
	}
}

func TestApplyFiltersKeepsSource(t *testing.T) {
	m := NewMatrix(testData(t))
	m.Select(MatrixSelection{Tags: []string{"scanning"}})
	_ = m.Visible()

	assert.Len(t, m.Rows[1].Level1, 1, "filtering must not modify the source rows")
	assert.Equal(t, MatrixSelection{Tags: []string{"scanning"}}, m.Selection())

	m.Reset()
	assert.False(t, m.TagFilters.Any())
	assert.Len(t, m.Visible(), 3)
}

func TestHasFilterValues(t *testing.T) {
	assert.False(t, HasFilterValues(Filters{}))
	assert.False(t, HasFilterValues(Filters{"a": false, "b": false}))
	assert.False(t, HasFilterValues(Filters{"a": true, "b": true}))
	assert.True(t, HasFilterValues(Filters{"a": true, "b": false}))
}
