// Package views derives the page view-models (matrix, teams, mapping,
// heatmap, report) from a loaded DataStore. Every builder is a pure
// transform: an empty result is valid output, never an error.
package views

import (
	"fmt"
	"sort"

	"github.com/marmos91/dsomm/pkg/model"
)

// MatrixLevels is the number of level columns in the matrix.
const MatrixLevels = 5

// MatrixRow groups the activities of one dimension by level.
type MatrixRow struct {
	Category  string            `json:"category"`
	Dimension string            `json:"dimension"`
	Level1    []*model.Activity `json:"level1"`
	Level2    []*model.Activity `json:"level2"`
	Level3    []*model.Activity `json:"level3"`
	Level4    []*model.Activity `json:"level4"`
	Level5    []*model.Activity `json:"level5"`
}

// Level returns the activities of level n, counting from 1.
func (r *MatrixRow) Level(n int) []*model.Activity {
	if p := r.level(n); p != nil {
		return *p
	}
	return nil
}

func (r *MatrixRow) level(n int) *[]*model.Activity {
	switch n {
	case 1:
		return &r.Level1
	case 2:
		return &r.Level2
	case 3:
		return &r.Level3
	case 4:
		return &r.Level4
	case 5:
		return &r.Level5
	}
	return nil
}

// Count is the number of activities in the row.
func (r *MatrixRow) Count() int {
	n := 0
	for lvl := 1; lvl <= MatrixLevels; lvl++ {
		n += len(r.Level(lvl))
	}
	return n
}

// LevelLabel names a level column.
type LevelLabel struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Filters maps a chip name to its selection state.
type Filters map[string]bool

// Selected returns the selected names, sorted.
func (f Filters) Selected() []string {
	var out []string
	for name, on := range f {
		if on {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Any reports whether at least one chip is selected.
func (f Filters) Any() bool {
	for _, on := range f {
		if on {
			return true
		}
	}
	return false
}

// Select turns on the given names and turns off every other chip. Names
// that are not chips are ignored.
func (f Filters) Select(names []string) {
	for name := range f {
		f[name] = false
	}
	for _, name := range names {
		if _, ok := f[name]; ok {
			f[name] = true
		}
	}
}

// HasFilterValues reports whether the chips are in mixed states, i.e. some
// selected and some not.
func HasFilterValues(f Filters) bool {
	var seenOn, seenOff bool
	for _, on := range f {
		if on {
			seenOn = true
		} else {
			seenOff = true
		}
		if seenOn && seenOff {
			return true
		}
	}
	return false
}

// BuildMatrixData returns one row per dimension in first-seen order.
func BuildMatrixData(store *model.ActivityStore) []MatrixRow {
	dims := store.AllDimensionNames()
	rows := make([]MatrixRow, 0, len(dims))
	for _, dim := range dims {
		var row MatrixRow
		for lvl := 1; lvl <= MatrixLevels; lvl++ {
			acts := store.Activities(dim, lvl)
			*row.level(lvl) = acts
			if len(acts) > 0 && row.Category == "" {
				row.Category = acts[0].Category
				row.Dimension = acts[0].Dimension
			}
		}
		if row.Dimension == "" {
			row.Dimension = dim
		}
		rows = append(rows, row)
	}
	return rows
}

// BuildLevels labels the level columns "level1", "level2", ... with the
// maturity level names.
func BuildLevels(names []string) []LevelLabel {
	out := make([]LevelLabel, len(names))
	for i, name := range names {
		out[i] = LevelLabel{Key: fmt.Sprintf("level%d", i+1), Name: name}
	}
	return out
}

// BuildFiltersForTag returns an unselected chip per activity tag.
func BuildFiltersForTag(activities []*model.Activity) Filters {
	f := make(Filters)
	for _, a := range activities {
		for _, tag := range a.Tags {
			f[tag] = false
		}
	}
	return f
}

// BuildFiltersForDim returns an unselected chip per matrix row.
func BuildFiltersForDim(rows []MatrixRow) Filters {
	f := make(Filters, len(rows))
	for _, r := range rows {
		if r.Dimension != "" {
			f[r.Dimension] = false
		}
	}
	return f
}

// ApplyFilters keeps the rows of the selected dimensions, then keeps only
// activities carrying a selected tag in the first levelCount levels. Rows
// left empty by the tag filter are dropped. Without any selection all rows
// are returned unchanged.
func ApplyFilters(rows []MatrixRow, dimFilter, tagFilter Filters, levelCount int) []MatrixRow {
	hasDim, hasTag := dimFilter.Any(), tagFilter.Any()
	if !hasDim && !hasTag {
		return rows
	}

	stage1 := rows
	if hasDim {
		stage1 = nil
		for _, r := range rows {
			if dimFilter[r.Dimension] {
				stage1 = append(stage1, r)
			}
		}
	}
	if !hasTag {
		return stage1
	}

	if levelCount > MatrixLevels {
		levelCount = MatrixLevels
	}
	out := make([]MatrixRow, 0, len(stage1))
	for _, src := range stage1 {
		dst := MatrixRow{Category: src.Category, Dimension: src.Dimension}
		for lvl := 1; lvl <= levelCount; lvl++ {
			var kept []*model.Activity
			for _, a := range src.Level(lvl) {
				if a.HasAnyTag(tagFilter) {
					kept = append(kept, a)
				}
			}
			*dst.level(lvl) = kept
		}
		if dst.Count() > 0 {
			out = append(out, dst)
		}
	}
	return out
}

// Matrix is the matrix page state: all rows plus the chip selections.
type Matrix struct {
	Levels           []LevelLabel `json:"levels"`
	Categories       []string     `json:"categories"`
	Rows             []MatrixRow  `json:"rows"`
	TagFilters       Filters      `json:"tagFilters"`
	DimensionFilters Filters      `json:"dimensionFilters"`
}

// MatrixSelection is the persisted chip selection of the matrix page.
type MatrixSelection struct {
	Tags       []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Dimensions []string `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
}

func NewMatrix(data *model.DataStore) *Matrix {
	rows := BuildMatrixData(data.Activities)
	return &Matrix{
		Levels:           BuildLevels(data.Levels()),
		Categories:       data.Activities.AllCategoryNames(),
		Rows:             rows,
		TagFilters:       BuildFiltersForTag(data.Activities.AllActivities()),
		DimensionFilters: BuildFiltersForDim(rows),
	}
}

// ColumnNames lists the table columns.
func (m *Matrix) ColumnNames() []string {
	cols := []string{"Category", "Dimension"}
	for _, l := range m.Levels {
		cols = append(cols, l.Key)
	}
	return cols
}

// Select applies a stored or requested selection.
func (m *Matrix) Select(sel MatrixSelection) {
	m.TagFilters.Select(sel.Tags)
	m.DimensionFilters.Select(sel.Dimensions)
}

// Selection returns the current chip selection.
func (m *Matrix) Selection() MatrixSelection {
	return MatrixSelection{Tags: m.TagFilters.Selected(), Dimensions: m.DimensionFilters.Selected()}
}

// Reset deselects every chip.
func (m *Matrix) Reset() {
	m.TagFilters.Select(nil)
	m.DimensionFilters.Select(nil)
}

// Visible returns the rows left by the current selection.
func (m *Matrix) Visible() []MatrixRow {
	return ApplyFilters(m.Rows, m.DimensionFilters, m.TagFilters, len(m.Levels))
}
