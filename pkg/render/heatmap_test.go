package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/dsomm/pkg/views"
)

func testHeatmap() *views.Heatmap {
	return &views.Heatmap{
		MaxLevel:   2,
		Dimensions: []string{"Build", "Test & Verify"},
		Sectors: []views.HeatmapSector{
			{Index: 0, Dimension: "Build", Level: 1, Activities: 2, Progress: 1},
			{Index: 1, Dimension: "Test & Verify", Level: 1, Activities: 1, Progress: 0.5},
			{Index: 2, Dimension: "Build", Level: 2, Activities: 1},
			{Index: 3, Dimension: "Test & Verify", Level: 2, Disabled: true},
		},
	}
}

func TestHeatmapSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HeatmapSVG(&buf, testHeatmap(), DefaultConfig()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<svg "))
	assert.Equal(t, 4, strings.Count(out, "<path id=\"index-"))
	assert.Contains(t, out, `fill="#2e7d32"><title>Build, level 1: 100%</title>`)
	assert.Contains(t, out, `fill="#ffffff"><title>Build, level 2: 0%</title>`)
	assert.Contains(t, out, `fill="#dcdcdc"><title>Test &amp; Verify, level 2</title>`)
	assert.Contains(t, out, `startOffset="75%">Test &amp; Verify</textPath>`)
	assert.Contains(t, out, `class="segment-Test-&amp;-Verify"`)
}

func TestHeatmapSVGNoDimensions(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, HeatmapSVG(&buf, &views.Heatmap{}, DefaultConfig()))
}

func TestArcPath(t *testing.T) {
	assert.Equal(t, "M0,-40 A40,40 0 0,1 40,0 L20,0 A20,20 0 0,0 0,-20 Z", arcPath(20, 40, 0, 3.141592653589793/2))
	full := arcPath(20, 40, 0, 2*3.141592653589793)
	assert.Equal(t, 2, strings.Count(full, "Z"))
}

func TestInterpolate(t *testing.T) {
	assert.Equal(t, "#ffffff", Interpolate("#ffffff", "#000000", 0))
	assert.Equal(t, "#000000", Interpolate("#ffffff", "#000000", 1))
	assert.Equal(t, "#808080", Interpolate("#ffffff", "#000000", 0.5))
	assert.Equal(t, "#000000", Interpolate("#ffffff", "#000000", 3))
	assert.Equal(t, "white", Interpolate("white", "#000000", 0.5))
}

func TestThemeByName(t *testing.T) {
	th, err := ThemeByName("Dark")
	require.NoError(t, err)
	assert.Equal(t, DarkTheme, th)
	_, err = ThemeByName("solarized")
	assert.Error(t, err)
}
