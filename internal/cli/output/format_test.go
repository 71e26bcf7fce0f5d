package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "table", input: "table", want: FormatTable},
		{name: "empty defaults to table", input: "", want: FormatTable},
		{name: "json", input: "json", want: FormatJSON},
		{name: "JSON uppercase", input: "JSON", want: FormatJSON},
		{name: "yaml", input: "yaml", want: FormatYAML},
		{name: "yml alias", input: "yml", want: FormatYAML},
		{name: "whitespace trimmed", input: "  table  ", want: FormatTable},
		{name: "invalid format", input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type testStruct struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func TestRender(t *testing.T) {
	data := testStruct{Name: "Team A", Value: 3}
	table := NewTableData("Team", "Activities")
	table.AddRow("Team A", "3")

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatTable, data, table))
	assert.Contains(t, buf.String(), "ACTIVITIES")

	buf.Reset()
	require.NoError(t, Render(&buf, FormatTable, data, nil))
	assert.Contains(t, buf.String(), "name: Team A")

	buf.Reset()
	require.NoError(t, Render(&buf, FormatJSON, data, table))
	assert.Contains(t, buf.String(), `"value": 3`)

	assert.Error(t, Render(&buf, Format("xml"), data, table))
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false)

	printer.Success("success message")
	printer.Warning("warning message")
	printer.Error("error message")
	assert.Equal(t, "success message\nwarning message\nerror message\n", buf.String())

	buf.Reset()
	NewPrinter(&buf, true).Success("done")
	assert.Equal(t, "\033[32mdone\033[0m\n", buf.String())
}

func TestPercentAndBar(t *testing.T) {
	assert.Equal(t, "0%", Percent(0))
	assert.Equal(t, "43%", Percent(0.425))
	assert.Equal(t, "100%", Percent(1.7))

	assert.Equal(t, "█████░░░░░", Bar(0.5, 10))
	assert.Equal(t, "░░░░", Bar(-1, 4))
	assert.Equal(t, "", Bar(1, 0))
}
