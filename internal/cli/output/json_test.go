package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type progressEntry struct {
	Activity string    `json:"activity"`
	Team     string    `json:"team"`
	State    string    `json:"state"`
	Date     time.Time `json:"date"`
}

func TestPrintJSON(t *testing.T) {
	entry := progressEntry{
		Activity: "Build pipeline",
		Team:     "Team A",
		State:    "Implemented",
		Date:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, entry))

	out := buf.String()
	assert.Contains(t, out, "\n  \"team\": \"Team A\"", "indented by two spaces")
	assert.Contains(t, out, `"date": "2024-03-01T00:00:00Z"`)

	var back progressEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, entry, back)
}

func TestPrintJSONEmptyList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, []progressEntry{}))
	assert.Equal(t, "[]\n", buf.String())
}
