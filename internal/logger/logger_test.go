package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture redirects output to a buffer and restores the previous settings
// when the test ends.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()

	mu.RLock()
	prevOut, prevColor := out, colored
	mu.RUnlock()
	prevLevel := Level(minLevel.Load())
	prevFormat, _ := format.Load().(string)

	buf := new(bytes.Buffer)
	InitWithWriter(buf, "", "", false)

	t.Cleanup(func() {
		InitWithWriter(prevOut, prevLevel.String(), prevFormat, prevColor)
	})
	return buf
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level string
		want  []string
		skip  []string
	}{
		{"DEBUG", []string{"d-msg", "i-msg", "w-msg", "e-msg"}, nil},
		{"INFO", []string{"i-msg", "w-msg", "e-msg"}, []string{"d-msg"}},
		{"WARN", []string{"w-msg", "e-msg"}, []string{"d-msg", "i-msg"}},
		{"ERROR", []string{"e-msg"}, []string{"d-msg", "i-msg", "w-msg"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := capture(t)
			SetLevel(tt.level)

			Debug("d-msg")
			Info("i-msg")
			Warn("w-msg")
			Error("e-msg")

			got := buf.String()
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			for _, s := range tt.skip {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestSetLevelIgnoresInvalid(t *testing.T) {
	capture(t)
	SetLevel("WARN")
	SetLevel("verbose")
	assert.Equal(t, LevelWarn, Level(minLevel.Load()))

	SetLevel("debug")
	assert.Equal(t, LevelDebug, Level(minLevel.Load()))
}

func TestParseLevel(t *testing.T) {
	l, ok := ParseLevel(" warning ")
	assert.True(t, ok)
	assert.Equal(t, LevelWarn, l)

	_, ok = ParseLevel("trace")
	assert.False(t, ok)
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestTextFormat(t *testing.T) {
	buf := capture(t)
	SetLevel("INFO")
	SetFormat("text")

	Info("progress updated", KeyTeam, "Team A", KeyLevel, 2, "ratio", 0.5)

	line := buf.String()
	assert.Contains(t, line, "[INFO] progress updated")
	assert.Contains(t, line, `team="Team A"`)
	assert.Contains(t, line, "level=2")
	assert.Contains(t, line, "ratio=0.500")
}

func TestTextHandlerGroups(t *testing.T) {
	buf := new(bytes.Buffer)
	l := slog.New(NewColorTextHandler(buf, nil, false))

	l.WithGroup("store").Info("opened", "type", "sqlite")
	assert.Contains(t, buf.String(), "store.type=sqlite")
}

func TestJSONFormat(t *testing.T) {
	buf := capture(t)
	SetLevel("INFO")
	SetFormat("json")

	Info("data loaded", KeyActivities, 12)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "data loaded", entry["msg"])
	assert.Equal(t, float64(12), entry[KeyActivities])
}

func TestContextLogging(t *testing.T) {
	t.Run("InjectsFields", func(t *testing.T) {
		buf := capture(t)
		SetLevel("INFO")
		SetFormat("json")

		lc := NewLogContext("req-1", "10.0.0.1").WithTeam("Team B").WithActivity("uuid-1").WithTrace("t1", "s1")
		ctx := WithContext(context.Background(), lc)

		InfoCtx(ctx, "state changed", "extra", "x")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
		assert.Equal(t, "req-1", entry[KeyRequestID])
		assert.Equal(t, "10.0.0.1", entry[KeyClientIP])
		assert.Equal(t, "Team B", entry[KeyTeam])
		assert.Equal(t, "uuid-1", entry[KeyActivity])
		assert.Equal(t, "t1", entry[KeyTraceID])
		assert.Equal(t, "x", entry["extra"])
	})

	t.Run("NilContext", func(t *testing.T) {
		buf := capture(t)
		SetLevel("INFO")
		//nolint:staticcheck // nil context must not panic
		require.NotPanics(t, func() { InfoCtx(nil, "no ctx") })
		assert.Contains(t, buf.String(), "no ctx")
	})
}

func TestLogContextCopies(t *testing.T) {
	lc := NewLogContext("r", "ip")
	team := lc.WithTeam("Team A")

	assert.Equal(t, "", lc.Team)
	assert.Equal(t, "Team A", team.Team)
	assert.False(t, lc.StartTime.IsZero())

	var nilCtx *LogContext
	assert.Nil(t, nilCtx.Clone())
	assert.Zero(t, nilCtx.DurationMs())
}

func TestErrAttr(t *testing.T) {
	assert.Equal(t, "", Err(nil).Key)

	a := Err(fmt.Errorf("boom"))
	assert.Equal(t, KeyError, a.Key)
	assert.Equal(t, "boom", a.Value.String())
}

func TestConcurrentLogging(t *testing.T) {
	buf := capture(t)
	SetLevel("INFO")
	SetFormat("text")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			Info("concurrent", "n", n)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 20)
}

func TestInitFileOutput(t *testing.T) {
	capture(t)
	path := t.TempDir() + "/dsomm.log"

	require.NoError(t, Init(Config{Level: "INFO", Format: "text", Output: path}))
	Info("to file")
	t.Cleanup(func() { _ = Init(Config{Output: "stdout"}) })
}
