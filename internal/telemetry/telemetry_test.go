package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "dsomm", cfg.ServiceName)
	assert.Equal(t, "dev", cfg.ServiceVersion)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestInitDisabled(t *testing.T) {
	ctx := context.Background()

	shutdown, err := Init(ctx, DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	assert.NoError(t, shutdown(ctx))
	assert.False(t, IsEnabled())
}

func TestSpanHelpersWithoutInit(t *testing.T) {
	ctx := context.Background()

	newCtx, span := StartSpan(ctx, SpanDataLoad)
	require.NotNil(t, newCtx)
	span.End()

	require.NotPanics(t, func() {
		AddEvent(ctx, "cache.hit")
		RecordError(ctx, nil)
		RecordError(ctx, errors.New("boom"))
		SetStatus(ctx, codes.Ok, "")
		SetAttributes(ctx, Team("Team A"))
	})

	assert.Empty(t, TraceID(ctx))
	assert.Empty(t, SpanID(ctx))
}

func TestDomainSpans(t *testing.T) {
	ctx := context.Background()

	_, span := StartProgressSpan(ctx, SpanProgressSet, "uuid-1", "Team A", Title("Implemented"))
	require.NotNil(t, span)
	span.End()

	_, span = StartStoreSpan(ctx, SpanStoreSave, "sqlite", StorageKey("teams"))
	span.End()

	_, span = StartDataSpan(ctx, SpanDataActivities, File("activities.yaml"))
	span.End()
}

func TestAttributeHelpers(t *testing.T) {
	tests := []struct {
		name string
		key  string
		got  string
		want string
	}{
		{"ClientIP", AttrClientIP, ClientIP("10.0.0.1").Value.AsString(), "10.0.0.1"},
		{"Team", AttrTeam, Team("Red").Value.AsString(), "Red"},
		{"Group", AttrGroup, Group("Backend").Value.AsString(), "Backend"},
		{"Activity", AttrActivity, Activity("u-1").Value.AsString(), "u-1"},
		{"Title", AttrTitle, Title("Planned").Value.AsString(), "Planned"},
		{"File", AttrFile, File("meta.yaml").Value.AsString(), "meta.yaml"},
		{"Source", AttrSource, Source("s3://b").Value.AsString(), "s3://b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	assert.Equal(t, int64(12), Activities(12).Value.AsInt64())
	assert.Equal(t, int64(404), HTTPStatus(404).Value.AsInt64())
	assert.Equal(t, AttrStoreType, string(StoreType("badger").Key))
}

func TestParseProfileTypes(t *testing.T) {
	types, err := ParseProfileTypes([]string{"cpu", " Goroutines ", "mutex_count", "block_duration"})
	require.NoError(t, err)
	assert.Len(t, types, 4)

	defaults, err := ParseProfileTypes(nil)
	require.NoError(t, err)
	assert.Len(t, defaults, len(DefaultProfileTypes))

	_, err = ParseProfileTypes([]string{"cpu", "gpu"})
	assert.Error(t, err)
}

func TestDeploymentTags(t *testing.T) {
	tags := DeploymentTags("s3", "badger")
	assert.Equal(t, "s3", tags["dsomm.data.source"])
	assert.Equal(t, "badger", tags["dsomm.state.backend"])
}

func TestInitProfilingDisabled(t *testing.T) {
	stop, err := InitProfiling(ProfilingConfig{})
	require.NoError(t, err)
	assert.NoError(t, stop())
	assert.False(t, IsProfilingEnabled())
}
