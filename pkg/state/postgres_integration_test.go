//go:build integration

package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("dsomm_test"),
		postgres.WithUsername("dsomm_test"),
		postgres.WithPassword("dsomm_test"),
		testcontainers.WithWaitStrategyAndDeadline(2*time.Minute,
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	store, err := New(&Config{
		Type: DatabaseTypePostgres,
		Postgres: PostgresConfig{
			Host:     host,
			Port:     port.Int(),
			Database: "dsomm_test",
			User:     "dsomm_test",
			Password: "dsomm_test",
		},
	})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Healthcheck(ctx))
	require.NoError(t, store.SaveProgress(ctx, sampleRecords()))

	records, err := store.LoadProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords(), records)

	require.NoError(t, store.SetSetting(ctx, SettingDateFormat, "02.01.2006"))
	v, err := store.GetSetting(ctx, SettingDateFormat)
	require.NoError(t, err)
	assert.Equal(t, "02.01.2006", v)
}
