package commands

import (
	"context"
	"fmt"

	"github.com/marmos91/dsomm/internal/logger"
	"github.com/marmos91/dsomm/pkg/config"
	"github.com/marmos91/dsomm/pkg/metrics"
	"github.com/marmos91/dsomm/pkg/state"
	"github.com/marmos91/dsomm/pkg/tracker"
)

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// getConfigSource returns a description of where the config was loaded from.
func getConfigSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}

// openService builds the tracker from the data source and state store of
// cfg. The returned close function releases the state store.
func openService(ctx context.Context, cfg *config.Config) (*tracker.Service, func(), error) {
	src, err := config.CreateSource(ctx, cfg.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open data source: %w", err)
	}

	store, err := config.CreateStateStore(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open state store: %w", err)
	}

	svc := tracker.New(src, store,
		tracker.WithMetaFile(cfg.Data.MetaFile),
		tracker.WithMetrics(metrics.NewTrackerMetrics()),
	)
	closeFn := func() {
		if err := store.Close(); err != nil {
			logger.Warn("State store close error", logger.Err(err))
		}
	}
	return svc, closeFn, nil
}

func storeDescription(cfg *state.Config) string {
	switch cfg.Type {
	case state.DatabaseTypePostgres:
		return fmt.Sprintf("postgres://%s:%d/%s", cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.Database)
	case state.DatabaseTypeBadger:
		if cfg.Badger.InMemory {
			return "badger (in-memory)"
		}
		return "badger:" + cfg.Badger.Path
	default:
		return "sqlite:" + cfg.SQLite.Path
	}
}
