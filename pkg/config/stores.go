package config

import (
	"context"
	"fmt"

	"github.com/marmos91/dsomm/internal/logger"
	"github.com/marmos91/dsomm/pkg/metrics"
	"github.com/marmos91/dsomm/pkg/source"
	"github.com/marmos91/dsomm/pkg/state"
)

// CreateSource opens the data source selected by cfg.
func CreateSource(ctx context.Context, cfg DataConfig) (source.Source, error) {
	switch cfg.Source {
	case SourceFS, "":
		logger.Debug("Using directory data source", logger.KeyPath, cfg.Path)
		return source.NewDir(cfg.Path), nil
	case SourceS3:
		return createS3Source(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown data source: %q", cfg.Source)
	}
}

func createS3Source(ctx context.Context, cfg S3SourceConfig) (source.Source, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 source requires a bucket")
	}
	src, err := source.NewS3FromConfig(ctx, source.S3Config{
		Bucket:         cfg.Bucket,
		Prefix:         cfg.Prefix,
		Region:         cfg.Region,
		Endpoint:       cfg.Endpoint,
		AccessKeyID:    cfg.AccessKeyID,
		SecretKey:      cfg.SecretKey,
		ForcePathStyle: cfg.ForcePathStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 source: %w", err)
	}
	logger.Debug("Using S3 data source", logger.KeyBucket, cfg.Bucket, "prefix", cfg.Prefix)
	return src.WithMetrics(metrics.NewS3Metrics()), nil
}

// CreateStateStore opens the state store selected by cfg.
func CreateStateStore(cfg *state.Config) (state.Store, error) {
	store, err := state.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s state store: %w", cfg.Type, err)
	}
	return store, nil
}
