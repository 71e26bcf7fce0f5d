package metrics

import (
	"github.com/marmos91/dsomm/pkg/source"
)

// NewS3Metrics creates a Prometheus-backed source.S3Metrics.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
// When nil is returned the S3 source skips collection.
//
// Example usage:
//
//	metrics.InitRegistry()
//	src, err := source.NewS3FromConfig(ctx, cfg)
//	src.WithMetrics(metrics.NewS3Metrics())
func NewS3Metrics() source.S3Metrics {
	if !IsEnabled() || newPrometheusS3Metrics == nil {
		return nil
	}
	return newPrometheusS3Metrics()
}

// newPrometheusS3Metrics is implemented in pkg/metrics/prometheus/s3.go
// This indirection avoids import cycles while keeping the API clean
var newPrometheusS3Metrics func() source.S3Metrics

// RegisterS3MetricsConstructor registers the Prometheus S3 metrics constructor.
// Called by pkg/metrics/prometheus/s3.go during package initialization.
func RegisterS3MetricsConstructor(constructor func() source.S3Metrics) {
	newPrometheusS3Metrics = constructor
}
