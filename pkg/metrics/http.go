package metrics

import "time"

// HTTPMetrics observes REST API requests.
type HTTPMetrics interface {
	// RecordRequest records a completed request.
	//
	// Parameters:
	//   - method: HTTP method
	//   - route: chi route pattern (e.g. "/api/v1/progress/{uuid}/{team}")
	//   - status: response status code
	//   - duration: time taken to serve the request
	RecordRequest(method, route string, status int, duration time.Duration)

	// RecordRequestStart increments the in-flight request gauge.
	RecordRequestStart()

	// RecordRequestEnd decrements the in-flight request gauge.
	RecordRequestEnd()
}

// NewHTTPMetrics returns nil unless metrics are enabled.
func NewHTTPMetrics() HTTPMetrics {
	if !IsEnabled() || newPrometheusHTTPMetrics == nil {
		return nil
	}
	return newPrometheusHTTPMetrics()
}

// newPrometheusHTTPMetrics is implemented in pkg/metrics/prometheus/http.go
var newPrometheusHTTPMetrics func() HTTPMetrics

// RegisterHTTPMetricsConstructor is called by pkg/metrics/prometheus.
func RegisterHTTPMetricsConstructor(constructor func() HTTPMetrics) {
	newPrometheusHTTPMetrics = constructor
}
