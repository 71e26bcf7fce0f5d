package metrics

import "time"

// TrackerMetrics observes data loads and user edits.
type TrackerMetrics interface {
	// ObserveLoad records a (re)load of the YAML data.
	ObserveLoad(duration time.Duration, activities int, err error)

	// RecordProgressUpdate records a progress change by a team.
	RecordProgressUpdate(team, title string)

	// RecordTeamsUpdate records an edit of teams and groups ("update" or "reset").
	RecordTeamsUpdate(operation string)

	// SetTeams updates the number of configured teams.
	SetTeams(count int)
}

// NewTrackerMetrics returns nil unless metrics are enabled.
//
// Example usage:
//
//	metrics.InitRegistry()
//	svc := tracker.New(loader, store, tracker.WithMetrics(metrics.NewTrackerMetrics()))
func NewTrackerMetrics() TrackerMetrics {
	if !IsEnabled() || newPrometheusTrackerMetrics == nil {
		return nil
	}
	return newPrometheusTrackerMetrics()
}

// newPrometheusTrackerMetrics is implemented in pkg/metrics/prometheus/tracker.go
var newPrometheusTrackerMetrics func() TrackerMetrics

// RegisterTrackerMetricsConstructor is called by pkg/metrics/prometheus.
func RegisterTrackerMetricsConstructor(constructor func() TrackerMetrics) {
	newPrometheusTrackerMetrics = constructor
}

func ObserveLoad(m TrackerMetrics, duration time.Duration, activities int, err error) {
	if m != nil {
		m.ObserveLoad(duration, activities, err)
	}
}

func RecordProgressUpdate(m TrackerMetrics, team, title string) {
	if m != nil {
		m.RecordProgressUpdate(team, title)
	}
}

func RecordTeamsUpdate(m TrackerMetrics, operation string) {
	if m != nil {
		m.RecordTeamsUpdate(operation)
	}
}

func SetTeams(m TrackerMetrics, count int) {
	if m != nil {
		m.SetTeams(count)
	}
}
