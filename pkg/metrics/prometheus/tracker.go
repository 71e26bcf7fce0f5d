package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/dsomm/pkg/metrics"
)

func init() {
	metrics.RegisterTrackerMetricsConstructor(NewTrackerMetrics)
}

// trackerMetrics is the Prometheus implementation of metrics.TrackerMetrics.
type trackerMetrics struct {
	loads           *prometheus.CounterVec
	loadDuration    prometheus.Histogram
	activities      prometheus.Gauge
	teams           prometheus.Gauge
	progressUpdates *prometheus.CounterVec
	teamsUpdates    *prometheus.CounterVec
}

// NewTrackerMetrics returns nil if metrics are not enabled.
func NewTrackerMetrics() metrics.TrackerMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &trackerMetrics{
		loads: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dsomm_data_loads_total",
				Help: "Total number of YAML data loads by status",
			},
			[]string{"status"},
		),
		loadDuration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dsomm_data_load_duration_milliseconds",
				Help:    "Duration of YAML data loads in milliseconds",
				Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000},
			},
		),
		activities: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "dsomm_activities",
				Help: "Number of activities in the loaded data",
			},
		),
		teams: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "dsomm_teams",
				Help: "Number of configured teams",
			},
		),
		progressUpdates: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dsomm_progress_updates_total",
				Help: "Total number of progress changes by team and progress title",
			},
			[]string{"team", "title"},
		),
		teamsUpdates: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dsomm_teams_updates_total",
				Help: "Total number of team and group edits by operation",
			},
			[]string{"operation"}, // "update", "reset"
		),
	}
}

func (m *trackerMetrics) ObserveLoad(duration time.Duration, activities int, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "error"
	}
	m.loads.WithLabelValues(status).Inc()
	m.loadDuration.Observe(duration.Seconds() * 1000)
	if err == nil {
		m.activities.Set(float64(activities))
	}
}

func (m *trackerMetrics) RecordProgressUpdate(team, title string) {
	if m == nil {
		return
	}
	m.progressUpdates.WithLabelValues(team, title).Inc()
}

func (m *trackerMetrics) RecordTeamsUpdate(operation string) {
	if m == nil {
		return
	}
	m.teamsUpdates.WithLabelValues(operation).Inc()
}

func (m *trackerMetrics) SetTeams(count int) {
	if m == nil {
		return
	}
	m.teams.Set(float64(count))
}
