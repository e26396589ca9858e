package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the risk pipeline.
type Metrics struct {
	ReportsComputed *prometheus.CounterVec // labels: cache={hit,miss}
	ReportFailures  prometheus.Counter

	// Condition fetch metrics. The fallback outcome is the only operator
	// signal that a report was scored on synthetic data.
	ConditionFetches *prometheus.CounterVec // labels: kind, outcome={success,fallback}
	ConditionCache   *prometheus.CounterVec // labels: kind, result={hit,miss}

	AlertsTriggered   prometheus.Counter
	AlertRecordErrors prometheus.Counter
	Notifications     *prometheus.CounterVec // labels: outcome={sent,error}
	ComputeDuration   prometheus.Histogram
}

// NewMetrics creates and registers all risk metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ReportsComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_risk",
			Name:      "reports_computed_total",
			Help:      "Risk reports served, by cache result.",
		}, []string{"cache"}),
		ReportFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_risk",
			Name:      "report_failures_total",
			Help:      "Report requests rejected for missing regions or types.",
		}),
		ConditionFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_risk",
			Name:      "condition_fetches_total",
			Help:      "Hazard condition fetches by kind and outcome.",
		}, []string{"kind", "outcome"}),
		ConditionCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_risk",
			Name:      "condition_cache_total",
			Help:      "Condition cache lookups by kind and result.",
		}, []string{"kind", "result"}),
		AlertsTriggered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_risk",
			Name:      "alerts_triggered_total",
			Help:      "Computations whose score met or exceeded the threshold.",
		}),
		AlertRecordErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_risk",
			Name:      "alert_record_errors_total",
			Help:      "Alert records lost to persistence failures.",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_risk",
			Name:      "notifications_total",
			Help:      "Per-recipient notification attempts by outcome.",
		}, []string{"outcome"}),
		ComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "disaster_risk",
			Name:      "compute_duration_seconds",
			Help:      "Duration of a full cache-miss report computation.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}

	prometheus.MustRegister(
		m.ReportsComputed,
		m.ReportFailures,
		m.ConditionFetches,
		m.ConditionCache,
		m.AlertsTriggered,
		m.AlertRecordErrors,
		m.Notifications,
		m.ComputeDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ReportsComputed:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "disaster_risk", Name: "reports_computed_total"}, []string{"cache"}),
		ReportFailures:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "disaster_risk", Name: "report_failures_total"}),
		ConditionFetches:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "disaster_risk", Name: "condition_fetches_total"}, []string{"kind", "outcome"}),
		ConditionCache:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "disaster_risk", Name: "condition_cache_total"}, []string{"kind", "result"}),
		AlertsTriggered:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "disaster_risk", Name: "alerts_triggered_total"}),
		AlertRecordErrors: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "disaster_risk", Name: "alert_record_errors_total"}),
		Notifications:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "disaster_risk", Name: "notifications_total"}, []string{"outcome"}),
		ComputeDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "disaster_risk", Name: "compute_duration_seconds"}),
	}
}
