// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lubri_classifications_total",
			Help: "Total number of products classified, by resulting category",
		},
		[]string{"category"},
	)

	ClassificationConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lubri_classification_confidence",
			Help:    "Confidence of classification results",
			Buckets: []float64{0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	ClassificationCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lubri_classification_cache_total",
			Help: "Classification cache lookups, by result",
		},
		[]string{"result"},
	)

	PrioritizedAlerts = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lubri_prioritized_alerts",
			Help:    "Length of prioritized alert lists returned, by role",
			Buckets: prometheus.LinearBuckets(0, 1, 8),
		},
		[]string{"role"},
	)

	ActiveAlerts = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lubri_active_alerts",
			Help: "Unresolved stock alerts in the latest snapshot, by urgency",
		},
		[]string{"urgency"},
	)

	AlertPollFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lubri_alert_poll_failures_total",
			Help: "Total number of failed alert source polls",
		},
	)

	UnknownRoles = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lubri_unknown_role_requests_total",
			Help: "Requests for alerts with an unrecognised role",
		},
	)
)

// Cache lookup results.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// ObserveClassification records one classifier result.
func ObserveClassification(category string, confidence float64) {
	ClassificationsTotal.WithLabelValues(category).Inc()
	ClassificationConfidence.Observe(confidence)
}

// ObservePrioritized records the length of a list handed to a role.
func ObservePrioritized(role string, n int) {
	PrioritizedAlerts.WithLabelValues(role).Observe(float64(n))
}

// SetActiveAlerts replaces the active alert gauge with counts per urgency.
func SetActiveAlerts(counts map[string]int) {
	ActiveAlerts.Reset()
	for urgency, n := range counts {
		ActiveAlerts.WithLabelValues(urgency).Set(float64(n))
	}
}
