package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "pickup", Name: "transitions_total", Help: "Lifecycle status transitions applied"},
		[]string{"entity", "status"},
	)

	SweepsTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "pickup", Name: "sweeps_total", Help: "Completed expiry sweep runs"})

	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pickup",
		Name:      "sweep_duration_seconds",
		Help:      "Expiry sweep run duration",
		Buckets:   prometheus.DefBuckets,
	})

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "pickup", Name: "events_published_total", Help: "Realtime events published per sink"},
		[]string{"sink"},
	)
)

// RecordTransition counts one applied status transition.
func RecordTransition(entity, status string) {
	TransitionsTotal.WithLabelValues(entity, status).Inc()
}
