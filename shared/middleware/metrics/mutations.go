package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Mutation outcomes.
const (
	OutcomeCommitted  = "committed"
	OutcomeRejected   = "rejected" // business rule, nothing written
	OutcomeRolledBack = "rolled_back"
	OutcomeFailed     = "failed"
)

var (
	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tastelink_post_mutations_total",
			Help: "Post mutations by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	storeRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tastelink_store_request_duration_seconds",
			Help:    "Latency of remote store calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)
)

// ObserveMutation counts one finished mutation.
func ObserveMutation(action, outcome string) {
	mutationsTotal.WithLabelValues(action, outcome).Inc()
}

// ObserveStoreRequest records a remote store round trip; status is "error" on transport failure.
func ObserveStoreRequest(method, status string, elapsed time.Duration) {
	storeRequestDuration.WithLabelValues(method, status).Observe(elapsed.Seconds())
}
