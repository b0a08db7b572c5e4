// Package metrics provides Prometheus metrics for the authentication
// pipeline.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// AttemptBuckets defines histogram buckets suited for authentication
// attempts, ranging from 1ms to 5s (directory lookups dominate).
var AttemptBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5}

var (
	// AttemptsTotal counts authentication attempts by strategy and outcome.
	// Outcomes: success, failure, challenge.
	AttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatehouse_authn_attempts_total",
			Help: "Authentication attempts",
		},
		[]string{"strategy", "outcome"},
	)

	// AttemptDuration records authentication attempt duration in seconds
	// by strategy.
	AttemptDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gatehouse_authn_attempt_duration_seconds",
			Help:    "Authentication attempt duration",
			Buckets: AttemptBuckets,
		},
		[]string{"strategy"},
	)

	// FailuresTotal counts failures by strategy and failure kind.
	FailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatehouse_authn_failures_total",
			Help: "Authentication failures",
		},
		[]string{"strategy", "kind"},
	)
)

func init() {
	prometheus.MustRegister(
		AttemptsTotal,
		AttemptDuration,
		FailuresTotal,
	)
}
