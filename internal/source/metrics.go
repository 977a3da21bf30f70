package source

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchAttempts counts every FetchPage call that reached the failure draw.
	FetchAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "contactdeck_source_fetch_attempts_total",
			Help: "Total number of simulated page fetches",
		},
	)

	// FetchFailures counts simulated failures.
	FetchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "contactdeck_source_fetch_failures_total",
			Help: "Total number of simulated page fetch failures",
		},
	)

	// RecordsServed counts contact records returned to callers.
	RecordsServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "contactdeck_source_records_served_total",
			Help: "Total number of contact records served",
		},
	)

	// FetchDuration tracks how long fetches took, including the simulated latency.
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contactdeck_source_fetch_duration_seconds",
			Help:    "Duration of simulated page fetches",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"outcome"}, // "ok", "failed", "cancelled"
	)
)
