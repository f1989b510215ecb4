package prover

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pod2",
			Subsystem: "prover",
			Name:      "jobs_total",
			Help:      "Total number of processed plonky proving jobs",
		},
		[]string{"status"},
	)

	provingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "pod2",
			Subsystem: "prover",
			Name:      "proving_duration_seconds",
			Help:      "Time spent proving a plonky POD",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)
)
