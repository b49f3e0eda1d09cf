package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "popsim"

// Run outcomes used as the "outcome" label.
const (
	outcomeSuccess = "success"
	outcomeInvalid = "invalid"
	outcomeError   = "error"
)

// Metrics holds the prometheus collectors for synthesis runs.
type Metrics struct {
	// RunsTotal counts runs by outcome (success, invalid, error).
	RunsTotal *prometheus.CounterVec
	// IndividualsTotal counts synthesized individuals by accommodation category.
	IndividualsTotal *prometheus.CounterVec
	// RunDurationSeconds measures end-to-end run time.
	RunDurationSeconds prometheus.Histogram
}

// NewMetrics registers the run collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "runs_total",
			Help:      "Synthesis runs by outcome.",
		}, []string{"outcome"}),
		IndividualsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "individuals_total",
			Help:      "Synthesized individuals by accommodation category.",
		}, []string{"category"}),
		RunDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of synthesis runs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
}
