// Package telemetry exposes the engine's Prometheus collectors. The engine
// works without one; the CLI and HTTP facade wire a collector in.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the engine's instrumentation.
type Collector struct {
	SimulationsTotal   prometheus.Counter
	RunsTotal          prometheus.Counter
	InfeasibleMatrices prometheus.Counter
	Duration           prometheus.Histogram
}

// NewCollector registers the engine metrics with the given registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		SimulationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "scenariorun_simulations_total",
			Help: "Completed simulation calls",
		}),
		RunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "scenariorun_runs_total",
			Help: "Monte Carlo runs executed across all options",
		}),
		InfeasibleMatrices: factory.NewCounter(prometheus.CounterOpts{
			Name: "scenariorun_infeasible_matrices_total",
			Help: "Copula targets that failed the Cholesky feasibility check",
		}),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scenariorun_simulation_duration_seconds",
			Help:    "Wall time per simulation call",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}
