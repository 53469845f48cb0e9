// Package metrics bundles Prometheus instrumentation for the optimizer
// service and exposes a ready-to-mount /metrics handler.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"resource-center-placer/internal/models"
)

// Collector holds the optimizer service metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	Runs          *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	SearchRounds  prometheus.Histogram
	LastCost      prometheus.Gauge
	FallbackTotal prometheus.Counter
}

// NewCollector registers the optimizer metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optimizer_runs_total",
		Help: "Total optimization runs, labeled by outcome (feasible, degraded, infeasible, error).",
	}, []string{"outcome"})
	runs, err := registerCounterVec(reg, runs, "optimizer_runs_total")
	if err != nil {
		return nil, err
	}

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_run_duration_seconds",
		Help:    "Wall-clock duration of a full optimization run in seconds.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	})
	duration, err = registerHistogram(reg, duration, "optimizer_run_duration_seconds")
	if err != nil {
		return nil, err
	}

	rounds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_search_rounds",
		Help:    "Local search rounds executed before convergence or the round cap.",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34, 50},
	})
	rounds, err = registerHistogram(reg, rounds, "optimizer_search_rounds")
	if err != nil {
		return nil, err
	}

	lastCost := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "optimizer_last_total_cost",
		Help: "Total weighted cost of the most recent feasible solution.",
	})
	lastCost, err = registerGauge(reg, lastCost, "optimizer_last_total_cost")
	if err != nil {
		return nil, err
	}

	fallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optimizer_distance_fallbacks_total",
		Help: "Distance lookups that fell back to the great-circle estimate.",
	})
	fallbacks, err = registerCounter(reg, fallbacks, "optimizer_distance_fallbacks_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:      gatherer,
		Runs:          runs,
		RunDuration:   duration,
		SearchRounds:  rounds,
		LastCost:      lastCost,
		FallbackTotal: fallbacks,
	}, nil
}

// ObserveRun records the outcome of a completed optimization run.
func (c *Collector) ObserveRun(solution *models.Solution, seconds float64) {
	if c == nil || solution == nil {
		return
	}
	outcome := "feasible"
	switch {
	case !solution.Feasible:
		outcome = "infeasible"
	case solution.Diagnostics.Degraded:
		outcome = "degraded"
	}
	if c.Runs != nil {
		c.Runs.WithLabelValues(outcome).Inc()
	}
	if c.RunDuration != nil {
		c.RunDuration.Observe(seconds)
	}
	if c.SearchRounds != nil {
		c.SearchRounds.Observe(float64(solution.Diagnostics.Rounds))
	}
	if solution.Feasible && c.LastCost != nil {
		c.LastCost.Set(solution.TotalCost)
	}
	if c.FallbackTotal != nil && solution.Diagnostics.FallbackLookups > 0 {
		c.FallbackTotal.Add(float64(solution.Diagnostics.FallbackLookups))
	}
}

// ObserveError counts a run that failed before producing a solution.
func (c *Collector) ObserveError() {
	if c == nil || c.Runs == nil {
		return
	}
	c.Runs.WithLabelValues("error").Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, fmt.Errorf("failed to register %s: %w", name, err)
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, fmt.Errorf("failed to register %s: %w", name, err)
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, fmt.Errorf("failed to register %s: %w", name, err)
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, fmt.Errorf("failed to register %s: %w", name, err)
	}
	return gauge, nil
}
