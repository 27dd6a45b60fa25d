// Package prom exports layout pipeline metrics to Prometheus. Calling
// [Install] registers the collectors with the default registry and installs
// the hook implementations; serve the standard promhttp handler to expose
// them.
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/graphdrift/graphdrift/pkg/observability"
)

var (
	framesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "graphdrift_frames_total",
		Help: "Frames emitted by the solver.",
	})
	activeDims = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "graphdrift_active_dims",
		Help: "Active dimensionality of the current annealing phase.",
	})
	solveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "graphdrift_solve_duration_seconds",
		Help:    "Wall time of complete solver runs.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
	})
	solveErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "graphdrift_solve_errors_total",
		Help: "Solver runs that ended with an error.",
	})
	graphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "graphdrift_graph_nodes",
		Help: "Node count of the most recently parsed graph.",
	})
	graphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "graphdrift_graph_edges",
		Help: "Edge count of the most recently parsed graph.",
	})
	styleWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "graphdrift_style_warnings_total",
		Help: "Non-fatal attribute extraction warnings.",
	})
	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "graphdrift_run_duration_seconds",
		Help:    "Wall time of complete pipeline runs.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
	})
	cacheOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graphdrift_cache_ops_total",
		Help: "Layout cache lookups by kind and outcome.",
	}, []string{"kind", "outcome"})
)

type hooks struct{}

func (hooks) OnPhaseStart(_ context.Context, dims, _ int) {
	activeDims.Set(float64(dims))
}

func (hooks) OnFrame(context.Context, int, int) {
	framesTotal.Inc()
}

func (hooks) OnSolveComplete(_ context.Context, _ int, elapsed time.Duration, err error) {
	solveDuration.Observe(elapsed.Seconds())
	if err != nil {
		solveErrors.Inc()
	}
}

func (hooks) OnParse(_ context.Context, nodes, edges int) {
	graphNodes.Set(float64(nodes))
	graphEdges.Set(float64(edges))
}

func (hooks) OnStyleWarnings(_ context.Context, count int) {
	styleWarnings.Add(float64(count))
}

func (hooks) OnRunComplete(_ context.Context, elapsed time.Duration, _ error) {
	runDuration.Observe(elapsed.Seconds())
}

func (hooks) OnHit(_ context.Context, kind string) {
	cacheOps.WithLabelValues(kind, "hit").Inc()
}

func (hooks) OnMiss(_ context.Context, kind string) {
	cacheOps.WithLabelValues(kind, "miss").Inc()
}

// Install wires the Prometheus-backed hooks into the observability
// registry. Safe to call more than once.
func Install() {
	h := hooks{}
	observability.RegisterSolver(h)
	observability.RegisterPipeline(h)
	observability.RegisterCache(h)
}
