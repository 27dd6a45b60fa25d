// Package observability defines instrumentation hook points for the layout
// pipeline. The hot paths call these hooks unconditionally; the default
// no-op implementations keep the cost at a dynamic dispatch. Backends such
// as the Prometheus exporter in the prom subpackage register themselves at
// startup.
package observability

import (
	"context"
	"sync"
	"time"
)

// SolverHooks observes the annealing schedule as it executes.
type SolverHooks interface {
	// OnPhaseStart fires when a phase begins relaxing at a new
	// dimensionality.
	OnPhaseStart(ctx context.Context, dims, nodeCount int)
	// OnFrame fires after each emitted frame.
	OnFrame(ctx context.Context, dims, seq int)
	// OnSolveComplete fires once per run, successful or not.
	OnSolveComplete(ctx context.Context, frames int, elapsed time.Duration, err error)
}

// PipelineHooks observes the parse/style/solve stages around the solver.
type PipelineHooks interface {
	// OnParse fires after a graph source has been parsed and indexed.
	OnParse(ctx context.Context, nodes, edges int)
	// OnStyleWarnings fires with the number of non-fatal attribute
	// extraction warnings for a run. Zero is not reported.
	OnStyleWarnings(ctx context.Context, count int)
	// OnRunComplete fires when a pipeline run finishes.
	OnRunComplete(ctx context.Context, elapsed time.Duration, err error)
}

// CacheHooks observes layout cache traffic.
type CacheHooks interface {
	OnHit(ctx context.Context, kind string)
	OnMiss(ctx context.Context, kind string)
}

type noopSolver struct{}

func (noopSolver) OnPhaseStart(context.Context, int, int)                     {}
func (noopSolver) OnFrame(context.Context, int, int)                          {}
func (noopSolver) OnSolveComplete(context.Context, int, time.Duration, error) {}

type noopPipeline struct{}

func (noopPipeline) OnParse(context.Context, int, int)                   {}
func (noopPipeline) OnStyleWarnings(context.Context, int)                {}
func (noopPipeline) OnRunComplete(context.Context, time.Duration, error) {}

type noopCache struct{}

func (noopCache) OnHit(context.Context, string)  {}
func (noopCache) OnMiss(context.Context, string) {}

var (
	mu       sync.RWMutex
	solver   SolverHooks   = noopSolver{}
	pipeline PipelineHooks = noopPipeline{}
	cache    CacheHooks    = noopCache{}
)

// RegisterSolver installs hooks for the solver. Passing nil restores the
// no-op implementation.
func RegisterSolver(h SolverHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		solver = noopSolver{}
		return
	}
	solver = h
}

// RegisterPipeline installs hooks for the pipeline stages.
func RegisterPipeline(h PipelineHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		pipeline = noopPipeline{}
		return
	}
	pipeline = h
}

// RegisterCache installs hooks for the layout cache.
func RegisterCache(h CacheHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		cache = noopCache{}
		return
	}
	cache = h
}

// Solver returns the installed solver hooks.
func Solver() SolverHooks {
	mu.RLock()
	defer mu.RUnlock()
	return solver
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks {
	mu.RLock()
	defer mu.RUnlock()
	return pipeline
}

// Cache returns the installed cache hooks.
func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cache
}
