package solver

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/graphdrift/graphdrift/pkg/errors"
	"github.com/graphdrift/graphdrift/pkg/graph"
	"github.com/graphdrift/graphdrift/pkg/observability"
	"github.com/graphdrift/graphdrift/pkg/style"
)

// vec is one node's position. Only the first activeDims coordinates are
// live at any point in the schedule; the rest stay frozen at whatever
// value they held when their dimension was last active.
type vec [MaxDimsCap]float64

// Phase is one stage of the annealing schedule: relaxation with the first
// Dims coordinates active.
type Phase struct {
	Dims int
}

// phases returns the annealing schedule for a dimensionality ceiling:
// maxDims-1 down to 3 inclusive. The active dimensionality only ever
// decreases over a run.
func phases(maxDims int) []Phase {
	var ps []Phase
	for d := maxDims - 1; d >= 3; d-- {
		ps = append(ps, Phase{Dims: d})
	}
	return ps
}

// Solver owns the mutable layout state for one run. It is single-threaded:
// nothing else may touch the position array while Run executes.
type Solver struct {
	cfg     Config
	model   *graph.Model
	styling *style.Styling
	pos     []vec
	rng     *rand.Rand

	activeDims int
	seq        int
}

// New creates a solver with randomly seeded positions.
//
// With cfg.Seed == 0 every run starts from a different embedding; pass an
// explicit seed for reproducible layouts. The styling must cover every
// node of the model.
func New(m *graph.Model, styling *style.Styling, cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(styling.Colors) != m.NodeCount() || len(styling.Labels) != m.NodeCount() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"styling covers %d nodes, model has %d", len(styling.Colors), m.NodeCount())
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	s := &Solver{
		cfg:        cfg,
		model:      m,
		styling:    styling,
		pos:        make([]vec, m.NodeCount()),
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		activeDims: cfg.MaxDims,
	}
	for i := range s.pos {
		for a := range cfg.MaxDims {
			s.pos[i][a] = s.rng.Float64()*2 - 1
		}
	}
	return s, nil
}

// Run executes the full annealing schedule, emitting one frame per outer
// iteration. It checks ctx before every outer iteration so a caller can
// stop a long layout early; the positions from the last completed outer
// iteration stay valid. A sink error is fatal for the run and is returned
// wrapped as SINK_TRANSPORT.
func (s *Solver) Run(ctx context.Context, snk Sink) error {
	hooks := observability.Solver()
	start := time.Now()
	err := s.run(ctx, snk, hooks)
	hooks.OnSolveComplete(ctx, s.seq, time.Since(start), err)
	return err
}

func (s *Solver) run(ctx context.Context, snk Sink, hooks observability.SolverHooks) error {
	for _, ph := range phases(s.cfg.MaxDims) {
		s.activeDims = ph.Dims
		hooks.OnPhaseStart(ctx, ph.Dims, s.model.NodeCount())

		for range s.cfg.OuterIters {
			if err := ctx.Err(); err != nil {
				return err
			}
			for range s.cfg.InnerIters {
				s.step()
			}

			f := s.snapshot()
			if err := snk.Emit(ctx, f); err != nil {
				return errors.Wrap(errors.ErrCodeSinkTransport, err, "emit frame %d", f.Seq)
			}
			hooks.OnFrame(ctx, ph.Dims, f.Seq)
			s.seq++
		}
	}

	return nil
}

// step runs one inner relaxation iteration: hierarchy, then repulsion,
// then spring. The order is fixed.
func (s *Solver) step() {
	s.applyHierarchy()
	if s.cfg.Workers > 1 {
		s.applyRepulsionParallel()
	} else {
		s.applyRepulsion()
	}
	s.applySpring()
}

// ActiveDims reports the dimensionality of the current phase.
func (s *Solver) ActiveDims() int { return s.activeDims }

// FrameCount returns the total number of frames a full run emits.
func (s *Solver) FrameCount() int {
	return len(phases(s.cfg.MaxDims)) * s.cfg.OuterIters
}
