package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand/v2"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/graphdrift/graphdrift/pkg/cache"
	"github.com/graphdrift/graphdrift/pkg/errors"
	"github.com/graphdrift/graphdrift/pkg/graph"
	"github.com/graphdrift/graphdrift/pkg/observability"
	"github.com/graphdrift/graphdrift/pkg/solver"
	"github.com/graphdrift/graphdrift/pkg/style"
)

// styleSeedMix decorrelates the styling stream from the position stream so
// both can share one configured seed.
const styleSeedMix = 0x51afd2ed558ccf4d

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the viewer use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete parse → style → solve pipeline, streaming
// frames to snk. A malformed graph fails before the first frame; a sink
// failure aborts the run that hit it.
func (r *Runner) Execute(ctx context.Context, opts Options, snk solver.Sink) (result *Result, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		observability.Pipeline().OnRunComplete(ctx, time.Since(start), err)
	}()

	result = &Result{}

	// Stage 1: Parse
	parseStart := time.Now()
	doc, parseHit, err := r.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	m, err := graph.Build(doc)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Model = m
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = m.NodeCount()
	result.Stats.EdgeCount = m.EdgeCount()
	result.CacheInfo.ParseHit = parseHit

	if data, err := graph.MarshalDocument(doc); err == nil {
		result.GraphHash = cache.Hash(data)
	}
	observability.Pipeline().OnParse(ctx, m.NodeCount(), m.EdgeCount())

	opts.Logger.Info("parsed graph",
		"nodes", m.NodeCount(),
		"edges", m.EdgeCount(),
		"cached", parseHit,
		"duration", result.Stats.ParseTime)

	// Stage 2: Style
	seed := opts.Config.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	styling, warnings := style.Assign(rand.New(rand.NewPCG(seed, seed^styleSeedMix)), m)
	result.Styling = styling
	result.Warnings = warnings
	for _, w := range warnings {
		opts.Logger.Warn("label extraction fell back to node id",
			"node", w.NodeID, "attr", w.Attr, "reason", w.Reason)
	}
	if len(warnings) > 0 {
		observability.Pipeline().OnStyleWarnings(ctx, len(warnings))
	}

	// Stage 3: Solve
	solveStart := time.Now()
	final, frames, layoutHit, err := r.SolveWithCacheInfo(ctx, m, styling, opts, snk)
	if err != nil {
		return nil, err
	}
	result.Final = final
	result.Stats.FrameCount = frames
	result.Stats.SolveTime = time.Since(solveStart)
	result.CacheInfo.LayoutHit = layoutHit

	opts.Logger.Info("layout complete",
		"frames", frames,
		"cached", layoutHit,
		"duration", result.Stats.SolveTime)

	return result, nil
}

// ParseWithCacheInfo reads and parses the source with caching and reports
// whether the document came from cache.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) (*graph.Document, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	data := opts.Source
	if opts.Path != "" {
		var err error
		data, err = os.ReadFile(opts.Path)
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeFileNotFound, err, "read source %s", opts.Path)
		}
	}

	sourceHash := cache.Hash(data)
	cacheKey := r.Keyer.GraphKey(sourceHash, cache.GraphKeyOpts{Format: opts.Format})

	if !opts.Refresh {
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if doc, err := graph.ReadDocument(bytes.NewReader(cached)); err == nil {
				observability.Cache().OnHit(ctx, "graph")
				return doc, true, nil
			}
		}
		observability.Cache().OnMiss(ctx, "graph")
	}

	var (
		doc *graph.Document
		err error
	)
	switch opts.Format {
	case FormatJSON:
		doc, err = graph.ReadDocument(bytes.NewReader(data))
	default:
		doc, err = graph.ParseDOT(ctx, data)
	}
	if err != nil {
		return nil, false, err
	}

	if encoded, err := graph.MarshalDocument(doc); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, encoded, cache.TTLGraph)
	}

	return doc, false, nil
}

// Parse is a convenience wrapper that discards the cache hit info.
func (r *Runner) Parse(ctx context.Context, opts Options) (*graph.Document, error) {
	doc, _, err := r.ParseWithCacheInfo(ctx, opts)
	return doc, err
}

// SolveWithCacheInfo runs the solver against snk. Seeded runs are
// cacheable: on a layout hit the cached final frame is emitted once
// instead of re-running the schedule. It returns the final frame, the
// number of frames emitted, and whether the layout came from cache.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, m *graph.Model, styling *style.Styling, opts Options, snk solver.Sink) (*solver.Frame, int, bool, error) {
	seeded := opts.Config.Seed != 0

	var cacheKey string
	if seeded {
		cacheKey = r.layoutKey(m, opts)
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var f solver.Frame
			if err := json.Unmarshal(cached, &f); err == nil {
				if err := snk.Emit(ctx, &f); err != nil {
					return nil, 0, false, errors.Wrap(errors.ErrCodeSinkTransport, err, "emit cached layout")
				}
				observability.Cache().OnHit(ctx, "layout")
				return &f, 1, true, nil
			}
		}
		observability.Cache().OnMiss(ctx, "layout")
	}

	s, err := solver.New(m, styling, opts.Config)
	if err != nil {
		return nil, 0, false, err
	}

	capture := &captureSink{inner: snk}
	if err := s.Run(ctx, capture); err != nil {
		return nil, capture.count, false, err
	}

	if seeded && capture.last != nil {
		if encoded, err := json.Marshal(capture.last); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, encoded, cache.TTLLayout)
		}
	}

	return capture.last, capture.count, false, nil
}

// layoutKey derives the layout cache key from the graph content and every
// layout-affecting option.
func (r *Runner) layoutKey(m *graph.Model, opts Options) string {
	graphData, _ := json.Marshal(m.Nodes())
	edgeData, _ := json.Marshal(m.Edges())
	configData, _ := json.Marshal(opts.Config)
	return r.Keyer.LayoutKey(cache.Hash(append(graphData, edgeData...)), cache.LayoutKeyOpts{
		ConfigHash: cache.Hash(configData),
		Seed:       opts.Config.Seed,
	})
}

// Close releases the cache backend.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// applyLogger fills the options logger from the runner when unset.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// captureSink forwards frames and remembers the last one.
type captureSink struct {
	inner solver.Sink
	last  *solver.Frame
	count int
}

func (c *captureSink) Emit(ctx context.Context, f *solver.Frame) error {
	if err := c.inner.Emit(ctx, f); err != nil {
		return err
	}
	c.last = f
	c.count++
	return nil
}
