// Package pipeline provides the core layout pipeline for Graphdrift.
//
// This package implements the complete parse → style → solve pipeline that
// can be used by the CLI and the embedded viewer. By centralizing this
// logic, both entry points share caching, styling, and frame delivery
// behavior.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Read a DOT or document file into an indexed graph model
//  2. Style: Assign display colors and labels per node
//  3. Solve: Run the annealing solver, streaming frames to a sink
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Path: "deps.dot"}
//	result, err := runner.Execute(ctx, opts, snk)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/graphdrift/graphdrift/pkg/errors"
	"github.com/graphdrift/graphdrift/pkg/graph"
	"github.com/graphdrift/graphdrift/pkg/solver"
	"github.com/graphdrift/graphdrift/pkg/style"
)

// Source format constants.
const (
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported source formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatJSON: true,
}

// Options contains all configuration for one pipeline run. The struct
// supports JSON serialization for viewer requests.
type Options struct {
	// Source options. Exactly one of Path and Source must be set.
	Path   string `json:"path,omitempty"`
	Source []byte `json:"-"`
	Format string `json:"format,omitempty"`
	// Refresh bypasses the parse cache.
	Refresh bool `json:"refresh,omitempty"`

	// Config is the solver tuning. The zero value takes the defaults.
	Config solver.Config `json:"config,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Path == "" && len(o.Source) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "path or source is required")
	}
	if o.Path != "" && len(o.Source) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "path and source are mutually exclusive")
	}
	if o.Format == "" {
		o.Format = FormatDOT
	}
	if !ValidFormats[o.Format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be one of: dot, json)", o.Format)
	}
	if o.Config.MaxDims == 0 {
		o.Config = solver.DefaultConfig()
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the parsed graph source.
	Document *graph.Document

	// Model is the indexed graph the solver ran on.
	Model *graph.Model

	// GraphHash is the content hash of the parsed document.
	GraphHash string

	// Styling holds the per-node colors and labels used for the run.
	Styling *style.Styling

	// Warnings lists the non-fatal attribute extraction warnings.
	Warnings []style.Warning

	// Final is the last emitted frame.
	Final *solver.Frame

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	FrameCount int
	ParseTime  time.Duration
	SolveTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // Whether the parsed document came from cache
	LayoutHit bool // Whether the final layout came from cache
}
