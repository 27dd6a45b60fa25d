// Package server implements the embedded viewer API: an HTTP surface for
// starting layout runs and streaming their frames to browser clients.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/graphdrift/graphdrift/pkg/errors"
	"github.com/graphdrift/graphdrift/pkg/pipeline"
	"github.com/graphdrift/graphdrift/pkg/sink"
	"github.com/graphdrift/graphdrift/pkg/solver"
)

// Server serves the viewer API. One layout run executes at a time; frames
// stream to every subscriber of /api/frames/stream as they are solved.
type Server struct {
	runner *pipeline.Runner
	store  *Store
	logger *log.Logger

	runMu sync.Mutex // serializes layout runs

	mu   sync.RWMutex
	last *runSummary
}

// New creates a viewer server around a pipeline runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner: runner,
		store:  NewStore(),
		logger: logger,
	}
}

// Store exposes the frame store, so the CLI can point a solver at the
// viewer without going through HTTP.
func (s *Server) Store() *Store { return s.store }

// layoutRequest is the body of POST /api/layout.
type layoutRequest struct {
	Path    string        `json:"path,omitempty"`
	Source  string        `json:"source,omitempty"`
	Format  string        `json:"format,omitempty"`
	Refresh bool          `json:"refresh,omitempty"`
	Config  solver.Config `json:"config,omitempty"`
}

// runSummary is the JSON shape of a completed run.
type runSummary struct {
	RunID      string        `json:"run_id"`
	GraphHash  string        `json:"graph_hash"`
	Nodes      int           `json:"nodes"`
	Edges      int           `json:"edges"`
	Frames     int           `json:"frames"`
	Warnings   int           `json:"warnings"`
	ParseHit   bool          `json:"parse_hit"`
	LayoutHit  bool          `json:"layout_hit"`
	ParseTime  time.Duration `json:"parse_time_ns"`
	SolveTime  time.Duration `json:"solve_time_ns"`
	FinishedAt time.Time     `json:"finished_at"`
	Labels     []string      `json:"labels,omitempty"`
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/layout", s.handleLayout)
	r.Get("/api/graph", s.handleGraph)
	r.Get("/api/frames", s.handleFrames)
	r.Get("/api/frames/latest", s.handleLatestFrame)
	r.Get("/api/frames/stream", s.handleStream)

	return r
}

// Serve runs the HTTP server until ctx is canceled, then drains with a
// short grace period.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("viewer listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout request"))
		return
	}

	opts := pipeline.Options{
		Path:    req.Path,
		Source:  []byte(req.Source),
		Format:  req.Format,
		Refresh: req.Refresh,
		Config:  req.Config,
		Logger:  s.logger,
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	runID := sink.NewRunID()
	s.store.BeginRun(runID)

	result, err := s.runner.Execute(r.Context(), opts, s.store)
	if err != nil {
		writeError(w, err)
		return
	}

	summary := &runSummary{
		RunID:      runID,
		GraphHash:  result.GraphHash,
		Nodes:      result.Stats.NodeCount,
		Edges:      result.Stats.EdgeCount,
		Frames:     result.Stats.FrameCount,
		Warnings:   len(result.Warnings),
		ParseHit:   result.CacheInfo.ParseHit,
		LayoutHit:  result.CacheInfo.LayoutHit,
		ParseTime:  result.Stats.ParseTime,
		SolveTime:  result.Stats.SolveTime,
		FinishedAt: time.Now().UTC(),
		Labels:     result.Styling.Labels,
	}

	s.mu.Lock()
	s.last = summary
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleGraph(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	if last == nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no layout has run yet"))
		return
	}
	writeJSON(w, http.StatusOK, last)
}

func (s *Server) handleFrames(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"run_id": s.store.RunID(),
		"frames": s.store.Frames(),
	})
}

func (s *Server) handleLatestFrame(w http.ResponseWriter, _ *http.Request) {
	f := s.store.Latest()
	if f == nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no frames emitted yet"))
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// handleStream pushes frames to the client as server-sent events until it
// disconnects.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.store.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case f, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(f)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: frame\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps pipeline error codes onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidDOT, errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidFormat, errors.ErrCodeMalformedGraph:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}
