// Package sink delivers solver frames to their consumers: an in-memory
// buffer for tests and the embedded viewer, a JSON Lines stream for files
// and pipes, and a nanomsg socket for external visualizers. Every sink
// implements [solver.Sink]; a sink error aborts the run that caused it.
package sink

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/graphdrift/graphdrift/pkg/errors"
	"github.com/graphdrift/graphdrift/pkg/solver"
)

// Envelope wraps a frame with the identity of the run that produced it, so
// consumers fed by several layouts can keep the streams apart.
type Envelope struct {
	RunID string        `json:"run_id"`
	Frame *solver.Frame `json:"frame"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Memory buffers every emitted frame. It is safe for one emitting solver
// and any number of concurrent readers.
type Memory struct {
	mu     sync.RWMutex
	frames []*solver.Frame
}

// NewMemory returns an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Emit appends the frame to the buffer.
func (m *Memory) Emit(_ context.Context, f *solver.Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = append(m.frames, f)
	return nil
}

// Frames returns a snapshot of the buffered frames in emission order.
func (m *Memory) Frames() []*solver.Frame {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*solver.Frame, len(m.frames))
	copy(out, m.frames)
	return out
}

// Latest returns the most recent frame, or nil before the first emit.
func (m *Memory) Latest() *solver.Frame {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.frames) == 0 {
		return nil
	}
	return m.frames[len(m.frames)-1]
}

// Len returns the number of buffered frames.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.frames)
}

// Multi fans each frame out to every sink in order. The first error stops
// the fan-out and aborts the run.
type Multi []solver.Sink

// Emit delivers the frame to each sink in order.
func (ms Multi) Emit(ctx context.Context, f *solver.Frame) error {
	for _, s := range ms {
		if err := s.Emit(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

// Func adapts a function to the Sink interface.
type Func func(ctx context.Context, f *solver.Frame) error

// Emit calls the wrapped function.
func (fn Func) Emit(ctx context.Context, f *solver.Frame) error {
	return fn(ctx, f)
}

// Discard drops every frame. Useful when only the final positions matter.
var Discard solver.Sink = Func(func(context.Context, *solver.Frame) error {
	return nil
})

func errClosed(name string) error {
	return errors.New(errors.ErrCodeSinkClosed, "%s sink is closed", name)
}
