package server

import (
	"context"
	"sync"

	"github.com/graphdrift/graphdrift/pkg/solver"
)

// Store buffers the frames of the current layout run and fans them out to
// stream subscribers. It implements solver.Sink, so the pipeline can write
// straight into the viewer.
//
// Subscribers that fall behind lose frames rather than stalling the
// solver; a viewer only ever needs the newest state.
type Store struct {
	mu      sync.RWMutex
	runID   string
	frames  []*solver.Frame
	subs    map[int]chan *solver.Frame
	nextSub int
}

// NewStore returns an empty frame store.
func NewStore() *Store {
	return &Store{subs: make(map[int]chan *solver.Frame)}
}

// BeginRun clears buffered frames and stamps the store with a new run id.
// Open subscriptions survive and start receiving the new run's frames.
func (st *Store) BeginRun(runID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.runID = runID
	st.frames = nil
}

// RunID returns the id of the current run, or "" before the first.
func (st *Store) RunID() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.runID
}

// Emit buffers the frame and notifies subscribers.
func (st *Store) Emit(_ context.Context, f *solver.Frame) error {
	st.mu.Lock()
	st.frames = append(st.frames, f)
	subs := make([]chan *solver.Frame, 0, len(st.subs))
	for _, ch := range st.subs {
		subs = append(subs, ch)
	}
	st.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- f:
		default:
			// Slow subscriber, drop the frame for it.
		}
	}
	return nil
}

// Latest returns the most recent frame, or nil before the first emit.
func (st *Store) Latest() *solver.Frame {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if len(st.frames) == 0 {
		return nil
	}
	return st.frames[len(st.frames)-1]
}

// Frames returns a snapshot of the current run's frames in order.
func (st *Store) Frames() []*solver.Frame {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]*solver.Frame, len(st.frames))
	copy(out, st.frames)
	return out
}

// Subscribe registers a frame channel. The returned cancel function must
// be called when the subscriber is done.
func (st *Store) Subscribe() (<-chan *solver.Frame, func()) {
	ch := make(chan *solver.Frame, 16)

	st.mu.Lock()
	id := st.nextSub
	st.nextSub++
	st.subs[id] = ch
	st.mu.Unlock()

	cancel := func() {
		st.mu.Lock()
		delete(st.subs, id)
		st.mu.Unlock()
	}
	return ch, cancel
}

var _ solver.Sink = (*Store)(nil)
