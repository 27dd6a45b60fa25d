package sink

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/graphdrift/graphdrift/pkg/errors"
	"github.com/graphdrift/graphdrift/pkg/solver"
)

// JSONL writes one envelope per line to an io.Writer. Output is buffered;
// call Close to flush. A write error is returned from Emit and every
// subsequent call.
type JSONL struct {
	mu     sync.Mutex
	runID  string
	w      *bufio.Writer
	closer io.Closer
	closed bool
}

// NewJSONL wraps w in a JSON Lines sink with a fresh run id. If w is also
// an io.Closer, Close closes it after flushing.
func NewJSONL(w io.Writer) *JSONL {
	j := &JSONL{runID: NewRunID(), w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		j.closer = c
	}
	return j
}

// OpenJSONLFile creates or truncates path and returns a sink writing to it.
func OpenJSONLFile(path string) (*JSONL, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSinkTransport, err, "open frame log %s", path)
	}
	return NewJSONL(f), nil
}

// RunID returns the identifier stamped on every envelope.
func (j *JSONL) RunID() string { return j.runID }

// Emit writes the frame as one JSON line.
func (j *JSONL) Emit(_ context.Context, f *solver.Frame) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return errClosed("jsonl")
	}

	data, err := json.Marshal(Envelope{RunID: j.runID, Frame: f})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode frame %d", f.Seq)
	}
	if _, err := j.w.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeSinkTransport, err, "write frame %d", f.Seq)
	}
	if err := j.w.WriteByte('\n'); err != nil {
		return errors.Wrap(errors.ErrCodeSinkTransport, err, "write frame %d", f.Seq)
	}
	return nil
}

// Close flushes the buffer and closes the underlying writer when it is
// closable. Further emits fail with SINK_CLOSED.
func (j *JSONL) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true

	if err := j.w.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeSinkTransport, err, "flush frame log")
	}
	if j.closer != nil {
		if err := j.closer.Close(); err != nil {
			return errors.Wrap(errors.ErrCodeSinkTransport, err, "close frame log")
		}
	}
	return nil
}

// ReadJSONL decodes every envelope from r in order.
func ReadJSONL(r io.Reader) ([]Envelope, error) {
	var out []Envelope
	dec := json.NewDecoder(r)
	for {
		var env Envelope
		if err := dec.Decode(&env); err == io.EOF {
			return out, nil
		} else if err != nil {
			return out, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode frame log entry %d", len(out))
		}
		out = append(out, env)
	}
}
