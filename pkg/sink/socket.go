package sink

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"
	"go.nanomsg.org/mangos/v3/protocol/push"

	// Register all transports
	_ "go.nanomsg.org/mangos/v3/transport/all"

	"github.com/graphdrift/graphdrift/pkg/errors"
	"github.com/graphdrift/graphdrift/pkg/solver"
)

// SocketOptions configures a nanomsg frame socket.
type SocketOptions struct {
	// Addr is the nanomsg address, e.g. "tcp://127.0.0.1:7210" or
	// "ipc:///tmp/graphdrift.sock".
	Addr string
	// Protocol selects the scalability protocol: "push" delivers each
	// frame to exactly one puller, "pub" broadcasts to every subscriber.
	Protocol string
	// Listen binds instead of dialing. Pub sinks usually listen; push
	// sinks usually dial into a collector.
	Listen bool
	// SendTimeout bounds each send. Zero keeps the default of 5s.
	SendTimeout time.Duration
}

// ValidateAndSetDefaults checks the options and fills defaults in place.
func (o *SocketOptions) ValidateAndSetDefaults() error {
	if o.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "socket sink requires an address")
	}
	if o.Protocol == "" {
		o.Protocol = "push"
	}
	switch o.Protocol {
	case "push", "pub":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported socket protocol %q", o.Protocol)
	}
	if o.SendTimeout == 0 {
		o.SendTimeout = 5 * time.Second
	}
	return nil
}

// Socket streams frames over a nanomsg socket, one JSON envelope per
// message. A transport failure is fatal for the run that hit it.
type Socket struct {
	mu     sync.Mutex
	runID  string
	sock   mangos.Socket
	closed bool
}

// DialSocket connects a frame socket per the options.
func DialSocket(opts SocketOptions) (*Socket, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	var (
		sock mangos.Socket
		err  error
	)
	switch opts.Protocol {
	case "pub":
		sock, err = pub.NewSocket()
	default:
		sock, err = push.NewSocket()
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSinkTransport, err, "create %s socket", opts.Protocol)
	}

	// Pub sends are best-effort and never block, and pub sockets reject a
	// send deadline. Only push sockets take one.
	if opts.Protocol == "push" {
		if err := sock.SetOption(mangos.OptionSendDeadline, opts.SendTimeout); err != nil {
			sock.Close()
			return nil, errors.Wrap(errors.ErrCodeSinkTransport, err, "set send deadline")
		}
	}

	if opts.Listen {
		err = sock.Listen(opts.Addr)
	} else {
		err = sock.Dial(opts.Addr)
	}
	if err != nil {
		sock.Close()
		return nil, errors.Wrap(errors.ErrCodeSinkTransport, err, "attach %s socket to %s", opts.Protocol, opts.Addr)
	}

	return &Socket{runID: NewRunID(), sock: sock}, nil
}

// RunID returns the identifier stamped on every envelope.
func (s *Socket) RunID() string { return s.runID }

// Emit sends the frame as one message.
func (s *Socket) Emit(_ context.Context, f *solver.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed("socket")
	}

	data, err := json.Marshal(Envelope{RunID: s.runID, Frame: f})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode frame %d", f.Seq)
	}
	if err := s.sock.Send(data); err != nil {
		return errors.Wrap(errors.ErrCodeSinkTransport, err, "send frame %d", f.Seq)
	}
	return nil
}

// Close shuts the socket down. Further emits fail with SINK_CLOSED.
func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.sock.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeSinkTransport, err, "close socket")
	}
	return nil
}
