package sink

import (
	"testing"
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pull"
	"go.nanomsg.org/mangos/v3/protocol/sub"
)

// newPullListener binds a pull socket for tests and tears it down with the
// test.
func newPullListener(t *testing.T, addr string) mangos.Socket {
	t.Helper()
	sock, err := pull.NewSocket()
	if err != nil {
		t.Fatalf("pull.NewSocket() error = %v", err)
	}
	if err := sock.SetOption(mangos.OptionRecvDeadline, 5*time.Second); err != nil {
		t.Fatalf("set recv deadline: %v", err)
	}
	if err := sock.Listen(addr); err != nil {
		t.Fatalf("Listen(%s) error = %v", addr, err)
	}
	t.Cleanup(func() { sock.Close() })
	return sock
}

// newSubDialer dials a subscriber with a short receive deadline so tests
// can poll for broadcast frames.
func newSubDialer(t *testing.T, addr string) mangos.Socket {
	t.Helper()
	sock, err := sub.NewSocket()
	if err != nil {
		t.Fatalf("sub.NewSocket() error = %v", err)
	}
	if err := sock.SetOption(mangos.OptionSubscribe, []byte{}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := sock.SetOption(mangos.OptionRecvDeadline, 200*time.Millisecond); err != nil {
		t.Fatalf("set recv deadline: %v", err)
	}
	if err := sock.Dial(addr); err != nil {
		t.Fatalf("Dial(%s) error = %v", addr, err)
	}
	t.Cleanup(func() { sock.Close() })
	return sock
}
