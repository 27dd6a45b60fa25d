package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeMalformedGraph, "edge references unknown node %q", "ghost")

	if err.Code != ErrCodeMalformedGraph {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeMalformedGraph)
	}
	want := `MALFORMED_GRAPH: edge references unknown node "ghost"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeSinkTransport, cause, "emit frame %d", 7)

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeInvalidDOT, "unexpected token")

	if !Is(err, ErrCodeInvalidDOT) {
		t.Error("Is() = false, want true for matching code")
	}
	if Is(err, ErrCodeSinkTransport) {
		t.Error("Is() = true, want false for different code")
	}
	if Is(stderrors.New("plain"), ErrCodeInvalidDOT) {
		t.Error("Is() = true, want false for non-structured error")
	}
}

func TestIs_WrappedChain(t *testing.T) {
	inner := New(ErrCodeMalformedGraph, "bad edge")
	outer := fmt.Errorf("build model: %w", inner)

	if !Is(outer, ErrCodeMalformedGraph) {
		t.Error("Is() should find code through fmt.Errorf wrapping")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInternal, "boom")); got != ErrCodeInternal {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeInternal)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode() = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidConfig, "maxDims must be at least 4")
	if got := UserMessage(err); got != "maxDims must be at least 4" {
		t.Errorf("UserMessage() = %q", got)
	}
	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage() = %q", got)
	}
}
