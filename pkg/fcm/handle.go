package fcm

import (
	"context"
	"encoding/json"
)

// Transport performs one named-command round-trip against the native
// notification subsystem. Implementations must be safe for concurrent use.
// Cancellation and timeout semantics are whatever the transport provides;
// this package imposes none of its own.
type Transport interface {
	Invoke(ctx context.Context, command string, request any) (json.RawMessage, error)
}

// Handle represents the native notification subsystem, or its absence.
// A Handle is constructed exactly once per application, at startup, and is
// immutable afterward: it may be copied and read from any goroutine.
//
// The zero value is Absent.
type Handle struct {
	transport Transport
}

// Native wraps a registered plugin transport in a present Handle.
func Native(t Transport) Handle {
	return Handle{transport: t}
}

// Absent returns the handle for platforms with no native notification
// subsystem. All operations on an absent handle resolve locally.
func Absent() Handle {
	return Handle{}
}

// Present reports whether a native subsystem is reachable through this
// handle.
func (h Handle) Present() bool {
	return h.transport != nil
}
