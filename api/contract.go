// Package api
//
// SocketCallback is the contract the manager invokes on each logical
// connection (§6). It is implemented by the external bridge, never by this
// package — connio only consumes it.

package api

import (
	"io"
)

// SocketCallback is the lifecycle surface the manager drives.
type SocketCallback interface {
	// ConnectedAsync is called once after the TCP connect completes. It
	// returns true if the bridge accepts the connection; returning false
	// (or panicking with a plain error) causes the manager to shut the
	// socket down and abandon the connect attempt.
	ConnectedAsync(stream io.ReadWriteCloser, log Logger) bool

	// Read is called when readiness indicates bytes are available. The
	// bridge must read greedily while IsDataAvailable is true.
	Read()

	// StartReading is called once, in async regime only, so the bridge can
	// arrange its own read continuation.
	StartReading()

	// Error is called on a socket-level error, or defensively if the
	// manager is disposed while ConnectedAsync is in flight.
	Error()

	// OnHeartbeat is called at the sync poll reader's pacemaker interval.
	OnHeartbeat()

	// CheckForStaleConnection is called when a readiness cycle reports no
	// activity and no buffered data. The bridge may declare the connection
	// stale by returning true.
	CheckForStaleConnection(state ManagerState) bool

	// IsDataAvailable is a pure query: true iff bytes are buffered at the
	// OS socket or the bridge's own framing layer.
	IsDataAvailable() bool
}

// Logger is the minimal structured-logging surface the manager hands to a
// bridge at connect time, so bridge code can log through the same sink
// without importing a concrete logging library.
type Logger interface {
	Debugw(msg string, kv ...any)
	Infow(msg string, kv ...any)
	Warnw(msg string, kv ...any)
	Errorw(msg string, kv ...any)
}
