// Package testbridge is a reference api.Bridge implementation used by the
// socket package's tests. It is not a public surface, and carries no
// framing of its own; it exists to give the test suite something real to
// drive BeginConnectAsync/RequestWrite against over an actual TCP
// loopback connection, instead of a hand-rolled mock per test file.
package testbridge

import (
	"bytes"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/connio-go/connio/api"
)

var _ api.Bridge = (*Bridge)(nil)

// Bridge is a minimal logical connection: an outbound byte queue drained
// by the Manager's write scheduler, and a greedy reader that hands
// complete reads to a caller-supplied callback. Tests push and observe
// raw bytes directly.
type Bridge struct {
	mu      sync.Mutex
	conn    net.Conn
	pending bytes.Buffer
	writing sync.Mutex // held only while actually writing; TryLock detects a competing drain

	queued    atomic.Int32
	connected atomic.Bool
	stale     atomic.Bool

	lastActivity atomic.Int64 // unix nanos
	heartbeats   atomic.Int64

	onRead func([]byte)

	hasPeek bool
	peek    byte

	staleAfter time.Duration
}

// New returns a disconnected Bridge. onRead, if non-nil, is called with
// every chunk Read() pulls off the wire. staleAfter bounds how long a
// connection can sit idle before CheckForStaleConnection reports it stale;
// zero disables staleness detection (the default used by most tests).
func New(onRead func([]byte), staleAfter time.Duration) *Bridge {
	return &Bridge{onRead: onRead, staleAfter: staleAfter}
}

// Enqueue appends data to the outbound queue. Callers still need to call
// Manager.RequestWrite to get the bridge serviced — Enqueue only fills the
// buffer the scheduler later drains.
func (b *Bridge) Enqueue(data []byte) {
	b.mu.Lock()
	b.pending.Write(data)
	b.mu.Unlock()
}

// Queued exposes the scheduler's presence flag (api.Bridge).
func (b *Bridge) Queued() *atomic.Int32 { return &b.queued }

// ConnectedAsync accepts every stream that is a net.Conn and rejects any
// other (api.SocketCallback).
func (b *Bridge) ConnectedAsync(stream io.ReadWriteCloser, log api.Logger) bool {
	conn, ok := stream.(net.Conn)
	if !ok {
		return false
	}
	b.mu.Lock()
	b.conn = conn
	b.mu.Unlock()
	b.connected.Store(true)
	b.touch()
	return true
}

// StartReading arranges a background read loop for async regime (api.SocketCallback).
func (b *Bridge) StartReading() {
	go func() {
		for b.connected.Load() {
			if b.IsDataAvailable() {
				b.Read()
				continue
			}
			time.Sleep(2 * time.Millisecond)
		}
	}()
}

// Error marks the bridge disconnected (api.SocketCallback).
func (b *Bridge) Error() {
	b.connected.Store(false)
}

// OnHeartbeat records a pacemaker firing (api.SocketCallback).
func (b *Bridge) OnHeartbeat() {
	b.heartbeats.Add(1)
	b.touch()
}

// Heartbeats reports how many OnHeartbeat calls this bridge has observed.
func (b *Bridge) Heartbeats() int64 { return b.heartbeats.Load() }

// CheckForStaleConnection reports staleness once staleAfter has elapsed
// since the bridge last saw activity (api.SocketCallback).
func (b *Bridge) CheckForStaleConnection(state api.ManagerState) bool {
	if b.staleAfter <= 0 {
		return false
	}
	idle := time.Duration(time.Now().UnixNano()-b.lastActivity.Load()) * time.Nanosecond
	stale := idle >= b.staleAfter
	b.stale.Store(stale)
	return stale
}

// Stale reports the last staleness verdict.
func (b *Bridge) Stale() bool { return b.stale.Load() }

// IsDataAvailable peeks one byte off the wire with a zero read deadline —
// a non-blocking "is there anything buffered" probe. The peeked byte is
// cached and replayed by the next Read call so no data is lost
// (api.SocketCallback).
func (b *Bridge) IsDataAvailable() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.hasPeek {
		return true
	}
	conn := b.conn
	if conn == nil {
		return false
	}
	_ = conn.SetReadDeadline(time.Now())
	one := make([]byte, 1)
	n, err := conn.Read(one)
	_ = conn.SetReadDeadline(time.Time{})
	if n > 0 {
		b.peek = one[0]
		b.hasPeek = true
		return true
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return false
	}
	// Any other error (EOF, closed) means there is nothing more to read and
	// the connection is effectively gone; report unavailable rather than
	// spin the reader on a dead socket.
	return false
}

// Read greedily drains the socket while IsDataAvailable, handing each
// chunk to onRead (api.SocketCallback).
func (b *Bridge) Read() {
	for b.IsDataAvailable() {
		b.mu.Lock()
		conn := b.conn
		buf := make([]byte, 4096)
		n := 0
		if b.hasPeek {
			buf[0] = b.peek
			b.hasPeek = false
			n = 1
		}
		b.mu.Unlock()

		if conn == nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
		m, err := conn.Read(buf[n:])
		_ = conn.SetReadDeadline(time.Time{})
		total := n + m
		if total > 0 {
			b.touch()
			if b.onRead != nil {
				chunk := make([]byte, total)
				copy(chunk, buf[:total])
				b.onRead(chunk)
			}
		}
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return
		}
	}
}

// WriteQueue drains up to budgetMs of pending bytes (api.Bridge, spec §4.4).
func (b *Bridge) WriteQueue(budgetMs int) api.WriteResult {
	if !b.writing.TryLock() {
		return api.CompetingWriter
	}
	defer b.writing.Unlock()

	b.mu.Lock()
	conn := b.conn
	b.mu.Unlock()
	if conn == nil {
		return api.NoConnection
	}

	b.mu.Lock()
	if b.pending.Len() == 0 {
		b.mu.Unlock()
		return api.NothingToDo
	}
	data := make([]byte, b.pending.Len())
	copy(data, b.pending.Bytes())
	b.pending.Reset()
	b.mu.Unlock()

	deadline := time.Time{}
	if budgetMs > 0 {
		deadline = time.Now().Add(time.Duration(budgetMs) * time.Millisecond)
		_ = conn.SetWriteDeadline(deadline)
	}

	written := 0
	for written < len(data) {
		n, err := conn.Write(data[written:])
		written += n
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				b.requeue(data[written:])
				_ = conn.SetWriteDeadline(time.Time{})
				return api.MoreWork
			}
			return api.NoConnection
		}
	}
	_ = conn.SetWriteDeadline(time.Time{})
	b.touch()

	b.mu.Lock()
	more := b.pending.Len() > 0
	b.mu.Unlock()
	if more {
		return api.MoreWork
	}
	return api.QueueEmptyAfterWrite
}

// requeue puts unwritten bytes back at the front of the pending buffer.
func (b *Bridge) requeue(rest []byte) {
	if len(rest) == 0 {
		return
	}
	b.mu.Lock()
	old := b.pending.Bytes()
	var merged bytes.Buffer
	merged.Write(rest)
	merged.Write(old)
	b.pending = merged
	b.mu.Unlock()
}

// ConfirmRemoveFromWriteQueue reports whether the bridge is definitively
// idle (api.Bridge, spec §4.4 "confirm-remove handshake").
func (b *Bridge) ConfirmRemoveFromWriteQueue() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending.Len() == 0
}

func (b *Bridge) touch() { b.lastActivity.Store(time.Now().UnixNano()) }

// Connected reports whether ConnectedAsync has run and Error has not.
func (b *Bridge) Connected() bool { return b.connected.Load() }
