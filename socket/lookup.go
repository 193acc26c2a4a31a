// Package socket implements the connection I/O core: the SocketManager,
// its write scheduler, its sync-regime poll reader, its async-regime
// handoff, and the connect path (spec §4).
package socket

import (
	"net"
	"sync"
	"time"

	"github.com/connio-go/connio/api"
)

// lookupEntry pairs a socket token with the bridge callback the reader
// dispatches to, plus the net.Conn needed to actually shut the socket
// down (spec §4.7) so that the public Shutdown(SocketToken) surface (spec
// §6) does not require the caller to keep its own conn around.
type lookupEntry struct {
	token api.SocketToken
	cb    api.SocketCallback
	conn  net.Conn
}

// socketLookup is the manager's raw-handle -> (socket, callback) table
// (spec §3 "Socket lookup"). It is used only in sync regime. A single
// mutex plus condition variable lets the poll reader block on "table is
// empty" and lets OnAddRead wake it on the empty->non-empty transition.
type socketLookup struct {
	mu      sync.Mutex
	cond    *sync.Cond
	entries map[uintptr]lookupEntry
}

func newSocketLookup() *socketLookup {
	l := &socketLookup{entries: make(map[uintptr]lookupEntry)}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// add inserts a socket/callback/conn triple, returning true if the table
// was empty immediately beforehand (the empty->non-empty transition the
// poll reader's startup condition cares about).
func (l *socketLookup) add(tok api.SocketToken, cb api.SocketCallback, conn net.Conn) (wasEmpty bool) {
	l.mu.Lock()
	wasEmpty = len(l.entries) == 0
	l.entries[tok.FD()] = lookupEntry{token: tok, cb: cb, conn: conn}
	l.mu.Unlock()
	l.cond.Broadcast()
	return wasEmpty
}

// remove deletes a socket from the table if present, returning its conn
// (if it was present) so the caller can shut it down.
func (l *socketLookup) remove(tok api.SocketToken) (net.Conn, bool) {
	l.mu.Lock()
	e, ok := l.entries[tok.FD()]
	delete(l.entries, tok.FD())
	l.mu.Unlock()
	return e.conn, ok
}

// snapshot copies the current entries under lock.
func (l *socketLookup) snapshot() []lookupEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]lookupEntry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e)
	}
	return out
}

func (l *socketLookup) lookup(fd uintptr) (lookupEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[fd]
	return e, ok
}

func (l *socketLookup) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// waitNonEmptyGrace blocks until the table is non-empty, the manager is
// disposed, or grace elapses, whichever comes first. It reports whether
// the table is non-empty on return (false means "exit the reader").
func (l *socketLookup) waitNonEmptyGrace(disposed *boolFlag, grace time.Duration) bool {
	expired := false
	timer := time.AfterFunc(grace, func() {
		l.mu.Lock()
		expired = true
		l.mu.Unlock()
		l.cond.Broadcast()
	})
	defer timer.Stop()

	l.mu.Lock()
	defer l.mu.Unlock()
	for len(l.entries) == 0 && !disposed.get() && !expired {
		l.cond.Wait()
	}
	return len(l.entries) > 0 && !disposed.get()
}

func (l *socketLookup) broadcastAll() {
	l.mu.Lock()
	l.mu.Unlock()
	l.cond.Broadcast()
}

// boolFlag is a tiny RWMutex-guarded boolean used by both the lookup and the
// manager's disposal signal.
type boolFlag struct {
	mu sync.RWMutex
	v  bool
}

func (b *boolFlag) set(v bool) {
	b.mu.Lock()
	b.v = v
	b.mu.Unlock()
}

func (b *boolFlag) get() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.v
}
