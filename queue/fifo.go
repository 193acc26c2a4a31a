// Package queue implements the manager-wide Write FIFO (spec §3, §4.3): the
// ordered sequence of bridges awaiting write service, guarded by a single
// mutex with a condition variable that wakes the dedicated writer.
//
// The underlying storage is github.com/eapache/queue's ring-buffer Queue.
package queue

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/connio-go/connio/api"
)

// Fifo is the write-scheduler's bridge queue. All methods are safe for
// concurrent use by the dedicated writer, helper goroutines, and any
// goroutine calling RequestWrite.
type Fifo struct {
	mu       sync.Mutex
	cond     *sync.Cond
	q        *queue.Queue
	disposed bool
}

// New creates an empty Fifo.
func New() *Fifo {
	f := &Fifo{q: queue.New()}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Push appends a bridge to the tail and returns the queue length observed
// immediately after the push (used by the caller to decide whether to spawn
// a write helper per §4.3's "FIFO reached >= 2" rule). It wakes one waiter.
func (f *Fifo) Push(b api.Bridge) int {
	f.mu.Lock()
	f.q.Add(b)
	n := f.q.Length()
	f.mu.Unlock()
	f.cond.Signal()
	return n
}

// PopWait blocks until a bridge is available or the Fifo is disposed. ok is
// false only when the Fifo is disposed and empty — the caller's loop
// terminates on that.
func (f *Fifo) PopWait() (b api.Bridge, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.q.Length() == 0 {
		if f.disposed {
			return nil, false
		}
		f.cond.Wait()
	}
	v := f.q.Peek()
	f.q.Remove()
	return v.(api.Bridge), true
}

// TryPop removes and returns the head bridge without blocking. ok is false
// if the queue is currently empty.
func (f *Fifo) TryPop() (b api.Bridge, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.q.Length() == 0 {
		return nil, false
	}
	v := f.q.Peek()
	f.q.Remove()
	return v.(api.Bridge), true
}

// Len reports the current queue depth.
func (f *Fifo) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.q.Length()
}

// Dispose marks the Fifo disposed and wakes every waiter; PopWait callers
// observe disposal once the queue has drained.
func (f *Fifo) Dispose() {
	f.mu.Lock()
	f.disposed = true
	f.mu.Unlock()
	f.cond.Broadcast()
}

// Disposed reports whether Dispose has been called.
func (f *Fifo) Disposed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disposed
}
