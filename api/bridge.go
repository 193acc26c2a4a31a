// Package api
//
// Bridge is the write-side contract the manager's scheduler drives (§4.3,
// §4.4). One Bridge represents one logical, long-lived connection owning a
// single TCP socket and its outbound queue.

package api

import "sync/atomic"

// Bridge composes the callback contract with the write-queue protocol and
// the queued flag the scheduler CASes on.
type Bridge interface {
	SocketCallback

	// WriteQueue drains up to budgetMs worth of outbound bytes. budgetMs
	// <= 0 means unbounded (used by writer helpers).
	WriteQueue(budgetMs int) WriteResult

	// ConfirmRemoveFromWriteQueue returns true iff the bridge is
	// definitively idle: nothing was enqueued since the last write. A false
	// return means work arrived between the writer observing emptiness and
	// this call, and the scheduler must re-enqueue.
	ConfirmRemoveFromWriteQueue() bool

	// Queued exposes the atomic 0/1 presence flag the scheduler CASes.
	Queued() *atomic.Int32
}
