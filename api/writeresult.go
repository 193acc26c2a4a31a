// Package api
//
// WriteResult is the outcome a Bridge reports from one WriteQueue drain
// attempt; the write scheduler (§4.3) dispatches on it.

package api

// WriteResult is returned by Bridge.WriteQueue to tell the scheduler what
// to do with the bridge next.
type WriteResult int

const (
	// MoreWork: bytes were written; more remain, or the time budget ran out
	// before the queue drained. Re-enqueue at the tail.
	MoreWork WriteResult = iota

	// QueueEmptyAfterWrite: the bridge wrote something and is now empty, but
	// has not yet run the confirm-remove handshake. Re-enqueue at the tail
	// so the next pass runs ConfirmRemoveFromWriteQueue.
	QueueEmptyAfterWrite

	// NothingToDo: there was nothing to write on entry. The scheduler should
	// attempt ConfirmRemoveFromWriteQueue.
	NothingToDo

	// CompetingWriter: another goroutine already holds this bridge's write
	// mutex. Drop it from this pass; it will be revisited on its own.
	CompetingWriter

	// NoConnection: the bridge has no live connection. The scheduler forgets
	// this bridge and clears its queued flag.
	NoConnection
)

func (r WriteResult) String() string {
	switch r {
	case MoreWork:
		return "MoreWork"
	case QueueEmptyAfterWrite:
		return "QueueEmptyAfterWrite"
	case NothingToDo:
		return "NothingToDo"
	case CompetingWriter:
		return "CompetingWriter"
	case NoConnection:
		return "NoConnection"
	default:
		return "WriteResult(unknown)"
	}
}
