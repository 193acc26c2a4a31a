// Package api
//
// ManagerState is a diagnostic-only enumeration of the sync-regime poll
// reader's current phase (§3, §4.5). It is stored and read with an atomic so
// an operator or test can observe where the reader is stuck without taking
// any lock.

package api

import "sync/atomic"

// ManagerState enumerates the poll reader's phase.
type ManagerState int32

const (
	StateIdle ManagerState = iota
	StatePreparing
	StateCheckingHeartbeat
	StateLocatingSockets
	StateAwaitingSockets
	StateExecutingSelect
	StateProcessingRead
	StateProcessingError
	StatePollingFallback
	StateStopped
)

func (s ManagerState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StatePreparing:
		return "Preparing"
	case StateCheckingHeartbeat:
		return "CheckingHeartbeat"
	case StateLocatingSockets:
		return "LocatingSockets"
	case StateAwaitingSockets:
		return "AwaitingSockets"
	case StateExecutingSelect:
		return "ExecutingSelect"
	case StateProcessingRead:
		return "ProcessingRead"
	case StateProcessingError:
		return "ProcessingError"
	case StatePollingFallback:
		return "PollingFallback"
	case StateStopped:
		return "Stopped"
	default:
		return "ManagerState(unknown)"
	}
}

// AtomicState is a lock-free holder for ManagerState, read by diagnostics
// and written only by the poll reader goroutine itself.
type AtomicState struct {
	v atomic.Int32
}

func (a *AtomicState) Store(s ManagerState) { a.v.Store(int32(s)) }
func (a *AtomicState) Load() ManagerState   { return ManagerState(a.v.Load()) }
