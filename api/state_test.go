package api_test

import (
	"testing"

	"github.com/connio-go/connio/api"
)

func TestAtomicStateStoreLoad(t *testing.T) {
	var s api.AtomicState
	if got := s.Load(); got != api.StateIdle {
		t.Fatalf("zero-value AtomicState = %v, want StateIdle", got)
	}
	s.Store(api.StateProcessingRead)
	if got := s.Load(); got != api.StateProcessingRead {
		t.Fatalf("Load() = %v, want StateProcessingRead", got)
	}
}

func TestManagerStateString(t *testing.T) {
	cases := map[api.ManagerState]string{
		api.StateIdle:              "Idle",
		api.StatePreparing:         "Preparing",
		api.StateCheckingHeartbeat: "CheckingHeartbeat",
		api.StateLocatingSockets:   "LocatingSockets",
		api.StateAwaitingSockets:   "AwaitingSockets",
		api.StateExecutingSelect:   "ExecutingSelect",
		api.StateProcessingRead:    "ProcessingRead",
		api.StateProcessingError:   "ProcessingError",
		api.StatePollingFallback:   "PollingFallback",
		api.StateStopped:           "Stopped",
		api.ManagerState(99):       "ManagerState(unknown)",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}
