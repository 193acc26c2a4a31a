package socket

import (
	"io"
	"sync/atomic"
	"testing"

	"github.com/connio-go/connio/api"
)

// fakeCallback is a minimal api.SocketCallback driven entirely by test
// assertions, used to exercise the poll reader's dispatch/fallback logic
// without a real socket.
type fakeCallback struct {
	dataAvailable atomic.Bool
	reads         atomic.Int32
	errors        atomic.Int32
	heartbeats    atomic.Int32
	stale         atomic.Bool
}

func (f *fakeCallback) ConnectedAsync(io.ReadWriteCloser, api.Logger) bool { return true }
func (f *fakeCallback) Read()                                             { f.reads.Add(1) }
func (f *fakeCallback) StartReading()                                     {}
func (f *fakeCallback) Error()                                            { f.errors.Add(1) }
func (f *fakeCallback) OnHeartbeat()                                      { f.heartbeats.Add(1) }
func (f *fakeCallback) CheckForStaleConnection(api.ManagerState) bool {
	return f.stale.Load()
}
func (f *fakeCallback) IsDataAvailable() bool { return f.dataAvailable.Load() }

var _ api.SocketCallback = (*fakeCallback)(nil)

// TestS4StaleSelectFallback covers spec §8 scenario S4: a zero-return
// readiness cycle still invokes Read on any bridge that independently
// reports data available.
func TestS4StaleSelectFallback(t *testing.T) {
	m := NewManager("s4")
	defer m.Dispose()

	ready := &fakeCallback{}
	ready.dataAvailable.Store(true)
	idle := &fakeCallback{}

	active := []lookupEntry{
		{token: api.NewSocketToken(1), cb: ready},
		{token: api.NewSocketToken(2), cb: idle},
	}

	before := m.lastErrorTicks.Load()
	m.zeroReturnProbe(active)

	if ready.reads.Load() != 1 {
		t.Fatalf("ready callback Read() calls = %d, want 1", ready.reads.Load())
	}
	if idle.reads.Load() != 0 {
		t.Fatalf("idle callback Read() calls = %d, want 0", idle.reads.Load())
	}
	if m.lastErrorTicks.Load() != before {
		t.Fatalf("lastErrorTicks changed on a clean zero-return cycle")
	}
}

// TestDispatchReadyFallsBackWhenLookupMiss covers spec §4.5 step 4: if a
// readiness call names a handle no longer present in the lookup, dispatch
// reports nothing dispatched so the caller falls back to polling.
func TestDispatchReadyFallsBackWhenLookupMiss(t *testing.T) {
	m := NewManager("dispatch-miss")
	defer m.Dispose()

	if dispatched := m.dispatchReady([]uintptr{42}, nil); dispatched {
		t.Fatalf("dispatchReady reported dispatched for an unknown handle")
	}
}

// TestDispatchReadyInvokesReadAndError exercises the normal dispatch path
// for both the read-ready and error-ready sets.
func TestDispatchReadyInvokesReadAndError(t *testing.T) {
	m := NewManager("dispatch-ok")
	defer m.Dispose()

	readCb := &fakeCallback{}
	errCb := &fakeCallback{}
	m.lookup.add(api.NewSocketToken(1), readCb, nil)
	m.lookup.add(api.NewSocketToken(2), errCb, nil)

	dispatched := m.dispatchReady([]uintptr{1}, []uintptr{2})
	if !dispatched {
		t.Fatalf("dispatchReady reported nothing dispatched")
	}
	if readCb.reads.Load() != 1 {
		t.Fatalf("read callback invoked %d times, want 1", readCb.reads.Load())
	}
	if errCb.errors.Load() != 1 {
		t.Fatalf("error callback invoked %d times, want 1", errCb.errors.Load())
	}
}

// TestCallbackPanicIsSwallowed covers spec §7 "Callback fault": a
// panicking bridge must not crash the poll reader's dispatch loop.
func TestCallbackPanicIsSwallowed(t *testing.T) {
	m := NewManager("panic-swallow")
	defer m.Dispose()

	panicking := &panicCallback{}
	m.invokeRead(panicking) // must not panic out of this call
}

type panicCallback struct{ fakeCallback }

func (p *panicCallback) Read() { panic("boom") }
