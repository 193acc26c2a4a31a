package socket

import (
	"time"

	"github.com/connio-go/connio/api"
)

// ensurePollReader starts the sync-regime poll-reader goroutine if one is
// not already running. It implements the CAS-gated "at most one reader"
// invariant of spec §3/§4.5 "Concurrency control": OnAddRead (here,
// socketLookup.add's empty->non-empty transition, observed by
// BeginConnectAsync) calls this, but only the caller that wins the
// 0->1 CAS actually spawns a goroutine.
func (m *Manager) ensurePollReader() {
	if !m.readerCount.CompareAndSwap(0, 1) {
		return
	}
	m.wg.Add(1)
	go m.pollLoop()
}

// pollLoop is the sync-regime poll reader's lifetime body (spec §4.5). It
// runs the four main phases every cycle, publishing its current phase to
// api.ManagerState so a caller can diagnose a stuck reader without taking
// any lock.
func (m *Manager) pollLoop() {
	defer m.wg.Done()
	defer m.readerCount.Store(0)
	defer m.state.Store(api.StateStopped)

	raisePriority(m.cfg.UseHighPrioritySocketThreads, m.log)

	var lastHeartbeat time.Time
	for {
		if m.disposed.get() {
			return
		}

		m.state.Store(api.StateCheckingHeartbeat)
		m.met.ReaderState.Set(float64(api.StateCheckingHeartbeat))
		if lastHeartbeat.IsZero() || time.Since(lastHeartbeat) >= m.cfg.HeartbeatInterval {
			m.runHeartbeats()
			lastHeartbeat = time.Now()
		}

		m.state.Store(api.StateLocatingSockets)
		m.met.ReaderState.Set(float64(api.StateLocatingSockets))
		active := m.lookup.snapshot()
		if len(active) == 0 {
			m.state.Store(api.StateAwaitingSockets)
			m.met.ReaderState.Set(float64(api.StateAwaitingSockets))
			if !m.lookup.waitNonEmptyGrace(&m.disposed, m.cfg.EmptyLookupGrace) {
				return // empty for the full grace period, or disposed: exit the reader
			}
			continue
		}

		m.state.Store(api.StateExecutingSelect)
		m.met.ReaderState.Set(float64(api.StateExecutingSelect))
		readReady, errReady, err := pollOnce(active, m.cfg.SelectTimeout)
		if err != nil {
			m.lastErrorTicks.Store(time.Now().UnixNano())
			continue // transient readiness error (spec §7): retry the loop
		}

		if len(readReady) == 0 && len(errReady) == 0 {
			m.zeroReturnProbe(active)
			continue
		}

		dispatched := m.dispatchReady(readReady, errReady)
		if !dispatched {
			m.state.Store(api.StatePollingFallback)
			m.met.ReaderState.Set(float64(api.StatePollingFallback))
			m.fallbackProbe(active)
		}
	}
}

// dispatchReady invokes Read/Error on every handle the readiness call
// returned, and reports whether anything was actually dispatched — a
// platform can report a handle ready that has since been removed from the
// lookup by a concurrent Shutdown, in which case the caller falls back to
// polling IsDataAvailable (spec §4.5 step 4).
func (m *Manager) dispatchReady(readReady, errReady []uintptr) bool {
	dispatched := false

	m.state.Store(api.StateProcessingRead)
	m.met.ReaderState.Set(float64(api.StateProcessingRead))
	for _, fd := range readReady {
		if e, ok := m.lookup.lookup(fd); ok {
			dispatched = true
			m.invokeRead(e.cb)
		}
	}

	m.state.Store(api.StateProcessingError)
	m.met.ReaderState.Set(float64(api.StateProcessingError))
	for _, fd := range errReady {
		if e, ok := m.lookup.lookup(fd); ok {
			dispatched = true
			m.invokeError(e.cb)
			m.lookup.remove(e.token) // dead socket: stop polling it
		}
	}

	return dispatched
}

// zeroReturnProbe runs when the readiness call reports nothing pending:
// per-bridge IsDataAvailable/CheckForStaleConnection probes pick up data
// that arrived between the readiness call returning and now, and give
// each bridge a chance to declare itself stale (spec §4.5 step 3).
func (m *Manager) zeroReturnProbe(active []lookupEntry) {
	state := m.state.Load()
	for _, e := range active {
		if m.isDataAvailable(e.cb) {
			m.invokeRead(e.cb)
			continue
		}
		m.checkStale(e.cb, state)
	}
}

// fallbackProbe is the step-4 fallback: the readiness call reported ready
// handles but dispatch found no live callback for any of them (e.g. the
// bridge was shut down in the window between the call and dispatch).
func (m *Manager) fallbackProbe(active []lookupEntry) {
	for _, e := range active {
		if m.isDataAvailable(e.cb) {
			m.invokeRead(e.cb)
		}
	}
}

// runHeartbeats snapshots the lookup and fires OnHeartbeat on every bridge
// (spec §4.5 step 1, §3 "Heartbeat callbacks fire at least every 15
// seconds"). Bridges added mid-phase simply wait for the next pass.
func (m *Manager) runHeartbeats() {
	for _, e := range m.lookup.snapshot() {
		func(cb api.SocketCallback) {
			defer m.recoverCallback("OnHeartbeat")
			cb.OnHeartbeat()
			m.met.HeartbeatsTotal.Inc()
		}(e.cb)
	}
}

// invokeRead, invokeError, isDataAvailable, and checkStale each guard a
// single callback invocation against a panicking bridge (spec §7
// "Callback fault ... swallow with trace; do not let one bridge's fault
// crash the reader/writer").
func (m *Manager) invokeRead(cb api.SocketCallback) {
	defer m.recoverCallback("Read")
	cb.Read()
}

func (m *Manager) invokeError(cb api.SocketCallback) {
	defer m.recoverCallback("Error")
	cb.Error()
}

func (m *Manager) isDataAvailable(cb api.SocketCallback) (avail bool) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Errorw("pollreader: callback panicked", "callback", "IsDataAvailable", "panic", r)
			avail = false
		}
	}()
	return cb.IsDataAvailable()
}

func (m *Manager) checkStale(cb api.SocketCallback, state api.ManagerState) {
	defer m.recoverCallback("CheckForStaleConnection")
	cb.CheckForStaleConnection(state)
}

func (m *Manager) recoverCallback(name string) {
	if r := recover(); r != nil {
		m.log.Errorw("pollreader: callback panicked", "callback", name, "panic", r)
	}
}
