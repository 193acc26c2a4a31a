package socket

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/connio-go/connio/api"
	"github.com/connio-go/connio/internal/helperpool"
	"github.com/connio-go/connio/internal/logging"
	"github.com/connio-go/connio/internal/metrics"
	"github.com/connio-go/connio/queue"
)

// Manager is the process-scoped owner of the write scheduler, the
// sync-regime poll reader, and the socket lookup table (spec §3, §4.1).
// It is created explicitly and disposed explicitly; callers share one
// Manager across every Bridge that belongs to the same logical client.
type Manager struct {
	cfg *api.ManagerConfig
	log api.Logger
	met *metrics.Set

	regime api.Regime

	fifo    *queue.Fifo
	lookup  *socketLookup
	helpers *helperpool.Pool

	disposed    boolFlag
	readerCount atomic.Int32
	state       api.AtomicState

	lastErrorTicks atomic.Int64

	wg sync.WaitGroup
}

// NewManager constructs a Manager and starts its dedicated writer
// goroutine. The regime is auto-selected per §4.1: Async on Windows,
// Sync everywhere else (see socket/regime_*.go).
func NewManager(name string, opts ...api.ManagerOption) *Manager {
	cfg := api.DefaultManagerConfig(name)
	for _, o := range opts {
		o(cfg)
	}

	m := &Manager{
		cfg:     cfg,
		log:     logging.NewZapLogger(name),
		met:     metrics.NewSet(name),
		regime:  selectRegime(),
		fifo:    queue.New(),
		lookup:  newSocketLookup(),
		helpers: helperpool.New(runtime.NumCPU()),
	}
	m.state.Store(api.StateIdle)

	m.wg.Add(1)
	go m.writeAllQueues()

	return m
}

// Name returns the manager's configured diagnostic name.
func (m *Manager) Name() string { return m.cfg.Name }

// Regime reports the I/O regime this manager was constructed with.
func (m *Manager) Regime() api.Regime { return m.regime }

// State returns the poll reader's current diagnostic phase. It is safe
// to call from any goroutine without taking a lock (spec §3).
func (m *Manager) State() api.ManagerState { return m.state.Load() }

// Dispose signals every manager-owned goroutine to exit and blocks until
// the dedicated writer has observed the signal. It is idempotent: a
// second call is a no-op (spec §8 "Dispose is idempotent").
func (m *Manager) Dispose() {
	if m.disposed.get() {
		return
	}
	m.disposed.set(true)
	m.fifo.Dispose()
	m.lookup.broadcastAll()
	m.helpers.Dispose()
	m.wg.Wait()
}

// Disposed reports whether Dispose has been called.
func (m *Manager) Disposed() bool { return m.disposed.get() }

// RequestWrite enqueues bridge for write service (spec §4.3). When forced
// is false, a bridge already present in the FIFO (queued == 1) is not
// re-enqueued. When forced is true the queued flag is set unconditionally
// and the bridge is pushed regardless of its prior state, per the
// "explicit forced enqueue" escape hatch in spec §3's invariant.
func (m *Manager) RequestWrite(bridge api.Bridge, forced bool) {
	if m.disposed.get() {
		return
	}

	q := bridge.Queued()
	if !forced {
		if !q.CompareAndSwap(0, 1) {
			return // already queued; single-slot fairness holds
		}
	} else {
		q.Store(1)
	}

	n := m.fifo.Push(bridge)
	m.met.WriteQueueDepth.Set(float64(n))
	if n >= 2 {
		m.helpers.Submit(func() { m.writeOneQueue() })
	}
}
