package socket

import "github.com/connio-go/connio/api"

// writeAllQueues is the dedicated writer's lifetime loop (spec §4.3
// "WriteAllQueues"). Exactly one of these runs per Manager, started by
// NewManager, exiting only when the Manager is disposed and the FIFO has
// drained.
func (m *Manager) writeAllQueues() {
	defer m.wg.Done()
	raisePriority(m.cfg.UseHighPrioritySocketThreads, m.log)
	for {
		bridge, ok := m.fifo.PopWait()
		if !ok {
			return // disposed and empty
		}
		m.met.WriteQueueDepth.Set(float64(m.fifo.Len()))
		m.drainOnePass(bridge, int(m.cfg.WriteBudget.Milliseconds()))
	}
}

// writeOneQueue is a helper goroutine's body (spec §4.3 "WriteOneQueue").
// It is spawned by RequestWrite when the FIFO depth reaches >= 2, drains
// exactly one bridge popped from the head with an unbounded budget, and
// repeats while the bridge keeps reporting more work.
func (m *Manager) writeOneQueue() {
	bridge, ok := m.fifo.TryPop()
	if !ok {
		return
	}
	m.met.WriteQueueDepth.Set(float64(m.fifo.Len()))
	m.met.HelperActive.Inc()
	defer m.met.HelperActive.Dec()
	for {
		if m.disposed.get() {
			bridge.Queued().Store(0)
			return
		}
		res := bridge.WriteQueue(0) // budgetMs <= 0: unbounded
		switch res {
		case api.MoreWork, api.QueueEmptyAfterWrite:
			continue
		case api.CompetingWriter:
			return
		case api.NoConnection:
			bridge.Queued().Store(0)
			return
		case api.NothingToDo:
			if !bridge.ConfirmRemoveFromWriteQueue() {
				m.RequestWrite(bridge, true)
			} else {
				bridge.Queued().Store(0)
			}
			return
		default:
			return
		}
	}
}

// drainOnePass runs one WriteQueue/dispatch cycle for bridge on behalf of
// the dedicated writer, implementing the result table in spec §4.3.
func (m *Manager) drainOnePass(bridge api.Bridge, budgetMs int) {
	res := bridge.WriteQueue(budgetMs)
	switch res {
	case api.MoreWork:
		m.RequestWrite(bridge, true) // re-enqueue at tail, back-of-line fairness
	case api.QueueEmptyAfterWrite:
		m.RequestWrite(bridge, true) // let ConfirmRemoveFromWriteQueue run next pass
	case api.NothingToDo:
		if !bridge.ConfirmRemoveFromWriteQueue() {
			m.RequestWrite(bridge, true) // work snuck in after the commit attempt
		} else {
			bridge.Queued().Store(0)
		}
	case api.CompetingWriter:
		// drop: another writer already owns this bridge's drain
	case api.NoConnection:
		bridge.Queued().Store(0)
	}
}
