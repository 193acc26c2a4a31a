package socket

import (
	"net"

	"github.com/connio-go/connio/api"
)

// Shutdown shuts down both directions then closes, guarding every step
// against errors. Go has no catchable out-of-memory condition, so there
// is nothing to rethrow; every error here is logged and swallowed.
func Shutdown(conn net.Conn, log api.Logger) {
	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.CloseRead(); err != nil {
			log.Debugw("shutdown: close-read failed", "err", err)
		}
		if err := tcp.CloseWrite(); err != nil {
			log.Debugw("shutdown: close-write failed", "err", err)
		}
	}
	if err := conn.Close(); err != nil {
		log.Debugw("shutdown: close failed", "err", err)
	}
}

// Shutdown is the Manager's public surface for spec §6 "Shutdown(SocketToken)".
// It removes tok from the sync-regime lookup (so the poll reader never
// dispatches to it again) and shuts its socket down. Calling it twice for
// the same token is a no-op on the second call (spec §8 "Shutdown on an
// already-shut socket is a no-op") since remove reports ok=false once the
// entry is gone.
func (m *Manager) Shutdown(tok api.SocketToken) {
	conn, ok := m.lookup.remove(tok)
	if !ok || conn == nil {
		return
	}
	Shutdown(conn, m.log)
}
