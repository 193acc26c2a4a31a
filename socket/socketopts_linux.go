//go:build linux

package socket

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/connio-go/connio/api"
)

// applySocketTuning disables Nagle's algorithm and enables TCP keepalive
// with a 30s idle time and 1s probe interval (spec §4.2 step 2).
func applySocketTuning(conn *net.TCPConn, log api.Logger) {
	_ = conn.SetNoDelay(true)

	raw, err := conn.SyscallConn()
	if err != nil {
		log.Warnw("socketopts: could not get raw conn", "err", err)
		return
	}
	err = raw.Control(func(fd uintptr) {
		if e := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1); e != nil {
			log.Warnw("socketopts: SO_KEEPALIVE unsupported", "err", e)
		}
		if e := unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_KEEPIDLE, int(keepaliveIdle.Seconds())); e != nil {
			log.Warnw("socketopts: TCP_KEEPIDLE unsupported", "err", e)
		}
		if e := unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_KEEPINTVL, int(keepaliveInterval.Seconds())); e != nil {
			log.Warnw("socketopts: TCP_KEEPINTVL unsupported", "err", e)
		}
	})
	if err != nil && err != syscall.EINVAL {
		log.Warnw("socketopts: raw control failed", "err", err)
	}
}
