//go:build windows

package socket

import (
	"net"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/connio-go/connio/api"
)

// sioLoopbackFastPath is SIO_LOOPBACK_FAST_PATH (0x98000010), introduced
// in Windows 8 / Server 2012 (kernel family 6.2+). Applying it on a
// loopback socket bypasses several layers of the TCP/IP stack; it is a
// pure optimization and unsupported platforms are ignored silently
// (spec §4.2 step 2).
const sioLoopbackFastPath = 0x98000010

// applySocketTuning applies the fast-loopback ioctl, TCP keepalive (30s
// idle / 1s interval, set independently via net.KeepAliveConfig), and
// disables Nagle's algorithm (spec §4.2 step 2).
func applySocketTuning(conn *net.TCPConn, log api.Logger) {
	_ = conn.SetNoDelay(true)
	if err := conn.SetKeepAliveConfig(net.KeepAliveConfig{
		Enable:   true,
		Idle:     keepaliveIdle,
		Interval: keepaliveInterval,
	}); err != nil {
		log.Debugw("socketopts: keepalive config unsupported", "err", err)
	}

	raw, err := conn.SyscallConn()
	if err != nil {
		log.Warnw("socketopts: could not get raw conn", "err", err)
		return
	}
	err = raw.Control(func(fd uintptr) {
		handle := windows.Handle(fd)
		in := uint32(1)
		var bytesReturned uint32
		e := windows.WSAIoctl(handle, sioLoopbackFastPath, (*byte)(unsafe.Pointer(&in)), 4, nil, 0, &bytesReturned, nil, 0)
		if e != nil {
			log.Debugw("socketopts: SIO_LOOPBACK_FAST_PATH unsupported", "err", e)
		}
	})
	if err != nil && err != syscall.EINVAL {
		log.Warnw("socketopts: raw control failed", "err", err)
	}
}
