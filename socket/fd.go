package socket

import (
	"fmt"
	"net"
	"syscall"

	"github.com/connio-go/connio/api"
)

// tokenFromConn derives a SocketToken (spec §3 "opaque handle") from a
// net.Conn backed by an OS descriptor (such as the *net.TCPConn that
// BeginConnectAsync dials). A conn that does not implement syscall.Conn
// yields an invalid token and an error, and BeginConnectAsync then skips
// sync-regime lookup registration for it.
func tokenFromConn(conn net.Conn) (api.SocketToken, error) {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return api.SocketToken{}, fmt.Errorf("connio: %T does not expose a raw socket", conn)
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return api.SocketToken{}, err
	}

	var fd uintptr
	var ctrlErr error
	err = raw.Control(func(v uintptr) { fd = v })
	if err != nil {
		ctrlErr = err
	}
	if ctrlErr != nil {
		return api.SocketToken{}, ctrlErr
	}
	return api.NewSocketToken(fd), nil
}
