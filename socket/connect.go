package socket

import (
	"context"
	"fmt"
	"net"
	"runtime"
	"time"

	"github.com/connio-go/connio/api"
)

// BeginConnectAsync resolves endpoint, tunes the resulting socket, opens
// the TCP connection, and hands the live stream to callback per spec
// §4.2. It returns once the hand-off has happened (or failed); the
// read/write machinery it starts continues to run on the Manager's own
// goroutines.
func (m *Manager) BeginConnectAsync(ctx context.Context, endpoint string, callback api.SocketCallback) error {
	resolved, err := resolveEndpoint(ctx, endpoint)
	if err != nil {
		m.log.Errorw("connect: dns resolution failed", "endpoint", endpoint, "err", err)
		return api.NewError(api.ErrCodeNotFound, "connio: dns resolution failed").
			WithContext("endpoint", endpoint).
			WithContext("cause", err.Error())
	}

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", resolved)
	if err != nil {
		if m.disposed.get() {
			callback.Error()
			return api.ErrManagerDisposed
		}
		m.log.Warnw("connect: dial failed", "endpoint", resolved, "err", err)
		callback.Error()
		return api.NewError(api.ErrCodeTimeout, "connio: dial failed").
			WithContext("endpoint", resolved).
			WithContext("cause", err.Error())
	}

	tcpConn, _ := conn.(*net.TCPConn)
	if tcpConn != nil {
		applySocketTuning(tcpConn, m.log)
	}

	tok, err := tokenFromConn(conn)
	if err != nil {
		m.log.Warnw("connect: could not derive socket token, dropping from sync lookup", "err", err)
	}

	if m.disposed.get() {
		_ = conn.Close()
		callback.Error()
		return api.ErrManagerDisposed
	}

	accepted := func() (ok bool) {
		defer func() {
			if r := recover(); r != nil {
				m.log.Errorw("connect: ConnectedAsync panicked", "panic", r)
				ok = false
			}
		}()
		return callback.ConnectedAsync(conn, m.log)
	}()
	if !accepted {
		Shutdown(conn, m.log)
		return nil
	}

	switch m.regime {
	case api.Async:
		func() {
			defer func() {
				if r := recover(); r != nil {
					m.log.Errorw("connect: StartReading panicked", "panic", r)
					Shutdown(conn, m.log)
				}
			}()
			callback.StartReading()
		}()
	default: // Sync
		if tok.Valid() {
			wasEmpty := m.lookup.add(tok, callback, conn)
			if wasEmpty {
				m.ensurePollReader()
			}
		}
	}

	return nil
}

// resolveEndpoint implements the DNS workaround of spec §4.2 step 1: on
// non-Windows hosts, resolve a hostname explicitly and pick the first
// IPv4/IPv6 address rather than relying on the platform's native
// multi-address connect path, which has a documented history of
// misbehaving with keepalive enabled on Unix-likes.
func resolveEndpoint(ctx context.Context, endpoint string) (string, error) {
	host, port, err := net.SplitHostPort(endpoint)
	if err != nil {
		return "", err
	}
	if runtime.GOOS == "windows" {
		return endpoint, nil
	}
	if ip := net.ParseIP(host); ip != nil {
		return endpoint, nil // already an address literal
	}

	resolver := &net.Resolver{}
	addrs, err := resolver.LookupIPAddr(ctx, host)
	if err != nil {
		return "", err
	}
	for _, a := range addrs {
		if a.IP.To4() != nil || a.IP.To16() != nil {
			return net.JoinHostPort(a.IP.String(), port), nil
		}
	}
	return "", fmt.Errorf("connio: no usable address for %q", host)
}

const (
	keepaliveIdle     = 30 * time.Second
	keepaliveInterval = 1 * time.Second
)
