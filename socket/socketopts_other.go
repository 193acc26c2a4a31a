//go:build !linux && !windows

package socket

import (
	"net"

	"github.com/connio-go/connio/api"
)

// applySocketTuning disables Nagle's algorithm and enables TCP keepalive
// with a 30s idle time and 1s probe interval via net.KeepAliveConfig,
// which sets both independently on platforms Go supports; platforms
// without a supported keepalive tuning path log and continue (spec §4.2
// step 2 treats unsupported tuning as an optimization to skip, not an
// error).
func applySocketTuning(conn *net.TCPConn, log api.Logger) {
	_ = conn.SetNoDelay(true)
	if err := conn.SetKeepAliveConfig(net.KeepAliveConfig{
		Enable:   true,
		Idle:     keepaliveIdle,
		Interval: keepaliveInterval,
	}); err != nil {
		log.Debugw("socketopts: keepalive config unsupported", "err", err)
	}
}
