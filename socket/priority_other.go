//go:build !linux

package socket

import "github.com/connio-go/connio/api"

// raisePriority is a no-op outside Linux: Go exposes no portable
// above-normal-thread-priority knob, and platform-specific ones (Windows'
// SetThreadPriority) would require cgo/syscall plumbing this core doesn't
// otherwise need — the writer and poll-reader goroutines still run, just
// at the default scheduler priority (spec §5's priority knob degrades to
// best-effort on platforms without a cheap syscall for it).
func raisePriority(high bool, log api.Logger) {
	if !high {
		return
	}
	log.Debugw("priority: high-priority socket threads not supported on this platform")
}
