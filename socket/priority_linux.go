//go:build linux

package socket

import (
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/connio-go/connio/api"
)

// raisePriority locks the calling goroutine to its OS thread and lowers
// its niceness (raises scheduling priority) when the manager was
// constructed with UseHighPrioritySocketThreads. It is called once at the
// top of the writer and poll-reader goroutines (spec §4.1, §5 "above
// normal priority by default").
func raisePriority(high bool, log api.Logger) {
	if !high {
		return
	}
	runtime.LockOSThread()
	tid := unix.Gettid()
	if err := unix.Setpriority(unix.PRIO_PROCESS, tid, -5); err != nil {
		log.Debugw("priority: setpriority unsupported", "err", err)
	}
}
