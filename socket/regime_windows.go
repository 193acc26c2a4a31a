//go:build windows

package socket

import "github.com/connio-go/connio/api"

// selectRegime chooses Async on Windows: completions for overlapped I/O
// are delivered by dedicated IOCP worker threads, so there is no risk of
// reply latency coupling to unrelated goroutine-scheduling pressure
// (spec §4.1).
func selectRegime() api.Regime { return api.Async }
