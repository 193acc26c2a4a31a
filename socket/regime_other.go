//go:build !windows

package socket

import "github.com/connio-go/connio/api"

// selectRegime chooses Sync on every non-Windows platform: the Go
// runtime's netpoller multiplexes async readiness onto the shared
// goroutine scheduler rather than dedicated I/O threads, so the manager
// interposes its own dedicated poll-reader goroutine instead (spec §4.1).
func selectRegime() api.Regime { return api.Sync }
