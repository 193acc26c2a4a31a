//go:build windows

package socket

import (
	"time"

	"github.com/connio-go/connio/api"
)

// pollOnce is never called on Windows: selectRegime (regime_windows.go)
// always chooses api.Async there, so ensurePollReader/pollLoop never run.
// This stub exists only so the socket package still builds on Windows.
func pollOnce(active []lookupEntry, timeout time.Duration) (readReady, errReady []uintptr, err error) {
	return nil, nil, api.ErrNotSupported
}
