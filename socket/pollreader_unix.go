//go:build !windows

package socket

import (
	"time"

	"golang.org/x/sys/unix"
)

// pollOnce implements the spec §4.5 step 3 "readiness call": copy active
// handles into a pollfd array, call poll(2) with the manager's select
// timeout, and separate the result into read-ready and error-ready handle
// sets. poll(2) plays the role the spec describes for a BSD-socket-style
// select call (count-prefixed read/error arrays); it is preferred here over
// select(2) because it has no FD_SETSIZE ceiling on the number of
// concurrently tracked bridges.
func pollOnce(active []lookupEntry, timeout time.Duration) (readReady, errReady []uintptr, err error) {
	if len(active) == 0 {
		return nil, nil, nil
	}

	fds := make([]unix.PollFd, len(active))
	for i, e := range active {
		fds[i] = unix.PollFd{Fd: int32(e.token.FD()), Events: unix.POLLIN}
	}

	n, perr := unix.Poll(fds, int(timeout.Milliseconds()))
	if perr != nil {
		if perr == unix.EINTR {
			return nil, nil, nil // benign; caller's loop just retries
		}
		return nil, nil, perr
	}
	if n <= 0 {
		return nil, nil, nil
	}

	for _, pf := range fds {
		if pf.Revents&unix.POLLIN != 0 {
			readReady = append(readReady, uintptr(pf.Fd))
		}
		if pf.Revents&(unix.POLLERR|unix.POLLNVAL|unix.POLLHUP) != 0 {
			errReady = append(errReady, uintptr(pf.Fd))
		}
	}
	return readReady, errReady, nil
}
