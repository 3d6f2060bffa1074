//go:build linux
// +build linux

// File: internal/sockopt/sockopt_linux.go
// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT
//
// Linux-specific listener socket tuning applied right after bind, via
// net.ListenConfig.Control.

package sockopt

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// TuneListener sets SO_REUSEADDR on the freshly bound listener socket
// underlying fd, so a restarted listener can rebind immediately instead
// of waiting out TIME_WAIT.
func TuneListener(_, _ string, c syscall.RawConn) error {
	var opErr error
	err := c.Control(func(fd uintptr) {
		opErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return opErr
}
