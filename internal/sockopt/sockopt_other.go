//go:build !linux
// +build !linux

// File: internal/sockopt/sockopt_other.go
// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT
//
// Non-Linux platforms get no extra listener tuning; net.ListenConfig's
// own defaults apply.

package sockopt

import "syscall"

// TuneListener is a no-op outside Linux.
func TuneListener(_, _ string, _ syscall.RawConn) error {
	return nil
}
