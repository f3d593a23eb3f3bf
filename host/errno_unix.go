//go:build linux || darwin

package host

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// errnoName returns the kernel's symbolic name for e, or "" if unknown.
func errnoName(e syscall.Errno) string {
	return unix.ErrnoName(e)
}
