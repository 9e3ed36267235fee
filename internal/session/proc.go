//go:build !windows

package session

import (
	"errors"
	"syscall"
)

// Alive reports whether a process with the given pid exists. Signal 0 probes
// the process table without delivering anything; EPERM still means it exists.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	if err == nil {
		return true
	}
	return errors.Is(err, syscall.EPERM)
}
