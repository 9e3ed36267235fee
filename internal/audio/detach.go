//go:build !windows

package audio

import "syscall"

// detachAttr puts the recorder in its own session so it survives the toggle
// process exiting and never ends up in the launcher's process group.
func detachAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
