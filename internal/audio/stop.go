//go:build !windows

package audio

import (
	"errors"
	"syscall"
	"time"
)

const pollInterval = 100 * time.Millisecond

// Stop signals the recorder to finish gracefully. ffmpeg flushes and closes
// the WAV on SIGINT; if the process is still around after the grace period it
// gets SIGKILL. Returns whether the exit was graceful. A recorder that is
// already gone counts as graceful.
func (r *Recorder) Stop(pid int, grace time.Duration) (bool, error) {
	if err := syscall.Kill(pid, syscall.SIGINT); err != nil {
		if errors.Is(err, syscall.ESRCH) {
			return true, nil
		}
		return false, err
	}

	deadline := time.Now().Add(grace)
	for time.Now().Before(deadline) {
		if err := syscall.Kill(pid, 0); errors.Is(err, syscall.ESRCH) {
			return true, nil
		}
		time.Sleep(pollInterval)
	}

	if err := syscall.Kill(pid, syscall.SIGKILL); err != nil && !errors.Is(err, syscall.ESRCH) {
		return false, err
	}
	return false, nil
}
