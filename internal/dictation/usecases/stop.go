package usecases

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JuanBotter/s2t/internal/session"
)

// RecorderStopper is the slice of the audio recorder that stopping needs.
type RecorderStopper interface {
	Stop(pid int, grace time.Duration) (graceful bool, err error)
}

// StopRecording ends the active session: signals the recorder, waits for it
// to flush, and releases the session slot so a new recording can start right
// away, before any transcription work begins.
type StopRecording struct {
	Recorder RecorderStopper
	Sessions *session.Store
	Grace    time.Duration
	Log      *zap.Logger
}

func (s *StopRecording) Execute(st *session.State, alive bool) error {
	if alive {
		graceful, err := s.Recorder.Stop(st.PID, s.Grace)
		if err != nil {
			// The recorder is in an unknown state; release anyway so the user
			// isn't wedged, but surface the problem.
			_ = s.Sessions.Release()
			return fmt.Errorf("stopping recorder (pid %d): %w", st.PID, err)
		}
		if !graceful {
			s.Log.Warn("recorder did not exit within grace period, killed",
				zap.Int("pid", st.PID), zap.Duration("grace", s.Grace))
		}
	}

	if err := s.Sessions.Release(); err != nil {
		return err
	}
	return nil
}
