package usecases

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/JuanBotter/s2t/internal/session"
)

// RecorderStarter is the slice of the audio recorder that starting needs.
type RecorderStarter interface {
	CheckTool() error
	StartDetached(outputPath string) (pid int, err error)
}

// StartRecording begins a new recording session: claims the session slot,
// spawns the detached recorder, and persists its pid.
type StartRecording struct {
	Recorder   RecorderStarter
	Sessions   *session.Store
	TmpDir     string
	MaxSeconds int
}

func (s *StartRecording) Execute() (*session.State, error) {
	// Environment errors abort before any state changes.
	if err := s.Recorder.CheckTool(); err != nil {
		return nil, err
	}

	audioPath := filepath.Join(s.TmpDir, audioFileName(time.Now()))

	st := &session.State{
		AudioPath:  audioPath,
		StartedAt:  time.Now(),
		MaxSeconds: s.MaxSeconds,
	}

	// The exclusive create is the mutex: acquiring before spawning means two
	// racing invocations can never both start a recorder.
	if err := s.Sessions.Acquire(st); err != nil {
		return nil, err
	}

	pid, err := s.Recorder.StartDetached(audioPath)
	if err != nil {
		_ = s.Sessions.Release()
		return nil, fmt.Errorf("starting recorder: %w", err)
	}

	st.PID = pid
	if err := s.Sessions.Update(st); err != nil {
		return nil, fmt.Errorf("persisting recorder pid: %w", err)
	}

	return st, nil
}

func audioFileName(t time.Time) string {
	return fmt.Sprintf("rec-%s-%s.wav", t.Format("20060102-150405"), uuid.NewString()[:8])
}
