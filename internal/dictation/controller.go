// Package dictation holds the toggle controller: each invocation inspects the
// persisted session state and either starts a recording or stops one and runs
// it through transcription and delivery.
package dictation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/JuanBotter/s2t/internal/dictation/usecases"
	"github.com/JuanBotter/s2t/internal/output"
	"github.com/JuanBotter/s2t/internal/session"
	"github.com/JuanBotter/s2t/internal/stt"
)

// Session states.
const (
	StateIdle      = "idle"
	StateRecording = "recording"
	StateStopping  = "stopping"
)

const (
	eventStart  = "start"
	eventStop   = "stop"
	eventFinish = "finish"
)

// Starter begins a recording session.
type Starter interface {
	Execute() (*session.State, error)
}

// Stopper ends the recording session and releases the session slot.
type Stopper interface {
	Execute(st *session.State, alive bool) error
}

// Transcriber turns a finished recording into text.
type Transcriber interface {
	Execute(ctx context.Context, audioPath string) (string, error)
}

// Deliverer hands the transcript to the focused application.
type Deliverer interface {
	Deliver(text string) (pasted bool, err error)
}

// Notifier shows the recording notification lifecycle.
type Notifier interface {
	ShowStart()
	ShowResult(text string)
	Dismiss()
}

type Params struct {
	Sessions   *session.Store
	Start      Starter
	Stop       Stopper
	Transcribe Transcriber
	Deliver    Deliverer
	Notify     Notifier
	// Preflight verifies the transcription engine is usable before any state
	// changes, so a missing engine aborts the start instead of failing later
	// with a recording already captured.
	Preflight func() error
	Out       *output.Formatter
	Log       *zap.Logger
}

type Controller struct {
	sessions   *session.Store
	start      Starter
	stop       Stopper
	transcribe Transcriber
	deliver    Deliverer
	notify     Notifier
	preflight  func() error
	out        *output.Formatter
	log        *zap.Logger

	machine *fsm.FSM
}

func New(p Params) *Controller {
	c := &Controller{
		sessions:   p.Sessions,
		start:      p.Start,
		stop:       p.Stop,
		transcribe: p.Transcribe,
		deliver:    p.Deliver,
		notify:     p.Notify,
		preflight:  p.Preflight,
		out:        p.Out,
		log:        p.Log,
	}

	c.machine = fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: eventStart, Src: []string{StateIdle}, Dst: StateRecording},
			{Name: eventStop, Src: []string{StateRecording}, Dst: StateStopping},
			{Name: eventFinish, Src: []string{StateStopping}, Dst: StateIdle},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				c.log.Info("session state change",
					zap.String("from", e.Src), zap.String("to", e.Dst))
			},
		},
	)
	return c
}

// State returns the controller's current session state.
func (c *Controller) State() string {
	return c.machine.Current()
}

// Toggle runs one invocation of the utility: start when idle, stop and
// process when a recording is active.
func (c *Controller) Toggle(ctx context.Context) error {
	st, status, err := c.sessions.Inspect()
	if err != nil {
		return err
	}

	switch status {
	case session.StatusStarting:
		// Another invocation claimed the slot but has not persisted the
		// recorder pid yet. Touching the record here would race the start.
		c.log.Warn("recording start in flight, refusing to toggle",
			zap.String("audio", st.AudioPath))
		return fmt.Errorf("a recording is starting, try again in a moment")
	case session.StatusStale:
		c.log.Warn("state file references a dead recorder, starting fresh",
			zap.Int("pid", st.PID), zap.String("audio", st.AudioPath))
		c.out.Warning("previous recording state was stale, starting a new recording")
		if err := c.sessions.Release(); err != nil {
			return err
		}
		return c.startSession(ctx)
	case session.StatusIdle:
		return c.startSession(ctx)
	default:
		// StatusActive: recorder running. StatusFinished: the duration ceiling
		// already stopped it; the captured audio still goes through the same
		// stop processing.
		return c.stopSession(ctx, st, status == session.StatusActive)
	}
}

func (c *Controller) startSession(ctx context.Context) error {
	if c.preflight != nil {
		if err := c.preflight(); err != nil {
			return err
		}
	}

	if err := c.machine.Event(ctx, eventStart); err != nil {
		return err
	}

	st, err := c.start.Execute()
	if err != nil {
		c.machine.SetState(StateIdle)
		return err
	}

	c.notify.ShowStart()
	c.out.RecordingStarted(st.MaxSeconds)
	c.log.Info("recording started",
		zap.Int("pid", st.PID), zap.String("audio", st.AudioPath))
	return nil
}

func (c *Controller) stopSession(ctx context.Context, st *session.State, alive bool) error {
	c.machine.SetState(StateRecording)
	if err := c.machine.Event(ctx, eventStop); err != nil {
		return err
	}

	if err := c.stop.Execute(st, alive); err != nil {
		return err
	}
	c.notify.Dismiss()
	if !st.StartedAt.IsZero() {
		c.out.RecordingStopped(time.Since(st.StartedAt))
	}

	c.out.Transcribing()
	text, err := c.transcribe.Execute(ctx, st.AudioPath)
	if err != nil {
		_ = c.machine.Event(ctx, eventFinish)
		if errors.Is(err, usecases.ErrNoAudio) {
			// nothing usable was captured, so there is nothing to retry
			return err
		}
		// keep the audio for manual retry
		c.out.AudioKept(st.AudioPath)
		return fmt.Errorf("transcription failed: %w", err)
	}

	if stt.IsBlank(text) {
		c.log.Info("blank transcript, skipping paste", zap.String("audio", st.AudioPath))
		c.out.NoSpeech()
		c.removeAudio(st.AudioPath)
		return c.machine.Event(ctx, eventFinish)
	}

	pasted, err := c.deliver.Deliver(text)
	if err != nil {
		_ = c.machine.Event(ctx, eventFinish)
		c.out.AudioKept(st.AudioPath)
		return err
	}
	if pasted {
		c.out.Pasted()
	} else {
		c.out.ClipboardOnly(text)
	}
	c.notify.ShowResult(text)
	c.removeAudio(st.AudioPath)
	c.log.Info("session complete",
		zap.Int("transcript_chars", len(text)), zap.Bool("pasted", pasted))
	return c.machine.Event(ctx, eventFinish)
}

func (c *Controller) removeAudio(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		c.log.Warn("could not remove audio file", zap.String("path", path), zap.Error(err))
	}
	// ffmpeg diagnostics go with the recording
	_ = os.Remove(path + ".ffmpeg.log")
}
