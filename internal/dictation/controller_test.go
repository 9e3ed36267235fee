package dictation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/JuanBotter/s2t/internal/dictation/usecases"
	"github.com/JuanBotter/s2t/internal/output"
	"github.com/JuanBotter/s2t/internal/session"
)

const deadPID = 1 << 30

type fakeStarter struct {
	store *session.Store
	st    *session.State
	err   error
	calls int
}

func (f *fakeStarter) Execute() (*session.State, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.store != nil {
		if err := f.store.Acquire(f.st); err != nil {
			return nil, err
		}
	}
	return f.st, nil
}

type fakeStopper struct {
	store     *session.Store
	err       error
	calls     int
	aliveSeen []bool
}

func (f *fakeStopper) Execute(st *session.State, alive bool) error {
	f.calls++
	f.aliveSeen = append(f.aliveSeen, alive)
	if f.err != nil {
		return f.err
	}
	return f.store.Release()
}

type fakeTranscriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscriber) Execute(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeDeliverer struct {
	texts  []string
	pasted bool
	err    error
}

func (f *fakeDeliverer) Deliver(text string) (bool, error) {
	f.texts = append(f.texts, text)
	return f.pasted, f.err
}

type fakeNotifier struct {
	starts, results, dismisses int
	lastResult                 string
}

func (f *fakeNotifier) ShowStart()             { f.starts++ }
func (f *fakeNotifier) ShowResult(text string) { f.results++; f.lastResult = text }
func (f *fakeNotifier) Dismiss()               { f.dismisses++ }

type testRig struct {
	controller *Controller
	store      *session.Store
	start      *fakeStarter
	stop       *fakeStopper
	transcribe *fakeTranscriber
	deliver    *fakeDeliverer
	notify     *fakeNotifier
	stdout     *bytes.Buffer
}

func newRig(t *testing.T) *testRig {
	t.Helper()
	store := session.NewStore(t.TempDir())

	rig := &testRig{
		store: store,
		start: &fakeStarter{
			store: store,
			st:    &session.State{PID: 4242, AudioPath: "/tmp/rec.wav", StartedAt: time.Now(), MaxSeconds: 300},
		},
		stop:       &fakeStopper{store: store},
		transcribe: &fakeTranscriber{text: "hello world"},
		deliver:    &fakeDeliverer{pasted: true},
		notify:     &fakeNotifier{},
		stdout:     &bytes.Buffer{},
	}
	rig.controller = New(Params{
		Sessions:   store,
		Start:      rig.start,
		Stop:       rig.stop,
		Transcribe: rig.transcribe,
		Deliver:    rig.deliver,
		Notify:     rig.notify,
		Out:        output.NewFormatter(rig.stdout),
		Log:        zap.NewNop(),
	})
	return rig
}

// writeAudio creates a non-empty recording and points the rig's session at it.
func (r *testRig) activeSession(t *testing.T, pid int) string {
	t.Helper()
	audio := filepath.Join(t.TempDir(), "rec.wav")
	if err := os.WriteFile(audio, []byte("RIFFdata"), 0o644); err != nil {
		t.Fatal(err)
	}
	st := &session.State{PID: pid, AudioPath: audio, StartedAt: time.Now().Add(-3 * time.Second)}
	if err := r.store.Acquire(st); err != nil {
		t.Fatal(err)
	}
	return audio
}

func TestToggleFromIdleStartsRecording(t *testing.T) {
	rig := newRig(t)

	if err := rig.controller.Toggle(context.Background()); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	if rig.start.calls != 1 {
		t.Errorf("start called %d times, want 1", rig.start.calls)
	}
	if rig.notify.starts != 1 {
		t.Errorf("start notification shown %d times, want 1", rig.notify.starts)
	}
	if got := rig.controller.State(); got != StateRecording {
		t.Errorf("state = %q, want %q", got, StateRecording)
	}
	if _, err := rig.store.Load(); err != nil {
		t.Errorf("state should be persisted after start: %v", err)
	}
}

func TestToggleWhileActiveStopsAndDelivers(t *testing.T) {
	rig := newRig(t)
	audio := rig.activeSession(t, os.Getpid())

	if err := rig.controller.Toggle(context.Background()); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	if rig.start.calls != 0 {
		t.Error("a toggle while recording must never start a second recorder")
	}
	if rig.stop.calls != 1 || !rig.stop.aliveSeen[0] {
		t.Errorf("stop calls = %d aliveSeen = %v, want one stop of a live recorder",
			rig.stop.calls, rig.stop.aliveSeen)
	}
	if rig.transcribe.calls != 1 {
		t.Errorf("transcribe called %d times, want 1", rig.transcribe.calls)
	}
	if len(rig.deliver.texts) != 1 || rig.deliver.texts[0] != "hello world" {
		t.Errorf("delivered = %v, want [hello world]", rig.deliver.texts)
	}
	if rig.notify.dismisses != 1 || rig.notify.results != 1 {
		t.Errorf("notifications: dismisses=%d results=%d", rig.notify.dismisses, rig.notify.results)
	}
	if got := rig.controller.State(); got != StateIdle {
		t.Errorf("state = %q, want %q", got, StateIdle)
	}
	if _, err := os.Stat(audio); !os.IsNotExist(err) {
		t.Error("audio file should be deleted after successful delivery")
	}
	if _, err := rig.store.Load(); !errors.Is(err, session.ErrNoSession) {
		t.Error("session slot should be free after stop")
	}
}

func TestToggleWhileStartInFlight(t *testing.T) {
	rig := newRig(t)
	// another invocation claimed the slot but has not written the pid yet
	st := &session.State{AudioPath: "/tmp/rec.wav", StartedAt: time.Now()}
	if err := rig.store.Acquire(st); err != nil {
		t.Fatal(err)
	}

	if err := rig.controller.Toggle(context.Background()); err == nil {
		t.Fatal("toggling during an in-flight start should be refused")
	}

	if rig.start.calls != 0 {
		t.Errorf("start called %d times, a second recorder must never spawn", rig.start.calls)
	}
	if rig.stop.calls != 0 {
		t.Error("an in-flight start must not be stopped")
	}
	if _, err := rig.store.Load(); err != nil {
		t.Errorf("the in-flight session record must be left alone: %v", err)
	}
}

func TestToggleStaleStateStartsFresh(t *testing.T) {
	rig := newRig(t)
	// dead pid and no audio on disk: crash residue
	st := &session.State{PID: deadPID, AudioPath: filepath.Join(t.TempDir(), "gone.wav")}
	if err := rig.store.Acquire(st); err != nil {
		t.Fatal(err)
	}

	if err := rig.controller.Toggle(context.Background()); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	if rig.stop.calls != 0 {
		t.Error("stale state must not be treated as an active session")
	}
	if rig.start.calls != 1 {
		t.Errorf("start called %d times, want a fresh recording", rig.start.calls)
	}
	if !strings.Contains(rig.stdout.String(), "stale") {
		t.Errorf("stale state warning missing from output: %q", rig.stdout.String())
	}
}

func TestToggleAfterDurationCeiling(t *testing.T) {
	rig := newRig(t)
	// recorder already exited but left a finished file: ceiling fired
	rig.activeSession(t, deadPID)

	if err := rig.controller.Toggle(context.Background()); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	if rig.stop.calls != 1 || rig.stop.aliveSeen[0] {
		t.Errorf("stop should run with alive=false, got calls=%d aliveSeen=%v",
			rig.stop.calls, rig.stop.aliveSeen)
	}
	if rig.transcribe.calls != 1 {
		t.Error("transcription must still run after an automatic stop")
	}
	if len(rig.deliver.texts) != 1 {
		t.Error("transcript should be delivered after an automatic stop")
	}
}

func TestToggleBlankTranscriptSkipsDelivery(t *testing.T) {
	rig := newRig(t)
	audio := rig.activeSession(t, os.Getpid())
	rig.transcribe.text = " [BLANK_AUDIO] "

	if err := rig.controller.Toggle(context.Background()); err != nil {
		t.Fatalf("blank transcript is not an error, got %v", err)
	}

	if len(rig.deliver.texts) != 0 {
		t.Errorf("blank transcript must not be delivered, got %v", rig.deliver.texts)
	}
	if rig.notify.results != 0 {
		t.Error("no result notification for a blank transcript")
	}
	if _, err := os.Stat(audio); !os.IsNotExist(err) {
		t.Error("blank recordings should still be cleaned up")
	}
	if got := rig.controller.State(); got != StateIdle {
		t.Errorf("state = %q, want %q", got, StateIdle)
	}
}

func TestToggleTranscriptionFailureKeepsAudio(t *testing.T) {
	rig := newRig(t)
	audio := rig.activeSession(t, os.Getpid())
	rig.transcribe.err = errors.New("engine crashed")

	err := rig.controller.Toggle(context.Background())
	if err == nil {
		t.Fatal("transcription failure should be reported")
	}

	if _, statErr := os.Stat(audio); statErr != nil {
		t.Error("audio must be retained for manual retry after a transcription failure")
	}
	if len(rig.deliver.texts) != 0 {
		t.Error("nothing should be delivered on transcription failure")
	}
	// the slot was already released on stop, so a fresh start is possible
	if _, loadErr := rig.store.Load(); !errors.Is(loadErr, session.ErrNoSession) {
		t.Error("session slot should be free even after a failed transcription")
	}
}

func TestToggleUnusableRecordingSkipsRetryHint(t *testing.T) {
	rig := newRig(t)
	rig.activeSession(t, os.Getpid())
	rig.transcribe.err = fmt.Errorf("%w: /tmp/rec.wav is empty", usecases.ErrNoAudio)

	err := rig.controller.Toggle(context.Background())
	if !errors.Is(err, usecases.ErrNoAudio) {
		t.Fatalf("Toggle = %v, want ErrNoAudio", err)
	}

	if strings.Contains(rig.stdout.String(), "kept") {
		t.Errorf("no retry hint when there is no audio to retry, got %q", rig.stdout.String())
	}
	if got := rig.controller.State(); got != StateIdle {
		t.Errorf("state = %q, want %q", got, StateIdle)
	}
}

func TestToggleClipboardFallback(t *testing.T) {
	rig := newRig(t)
	rig.activeSession(t, os.Getpid())
	rig.deliver.pasted = false

	if err := rig.controller.Toggle(context.Background()); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	if !strings.Contains(rig.stdout.String(), "hello world") {
		t.Errorf("transcript should be printed when pasting is unavailable, got %q", rig.stdout.String())
	}
}

func TestTogglePreflightFailureLeavesStateUnchanged(t *testing.T) {
	rig := newRig(t)
	rig.controller.preflight = func() error { return errors.New("no ggml model") }

	if err := rig.controller.Toggle(context.Background()); err == nil {
		t.Fatal("preflight failure should abort the toggle")
	}

	if rig.start.calls != 0 {
		t.Error("no recording may start when the engine is unusable")
	}
	if _, err := rig.store.Load(); !errors.Is(err, session.ErrNoSession) {
		t.Error("state must remain idle after a preflight failure")
	}
	if got := rig.controller.State(); got != StateIdle {
		t.Errorf("state = %q, want %q", got, StateIdle)
	}
}

func TestToggleStartFailureResetsState(t *testing.T) {
	rig := newRig(t)
	rig.start.err = errors.New("ffmpeg not found")

	if err := rig.controller.Toggle(context.Background()); err == nil {
		t.Fatal("start failure should be reported")
	}
	if got := rig.controller.State(); got != StateIdle {
		t.Errorf("state = %q, want %q after failed start", got, StateIdle)
	}
	if rig.notify.starts != 0 {
		t.Error("no start notification when the recorder failed to spawn")
	}
}
