package audio

import (
	"os/exec"
	"slices"
	"testing"
	"time"
)

func TestArgs(t *testing.T) {
	tests := []struct {
		name       string
		goos       string
		device     string
		maxSeconds int
		noPulse    bool
		want       []string
	}{
		{
			name:       "darwin default device",
			goos:       "darwin",
			maxSeconds: 300,
			want: []string{
				"-f", "avfoundation", "-i", ":default",
				"-ac", "1", "-ar", "16000",
				"-t", "300",
				"-y", "/tmp/rec.wav",
			},
		},
		{
			name:       "darwin named device",
			goos:       "darwin",
			device:     "2",
			maxSeconds: 300,
			want: []string{
				"-f", "avfoundation", "-i", ":2",
				"-ac", "1", "-ar", "16000",
				"-t", "300",
				"-y", "/tmp/rec.wav",
			},
		},
		{
			name: "linux unlimited",
			goos: "linux",
			want: []string{
				"-f", "pulse", "-i", "default",
				"-ac", "1", "-ar", "16000",
				"-y", "/tmp/rec.wav",
			},
		},
		{
			name:       "linux named device",
			goos:       "linux",
			device:     "alsa_input.usb-mic",
			maxSeconds: 60,
			want: []string{
				"-f", "pulse", "-i", "alsa_input.usb-mic",
				"-ac", "1", "-ar", "16000",
				"-t", "60",
				"-y", "/tmp/rec.wav",
			},
		},
		{
			name:    "linux without pulseaudio falls back to alsa",
			goos:    "linux",
			noPulse: true,
			want: []string{
				"-f", "alsa", "-i", "default",
				"-ac", "1", "-ar", "16000",
				"-y", "/tmp/rec.wav",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecorder(tt.device, tt.maxSeconds)
			r.goos = tt.goos
			if tt.noPulse {
				r.lookPath = func(string) (string, error) { return "", exec.ErrNotFound }
			} else {
				r.lookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
			}

			got := r.Args("/tmp/rec.wav")
			if !slices.Equal(got, tt.want) {
				t.Errorf("Args() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckToolMissing(t *testing.T) {
	r := NewRecorder("", 0)
	r.Binary = "definitely-not-a-real-recorder-binary"
	if err := r.CheckTool(); err == nil {
		t.Error("CheckTool() should fail for a missing binary")
	}
}

func TestStopDeadProcess(t *testing.T) {
	r := NewRecorder("", 0)
	graceful, err := r.Stop(1<<30, time.Second)
	if err != nil {
		t.Fatalf("Stop(dead pid): %v", err)
	}
	if !graceful {
		t.Error("stopping an already-exited recorder should count as graceful")
	}
}

func TestStopRunningProcess(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	cmd := exec.Command("sleep", "30")
	if err := cmd.Start(); err != nil {
		t.Fatal(err)
	}
	pid := cmd.Process.Pid
	// reap in the background so the child doesn't linger as a zombie, which
	// would keep the liveness probe returning true
	go func() { _ = cmd.Wait() }()
	t.Cleanup(func() { _ = cmd.Process.Kill() })

	r := NewRecorder("", 0)
	graceful, err := r.Stop(pid, 3*time.Second)
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !graceful {
		t.Error("sleep should exit on SIGINT within the grace period")
	}
}
