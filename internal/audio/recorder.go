// Package audio manages the external ffmpeg recording process.
package audio

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
)

const (
	sampleRate = 16000
	channels   = 1
)

// Recorder spawns and stops ffmpeg microphone captures.
type Recorder struct {
	Binary     string
	Device     string // empty = platform default input
	MaxSeconds int    // 0 = unlimited

	goos     string // overridable for tests
	lookPath func(string) (string, error)
}

func NewRecorder(device string, maxSeconds int) *Recorder {
	return &Recorder{
		Binary:     "ffmpeg",
		Device:     device,
		MaxSeconds: maxSeconds,
		goos:       runtime.GOOS,
		lookPath:   exec.LookPath,
	}
}

func (r *Recorder) CheckTool() error {
	if _, err := exec.LookPath(r.Binary); err != nil {
		return fmt.Errorf("%s not found on PATH: %w", r.Binary, err)
	}
	return nil
}

// Args builds the ffmpeg command line for a 16kHz mono WAV capture. The -t
// ceiling makes the detached recorder self-terminate and finalize the file
// even if nothing ever stops it.
func (r *Recorder) Args(outputPath string) []string {
	args := []string{"-f", r.inputFormat(), "-i", r.inputDevice()}

	args = append(args,
		"-ac", strconv.Itoa(channels),
		"-ar", strconv.Itoa(sampleRate),
	)
	if r.MaxSeconds > 0 {
		args = append(args, "-t", strconv.Itoa(r.MaxSeconds))
	}
	args = append(args, "-y", outputPath)
	return args
}

func (r *Recorder) inputFormat() string {
	if r.goos == "darwin" {
		return "avfoundation"
	}
	// PulseAudio (or PipeWire's pulse shim) when present, raw ALSA otherwise.
	if _, err := r.lookPath("pactl"); err == nil {
		return "pulse"
	}
	return "alsa"
}

func (r *Recorder) inputDevice() string {
	if r.goos == "darwin" {
		if r.Device == "" {
			return ":default"
		}
		return ":" + r.Device
	}
	if r.Device == "" {
		return "default"
	}
	return r.Device
}

// StartDetached spawns ffmpeg in its own session so this invocation can exit
// while the capture keeps running. Returns the recorder's pid.
func (r *Recorder) StartDetached(outputPath string) (int, error) {
	cmd := exec.Command(r.Binary, r.Args(outputPath)...)
	cmd.SysProcAttr = detachAttr()

	// ffmpeg logs to stderr; keep it next to the recording for diagnostics
	logPath := outputPath + ".ffmpeg.log"
	if logFile, err := os.Create(logPath); err == nil {
		cmd.Stderr = logFile
		defer logFile.Close()
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("starting %s: %w", r.Binary, err)
	}

	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		return pid, fmt.Errorf("releasing recorder process: %w", err)
	}
	return pid, nil
}
