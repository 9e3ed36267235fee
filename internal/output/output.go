package output

import (
	"fmt"
	"io"
	"time"
)

type Formatter struct {
	w io.Writer
}

func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

func (f *Formatter) RecordingStarted(maxSeconds int) {
	if maxSeconds > 0 {
		fmt.Fprintf(f.w, "🎙️  Recording (run again to stop, auto-stops after %s)\n",
			formatDuration(time.Duration(maxSeconds)*time.Second))
		return
	}
	fmt.Fprintf(f.w, "🎙️  Recording (run again to stop)\n")
}

func (f *Formatter) RecordingStopped(duration time.Duration) {
	fmt.Fprintf(f.w, "⏹️  Recording stopped (%s)\n", formatDuration(duration))
}

func (f *Formatter) Transcribing() {
	fmt.Fprintf(f.w, "📝 Transcribing audio...\n")
}

func (f *Formatter) NoSpeech() {
	fmt.Fprintf(f.w, "🔇 No speech detected, nothing to paste\n")
}

func (f *Formatter) Pasted() {
	fmt.Fprintf(f.w, "✅ Transcript pasted\n")
}

func (f *Formatter) ClipboardOnly(text string) {
	fmt.Fprintf(f.w, "📋 Transcript left on clipboard:\n%s\n", text)
}

func (f *Formatter) AudioKept(path string) {
	fmt.Fprintf(f.w, "💾 Audio kept for retry: %s\n", path)
}

func (f *Formatter) Error(msg string) {
	fmt.Fprintf(f.w, "❌ %s\n", msg)
}

func (f *Formatter) Info(msg string) {
	fmt.Fprintf(f.w, "ℹ️  %s\n", msg)
}

func (f *Formatter) Success(msg string) {
	fmt.Fprintf(f.w, "✅ %s\n", msg)
}

func (f *Formatter) Warning(msg string) {
	fmt.Fprintf(f.w, "⚠️  %s\n", msg)
}

func (f *Formatter) SetupCheck(name string, ok bool, detail string) {
	if ok {
		fmt.Fprintf(f.w, "  ✅ %s: %s\n", name, detail)
	} else {
		fmt.Fprintf(f.w, "  ❌ %s: %s\n", name, detail)
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
