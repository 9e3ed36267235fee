package notify

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"
)

func TestDisplayNotificationScript(t *testing.T) {
	tests := []struct {
		name  string
		title string
		body  string
		want  string
	}{
		{
			name:  "plain",
			title: "s2t",
			body:  "Recording...",
			want:  `display notification "Recording..." with title "s2t"`,
		},
		{
			name:  "quotes escaped",
			title: `say "hi"`,
			body:  `she said "ok"`,
			want:  `display notification "she said \"ok\"" with title "say \"hi\""`,
		},
		{
			name:  "backslashes escaped",
			title: "s2t",
			body:  `path C:\tmp`,
			want:  `display notification "path C:\\tmp" with title "s2t"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := displayNotificationScript(tt.title, tt.body); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	if got := preview("  hello  "); got != "hello" {
		t.Errorf("preview = %q", got)
	}

	long := ""
	for i := 0; i < 30; i++ {
		long += "hello "
	}
	got := preview(long)
	if len(got) != 103 { // 100 chars + "..."
		t.Errorf("preview length = %d, want 103", len(got))
	}
}

func TestPreviewKeepsRunesIntact(t *testing.T) {
	long := strings.Repeat("ü", 150)
	got := preview(long)
	if !utf8.ValidString(got) {
		t.Fatalf("preview produced invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 103 { // 100 runes + "..."
		t.Errorf("preview rune count = %d, want 103", n)
	}
}

func TestShowFallsBackToOsascript(t *testing.T) {
	var calls [][]string
	n := New("s2t", "Recording...", "s2t", zap.NewNop())
	n.goos = "darwin"
	n.run = func(name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		if name == "terminal-notifier" {
			return errors.New("not installed")
		}
		return nil
	}

	n.ShowStart()

	if len(calls) != 2 {
		t.Fatalf("got %d backend calls, want 2", len(calls))
	}
	if calls[0][0] != "terminal-notifier" || calls[1][0] != "osascript" {
		t.Errorf("backend order = %v", calls)
	}
}

func TestDismissOnlyOnDarwin(t *testing.T) {
	called := false
	n := New("s2t", "body", "s2t", zap.NewNop())
	n.goos = "linux"
	n.run = func(string, ...string) error { called = true; return nil }

	n.Dismiss()
	if called {
		t.Error("linux dismiss should be a no-op")
	}

	n.goos = "darwin"
	n.Dismiss()
	if !called {
		t.Error("darwin dismiss should call terminal-notifier")
	}
}
