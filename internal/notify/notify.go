// Package notify shows and dismisses the tagged desktop notification that
// marks an active recording. Everything here is best effort: a broken
// notification daemon never fails a toggle.
package notify

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/gen2brain/beeep"
	"go.uber.org/zap"
)

type Notifier struct {
	Summary string
	Body    string
	Tag     string

	log  *zap.Logger
	goos string
	run  func(name string, args ...string) error // injectable for tests
}

func New(summary, body, tag string, log *zap.Logger) *Notifier {
	return &Notifier{
		Summary: summary,
		Body:    body,
		Tag:     tag,
		log:     log,
		goos:    runtime.GOOS,
		run:     runCommand,
	}
}

func runCommand(name string, args ...string) error {
	if _, err := exec.LookPath(name); err != nil {
		return err
	}
	return exec.Command(name, args...).Run()
}

// ShowStart displays the "recording in progress" notification under the
// configured group tag so it can be dismissed on stop.
func (n *Notifier) ShowStart() {
	n.show(n.Summary, n.Body)
}

// ShowResult displays the transcript preview after a completed session.
func (n *Notifier) ShowResult(text string) {
	n.show(n.Summary, preview(text))
}

// Dismiss removes the tagged notification where the platform supports it.
func (n *Notifier) Dismiss() {
	if n.goos != "darwin" {
		return // notify-send has no removal interface
	}
	if err := n.run("terminal-notifier", "-remove", n.Tag); err != nil {
		n.log.Debug("could not dismiss notification", zap.Error(err))
	}
}

func (n *Notifier) show(title, body string) {
	var err error
	switch n.goos {
	case "darwin":
		err = n.run("terminal-notifier", "-group", n.Tag, "-title", title, "-message", body)
		if err != nil {
			err = n.run("osascript", "-e", displayNotificationScript(title, body))
		}
	default:
		err = n.run("notify-send", "--hint", "string:x-canonical-private-synchronous:"+n.Tag, title, body)
	}

	if err != nil {
		if err := beeep.Notify(title, body, ""); err != nil {
			n.log.Warn("all notification backends failed", zap.Error(err))
		}
	}
}

// displayNotificationScript builds the osascript source; title and body are
// interpolated into quoted strings, so quotes and backslashes get escaped.
func displayNotificationScript(title, body string) string {
	esc := func(s string) string {
		s = strings.ReplaceAll(s, `\`, `\\`)
		return strings.ReplaceAll(s, `"`, `\"`)
	}
	return `display notification "` + esc(body) + `" with title "` + esc(title) + `"`
}

func preview(text string) string {
	const maxLen = 100
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}
	return text
}
