// Package deliver puts a transcript into the focused application via the
// clipboard and a simulated paste keystroke.
package deliver

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

// Deliverer owns the clipboard handover for one transcript.
type Deliverer struct {
	Preserve     bool          // restore prior clipboard contents after pasting
	RestoreDelay time.Duration // how long the focused app gets to read the clipboard
	PasteEnabled bool

	log *zap.Logger

	// injectable for tests
	readClipboard  func() (string, error)
	writeClipboard func(string) error
	sendPaste      func() error
	sleep          func(time.Duration)
}

func New(preserve bool, restoreDelay time.Duration, pasteEnabled bool, log *zap.Logger) *Deliverer {
	return &Deliverer{
		Preserve:       preserve,
		RestoreDelay:   restoreDelay,
		PasteEnabled:   pasteEnabled,
		log:            log,
		readClipboard:  clipboard.ReadAll,
		writeClipboard: clipboard.WriteAll,
		sendPaste:      sendPasteKeystroke,
		sleep:          time.Sleep,
	}
}

// Deliver copies text to the clipboard and simulates a paste into the focused
// window. A missing or failing paste mechanism is not an error: the transcript
// stays on the clipboard and the caller is told nothing was pasted.
func (d *Deliverer) Deliver(text string) (pasted bool, err error) {
	var prior string
	havePrior := false
	if d.Preserve {
		if p, err := d.readClipboard(); err == nil {
			prior, havePrior = p, true
		} else {
			d.log.Warn("could not read prior clipboard contents", zap.Error(err))
		}
	}

	if err := d.writeClipboard(text); err != nil {
		return false, fmt.Errorf("setting clipboard: %w", err)
	}

	if d.PasteEnabled {
		if err := d.sendPaste(); err != nil {
			d.log.Warn("paste keystroke unavailable, transcript left on clipboard", zap.Error(err))
		} else {
			pasted = true
		}
	}

	// Restoring without a paste would wipe the transcript the user never got.
	if pasted && havePrior {
		d.sleep(d.RestoreDelay)
		if err := d.writeClipboard(prior); err != nil {
			d.log.Warn("could not restore clipboard", zap.Error(err))
		}
	}

	return pasted, nil
}
