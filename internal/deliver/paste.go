package deliver

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/micmonay/keybd_event"
)

type pasteCombo int

const (
	comboCmdV pasteCombo = iota
	comboCtrlV
	comboCtrlShiftV
)

// terminalClasses are window classes that intercept Ctrl+V, so pasting there
// needs Ctrl+Shift+V instead.
var terminalClasses = []string{
	"alacritty", "kitty", "st", "xterm", "urxvt", "rxvt",
	"gnome-terminal", "konsole", "xfce4-terminal", "terminator",
	"tilix", "foot", "wezterm", "ghostty",
}

func comboFor(goos, windowClass string) pasteCombo {
	if goos == "darwin" {
		return comboCmdV
	}
	if isTerminalClass(windowClass) {
		return comboCtrlShiftV
	}
	return comboCtrlV
}

func isTerminalClass(class string) bool {
	class = strings.ToLower(strings.TrimSpace(class))
	if class == "" {
		return false
	}
	for _, t := range terminalClasses {
		if class == t || strings.Contains(class, t) {
			return true
		}
	}
	return false
}

// focusedWindowClass asks xdotool for the focused window's class. Best effort:
// any failure means "unknown" and the default combo is used.
func focusedWindowClass() string {
	out, err := exec.Command("xdotool", "getactivewindow", "getwindowclassname").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func sendPasteKeystroke() error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return fmt.Errorf("initializing keystroke injection: %w", err)
	}

	// the uinput device needs a moment before the first synthetic event
	if runtime.GOOS == "linux" {
		time.Sleep(200 * time.Millisecond)
	}

	combo := comboFor(runtime.GOOS, focusedClassForPlatform())
	kb.SetKeys(keybd_event.VK_V)
	switch combo {
	case comboCmdV:
		kb.HasSuper(true)
	case comboCtrlShiftV:
		kb.HasCTRL(true)
		kb.HasSHIFT(true)
	default:
		kb.HasCTRL(true)
	}

	if err := kb.Launching(); err != nil {
		return fmt.Errorf("sending paste keystroke: %w", err)
	}
	return nil
}

func focusedClassForPlatform() string {
	if runtime.GOOS == "darwin" {
		return "" // Cmd+V works everywhere on macOS, including terminals
	}
	return focusedWindowClass()
}
