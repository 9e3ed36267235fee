package stt

import (
	"strings"
	"unicode"
)

const blankAudioToken = "[BLANK_AUDIO]"

// IsBlank reports whether a transcript carries no actual speech: nothing but
// whitespace and punctuation, or one of the markers whisper emits for silent
// input.
func IsBlank(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return true
	}
	if strings.EqualFold(trimmed, blankAudioToken) {
		return true
	}

	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			return -1
		}
		return r
	}, trimmed)
	if stripped == "" {
		return true
	}

	var canon strings.Builder
	for _, r := range trimmed {
		if unicode.IsLetter(r) {
			canon.WriteRune(unicode.ToLower(r))
		}
	}
	return canon.String() == "blankaudio"
}
