package usecases

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/JuanBotter/s2t/internal/stt"
)

// ErrNoAudio means the recording file is missing or empty, so there is
// nothing to transcribe and nothing worth keeping for a retry.
var ErrNoAudio = errors.New("no usable audio was recorded")

// Transcribe runs the configured speech-to-text engine over a finished
// recording.
type Transcribe struct {
	Engine   stt.Engine
	Language string
}

func (t *Transcribe) Execute(ctx context.Context, audioPath string) (string, error) {
	fi, err := os.Stat(audioPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoAudio, audioPath)
	}
	if fi.Size() == 0 {
		return "", fmt.Errorf("%w: %s is empty", ErrNoAudio, audioPath)
	}

	text, err := t.Engine.Transcribe(ctx, stt.Request{
		AudioPath: audioPath,
		Language:  t.Language,
	})
	if err != nil {
		return "", err
	}
	return text, nil
}
