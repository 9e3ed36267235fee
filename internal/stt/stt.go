// Package stt turns captured audio files into text.
package stt

import (
	"context"
	"fmt"

	"github.com/JuanBotter/s2t/config"
)

// Request describes one transcription job.
type Request struct {
	AudioPath string
	Language  string // empty = autodetect
}

// Engine converts a recorded audio file to a transcript.
type Engine interface {
	Transcribe(ctx context.Context, req Request) (string, error)
}

// Unavailable returns an Engine whose Transcribe always fails with err. It
// stands in when engine construction failed but an already-captured session
// still needs stop processing; the audio is then retained for retry.
func Unavailable(err error) Engine {
	return unavailable{err}
}

type unavailable struct{ err error }

func (u unavailable) Transcribe(context.Context, Request) (string, error) {
	return "", u.err
}

// New creates an Engine based on the configured backend.
func New(cfg *config.Config) (Engine, error) {
	switch cfg.Engine {
	case "whisper", "":
		modelPath, err := ResolveModel(cfg.Model, cfg.ModelPath, cfg.StateDir)
		if err != nil {
			return nil, err
		}
		return &WhisperCpp{Bin: cfg.WhisperBin, ModelPath: modelPath}, nil
	case "api":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("api engine selected but S2T_API_KEY is not set")
		}
		return &API{URL: cfg.APIURL, Key: cfg.APIKey, Model: cfg.Model}, nil
	default:
		return nil, fmt.Errorf("unknown engine %q (supported: whisper, api)", cfg.Engine)
	}
}
