package stt

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// WhisperCpp runs the whisper.cpp CLI on an audio file and reads the
// transcript from stdout.
type WhisperCpp struct {
	Bin       string
	ModelPath string
}

func (w *WhisperCpp) CheckTool() error {
	if _, err := exec.LookPath(w.Bin); err != nil {
		return fmt.Errorf("%s not found on PATH: %w", w.Bin, err)
	}
	return nil
}

func (w *WhisperCpp) Transcribe(ctx context.Context, req Request) (string, error) {
	args := []string{
		"-m", w.ModelPath,
		"-f", req.AudioPath,
		"-nt", // no timestamps
		"-np", // no progress prints
	}
	if req.Language != "" {
		args = append(args, "-l", req.Language)
	}

	cmd := exec.CommandContext(ctx, w.Bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("running %s: %w: %s", w.Bin, err, detail)
		}
		return "", fmt.Errorf("running %s: %w", w.Bin, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// ResolveModel maps a model name like "base" to a ggml model file. An explicit
// path wins; otherwise the per-user cache dirs are searched.
func ResolveModel(model, explicitPath, stateDir string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("model file %s: %w", explicitPath, err)
		}
		return explicitPath, nil
	}

	candidates := []string{
		filepath.Join(stateDir, "models", "ggml-"+model+".bin"),
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".cache", "whisper.cpp", "ggml-"+model+".bin"),
		)
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("no ggml model for %q; looked in %s (set S2T_MODEL_PATH to use another file)",
		model, strings.Join(candidates, ", "))
}
