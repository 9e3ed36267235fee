package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Clipboard modes.
const (
	ClipboardKeep     = "clipboard" // transcript stays on the clipboard after pasting
	ClipboardPreserve = "preserve"  // prior clipboard contents are restored after pasting
)

// DefaultNotifyBody is shown while a recording is active.
const DefaultNotifyBody = "Recording... (run again to stop)"

type Config struct {
	Engine     string // "whisper" or "api"
	Model      string
	ModelPath  string // explicit ggml model file, overrides Model resolution
	WhisperBin string
	APIURL     string
	APIKey     string
	Language   string // empty = autodetect

	MaxSeconds  int // recording ceiling, 0 = unlimited
	AudioDevice string

	ClipboardMode string
	RestoreDelay  time.Duration // wait after paste before restoring clipboard
	Paste         bool

	NotifySummary string
	NotifyBody    string
	NotifyTag     string

	TmpDir   string // audio files and session log
	StateDir string // persisted session state
}

type fileConfig struct {
	Engine       string   `toml:"engine"`
	Model        string   `toml:"model"`
	ModelPath    string   `toml:"model_path"`
	WhisperBin   string   `toml:"whisper_bin"`
	APIURL       string   `toml:"api_url"`
	APIKey       string   `toml:"api_key"`
	Language     string   `toml:"language"`
	MaxSeconds   *int     `toml:"max_seconds"`
	AudioDevice  string   `toml:"audio_device"`
	Clipboard    string   `toml:"clipboard"`
	RestoreDelay *float64 `toml:"clipboard_restore_delay"`
	Paste        *bool    `toml:"paste"`
	NotifyTitle  string   `toml:"notify_title"`
	NotifyBody   string   `toml:"notify_body"`
	NotifyTag    string   `toml:"notify_tag"`
	TmpDir       string   `toml:"tmp_dir"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Engine:        "whisper",
		Model:         "base",
		WhisperBin:    "whisper-cli",
		APIURL:        "https://api.openai.com/v1/audio/transcriptions",
		MaxSeconds:    300,
		ClipboardMode: ClipboardKeep,
		RestoreDelay:  150 * time.Millisecond,
		Paste:         true,
		NotifySummary: "s2t",
		NotifyBody:    DefaultNotifyBody,
		NotifyTag:     "s2t",
		TmpDir:        defaultTmpDir(),
		StateDir:      defaultStateDir(),
	}

	if configPath := configFilePath(); configPath != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(configPath, &fc); err == nil {
			applyFile(cfg, &fc)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if cfg.ClipboardMode != ClipboardKeep && cfg.ClipboardMode != ClipboardPreserve {
		return nil, fmt.Errorf("invalid clipboard mode %q (want %q or %q)",
			cfg.ClipboardMode, ClipboardKeep, ClipboardPreserve)
	}

	// Ensure directories exist
	if err := os.MkdirAll(cfg.TmpDir, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyFile(cfg *Config, fc *fileConfig) {
	if fc.Engine != "" {
		cfg.Engine = fc.Engine
	}
	if fc.Model != "" {
		cfg.Model = fc.Model
	}
	if fc.ModelPath != "" {
		cfg.ModelPath = expandTilde(fc.ModelPath)
	}
	if fc.WhisperBin != "" {
		cfg.WhisperBin = fc.WhisperBin
	}
	if fc.APIURL != "" {
		cfg.APIURL = fc.APIURL
	}
	if fc.APIKey != "" {
		cfg.APIKey = fc.APIKey
	}
	if fc.Language != "" {
		cfg.Language = fc.Language
	}
	if fc.MaxSeconds != nil {
		cfg.MaxSeconds = *fc.MaxSeconds
	}
	if fc.AudioDevice != "" {
		cfg.AudioDevice = fc.AudioDevice
	}
	if fc.Clipboard != "" {
		cfg.ClipboardMode = fc.Clipboard
	}
	if fc.RestoreDelay != nil {
		cfg.RestoreDelay = secondsToDuration(*fc.RestoreDelay)
	}
	if fc.Paste != nil {
		cfg.Paste = *fc.Paste
	}
	if fc.NotifyTitle != "" {
		cfg.NotifySummary = fc.NotifyTitle
	}
	if fc.NotifyBody != "" {
		cfg.NotifyBody = fc.NotifyBody
	}
	if fc.NotifyTag != "" {
		cfg.NotifyTag = fc.NotifyTag
	}
	if fc.TmpDir != "" {
		cfg.TmpDir = expandTilde(fc.TmpDir)
	}
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("S2T_ENGINE"); v != "" {
		cfg.Engine = v
	}
	if v := os.Getenv("S2T_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("S2T_MODEL_PATH"); v != "" {
		cfg.ModelPath = expandTilde(v)
	}
	if v := os.Getenv("S2T_WHISPER_BIN"); v != "" {
		cfg.WhisperBin = v
	}
	if v := os.Getenv("S2T_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("S2T_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("S2T_LANG"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("S2T_MAX_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("S2T_MAX_SECONDS: %w", err)
		}
		cfg.MaxSeconds = n
	}
	if v := os.Getenv("S2T_AUDIO_DEVICE"); v != "" {
		cfg.AudioDevice = v
	}
	if v := os.Getenv("S2T_CLIPBOARD"); v != "" {
		cfg.ClipboardMode = v
	}
	if v := os.Getenv("S2T_CLIPBOARD_RESTORE_DELAY"); v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("S2T_CLIPBOARD_RESTORE_DELAY: %w", err)
		}
		cfg.RestoreDelay = secondsToDuration(secs)
	}
	if v := os.Getenv("S2T_PASTE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("S2T_PASTE: %w", err)
		}
		cfg.Paste = b
	}
	if v := os.Getenv("S2T_NOTIFY_SUMMARY"); v != "" {
		cfg.NotifySummary = v
	}
	if v := os.Getenv("S2T_NOTIFY_BODY"); v != "" {
		cfg.NotifyBody = v
	}
	if v := os.Getenv("S2T_NOTIFY_STACK_TAG"); v != "" {
		cfg.NotifyTag = v
	}
	if v := os.Getenv("S2T_TMP_DIR"); v != "" {
		cfg.TmpDir = expandTilde(v)
	}
	return nil
}

func configFilePath() string {
	var configDir string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		configDir = filepath.Join(xdg, "s2t")
	} else if home, err := os.UserHomeDir(); err == nil {
		configDir = filepath.Join(home, ".config", "s2t")
	} else {
		return ""
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

func defaultTmpDir() string {
	base := os.Getenv("TMPDIR")
	if base == "" {
		base = "/tmp"
	}
	return filepath.Join(base, "s2t")
}

func defaultStateDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "s2t")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "s2t")
	}
	return filepath.Join(defaultTmpDir(), "state")
}

func secondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
