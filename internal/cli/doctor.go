package cli

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/JuanBotter/s2t/internal/output"
	"github.com/JuanBotter/s2t/internal/stt"
)

func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools and configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.NewFormatter(os.Stdout)
			cfg := deps.Config
			ok := true

			if _, err := exec.LookPath("ffmpeg"); err != nil {
				f.SetupCheck("ffmpeg", false, "not found on PATH")
				ok = false
			} else {
				f.SetupCheck("ffmpeg", true, "installed")
			}

			switch cfg.Engine {
			case "whisper", "":
				if _, err := exec.LookPath(cfg.WhisperBin); err != nil {
					f.SetupCheck("whisper.cpp", false, cfg.WhisperBin+" not found on PATH")
					ok = false
				} else {
					f.SetupCheck("whisper.cpp", true, cfg.WhisperBin)
				}
				if modelPath, err := stt.ResolveModel(cfg.Model, cfg.ModelPath, cfg.StateDir); err != nil {
					f.SetupCheck("model", false, err.Error())
					ok = false
				} else {
					f.SetupCheck("model", true, modelPath)
				}
			case "api":
				if cfg.APIKey == "" {
					f.SetupCheck("API key", false, "not set. Set S2T_API_KEY")
					ok = false
				} else {
					f.SetupCheck("API key", true, "configured")
				}
				f.SetupCheck("API endpoint", true, cfg.APIURL)
			default:
				f.SetupCheck("engine", false, fmt.Sprintf("unknown engine %q", cfg.Engine))
				ok = false
			}

			if runtime.GOOS == "darwin" {
				if _, err := exec.LookPath("terminal-notifier"); err != nil {
					f.SetupCheck("terminal-notifier", true, "not found, using osascript notifications")
				} else {
					f.SetupCheck("terminal-notifier", true, "installed")
				}
			} else {
				if _, err := exec.LookPath("notify-send"); err != nil {
					f.SetupCheck("notify-send", false, "not found, notifications degraded")
				} else {
					f.SetupCheck("notify-send", true, "installed")
				}
				if _, err := exec.LookPath("xdotool"); err != nil {
					f.SetupCheck("xdotool", true, "not found, terminal windows get plain Ctrl+V")
				} else {
					f.SetupCheck("xdotool", true, "installed")
				}
			}

			f.SetupCheck("state dir", true, cfg.StateDir)
			f.SetupCheck("tmp dir", true, cfg.TmpDir)

			if ok {
				f.Success("\nAll required tools available. Ready to dictate!")
			} else {
				f.Warning("\nSome required tools are missing.")
			}
			return nil
		},
	}
}
