package cli

import (
	"github.com/spf13/cobra"

	"github.com/JuanBotter/s2t/config"
	"github.com/JuanBotter/s2t/internal/app"
	"github.com/JuanBotter/s2t/internal/version"
)

type Dependencies struct {
	App    *app.App
	Config *config.Config
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "s2t",
		Short: "Toggle dictation: record, transcribe, paste",
		Long: "Run once to start recording the microphone in the background.\n" +
			"Run again to stop, transcribe with a speech-to-text engine, and paste\n" +
			"the transcript into the focused application.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.App.Controller.Toggle(cmd.Context())
		},
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	rootCmd.AddCommand(NewDoctorCmd(deps))

	return rootCmd
}
