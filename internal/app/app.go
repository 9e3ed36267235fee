package app

import (
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/JuanBotter/s2t/config"
	"github.com/JuanBotter/s2t/internal/audio"
	"github.com/JuanBotter/s2t/internal/deliver"
	"github.com/JuanBotter/s2t/internal/dictation"
	"github.com/JuanBotter/s2t/internal/dictation/usecases"
	"github.com/JuanBotter/s2t/internal/notify"
	"github.com/JuanBotter/s2t/internal/output"
	"github.com/JuanBotter/s2t/internal/session"
	"github.com/JuanBotter/s2t/internal/stt"
)

// stopGrace bounds how long a stop waits for the recorder to flush and exit.
const stopGrace = 5 * time.Second

type App struct {
	Controller *dictation.Controller

	// EngineErr is a deferred engine setup failure. Construction succeeds so
	// that doctor can still run; toggling reports this before touching state.
	EngineErr error
}

func New(cfg *config.Config, log *zap.Logger) *App {
	sessions := session.NewStore(cfg.StateDir)
	recorder := audio.NewRecorder(cfg.AudioDevice, cfg.MaxSeconds)
	notifier := notify.New(cfg.NotifySummary, cfg.NotifyBody, cfg.NotifyTag, log)

	engine, engineErr := stt.New(cfg)
	if engineErr != nil {
		engine = stt.Unavailable(engineErr)
	}

	startRecording := &usecases.StartRecording{
		Recorder:   recorder,
		Sessions:   sessions,
		TmpDir:     cfg.TmpDir,
		MaxSeconds: cfg.MaxSeconds,
	}

	stopRecording := &usecases.StopRecording{
		Recorder: recorder,
		Sessions: sessions,
		Grace:    stopGrace,
		Log:      log,
	}

	transcribe := &usecases.Transcribe{
		Engine:   engine,
		Language: cfg.Language,
	}

	deliverer := deliver.New(
		cfg.ClipboardMode == config.ClipboardPreserve,
		cfg.RestoreDelay,
		cfg.Paste,
		log,
	)

	preflight := func() error {
		if engineErr != nil {
			return engineErr
		}
		if w, ok := engine.(*stt.WhisperCpp); ok {
			return w.CheckTool()
		}
		return nil
	}

	controller := dictation.New(dictation.Params{
		Sessions:   sessions,
		Start:      startRecording,
		Stop:       stopRecording,
		Transcribe: transcribe,
		Deliver:    deliverer,
		Notify:     notifier,
		Preflight:  preflight,
		Out:        output.NewFormatter(os.Stdout),
		Log:        log,
	})

	return &App{Controller: controller, EngineErr: engineErr}
}
