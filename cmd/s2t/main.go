package main

import (
	"fmt"
	"os"

	"github.com/JuanBotter/s2t/config"
	"github.com/JuanBotter/s2t/internal/app"
	"github.com/JuanBotter/s2t/internal/cli"
	"github.com/JuanBotter/s2t/internal/logging"
	"github.com/JuanBotter/s2t/internal/output"
)

func main() {
	if err := run(); err != nil {
		formatter := output.NewFormatter(os.Stderr)
		formatter.Error(err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logging.New(cfg.TmpDir)
	defer log.Sync()

	application := app.New(cfg, log)

	deps := &cli.Dependencies{
		App:    application,
		Config: cfg,
	}

	return cli.NewRootCmd(deps).Execute()
}
