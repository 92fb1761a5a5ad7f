package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/malusev998/currency-converter/archive"
	"github.com/malusev998/currency-converter/cli/cmd"
	"github.com/malusev998/currency-converter/engine"
	"github.com/malusev998/currency-converter/logging"
)

type application struct {
	converter *engine.Engine
	archive   *archive.Service
}

func (a *application) setup(ctx context.Context, c *cmd.Config) error {
	v := viper.New()

	if err := readConfig(v, c.ConfigFile); err != nil {
		return err
	}

	config, err := getConfig(v, c.Debug)
	if err != nil {
		return err
	}

	logger, err := logging.BuildLogger(config.LogLevel)
	if err != nil {
		return err
	}

	fetcher, err := createFetcher(config, logger.Named("fetcher"))
	if err != nil {
		return err
	}

	storages, err := createStorages(config)
	if err != nil {
		return err
	}

	archiver := createArchive(storages, logger)
	e := createEngine(config, logger, fetcher, archiver)

	logger.Debug("Session started",
		zap.String("session", e.SessionID()),
		zap.String("provider", string(config.Fetcher)),
		zap.Int("storages", len(storages)),
	)

	a.converter = e
	a.archive = archiver
	c.Converter = e

	return nil
}

func (a *application) close() {
	if a.converter != nil {
		a.converter.Close()
	}

	if a.archive != nil {
		_ = a.archive.Close()
	}

	_ = logging.Logger().Sync()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	app := &application{}

	err := cmd.Execute(ctx, &cmd.Config{Setup: app.setup})

	app.close()
	stop()

	if err != nil {
		os.Exit(1)
	}
}
