package main

import (
	"fmt"

	"go.uber.org/zap"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/archive"
	"github.com/malusev998/currency-converter/engine"
	"github.com/malusev998/currency-converter/fetchers"
	"github.com/malusev998/currency-converter/storage"
)

func createStorages(config *Config) ([]currency.Storage, error) {
	storages := make([]currency.Storage, 0, len(config.Storage))
	for _, s := range config.Storage {
		c, ok := config.StorageConfig[s]
		if !ok {
			_ = archive.Service{Storage: storages}.Close()
			return nil, fmt.Errorf("storage %s does not exist", s)
		}

		st, err := storage.NewStorage(s, c)

		if err != nil {
			_ = archive.Service{Storage: storages}.Close()
			return nil, err
		}

		storages = append(storages, st)
	}

	return storages, nil
}

// createArchive returns nil when no storage is configured.
func createArchive(storages []currency.Storage, logger *zap.Logger) *archive.Service {
	if len(storages) == 0 {
		return nil
	}

	return &archive.Service{
		Storage: storages,
		Logger:  logger.Named("archive"),
	}
}

func createFetcher(config *Config, logger *zap.Logger) (currency.RateFetcher, error) {
	c, ok := config.FetchersConfig[config.Fetcher]
	if !ok {
		return nil, fmt.Errorf("fetcher %s does not exist", config.Fetcher)
	}

	switch fc := c.(type) {
	case fetchers.ExchangeRateAPIConfig:
		fc.Logger = logger
		c = fc
	case fetchers.ExchangeRatesAPIConfig:
		fc.Logger = logger
		c = fc
	}

	return fetchers.NewRateFetcher(config.Fetcher, c)
}

func createEngine(config *Config, logger *zap.Logger, fetcher currency.RateFetcher, archiver *archive.Service) *engine.Engine {
	opts := []engine.Option{
		engine.WithTimeout(config.Timeout),
		engine.WithReference(config.Reference),
		engine.WithPair(config.Pair),
		engine.WithCache(config.CacheTTL, config.CacheSize),
	}

	if archiver != nil {
		opts = append(opts, engine.WithArchiver(archiver))
	}

	return engine.New(fetcher, logger, opts...)
}
