package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/engine"
	"github.com/malusev998/currency-converter/fetchers"
	"github.com/malusev998/currency-converter/storage"
)

const envPrefix = "CURRENCY_CONVERTER"

type (
	FetchersConfig map[currency.Provider]interface{}
	StorageConfig  map[storage.Provider]interface{}
	Config         struct {
		Fetcher        currency.Provider
		Storage        []storage.Provider
		FetchersConfig FetchersConfig
		StorageConfig  StorageConfig
		Timeout        time.Duration
		Reference      currency.Code
		Pair           currency.Pair
		CacheTTL       time.Duration
		CacheSize      int
		LogLevel       string
	}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", string(currency.ExchangeRateAPIProvider))
	v.SetDefault("fetchers.exchangerateapi.url", fetchers.ExchangeRateAPIURL)
	v.SetDefault("fetchers.exchangerateapi.apikey", "")
	v.SetDefault("fetchers.exchangeratesapi.url", fetchers.ExchangeRatesAPIURL)
	v.SetDefault("fetchers.exchangeratesapi.accesskey", "")
	v.SetDefault("timeout", engine.DefaultTimeout)
	v.SetDefault("reference", engine.DefaultReference.String())
	v.SetDefault("pair.from", engine.DefaultPair.From.String())
	v.SetDefault("pair.to", engine.DefaultPair.To.String())
	v.SetDefault("cache.ttl", time.Duration(0))
	v.SetDefault("cache.size", engine.DefaultCacheSize)
	v.SetDefault("log.level", "info")
	v.SetDefault("archive", []string{})
	v.SetDefault("migrate", false)
	v.SetDefault("databases.mysql.user", "")
	v.SetDefault("databases.mysql.password", "")
	v.SetDefault("databases.mysql.addr", "localhost:3306")
	v.SetDefault("databases.mysql.db", "")
	v.SetDefault("databases.mysql.table", storage.DefaultTableName)
	v.SetDefault("databases.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("databases.mongo.db", "")
	v.SetDefault("databases.mongo.collection", storage.DefaultCollection)
}

// readConfig loads .env, the config file when it exists and the
// CURRENCY_CONVERTER_* environment.
func readConfig(v *viper.Viper, configFile string) error {
	_ = godotenv.Load()

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		return nil
	}

	absolutePath, err := filepath.Abs(configFile)
	if err != nil {
		return err
	}

	if _, err := os.Stat(absolutePath); os.IsNotExist(err) {
		return nil
	}

	v.SetConfigFile(absolutePath)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("error while reading in the config file: %w", err)
	}

	return nil
}

func getPair(v *viper.Viper) (currency.Pair, error) {
	from, err := currency.ParseCode(v.GetString("pair.from"))
	if err != nil {
		return currency.Pair{}, fmt.Errorf("error while parsing pair.from: %w", err)
	}

	to, err := currency.ParseCode(v.GetString("pair.to"))
	if err != nil {
		return currency.Pair{}, fmt.Errorf("error while parsing pair.to: %w", err)
	}

	return currency.Pair{From: from, To: to}, nil
}

func getConfig(v *viper.Viper, debug bool) (*Config, error) {
	fetcher, err := currency.ConvertToProviderFromString(v.GetString("provider"))
	if err != nil {
		return nil, err
	}

	storages, err := storage.ConvertToProvidersFromStringSlice(v.GetStringSlice("archive"))
	if err != nil {
		return nil, err
	}

	reference, err := currency.ParseCode(v.GetString("reference"))
	if err != nil {
		return nil, fmt.Errorf("error while parsing reference: %w", err)
	}

	pair, err := getPair(v)
	if err != nil {
		return nil, err
	}

	timeout := v.GetDuration("timeout")
	if timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", timeout)
	}

	logLevel := v.GetString("log.level")
	if debug {
		logLevel = "debug"
	}

	fetcherBaseConfig := fetchers.BaseConfig{Timeout: timeout}
	storageBaseConfig := storage.BaseConfig{Migrate: v.GetBool("migrate")}

	return &Config{
		Fetcher: fetcher,
		Storage: storages,
		FetchersConfig: FetchersConfig{
			currency.ExchangeRateAPIProvider: fetchers.ExchangeRateAPIConfig{
				BaseConfig: withURL(fetcherBaseConfig, v.GetString("fetchers.exchangerateapi.url")),
				APIKey:     v.GetString("fetchers.exchangerateapi.apikey"),
			},
			currency.ExchangeRatesAPIProvider: fetchers.ExchangeRatesAPIConfig{
				BaseConfig: withURL(fetcherBaseConfig, v.GetString("fetchers.exchangeratesapi.url")),
				AccessKey:  v.GetString("fetchers.exchangeratesapi.accesskey"),
			},
		},
		StorageConfig: StorageConfig{
			storage.MySQL: storage.MySQLConfig{
				BaseConfig: storageBaseConfig,
				User:       v.GetString("databases.mysql.user"),
				Password:   v.GetString("databases.mysql.password"),
				Addr:       v.GetString("databases.mysql.addr"),
				Database:   v.GetString("databases.mysql.db"),
				TableName:  v.GetString("databases.mysql.table"),
			},
			storage.MongoDB: storage.MongoDBConfig{
				BaseConfig:       storageBaseConfig,
				ConnectionString: v.GetString("databases.mongo.uri"),
				Database:         v.GetString("databases.mongo.db"),
				Collection:       v.GetString("databases.mongo.collection"),
			},
		},
		Timeout:   timeout,
		Reference: reference,
		Pair:      pair,
		CacheTTL:  v.GetDuration("cache.ttl"),
		CacheSize: v.GetInt("cache.size"),
		LogLevel:  logLevel,
	}, nil
}

func withURL(c fetchers.BaseConfig, url string) fetchers.BaseConfig {
	c.URL = url
	return c
}
