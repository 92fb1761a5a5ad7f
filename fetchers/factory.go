package fetchers

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	currency "github.com/malusev998/currency-converter"
)

type (
	BaseConfig struct {
		URL     string
		Timeout time.Duration
		Logger  *zap.Logger
	}
	ExchangeRateAPIConfig struct {
		BaseConfig
		APIKey string
	}
	ExchangeRatesAPIConfig struct {
		BaseConfig
		AccessKey string
	}
)

func (c BaseConfig) client() *http.Client {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{Timeout: timeout}
}

func NewRateFetcher(provider currency.Provider, config interface{}) (currency.RateFetcher, error) {
	switch provider {
	case currency.ExchangeRateAPIProvider:
		c, ok := config.(ExchangeRateAPIConfig)
		if !ok {
			return nil, fmt.Errorf("fetcher %s expects ExchangeRateAPIConfig, got %T", provider, config)
		}

		return ExchangeRateAPIFetcher{
			URL:    c.URL,
			APIKey: c.APIKey,
			Client: c.client(),
			Logger: c.Logger,
		}, nil
	case currency.ExchangeRatesAPIProvider:
		c, ok := config.(ExchangeRatesAPIConfig)
		if !ok {
			return nil, fmt.Errorf("fetcher %s expects ExchangeRatesAPIConfig, got %T", provider, config)
		}

		return ExchangeRatesAPIFetcher{
			URL:       c.URL,
			AccessKey: c.AccessKey,
			Client:    c.client(),
			Logger:    c.Logger,
		}, nil
	}

	return nil, fmt.Errorf("fetcher %s does not exist", provider)
}
