package fetchers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	currency "github.com/malusev998/currency-converter"
)

func TestNewRateFetcher(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	fetcher, err := NewRateFetcher(currency.ExchangeRateAPIProvider, ExchangeRateAPIConfig{
		BaseConfig: BaseConfig{URL: "http://localhost", Timeout: time.Second},
		APIKey:     "123456",
	})
	asserts.NoError(err)
	asserts.IsType(ExchangeRateAPIFetcher{}, fetcher)
	asserts.Equal(time.Second, fetcher.(ExchangeRateAPIFetcher).Client.Timeout)

	fetcher, err = NewRateFetcher(currency.ExchangeRatesAPIProvider, ExchangeRatesAPIConfig{})
	asserts.NoError(err)
	asserts.IsType(ExchangeRatesAPIFetcher{}, fetcher)
	asserts.Equal(DefaultTimeout, fetcher.(ExchangeRatesAPIFetcher).Client.Timeout)

	_, err = NewRateFetcher(currency.ExchangeRateAPIProvider, ExchangeRatesAPIConfig{})
	asserts.Error(err)

	_, err = NewRateFetcher(currency.EmptyProvider, nil)
	asserts.EqualError(err, "fetcher  does not exist")
}
