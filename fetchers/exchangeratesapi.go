package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	currency "github.com/malusev998/currency-converter"
)

// ExchangeRatesAPIFetcher talks to exchangeratesapi.io style endpoints:
// GET {URL}?base=BASE[&access_key=KEY]. The base itself is not part of the
// returned rates and is added with rate 1.
type ExchangeRatesAPIFetcher struct {
	URL       string
	AccessKey string
	Client    *http.Client
	Logger    *zap.Logger
}

func (e ExchangeRatesAPIFetcher) endpoint(base currency.Code) (string, error) {
	rawURL := e.URL

	if rawURL == "" {
		rawURL = ExchangeRatesAPIURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid url %q: %v", ErrClient, rawURL, err)
	}

	q := u.Query()
	q.Set("base", base.String())

	if e.AccessKey != "" {
		q.Set("access_key", e.AccessKey)
	}

	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (e ExchangeRatesAPIFetcher) FetchRates(ctx context.Context, base currency.Code) (currency.RateTable, error) {
	log := logger(e.Logger).With(zap.String("provider", string(currency.ExchangeRatesAPIProvider)), zap.String("base", base.String()))

	endpoint, err := e.endpoint(base)
	if err != nil {
		log.Error("Failed to build endpoint", zap.Error(err))
		return currency.RateTable{}, err
	}

	status, body, err := getData(ctx, httpClient(e.Client), log, endpoint)
	if err != nil {
		return currency.RateTable{}, err
	}

	var data exchangeRatesAPIResponse
	decodeErr := json.Unmarshal(body, &data)

	if decodeErr == nil && data.Error != nil {
		log.Error("Provider returned an error", zap.String("error_type", data.Error.Type), zap.Int("code", data.Error.Code))

		var cause error
		switch data.Error.Type {
		case "invalid_access_key", "missing_access_key", "inactive_user":
			cause = ErrUnAuthorized
		case "usage_limit_reached":
			cause = ErrAPILimitReached
		case "invalid_base_currency", "base_currency_access_restricted":
			cause = ErrUnsupportedCurrency
		default:
			cause = ErrUnknown
		}

		return currency.RateTable{}, fmt.Errorf("exchangeratesapi %s: %w", data.Error.Type, cause)
	}

	if err := handleHTTPStatusCodeError(status); err != nil {
		log.Error("Unexpected status code", zap.Int("status_code", status))
		return currency.RateTable{}, fmt.Errorf("unexpected status code %d: %w", status, err)
	}

	if decodeErr != nil {
		log.Error("Failed to decode response", zap.Error(decodeErr))
		return currency.RateTable{}, fmt.Errorf("%w: %v", ErrMalformedResponse, decodeErr)
	}

	if len(data.Rates) == 0 {
		log.Error("Empty rate table", zap.String("date", data.Date))
		return currency.RateTable{}, fmt.Errorf("%w: no rates for %s", ErrMalformedResponse, base)
	}

	table := toRateTable(base, currency.ExchangeRatesAPIProvider, data.Rates)

	if _, ok := table.Rates[base]; !ok {
		table.Rates[base] = 1
	}

	log.Debug("Successfully received rate table", zap.Int("rates", len(table.Rates)), zap.String("date", data.Date))

	return table, nil
}
