package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	currency "github.com/malusev998/currency-converter"
)

// ExchangeRateAPIFetcher talks to exchangerate-api.com v6:
// GET {URL}/{APIKey}/latest/{BASE}.
type ExchangeRateAPIFetcher struct {
	URL    string
	APIKey string
	Client *http.Client
	Logger *zap.Logger
}

func (e ExchangeRateAPIFetcher) handleErrorType(errorType string) error {
	switch errorType {
	case "invalid-key", "inactive-account":
		return ErrUnAuthorized
	case "quota-reached":
		return ErrAPILimitReached
	case "unsupported-code":
		return ErrUnsupportedCurrency
	case "malformed-request":
		return ErrClient
	default:
		return ErrUnknown
	}
}

func (e ExchangeRateAPIFetcher) FetchRates(ctx context.Context, base currency.Code) (currency.RateTable, error) {
	baseURL := e.URL

	if baseURL == "" {
		baseURL = ExchangeRateAPIURL
	}

	log := logger(e.Logger).With(zap.String("provider", string(currency.ExchangeRateAPIProvider)), zap.String("base", base.String()))
	endpoint := fmt.Sprintf("%s/%s/latest/%s", strings.TrimRight(baseURL, "/"), url.PathEscape(e.APIKey), url.PathEscape(base.String()))

	log.Debug("Requesting rate table")

	status, body, err := getData(ctx, httpClient(e.Client), log, endpoint)
	if err != nil {
		return currency.RateTable{}, err
	}

	var data exchangeRateAPIResponse
	decodeErr := json.Unmarshal(body, &data)

	if decodeErr == nil && data.Result == "error" {
		log.Error("Provider returned an error", zap.String("error_type", data.ErrorType), zap.Int("status_code", status))
		return currency.RateTable{}, fmt.Errorf("exchangerate-api %s: %w", data.ErrorType, e.handleErrorType(data.ErrorType))
	}

	if err := handleHTTPStatusCodeError(status); err != nil {
		log.Error("Unexpected status code", zap.Int("status_code", status))
		return currency.RateTable{}, fmt.Errorf("unexpected status code %d: %w", status, err)
	}

	if decodeErr != nil {
		log.Error("Failed to decode response", zap.Error(decodeErr))
		return currency.RateTable{}, fmt.Errorf("%w: %v", ErrMalformedResponse, decodeErr)
	}

	if data.Result != "success" || len(data.ConversionRates) == 0 {
		log.Error("Empty rate table", zap.String("result", data.Result))
		return currency.RateTable{}, fmt.Errorf("%w: no conversion rates for %s", ErrMalformedResponse, base)
	}

	table := toRateTable(base, currency.ExchangeRateAPIProvider, data.ConversionRates)

	log.Debug("Successfully received rate table", zap.Int("rates", len(table.Rates)))

	return table, nil
}
