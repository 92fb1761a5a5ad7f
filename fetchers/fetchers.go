package fetchers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	currency "github.com/malusev998/currency-converter"
)

const (
	ExchangeRateAPIURL  = "https://v6.exchangerate-api.com/v6"
	ExchangeRatesAPIURL = "https://api.exchangeratesapi.io/latest"
	DefaultTimeout      = 10 * time.Second
	maxBodySize         = 1 << 20
)

var (
	ErrUnAuthorized        = errors.New("unauthorized, API key is missing or invalid")
	ErrAPILimitReached     = errors.New("API limit reached")
	ErrUnsupportedCurrency = errors.New("currency is not supported by the provider")
	ErrMalformedResponse   = errors.New("malformed response")
	ErrClient              = errors.New("client error")
	ErrServer              = errors.New("server error")
	ErrUnknown             = errors.New("unknown error")
)

type (
	exchangeRateAPIResponse struct {
		Result          string             `json:"result"`
		ErrorType       string             `json:"error-type,omitempty"`
		BaseCode        string             `json:"base_code,omitempty"`
		ConversionRates map[string]float64 `json:"conversion_rates,omitempty"`
	}

	exchangeRatesAPIResponse struct {
		Success *bool              `json:"success,omitempty"`
		Base    string             `json:"base,omitempty"`
		Rates   map[string]float64 `json:"rates,omitempty"`
		Date    string             `json:"date,omitempty"`
		Error   *struct {
			Code int    `json:"code"`
			Type string `json:"type"`
		} `json:"error,omitempty"`
	}
)

func handleHTTPStatusCodeError(statusCode int) error {
	switch {
	case statusCode == http.StatusOK:
		return nil
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return ErrUnAuthorized
	case statusCode == http.StatusTooManyRequests:
		return ErrAPILimitReached
	case statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError:
		return ErrClient
	case statusCode >= http.StatusInternalServerError:
		return ErrServer
	default:
		return ErrUnknown
	}
}

func httpClient(client *http.Client) *http.Client {
	if client != nil {
		return client
	}

	return &http.Client{Timeout: DefaultTimeout}
}

func logger(l *zap.Logger) *zap.Logger {
	if l != nil {
		return l
	}

	return zap.NewNop()
}

// getData performs a GET against url and returns the status code and the raw body.
func getData(ctx context.Context, client *http.Client, log *zap.Logger, url string) (int, []byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Error("Failed to create request", zap.Error(err))
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Add("Accept", "application/json")

	res, err := client.Do(req)
	if err != nil {
		log.Error("Failed to make request", zap.Error(err))
		return 0, nil, fmt.Errorf("failed to make request: %w", err)
	}

	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err), zap.Int("status_code", res.StatusCode))
		return res.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return res.StatusCode, body, nil
}

func toRateTable(base currency.Code, provider currency.Provider, rates map[string]float64) currency.RateTable {
	table := currency.RateTable{
		Base:      base,
		Rates:     make(map[currency.Code]float64, len(rates)+1),
		Provider:  provider,
		FetchedAt: time.Now().UTC(),
	}

	for code, rate := range rates {
		table.Rates[currency.Code(strings.ToUpper(code))] = rate
	}

	return table
}
