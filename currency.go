package currency

import "context"

type (
	// RateFetcher returns the rate table for one base currency.
	RateFetcher interface {
		FetchRates(ctx context.Context, base Code) (RateTable, error)
	}
)
