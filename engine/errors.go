package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount       = errors.New("amount must be a non-empty number")
	ErrProviderUnavailable = errors.New("rate provider is unavailable")
	ErrConversionFailed    = errors.New("conversion failed")
	// ErrUnknownTargetRate is a ErrConversionFailed variant: the fetched
	// table has no usable rate for the target currency.
	ErrUnknownTargetRate = fmt.Errorf("%w: target currency is not in the rate table", ErrConversionFailed)
)
