package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// maxAmountDigits bounds the integer digits of an amount.
	maxAmountDigits = 30
	// maxAmountScale bounds the fractional digits of an amount.
	maxAmountScale = 30
)

// ParseAmount parses user input into a decimal amount. Surrounding
// whitespace is ignored. Amounts too large or too precise to convert are
// rejected the same way non-numeric input is.
func ParseAmount(amount string) (decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)

	if amount == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}

	exponent := int64(value.Exponent())
	digits := int64(value.NumDigits())

	switch {
	case exponent < -maxAmountScale, exponent > maxAmountDigits,
		digits > maxAmountDigits+maxAmountScale,
		!value.IsZero() && digits+exponent > maxAmountDigits:
		return decimal.Zero, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, amount)
	}

	return value, nil
}

func convert(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(2)
}
