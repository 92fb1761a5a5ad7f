package currency

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const FlagURLFormat = "https://flagcdn.com/48x36/%s.png"

var ErrInvalidCode = errors.New("currency code must be three letters")

type (
	Code string

	Pair struct {
		From Code
		To   Code
	}

	// RateTable maps codes to rates relative to Base. It is valid only for
	// the base it was fetched for.
	RateTable struct {
		Base      Code
		Rates     map[Code]float64
		Provider  Provider
		FetchedAt time.Time
	}

	Rate struct {
		From      Code
		To        Code
		Provider  Provider
		Rate      float64
		CreatedAt time.Time
	}

	RateWithID struct {
		Rate
		ID interface{}
	}

	ConversionRecord struct {
		ID     int
		From   Code
		To     Code
		Amount decimal.Decimal
		Result decimal.Decimal
	}

	Conversion struct {
		ConversionRecord
		Rate decimal.Decimal
	}
)

func ParseCode(s string) (Code, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	if len(s) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCode, s)
	}

	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: %q", ErrInvalidCode, s)
		}
	}

	return Code(s), nil
}

func (c Code) String() string {
	return string(c)
}

// FlagURL derives the flag image from the territory prefix of the code.
func FlagURL(c Code) string {
	if len(c) < 2 {
		return ""
	}

	return fmt.Sprintf(FlagURLFormat, strings.ToLower(string(c[:2])))
}

func (p Pair) Swap() Pair {
	return Pair{From: p.To, To: p.From}
}

func (p Pair) String() string {
	return fmt.Sprintf("%s_%s", p.From, p.To)
}

// Rate looks up code in the table. Missing, non-positive and non-finite
// rates are reported as absent.
func (t RateTable) Rate(code Code) (float64, bool) {
	rate, ok := t.Rates[code]

	if !ok || math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return 0, false
	}

	return rate, true
}

func (t RateTable) Codes() []Code {
	codes := make([]Code, 0, len(t.Rates))

	for code := range t.Rates {
		codes = append(codes, code)
	}

	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	return codes
}

func (t RateTable) Flatten() []Rate {
	rates := make([]Rate, 0, len(t.Rates))

	for _, to := range t.Codes() {
		rates = append(rates, Rate{
			From:      t.Base,
			To:        to,
			Provider:  t.Provider,
			Rate:      t.Rates[to],
			CreatedAt: t.FetchedAt,
		})
	}

	return rates
}

func (r ConversionRecord) String() string {
	return fmt.Sprintf("%d. %s %s to %s = %s", r.ID, r.Amount.String(), r.From, r.To, r.Result.StringFixed(2))
}

func (c Conversion) String() string {
	return fmt.Sprintf("%s %s = %s %s", c.Amount.String(), c.From, c.Result.StringFixed(2), c.To)
}
