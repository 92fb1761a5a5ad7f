package currency_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	currency "github.com/malusev998/currency-converter"
)

func TestParseCode(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	values := []struct {
		value    string
		expected currency.Code
		valid    bool
	}{
		{"USD", "USD", true},
		{" inr ", "INR", true},
		{"", "", false},
		{"US", "", false},
		{"US1", "", false},
		{"EURO", "", false},
	}

	for _, value := range values {
		code, err := currency.ParseCode(value.value)
		assert.Equal(value.expected, code)

		if value.valid {
			assert.NoError(err)
		} else {
			assert.True(errors.Is(err, currency.ErrInvalidCode))
		}
	}
}

func TestPair_Swap(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	pair := currency.Pair{From: "USD", To: "INR"}
	swapped := pair.Swap()

	assert.Equal(currency.Pair{From: "INR", To: "USD"}, swapped)
	assert.Equal(pair, swapped.Swap())
	assert.Equal("USD_INR", pair.String())
}

func TestRateTable(t *testing.T) {
	t.Parallel()
	assert := require.New(t)
	now := time.Now()

	table := currency.RateTable{
		Base: "USD",
		Rates: map[currency.Code]float64{
			"USD": 1,
			"INR": 83,
			"EUR": 0.92,
			"BAD": -1,
			"NAN": math.NaN(),
		},
		Provider:  currency.ExchangeRateAPIProvider,
		FetchedAt: now,
	}

	rate, ok := table.Rate("INR")
	assert.True(ok)
	assert.Equal(83.0, rate)

	for _, code := range []currency.Code{"BAD", "NAN", "XXX"} {
		_, ok := table.Rate(code)
		assert.False(ok, code)
	}

	assert.Equal([]currency.Code{"BAD", "EUR", "INR", "NAN", "USD"}, table.Codes())

	rows := table.Flatten()
	assert.Len(rows, 5)
	assert.Equal(currency.Code("USD"), rows[0].From)
	assert.Equal(currency.Code("BAD"), rows[0].To)
	assert.Equal(currency.ExchangeRateAPIProvider, rows[0].Provider)
	assert.Equal(now, rows[0].CreatedAt)
}

func TestConversion_String(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	record := currency.ConversionRecord{
		ID:     3,
		From:   "USD",
		To:     "INR",
		Amount: decimal.RequireFromString("100"),
		Result: decimal.RequireFromString("8300"),
	}

	assert.Equal("3. 100 USD to INR = 8300.00", record.String())
	assert.Equal("100 USD = 8300.00 INR", currency.Conversion{ConversionRecord: record}.String())
}

func TestFlagURL(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	assert.Equal("https://flagcdn.com/48x36/us.png", currency.FlagURL("USD"))
	assert.Equal("https://flagcdn.com/48x36/in.png", currency.FlagURL("INR"))
	assert.Equal("", currency.FlagURL("X"))
}
