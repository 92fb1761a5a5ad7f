package currency_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	currency "github.com/malusev998/currency-converter"
)

func TestConvertToProvidersFromStringSlice(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	values := []struct {
		value    []string
		expected interface{}
		err      error
	}{
		{[]string{"exchangerateapi", "ExchangeRatesAPI"}, []currency.Provider{currency.ExchangeRateAPIProvider, currency.ExchangeRatesAPIProvider}, nil},
		{[]string{"not-valid-value"}, []currency.Provider(nil), errors.New("value not-valid-value is not valid Provider")},
	}

	for _, value := range values {
		providers, err := currency.ConvertToProvidersFromStringSlice(value.value)
		assert.Equal(value.expected, providers)
		assert.Equal(value.err, err)
	}
}

func TestConvertToProviderFromString(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	values := []struct {
		value    string
		expected interface{}
		err      error
	}{
		{"exchangerateapi", currency.ExchangeRateAPIProvider, nil},
		{" exchangerate-api ", currency.ExchangeRateAPIProvider, nil},
		{"exchangeratesapi", currency.ExchangeRatesAPIProvider, nil},
		{"", currency.EmptyProvider, errors.New("value  is not valid Provider")},
		{"not-valid-value", currency.EmptyProvider, errors.New("value not-valid-value is not valid Provider")},
	}

	for _, value := range values {
		provider, err := currency.ConvertToProviderFromString(value.value)
		assert.Equal(value.expected, provider)
		assert.Equal(value.err, err)
	}
}

func TestProvider_UnmarshalText(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	var p currency.Provider
	assert.NoError(p.UnmarshalText([]byte("exchangeratesapi")))
	assert.Equal(currency.ExchangeRatesAPIProvider, p)

	assert.Error(p.UnmarshalText([]byte("freecurrconv")))
	assert.Equal(currency.ExchangeRatesAPIProvider, p)

	text, err := p.MarshalText()
	assert.NoError(err)
	assert.Equal("ExchangeRatesAPI", string(text))
}
