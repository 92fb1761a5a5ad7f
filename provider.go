package currency

import (
	"fmt"
	"strings"
)

type Provider string

const (
	ExchangeRateAPIProvider  Provider = "ExchangeRateAPI"
	ExchangeRatesAPIProvider Provider = "ExchangeRatesAPI"
	EmptyProvider            Provider = ""
)

func ConvertToProvidersFromStringSlice(strings []string) ([]Provider, error) {
	providers := make([]Provider, 0, len(strings))

	for _, str := range strings {
		provider, err := ConvertToProviderFromString(str)
		if err != nil {
			return nil, err
		}

		providers = append(providers, provider)
	}

	return providers, nil
}

func ConvertToProviderFromString(str string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "exchangerateapi", "exchangerate-api":
		return ExchangeRateAPIProvider, nil
	case "exchangeratesapi", "exchangerates-api":
		return ExchangeRatesAPIProvider, nil
	}

	return EmptyProvider, fmt.Errorf("value %s is not valid Provider", str)
}

func (p *Provider) UnmarshalText(text []byte) error {
	provider, err := ConvertToProviderFromString(string(text))

	if err != nil {
		return err
	}

	*p = provider

	return nil
}

func (p Provider) MarshalText() ([]byte, error) {
	return []byte(p), nil
}
