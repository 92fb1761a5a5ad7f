package engine

import (
	"time"

	currency "github.com/malusev998/currency-converter"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultReference = currency.Code("USD")
)

var DefaultPair = currency.Pair{From: "USD", To: "INR"}

type Option func(*Engine)

// WithTimeout bounds every call to the rate provider.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Engine) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

// WithReference sets the base used to discover the known currencies.
func WithReference(code currency.Code) Option {
	return func(e *Engine) {
		if code != "" {
			e.reference = code
		}
	}
}

func WithPair(pair currency.Pair) Option {
	return func(e *Engine) {
		e.pair = pair
	}
}

// WithCache keeps fetched tables for ttl. A zero ttl disables caching.
func WithCache(ttl time.Duration, size int) Option {
	return func(e *Engine) {
		e.cache = newRateCache(ttl, size)
	}
}

func WithArchiver(archiver Archiver) Option {
	return func(e *Engine) {
		e.archiver = archiver
	}
}
