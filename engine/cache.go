package engine

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	currency "github.com/malusev998/currency-converter"
)

const DefaultCacheSize = 32

// rateCache keeps recently fetched tables per base currency. A nil cache
// never hits, so every conversion re-fetches.
type rateCache struct {
	lru *expirable.LRU[currency.Code, currency.RateTable]
}

func newRateCache(ttl time.Duration, size int) *rateCache {
	if ttl <= 0 {
		return nil
	}

	if size <= 0 {
		size = DefaultCacheSize
	}

	return &rateCache{lru: expirable.NewLRU[currency.Code, currency.RateTable](size, nil, ttl)}
}

func (c *rateCache) get(base currency.Code) (currency.RateTable, bool) {
	if c == nil {
		return currency.RateTable{}, false
	}

	return c.lru.Get(base)
}

func (c *rateCache) add(base currency.Code, table currency.RateTable) {
	if c == nil {
		return
	}

	c.lru.Add(base, table)
}

func (c *rateCache) purge() {
	if c == nil {
		return
	}

	c.lru.Purge()
}
