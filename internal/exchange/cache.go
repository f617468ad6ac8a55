package exchange

import (
	"sync"

	"github.com/hanhanxue/260110-personal-budget/internal/ledger"
)

// Rates holds the conversion rates from a base currency to the two
// reference currencies. The base currency's own rate is always 1.
type Rates struct {
	CAD float64 `json:"CAD"`
	USD float64 `json:"USD"`
}

// Cache memoizes fetched rates for the life of the process, keyed by
// (currency, date). There is no TTL and no size bound: the rate source is
// called at interactive form volume and instances are short-lived. Clear
// exists for test isolation.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Rates
}

// NewCache creates an empty rate cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Rates)}
}

func cacheKey(currency ledger.Currency, date string) string {
	return string(currency) + "-" + date
}

// Get returns the cached rates for (currency, date), if any.
func (c *Cache) Get(currency ledger.Currency, date string) (Rates, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rates, ok := c.entries[cacheKey(currency, date)]
	return rates, ok
}

// Put stores the rates for (currency, date).
func (c *Cache) Put(currency ledger.Currency, date string, rates Rates) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(currency, date)] = rates
}

// Clear drops every cached entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Rates)
}
