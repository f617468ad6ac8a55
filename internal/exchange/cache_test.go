package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hanhanxue/260110-personal-budget/internal/ledger"
)

func TestCache_GetPut(t *testing.T) {
	cache := NewCache()

	_, ok := cache.Get(ledger.CAD, "2025-06-15")
	assert.False(t, ok)

	want := Rates{CAD: 1, USD: 0.73}
	cache.Put(ledger.CAD, "2025-06-15", want)

	got, ok := cache.Get(ledger.CAD, "2025-06-15")
	assert.True(t, ok)
	assert.Equal(t, want, got)

	// Same currency on a different date is a different entry.
	_, ok = cache.Get(ledger.CAD, "2025-06-16")
	assert.False(t, ok)
}

func TestCache_Clear(t *testing.T) {
	cache := NewCache()
	cache.Put(ledger.USD, "2025-06-15", Rates{CAD: 1.37, USD: 1})
	cache.Clear()

	_, ok := cache.Get(ledger.USD, "2025-06-15")
	assert.False(t, ok)
}
