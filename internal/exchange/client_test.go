package exchange

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanhanxue/260110-personal-budget/internal/ledger"
	"github.com/hanhanxue/260110-personal-budget/internal/logger"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := &Client{
		apiKey:     "test-key",
		baseURL:    srv.URL,
		httpClient: srv.Client(),
		cache:      NewCache(),
		log:        logger.NewWithWriter(&strings.Builder{}),
	}
	return client, srv
}

func ratesHandler(calls *atomic.Int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{
			"result": "success",
			"conversion_rates": {"CAD": 1.0, "USD": 0.73, "CNY": 5.21, "JPY": 107.4}
		}`)
	})
}

func TestGetRates_FetchesAndCaches(t *testing.T) {
	var calls atomic.Int64
	client, _ := newTestClient(t, ratesHandler(&calls))

	first, err := client.GetRates(context.Background(), ledger.CAD, "2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, Rates{CAD: 1, USD: 0.73}, first)

	second, err := client.GetRates(context.Background(), ledger.CAD, "2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, int64(1), calls.Load(), "repeat lookups for the same currency and date must hit the cache")
}

func TestGetRates_DistinctKeysFetchSeparately(t *testing.T) {
	var calls atomic.Int64
	client, _ := newTestClient(t, ratesHandler(&calls))

	_, err := client.GetRates(context.Background(), ledger.CAD, "2025-06-15")
	require.NoError(t, err)
	_, err = client.GetRates(context.Background(), ledger.CAD, "2025-06-16")
	require.NoError(t, err)
	_, err = client.GetRates(context.Background(), ledger.USD, "2025-06-15")
	require.NoError(t, err)

	assert.Equal(t, int64(3), calls.Load())
}

func TestGetRates_BaseCurrencyPinnedToOne(t *testing.T) {
	var calls atomic.Int64
	client, _ := newTestClient(t, ratesHandler(&calls))

	// The upstream table quotes USD->USD slightly off 1 on some plans;
	// the base currency's own rate is pinned regardless.
	rates, err := client.GetRates(context.Background(), ledger.USD, "2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, float64(1), rates.USD)
	assert.Equal(t, float64(1.0), rates.CAD)
}

func TestGetRates_RequestPath(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"result": "success", "conversion_rates": {"CAD": 0.188, "USD": 0.137}}`)
	}))

	_, err := client.GetRates(context.Background(), ledger.CNY, "2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, "/test-key/latest/CNY", gotPath)
}

func TestGetRates_MissingKey(t *testing.T) {
	client := NewClient("", logger.NewWithWriter(&strings.Builder{}))

	_, err := client.GetRates(context.Background(), ledger.CAD, "2025-06-15")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGetRates_UpstreamErrorResult(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result": "error", "error-type": "invalid-key"}`)
	}))

	_, err := client.GetRates(context.Background(), ledger.CAD, "2025-06-15")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid-key")
}

func TestGetRates_UpstreamStatusError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))

	_, err := client.GetRates(context.Background(), ledger.CAD, "2025-06-15")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGetRates_MissingReferenceRate(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result": "success", "conversion_rates": {"CAD": 0.188}}`)
	}))

	_, err := client.GetRates(context.Background(), ledger.CNY, "2025-06-15")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "USD")
}

func TestClearCache(t *testing.T) {
	var calls atomic.Int64
	client, _ := newTestClient(t, ratesHandler(&calls))

	_, err := client.GetRates(context.Background(), ledger.CAD, "2025-06-15")
	require.NoError(t, err)
	client.ClearCache()
	_, err = client.GetRates(context.Background(), ledger.CAD, "2025-06-15")
	require.NoError(t, err)

	assert.Equal(t, int64(2), calls.Load())
}
