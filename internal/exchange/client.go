package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/hanhanxue/260110-personal-budget/internal/ledger"
)

const defaultBaseURL = "https://v6.exchangerate-api.com/v6"

// ErrNotConfigured is returned when no API key is set for the rate source.
var ErrNotConfigured = errors.New("EXCHANGE_RATE_API_KEY not configured")

// Client fetches conversion rates from exchangerate-api.com and memoizes
// them per (currency, date). The free plan only serves latest rates, so a
// historical date is answered with today's table; the requested date still
// keys the cache entry.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *Cache
	log        zerolog.Logger
}

// NewClient creates a rate client with a fresh cache.
func NewClient(apiKey string, log zerolog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      NewCache(),
		log:        log,
	}
}

// ClearCache drops all memoized rates.
func (c *Client) ClearCache() {
	c.cache.Clear()
}

// GetRates returns the CAD and USD rates for amounts in the given
// currency on the given date. Two calls with the same (currency, date)
// issue exactly one upstream fetch.
func (c *Client) GetRates(ctx context.Context, from ledger.Currency, date string) (Rates, error) {
	if rates, ok := c.cache.Get(from, date); ok {
		return rates, nil
	}

	if c.apiKey == "" {
		return Rates{}, ErrNotConfigured
	}

	today := time.Now().Format("2006-01-02")
	if date != today {
		c.log.Debug().
			Str("requested", date).
			Str("today", today).
			Msg("Historical rates unavailable on free plan, using latest")
	}

	table, err := c.fetchLatest(ctx, from)
	if err != nil {
		c.log.Error().Err(err).Str("from", string(from)).Msg("Failed to fetch exchange rates")
		return Rates{}, err
	}

	rates, err := referenceRates(from, table)
	if err != nil {
		return Rates{}, err
	}

	c.cache.Put(from, date, rates)
	return rates, nil
}

// referenceRates extracts the CAD and USD rates from a full conversion
// table, pinning the base currency's own rate at 1.
func referenceRates(from ledger.Currency, table map[string]float64) (Rates, error) {
	pick := func(to string) (float64, error) {
		if string(from) == to {
			return 1, nil
		}
		rate, ok := table[to]
		if !ok {
			return 0, fmt.Errorf("rate not found for %s to %s", from, to)
		}
		return rate, nil
	}

	cad, err := pick("CAD")
	if err != nil {
		return Rates{}, err
	}
	usd, err := pick("USD")
	if err != nil {
		return Rates{}, err
	}
	return Rates{CAD: cad, USD: usd}, nil
}

type latestResponse struct {
	Result          string             `json:"result"`
	ErrorType       string             `json:"error-type"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

func (c *Client) fetchLatest(ctx context.Context, from ledger.Currency) (map[string]float64, error) {
	url := fmt.Sprintf("%s/%s/latest/%s", c.baseURL, c.apiKey, from)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building rate request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("exchange rate API error: %d - %s", resp.StatusCode, body)
	}

	var decoded latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding rate response: %w", err)
	}

	if decoded.Result != "success" {
		errType := decoded.ErrorType
		if errType == "" {
			errType = "unknown error"
		}
		return nil, fmt.Errorf("exchange rate API error: %s", errType)
	}

	return decoded.ConversionRates, nil
}
