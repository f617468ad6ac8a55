package handlers

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/hanhanxue/260110-personal-budget/internal/api/middleware"
	"github.com/hanhanxue/260110-personal-budget/internal/exchange"
	"github.com/hanhanxue/260110-personal-budget/internal/ledger"
)

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// RateSource provides conversion rates for an amount's currency and date.
type RateSource interface {
	GetRates(ctx context.Context, from ledger.Currency, date string) (exchange.Rates, error)
}

// ExchangeHandler serves GET /api/exchange-rate.
type ExchangeHandler struct {
	rates RateSource
	log   zerolog.Logger
}

// NewExchangeHandler creates a new exchange-rate handler.
func NewExchangeHandler(rates RateSource, log zerolog.Logger) *ExchangeHandler {
	return &ExchangeHandler{rates: rates, log: log}
}

// Get handles GET /api/exchange-rate?from=CCY&date=YYYY-MM-DD. Future
// dates are clamped to today before hitting the rate source; the response
// echoes the requested date.
func (h *ExchangeHandler) Get(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	from := ledger.Currency(query.Get("from"))
	if !from.Valid() {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid currency. Must be one of: CAD, USD, CNY, JPY, GBP")
		return
	}

	date := query.Get("date")
	if !isoDate.MatchString(date) {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid date. Must be in YYYY-MM-DD format")
		return
	}

	effectiveDate := date
	if today := time.Now().Format("2006-01-02"); date > today {
		effectiveDate = today
	}

	rates, err := h.rates.GetRates(r.Context(), from, effectiveDate)
	if err != nil {
		h.log.Error().Err(err).Str("from", string(from)).Str("date", date).Msg("Failed to fetch exchange rates")
		if errors.Is(err, exchange.ErrNotConfigured) {
			middleware.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch exchange rates")
		return
	}

	middleware.WriteData(w, http.StatusOK, map[string]interface{}{
		"from":  from,
		"date":  date,
		"rates": rates,
	})
}
