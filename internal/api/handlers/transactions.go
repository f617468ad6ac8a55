package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/hanhanxue/260110-personal-budget/internal/api/middleware"
	"github.com/hanhanxue/260110-personal-budget/internal/ledger"
	"github.com/hanhanxue/260110-personal-budget/internal/sheets"
)

// defaultListLimit is the page size when the client does not ask for one.
const defaultListLimit = 20

// TransactionStore is the slice of the sheets store the transaction
// endpoints depend on.
type TransactionStore interface {
	List(ctx context.Context, budget ledger.Budget, opts sheets.ListOptions) ([]ledger.Transaction, int, error)
	Append(ctx context.Context, budget ledger.Budget, t ledger.Transaction) error
	Update(ctx context.Context, budget ledger.Budget, rowIndex int64, t ledger.Transaction) error
	Delete(ctx context.Context, budget ledger.Budget, rowIndex int64) error
	UniqueVendors(ctx context.Context, budget ledger.Budget) ([]string, error)
	UniqueAccounts(ctx context.Context, budget ledger.Budget) ([]string, error)
	UniqueTags(ctx context.Context, budget ledger.Budget) ([]string, error)
	FetchSchema(ctx context.Context, budget ledger.Budget) (ledger.Schema, error)
	FetchDefaults(ctx context.Context, budget ledger.Budget) (map[string]string, error)
}

// TransactionsHandler serves the transaction CRUD, schema, and
// autocomplete endpoints.
type TransactionsHandler struct {
	store TransactionStore
	log   zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(store TransactionStore, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{store: store, log: log}
}

// budgetParam resolves the {budget} path parameter; on failure it writes
// the 400 envelope and reports false.
func budgetParam(w http.ResponseWriter, r *http.Request) (ledger.Budget, bool) {
	budget, err := ledger.ParseBudget(chi.URLParam(r, "budget"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return budget, true
}

// writeStoreError maps store failures to the envelope: unavailable-store
// causes stay in the log with a generic body, everything else (config,
// structural) is surfaced verbatim.
func writeStoreError(w http.ResponseWriter, err error, generic string) {
	if errors.Is(err, sheets.ErrUnavailable) {
		middleware.WriteError(w, http.StatusInternalServerError, generic)
		return
	}
	middleware.WriteError(w, http.StatusInternalServerError, err.Error())
}

// List handles GET /api/{budget}/transactions
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	budget, ok := budgetParam(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	opts := sheets.ListOptions{
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
		Limit:     defaultListLimit,
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			opts.Limit = limit
		}
	}

	transactions, total, err := h.store.List(r.Context(), budget, opts)
	if err != nil {
		h.log.Error().Err(err).Str("budget", string(budget)).Msg("Failed to list transactions")
		writeStoreError(w, err, "Failed to fetch transactions")
		return
	}

	if transactions == nil {
		transactions = []ledger.Transaction{}
	}
	middleware.WriteData(w, http.StatusOK, map[string]interface{}{
		"transactions": transactions,
		"total":        total,
	})
}

// Create handles POST /api/{budget}/transactions
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	budget, ok := budgetParam(w, r)
	if !ok {
		return
	}

	var t ledger.Transaction
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := t.Validate(budget); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Append(r.Context(), budget, t); err != nil {
		h.log.Error().Err(err).Str("budget", string(budget)).Msg("Failed to save transaction")
		writeStoreError(w, err, "Failed to save transaction")
		return
	}

	middleware.WriteData(w, http.StatusOK, map[string]string{"message": "Transaction saved successfully"})
}

// Update handles PUT /api/{budget}/transactions?id=
func (h *TransactionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	budget, ok := budgetParam(w, r)
	if !ok {
		return
	}

	rowIndex, ok := rowIndexParam(w, r)
	if !ok {
		return
	}

	var t ledger.Transaction
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := t.Validate(budget); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Update(r.Context(), budget, rowIndex, t); err != nil {
		h.log.Error().Err(err).Str("budget", string(budget)).Int64("row", rowIndex).Msg("Failed to update transaction")
		writeStoreError(w, err, "Failed to update transaction")
		return
	}

	middleware.WriteData(w, http.StatusOK, map[string]string{"message": "Transaction updated successfully"})
}

// Delete handles DELETE /api/{budget}/transactions?id=
// After a delete every later row shifts up; the client refetches the list
// before any further mutation.
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	budget, ok := budgetParam(w, r)
	if !ok {
		return
	}

	rowIndex, ok := rowIndexParam(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), budget, rowIndex); err != nil {
		h.log.Error().Err(err).Str("budget", string(budget)).Int64("row", rowIndex).Msg("Failed to delete transaction")
		writeStoreError(w, err, "Failed to delete transaction")
		return
	}

	middleware.WriteData(w, http.StatusOK, map[string]string{"message": "Transaction deleted successfully"})
}

// rowIndexParam parses the id query parameter. Row 1 is the header, so
// anything below 2 is rejected.
func rowIndexParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Transaction ID is required")
		return 0, false
	}

	rowIndex, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || rowIndex < 2 {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid transaction ID")
		return 0, false
	}
	return rowIndex, true
}

// Schema handles GET /api/{budget}/schema
func (h *TransactionsHandler) Schema(w http.ResponseWriter, r *http.Request) {
	budget, ok := budgetParam(w, r)
	if !ok {
		return
	}

	schema, err := h.store.FetchSchema(r.Context(), budget)
	if err != nil {
		h.log.Error().Err(err).Str("budget", string(budget)).Msg("Failed to fetch schema")
		writeStoreError(w, err, "Failed to fetch schema")
		return
	}

	middleware.WriteData(w, http.StatusOK, schema)
}

// Vendors handles GET /api/{budget}/transactions/vendors
func (h *TransactionsHandler) Vendors(w http.ResponseWriter, r *http.Request) {
	h.uniqueValues(w, r, "vendors", h.store.UniqueVendors)
}

// Accounts handles GET /api/{budget}/transactions/accounts
func (h *TransactionsHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	h.uniqueValues(w, r, "accounts", h.store.UniqueAccounts)
}

// Tags handles GET /api/{budget}/transactions/tags
func (h *TransactionsHandler) Tags(w http.ResponseWriter, r *http.Request) {
	h.uniqueValues(w, r, "tags", h.store.UniqueTags)
}

func (h *TransactionsHandler) uniqueValues(
	w http.ResponseWriter,
	r *http.Request,
	what string,
	scan func(context.Context, ledger.Budget) ([]string, error),
) {
	budget, ok := budgetParam(w, r)
	if !ok {
		return
	}

	values, err := scan(r.Context(), budget)
	if err != nil {
		h.log.Error().Err(err).Str("budget", string(budget)).Str("values", what).Msg("Failed to fetch autocomplete values")
		writeStoreError(w, err, "Failed to fetch "+what)
		return
	}

	if values == nil {
		values = []string{}
	}
	middleware.WriteData(w, http.StatusOK, map[string][]string{"values": values})
}

// Defaults handles GET /api/{budget}/transactions/defaults
func (h *TransactionsHandler) Defaults(w http.ResponseWriter, r *http.Request) {
	budget, ok := budgetParam(w, r)
	if !ok {
		return
	}

	defaults, err := h.store.FetchDefaults(r.Context(), budget)
	if err != nil {
		h.log.Error().Err(err).Str("budget", string(budget)).Msg("Failed to fetch defaults")
		writeStoreError(w, err, "Failed to fetch defaults")
		return
	}

	if defaults == nil {
		defaults = map[string]string{}
	}
	middleware.WriteData(w, http.StatusOK, map[string]interface{}{"defaults": defaults})
}
