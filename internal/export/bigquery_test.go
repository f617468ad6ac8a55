package export

import (
	"context"
	"math/big"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanhanxue/260110-personal-budget/internal/ledger"
)

func exportFixture() ledger.Transaction {
	return ledger.Transaction{
		ID:          2,
		Date:        "2025-06-15",
		Table:       "Home",
		Subcategory: "Utilities",
		LineItem:    "Hydro",
		Amount:      102.50,
		Currency:    ledger.CAD,
		CADAmount:   102.50,
		CADRate:     1,
		USDAmount:   74.83,
		USDRate:     0.73,
		Vendor:      "BC Hydro",
		Account:     "RBC Visa",
		SubmittedAt: "2025-06-15T18:04:05Z",
		Distribute:  ledger.DistributeMonthly,
	}
}

func TestRowFromTransaction_Personal(t *testing.T) {
	loadTS := time.Date(2025, 6, 16, 3, 0, 0, 0, time.UTC)

	row, err := rowFromTransaction(ledger.BudgetPersonal, exportFixture(), "run-1", loadTS)
	require.NoError(t, err)

	assert.Equal(t, "run-1", row.ExportID)
	assert.Equal(t, "personal", row.Budget)
	assert.Equal(t, civil.Date{Year: 2025, Month: time.June, Day: 15}, row.TransactionDate)
	assert.Equal(t, "Home", row.CategoryTable)
	assert.Zero(t, row.Amount.Cmp(new(big.Rat).SetFloat64(102.50)))
	assert.Zero(t, row.USDAmount.Cmp(new(big.Rat).SetFloat64(74.83)))
	assert.Equal(t, bigquery.NullString{StringVal: "BC Hydro", Valid: true}, row.Vendor)
	assert.Equal(t, bigquery.NullString{StringVal: "monthly", Valid: true}, row.Distribute)
	assert.Equal(t, loadTS, row.LoadTS)

	// Untouched blanks and the business-only group stay NULL.
	assert.False(t, row.Note.Valid)
	assert.False(t, row.GSTHSTPaid.Valid)
	assert.False(t, row.CapitalExpense.Valid)
}

func TestRowFromTransaction_Business(t *testing.T) {
	tx := exportFixture()
	tx.Distribute = ""
	gst := 5.12
	tx.GSTHSTPaid = &gst
	tx.CapitalExpense = true

	row, err := rowFromTransaction(ledger.BudgetBusiness, tx, "run-2", time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, "business", row.Budget)
	assert.Equal(t, bigquery.NullFloat64{Float64: 5.12, Valid: true}, row.GSTHSTPaid)
	assert.Equal(t, bigquery.NullBool{Bool: true, Valid: true}, row.CapitalExpense)
	assert.False(t, row.Distribute.Valid)
}

func TestRowFromTransaction_BusinessWithoutGST(t *testing.T) {
	tx := exportFixture()
	tx.Distribute = ""

	row, err := rowFromTransaction(ledger.BudgetBusiness, tx, "run-3", time.Now().UTC())
	require.NoError(t, err)

	assert.False(t, row.GSTHSTPaid.Valid)
	// Capital expense is a real boolean, not a tri-state, so false still
	// exports as a value.
	assert.Equal(t, bigquery.NullBool{Bool: false, Valid: true}, row.CapitalExpense)
}

func TestRowFromTransaction_InvalidDate(t *testing.T) {
	tx := exportFixture()
	tx.Date = "June 15"

	_, err := rowFromTransaction(ledger.BudgetPersonal, tx, "run-4", time.Now().UTC())
	assert.Error(t, err)
}

func TestExport_EmptyBatch(t *testing.T) {
	e := &Exporter{}

	runID, err := e.Export(context.Background(), ledger.BudgetPersonal, nil)
	require.NoError(t, err)
	assert.Empty(t, runID, "an empty batch must not touch the table")
}
