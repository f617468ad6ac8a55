package export

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hanhanxue/260110-personal-budget/internal/ledger"
)

// Row is the BigQuery shape of one exported transaction. Row-index IDs are
// deliberately not exported; they are positional and go stale, so each run
// is identified by its export_id instead.
type Row struct {
	ExportID string `bigquery:"export_id"` // REQUIRED, one UUID per run
	Budget   string `bigquery:"budget"`    // REQUIRED

	TransactionDate civil.Date `bigquery:"transaction_date"` // REQUIRED

	CategoryTable string `bigquery:"category_table"` // REQUIRED
	Subcategory   string `bigquery:"subcategory"`    // REQUIRED
	LineItem      string `bigquery:"line_item"`      // REQUIRED

	Amount   *big.Rat `bigquery:"amount"`   // REQUIRED NUMERIC
	Currency string   `bigquery:"currency"` // REQUIRED

	CADAmount *big.Rat `bigquery:"cad_amount"` // REQUIRED NUMERIC
	CADRate   float64  `bigquery:"cad_rate"`   // REQUIRED
	USDAmount *big.Rat `bigquery:"usd_amount"` // REQUIRED NUMERIC
	USDRate   float64  `bigquery:"usd_rate"`   // REQUIRED

	Vendor     bigquery.NullString `bigquery:"vendor"`      // NULLABLE
	Note       bigquery.NullString `bigquery:"note"`        // NULLABLE
	ReceiptURL bigquery.NullString `bigquery:"receipt_url"` // NULLABLE
	Account    string              `bigquery:"account"`     // REQUIRED
	Tag        bigquery.NullString `bigquery:"tag"`         // NULLABLE

	Distribute     bigquery.NullString  `bigquery:"distribute"`      // personal only
	GSTHSTPaid     bigquery.NullFloat64 `bigquery:"gst_hst_paid"`    // business only
	CapitalExpense bigquery.NullBool    `bigquery:"capital_expense"` // business only

	SubmittedAt bigquery.NullString `bigquery:"submitted_at"` // NULLABLE
	LoadTS      time.Time           `bigquery:"load_ts"`      // REQUIRED
}

// Exporter bulk-loads ledger transactions into a BigQuery table for
// ad-hoc analysis.
type Exporter struct {
	client  *bigquery.Client
	dataset string
	table   string
	log     zerolog.Logger
}

// NewExporter creates an exporter with a shared BigQuery client.
func NewExporter(ctx context.Context, projectID, dataset, table string, log zerolog.Logger) (*Exporter, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewExporter: creating client: %w", err)
	}
	return &Exporter{client: client, dataset: dataset, table: table, log: log}, nil
}

// Close closes the BigQuery client connection.
func (e *Exporter) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// Export maps the transactions to BigQuery rows and inserts them in one
// batch, all stamped with the same export run ID. It returns the run ID.
func (e *Exporter) Export(ctx context.Context, budget ledger.Budget, transactions []ledger.Transaction) (string, error) {
	if len(transactions) == 0 {
		return "", nil
	}

	exportID := uuid.New().String()
	loadTS := time.Now().UTC()

	rows := make([]*Row, 0, len(transactions))
	for _, t := range transactions {
		row, err := rowFromTransaction(budget, t, exportID, loadTS)
		if err != nil {
			return "", fmt.Errorf("Export: mapping transaction row %d: %w", t.ID, err)
		}
		rows = append(rows, row)
	}

	inserter := e.client.Dataset(e.dataset).Table(e.table).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return "", fmt.Errorf("Export: inserting rows: %w", err)
	}

	e.log.Info().
		Str("export_id", exportID).
		Str("budget", string(budget)).
		Int("rows", len(rows)).
		Msg("Export batch inserted")

	return exportID, nil
}

func rowFromTransaction(budget ledger.Budget, t ledger.Transaction, exportID string, loadTS time.Time) (*Row, error) {
	date, err := civil.ParseDate(t.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction date %q: %w", t.Date, err)
	}

	row := &Row{
		ExportID:        exportID,
		Budget:          string(budget),
		TransactionDate: date,
		CategoryTable:   t.Table,
		Subcategory:     t.Subcategory,
		LineItem:        t.LineItem,
		Amount:          rat(t.Amount),
		Currency:        string(t.Currency),
		CADAmount:       rat(t.CADAmount),
		CADRate:         t.CADRate,
		USDAmount:       rat(t.USDAmount),
		USDRate:         t.USDRate,
		Vendor:          nullString(t.Vendor),
		Note:            nullString(t.Note),
		ReceiptURL:      nullString(t.ReceiptURL),
		Account:         t.Account,
		Tag:             nullString(t.Tag),
		SubmittedAt:     nullString(t.SubmittedAt),
		LoadTS:          loadTS,
	}

	switch budget {
	case ledger.BudgetPersonal:
		row.Distribute = nullString(string(t.Distribute))
	case ledger.BudgetBusiness:
		if t.GSTHSTPaid != nil {
			row.GSTHSTPaid = bigquery.NullFloat64{Float64: *t.GSTHSTPaid, Valid: true}
		}
		row.CapitalExpense = bigquery.NullBool{Bool: t.CapitalExpense, Valid: true}
	}

	return row, nil
}

func rat(v float64) *big.Rat {
	return new(big.Rat).SetFloat64(v)
}

func nullString(s string) bigquery.NullString {
	if s == "" {
		return bigquery.NullString{}
	}
	return bigquery.NullString{StringVal: s, Valid: true}
}
