package sheets

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/hanhanxue/260110-personal-budget/internal/ledger"
)

const (
	transactionsSheet = "Transactions"
	schemaRange       = "Schema!A2:D"
	defaultsRange     = "Defaults!A2:B"

	vendorColumn  = "K"
	accountColumn = "N"
)

// ErrSheetNotFound is returned when a spreadsheet lacks the Transactions
// sheet the store expects.
var ErrSheetNotFound = errors.New("transactions sheet not found")

// ErrUnavailable wraps any failure to reach the spreadsheet API. Handlers
// surface it as a generic store failure and log the cause.
var ErrUnavailable = errors.New("spreadsheet store unavailable")

// api is the slice of the Sheets service the store actually uses. Tests
// swap in an in-memory fake.
type api interface {
	GetValues(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error)
	UpdateValues(ctx context.Context, spreadsheetID, updateRange string, values [][]interface{}) error
	BatchUpdate(ctx context.Context, spreadsheetID string, requests []*gsheets.Request) error
	SheetID(ctx context.Context, spreadsheetID, title string) (int64, bool, error)
}

// Config holds the spreadsheet ID backing each budget. An empty ID for a
// requested budget is a configuration error surfaced verbatim.
type Config struct {
	PersonalSpreadsheetID string
	BusinessSpreadsheetID string
}

// Store performs all row-store operations against the two budget
// spreadsheets. Row index is identity: the newest transaction always sits
// at row 2 (immediately below the header) and a delete shifts every later
// row up, so IDs cached by a client go stale across structural edits.
type Store struct {
	api api
	cfg Config
	log zerolog.Logger
}

// New creates a store backed by the Google Sheets API using Application
// Default Credentials.
func New(ctx context.Context, cfg Config, log zerolog.Logger) (*Store, error) {
	svc, err := gsheets.NewService(ctx, option.WithScopes(gsheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return &Store{api: googleAPI{svc: svc}, cfg: cfg, log: log}, nil
}

func newWithAPI(a api, cfg Config, log zerolog.Logger) *Store {
	return &Store{api: a, cfg: cfg, log: log}
}

func (s *Store) spreadsheetID(budget ledger.Budget) (string, error) {
	switch budget {
	case ledger.BudgetPersonal:
		if s.cfg.PersonalSpreadsheetID == "" {
			return "", errors.New("PERSONAL_SPREADSHEET_ID environment variable is not configured")
		}
		return s.cfg.PersonalSpreadsheetID, nil
	case ledger.BudgetBusiness:
		if s.cfg.BusinessSpreadsheetID == "" {
			return "", errors.New("BUSINESS_SPREADSHEET_ID environment variable is not configured")
		}
		return s.cfg.BusinessSpreadsheetID, nil
	}
	return "", fmt.Errorf("unknown budget type %q", budget)
}

// ListOptions narrows a listing. Dates are inclusive YYYY-MM-DD bounds;
// zero-padded ISO dates compare correctly as strings. Limit truncates the
// returned page after filtering; zero means no truncation.
type ListOptions struct {
	StartDate string
	EndDate   string
	Limit     int
}

// List returns the filtered transactions sorted by date descending along
// with the total match count before the limit was applied.
func (s *Store) List(ctx context.Context, budget ledger.Budget, opts ListOptions) ([]ledger.Transaction, int, error) {
	id, err := s.spreadsheetID(budget)
	if err != nil {
		return nil, 0, err
	}

	readRange := fmt.Sprintf("%s!A2:%s", transactionsSheet, lastColumn(budget))
	rows, err := s.api.GetValues(ctx, id, readRange)
	if err != nil {
		s.log.Error().Err(err).Str("budget", string(budget)).Msg("Failed to read transaction rows")
		return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	transactions := make([]ledger.Transaction, 0, len(rows))
	for i, row := range rows {
		t := decodeRow(budget, row, i)
		if opts.StartDate != "" && t.Date < opts.StartDate {
			continue
		}
		if opts.EndDate != "" && t.Date > opts.EndDate {
			continue
		}
		transactions = append(transactions, t)
	}

	total := len(transactions)

	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date > transactions[j].Date
	})

	if opts.Limit > 0 && len(transactions) > opts.Limit {
		transactions = transactions[:opts.Limit]
	}

	return transactions, total, nil
}

// Append inserts a transaction as the new row 2, shifting existing rows
// down. A structural insert keeps physical row order equal to newest-first
// listing order for anyone reading raw ranges.
func (s *Store) Append(ctx context.Context, budget ledger.Budget, t ledger.Transaction) error {
	id, err := s.spreadsheetID(budget)
	if err != nil {
		return err
	}

	row, err := encodeRow(budget, t)
	if err != nil {
		return err
	}

	sheetID, ok, err := s.api.SheetID(ctx, id, transactionsSheet)
	if err != nil {
		s.log.Error().Err(err).Str("budget", string(budget)).Msg("Failed to resolve sheet metadata")
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !ok {
		return ErrSheetNotFound
	}

	requests := append([]*gsheets.Request{
		{
			InsertDimension: &gsheets.InsertDimensionRequest{
				Range: &gsheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: 1,
					EndIndex:   2,
				},
				InheritFromBefore: false,
			},
		},
		{
			UpdateCells: &gsheets.UpdateCellsRequest{
				Range: &gsheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    1,
					EndRowIndex:      2,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(len(row)),
				},
				Rows:   []*gsheets.RowData{{Values: cellData(row)}},
				Fields: "userEnteredValue",
			},
		},
	}, numberFormatRequests(sheetID)...)

	if err := s.api.BatchUpdate(ctx, id, requests); err != nil {
		s.log.Error().Err(err).Str("budget", string(budget)).Msg("Failed to insert transaction row")
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Update overwrites the whole row at rowIndex with the encoded
// transaction. It is a full replace, not a patch; rowIndex must be >= 2
// (row 1 is the header).
func (s *Store) Update(ctx context.Context, budget ledger.Budget, rowIndex int64, t ledger.Transaction) error {
	if rowIndex < 2 {
		return fmt.Errorf("invalid row index %d", rowIndex)
	}

	id, err := s.spreadsheetID(budget)
	if err != nil {
		return err
	}

	row, err := encodeRow(budget, t)
	if err != nil {
		return err
	}

	col := lastColumn(budget)
	updateRange := fmt.Sprintf("%s!A%d:%s%d", transactionsSheet, rowIndex, col, rowIndex)
	if err := s.api.UpdateValues(ctx, id, updateRange, [][]interface{}{row}); err != nil {
		s.log.Error().Err(err).Str("budget", string(budget)).Int64("row", rowIndex).Msg("Failed to update transaction row")
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Delete removes the row at rowIndex. Every later row shifts up by one, so
// previously-fetched IDs below the deleted row now address the next
// transaction; callers must refetch before further mutation.
func (s *Store) Delete(ctx context.Context, budget ledger.Budget, rowIndex int64) error {
	if rowIndex < 2 {
		return fmt.Errorf("invalid row index %d", rowIndex)
	}

	id, err := s.spreadsheetID(budget)
	if err != nil {
		return err
	}

	sheetID, ok, err := s.api.SheetID(ctx, id, transactionsSheet)
	if err != nil {
		s.log.Error().Err(err).Str("budget", string(budget)).Msg("Failed to resolve sheet metadata")
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !ok {
		return ErrSheetNotFound
	}

	requests := []*gsheets.Request{
		{
			DeleteDimension: &gsheets.DeleteDimensionRequest{
				Range: &gsheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: rowIndex - 1,
					EndIndex:   rowIndex,
				},
			},
		},
	}

	if err := s.api.BatchUpdate(ctx, id, requests); err != nil {
		s.log.Error().Err(err).Str("budget", string(budget)).Int64("row", rowIndex).Msg("Failed to delete transaction row")
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// UniqueVendors returns the distinct vendors seen so far, sorted.
func (s *Store) UniqueVendors(ctx context.Context, budget ledger.Budget) ([]string, error) {
	return s.uniqueColumn(ctx, budget, vendorColumn, nil)
}

// UniqueAccounts returns the distinct account names, seeded with the
// budget's default accounts so an empty store still offers choices.
func (s *Store) UniqueAccounts(ctx context.Context, budget ledger.Budget) ([]string, error) {
	return s.uniqueColumn(ctx, budget, accountColumn, ledger.DefaultAccounts(budget))
}

// UniqueTags returns the distinct tags, sorted. The tag column differs per
// layout: P for personal, O for business.
func (s *Store) UniqueTags(ctx context.Context, budget ledger.Budget) ([]string, error) {
	col := "P"
	if budget == ledger.BudgetBusiness {
		col = "O"
	}
	return s.uniqueColumn(ctx, budget, col, nil)
}

func (s *Store) uniqueColumn(ctx context.Context, budget ledger.Budget, col string, seed []string) ([]string, error) {
	id, err := s.spreadsheetID(budget)
	if err != nil {
		return nil, err
	}

	readRange := fmt.Sprintf("%s!%s2:%s", transactionsSheet, col, col)
	rows, err := s.api.GetValues(ctx, id, readRange)
	if err != nil {
		s.log.Error().Err(err).Str("budget", string(budget)).Str("column", col).Msg("Failed to scan column")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	seen := make(map[string]bool, len(rows)+len(seed))
	values := make([]string, 0, len(rows)+len(seed))
	for _, v := range seed {
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	for _, row := range rows {
		v := cellString(row, 0)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}

	sort.Strings(values)
	return values, nil
}

// FetchSchema rebuilds the category lookup from a full scan of the Schema
// sheet. No caching: edits to categories must show up on the next fetch.
func (s *Store) FetchSchema(ctx context.Context, budget ledger.Budget) (ledger.Schema, error) {
	id, err := s.spreadsheetID(budget)
	if err != nil {
		return ledger.Schema{}, err
	}

	rows, err := s.api.GetValues(ctx, id, schemaRange)
	if err != nil {
		s.log.Error().Err(err).Str("budget", string(budget)).Msg("Failed to read schema rows")
		return ledger.Schema{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	schemaRows := make([]ledger.SchemaRow, 0, len(rows))
	for _, row := range rows {
		schemaRows = append(schemaRows, ledger.SchemaRow{
			Table:       cellString(row, 0),
			Subcategory: cellString(row, 1),
			LineItem:    cellString(row, 2),
			Active:      cellString(row, 3),
		})
	}

	return ledger.BuildSchema(schemaRows), nil
}

// FetchDefaults reads the key/value Defaults sheet used to prefill the
// form. Missing sheet data yields an empty map rather than an error.
func (s *Store) FetchDefaults(ctx context.Context, budget ledger.Budget) (map[string]string, error) {
	id, err := s.spreadsheetID(budget)
	if err != nil {
		return nil, err
	}

	rows, err := s.api.GetValues(ctx, id, defaultsRange)
	if err != nil {
		s.log.Error().Err(err).Str("budget", string(budget)).Msg("Failed to read defaults rows")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	defaults := make(map[string]string, len(rows))
	for _, row := range rows {
		key := strings.TrimSpace(cellString(row, 0))
		if key == "" {
			continue
		}
		defaults[key] = cellString(row, 1)
	}
	return defaults, nil
}

// cellData converts encoded row values into the typed cells a structural
// update requires. Serial dates and amounts go out as numbers so the
// sheet's number formats apply.
func cellData(row []interface{}) []*gsheets.CellData {
	cells := make([]*gsheets.CellData, len(row))
	for i, v := range row {
		ev := &gsheets.ExtendedValue{}
		switch n := v.(type) {
		case int64:
			f := float64(n)
			ev.NumberValue = &f
		case float64:
			f := n
			ev.NumberValue = &f
		default:
			s := fmt.Sprint(v)
			ev.StringValue = &s
		}
		cells[i] = &gsheets.CellData{UserEnteredValue: ev}
	}
	return cells
}

// numberFormatRequests reapplies the cell formats the inserted row needs:
// the date column as yyyy-mm-dd, amount columns as two-decimal currency,
// rate columns with five decimals.
func numberFormatRequests(sheetID int64) []*gsheets.Request {
	format := func(startCol, endCol int64, formatType, pattern string) *gsheets.Request {
		return &gsheets.Request{
			RepeatCell: &gsheets.RepeatCellRequest{
				Range: &gsheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    1,
					EndRowIndex:      2,
					StartColumnIndex: startCol,
					EndColumnIndex:   endCol,
				},
				Cell: &gsheets.CellData{
					UserEnteredFormat: &gsheets.CellFormat{
						NumberFormat: &gsheets.NumberFormat{Type: formatType, Pattern: pattern},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		}
	}

	return []*gsheets.Request{
		format(0, 1, "DATE", "yyyy-mm-dd"),
		format(4, 5, "NUMBER", "#,##0.00"),
		format(6, 7, "NUMBER", "#,##0.00"),
		format(8, 9, "NUMBER", "#,##0.00"),
		format(7, 8, "NUMBER", "0.00000"),
		format(9, 10, "NUMBER", "0.00000"),
	}
}

// googleAPI adapts the generated Sheets client to the narrow api surface.
type googleAPI struct {
	svc *gsheets.Service
}

func (g googleAPI) GetValues(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (g googleAPI) UpdateValues(ctx context.Context, spreadsheetID, updateRange string, values [][]interface{}) error {
	_, err := g.svc.Spreadsheets.Values.Update(spreadsheetID, updateRange, &gsheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	return err
}

func (g googleAPI) BatchUpdate(ctx context.Context, spreadsheetID string, requests []*gsheets.Request) error {
	_, err := g.svc.Spreadsheets.BatchUpdate(spreadsheetID, &gsheets.BatchUpdateSpreadsheetRequest{Requests: requests}).
		Context(ctx).
		Do()
	return err
}

func (g googleAPI) SheetID(ctx context.Context, spreadsheetID, title string) (int64, bool, error) {
	resp, err := g.svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, false, err
	}
	for _, sheet := range resp.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return sheet.Properties.SheetId, true, nil
		}
	}
	return 0, false, nil
}
