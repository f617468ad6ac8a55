package sheets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hanhanxue/260110-personal-budget/internal/ledger"
)

// Column layouts, matching the live spreadsheets:
//
// Personal (17 cols, A2:Q):
//   Date, Table, Subcategory, Line Item, Amount, Currency,
//   CAD Amount, CAD Rate, USD Amount, USD Rate, Vendor, Note,
//   Receipt URL, Account, Distribute, Tag, Submitted At
//
// Business (18 cols, A2:R):
//   Date, Table, Subcategory, Line Item, Amount, Currency,
//   CAD Amount, CAD Rate, USD Amount, USD Rate, Vendor, Note,
//   Receipt URL, Account, Tag, GST/HST Paid, Capital Expense, Submitted At

// lastColumn is the rightmost column of a budget's transaction layout.
func lastColumn(budget ledger.Budget) string {
	if budget == ledger.BudgetBusiness {
		return "R"
	}
	return "Q"
}

// decodeRow maps one raw sheet row to a transaction. index is the 0-based
// offset within the A2-anchored scan, so the row's spreadsheet position
// (and therefore its ID) is index + 2. Missing or unparsable cells fall
// back to defaults instead of failing the whole listing: empty string for
// text, 0 for amounts, 1 for rates, false for flags, one-time for
// distribute.
func decodeRow(budget ledger.Budget, row []interface{}, index int) ledger.Transaction {
	t := ledger.Transaction{
		ID:          int64(index) + 2,
		Date:        cellString(row, 0),
		Table:       cellString(row, 1),
		Subcategory: cellString(row, 2),
		LineItem:    cellString(row, 3),
		Amount:      cellFloat(row, 4, 0),
		Currency:    decodeCurrency(cellString(row, 5)),
		CADAmount:   cellFloat(row, 6, 0),
		CADRate:     cellFloat(row, 7, 1),
		USDAmount:   cellFloat(row, 8, 0),
		USDRate:     cellFloat(row, 9, 1),
		Vendor:      cellString(row, 10),
		Note:        cellString(row, 11),
		ReceiptURL:  cellString(row, 12),
		Account:     cellString(row, 13),
	}

	if budget == ledger.BudgetBusiness {
		t.Tag = cellString(row, 14)
		if raw := cellString(row, 15); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				t.GSTHSTPaid = &v
			}
		}
		t.CapitalExpense = isTrue(cellString(row, 16))
		t.SubmittedAt = cellString(row, 17)
		return t
	}

	t.Distribute = ledger.NormalizeDistribute(cellString(row, 14))
	t.Tag = cellString(row, 15)
	t.SubmittedAt = cellString(row, 16)
	return t
}

// encodeRow maps a transaction to the positional cell values written back
// to the sheet. The date goes out as a serial day count so the sheet can
// format it natively; booleans as literal TRUE/FALSE strings; absent
// optional fields as empty strings.
func encodeRow(budget ledger.Budget, t ledger.Transaction) ([]interface{}, error) {
	serial, err := DateToSerial(t.Date)
	if err != nil {
		return nil, err
	}

	row := []interface{}{
		serial,
		t.Table,
		t.Subcategory,
		t.LineItem,
		t.Amount,
		string(t.Currency),
		t.CADAmount,
		t.CADRate,
		t.USDAmount,
		t.USDRate,
		t.Vendor,
		t.Note,
		t.ReceiptURL,
		t.Account,
	}

	if budget == ledger.BudgetBusiness {
		gst := ""
		if t.GSTHSTPaid != nil {
			gst = strconv.FormatFloat(*t.GSTHSTPaid, 'f', -1, 64)
		}
		capital := "FALSE"
		if t.CapitalExpense {
			capital = "TRUE"
		}
		return append(row, t.Tag, gst, capital, t.SubmittedAt), nil
	}

	return append(row, string(t.Distribute), t.Tag, t.SubmittedAt), nil
}

func decodeCurrency(s string) ledger.Currency {
	if s == "" {
		return ledger.CAD
	}
	return ledger.Currency(s)
}

func isTrue(s string) bool {
	return strings.EqualFold(s, "TRUE")
}

// cellString reads a cell as text; cells past the row's ragged end read as
// empty.
func cellString(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	switch v := row[i].(type) {
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// cellFloat reads a numeric cell, tolerating both native numbers and
// formatted strings; anything unparsable yields def.
func cellFloat(row []interface{}, i int, def float64) float64 {
	if i >= len(row) || row[i] == nil {
		return def
	}
	switch v := row[i].(type) {
	case float64:
		return v
	case string:
		if v == "" {
			return def
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return def
		}
		return f
	default:
		return def
	}
}
