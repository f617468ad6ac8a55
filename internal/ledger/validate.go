package ledger

import (
	"fmt"
	"regexp"
	"strings"
)

var dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Validate checks a transaction before it is written to the store. It
// returns a field-specific error for the first problem found, mirroring the
// messages the form shows. Category-path membership in the schema is the
// client's job; only required-field and range checks happen here.
func (t *Transaction) Validate(budget Budget) error {
	if !dateFormat.MatchString(t.Date) {
		return fmt.Errorf("invalid date format (expected YYYY-MM-DD)")
	}
	if t.Table == "" {
		return fmt.Errorf("table is required")
	}
	if t.Subcategory == "" {
		return fmt.Errorf("subcategory is required")
	}
	if t.LineItem == "" {
		return fmt.Errorf("line item is required")
	}
	if t.Amount <= 0 {
		return fmt.Errorf("amount must be a positive number")
	}
	if !t.Currency.Valid() {
		return fmt.Errorf("currency must be one of: %s", currencyList())
	}
	if t.CADAmount <= 0 {
		return fmt.Errorf("CAD amount is required")
	}
	if t.CADRate <= 0 {
		return fmt.Errorf("CAD rate is required")
	}
	if t.USDAmount <= 0 {
		return fmt.Errorf("USD amount is required")
	}
	if t.USDRate <= 0 {
		return fmt.Errorf("USD rate is required")
	}
	if t.Account == "" {
		return fmt.Errorf("account is required")
	}
	if t.SubmittedAt == "" {
		return fmt.Errorf("submitted timestamp is required")
	}

	switch budget {
	case BudgetPersonal:
		if !t.Distribute.Valid() {
			return fmt.Errorf("distribute must be one of: %s", distributeList())
		}
	case BudgetBusiness:
		if t.GSTHSTPaid != nil && *t.GSTHSTPaid < 0 {
			return fmt.Errorf("GST/HST paid must not be negative")
		}
	default:
		return fmt.Errorf("unknown budget type %q", budget)
	}

	return nil
}

func currencyList() string {
	parts := make([]string, len(Currencies))
	for i, c := range Currencies {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func distributeList() string {
	parts := make([]string, len(DistributeOptions))
	for i, d := range DistributeOptions {
		parts[i] = string(d)
	}
	return strings.Join(parts, ", ")
}
