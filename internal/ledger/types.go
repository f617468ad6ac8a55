package ledger

import "fmt"

// Budget selects which of the two independent ledgers a request targets.
// Each budget is backed by its own spreadsheet and has its own row layout.
type Budget string

const (
	BudgetPersonal Budget = "personal"
	BudgetBusiness Budget = "business"
)

// ParseBudget validates a budget path parameter.
func ParseBudget(s string) (Budget, error) {
	switch Budget(s) {
	case BudgetPersonal, BudgetBusiness:
		return Budget(s), nil
	}
	return "", fmt.Errorf(`invalid budget type %q: must be "personal" or "business"`, s)
}

// Currency is one of the currencies the form accepts.
type Currency string

const (
	CAD Currency = "CAD"
	USD Currency = "USD"
	CNY Currency = "CNY"
	JPY Currency = "JPY"
	GBP Currency = "GBP"
)

// Currencies lists the accepted currencies in display order.
var Currencies = []Currency{CAD, USD, CNY, JPY, GBP}

// CurrencySymbols maps each currency to its display symbol.
var CurrencySymbols = map[Currency]string{
	CAD: "C$",
	USD: "$",
	CNY: "¥",
	JPY: "¥",
	GBP: "£",
}

// Valid reports whether c is one of the accepted currencies.
func (c Currency) Valid() bool {
	for _, v := range Currencies {
		if c == v {
			return true
		}
	}
	return false
}

// Distribute is the amortization period attached to personal transactions.
type Distribute string

const (
	DistributeOneTime   Distribute = "one-time"
	DistributeMonthly   Distribute = "monthly"
	DistributeQuarterly Distribute = "quarterly"
	DistributeYearly    Distribute = "yearly"
)

// DistributeOptions lists the accepted distribute values.
var DistributeOptions = []Distribute{
	DistributeOneTime,
	DistributeMonthly,
	DistributeQuarterly,
	DistributeYearly,
}

// Valid reports whether d is one of the accepted distribute values.
func (d Distribute) Valid() bool {
	for _, v := range DistributeOptions {
		if d == v {
			return true
		}
	}
	return false
}

// distributeMigration maps distribute labels from an earlier sheet
// generation to their current names.
var distributeMigration = map[string]Distribute{
	"per month":   DistributeMonthly,
	"semi-annual": DistributeYearly,
}

// NormalizeDistribute translates legacy distribute labels stored in older
// rows. Empty input becomes "one-time"; unknown values pass through so that
// hand-edited cells survive a read/write cycle.
func NormalizeDistribute(s string) Distribute {
	if m, ok := distributeMigration[s]; ok {
		return m
	}
	if s == "" {
		return DistributeOneTime
	}
	return Distribute(s)
}

// Transaction is one expense record. ID is the 1-based row index in the
// backing spreadsheet, assigned at read time; it is zero for drafts that
// have not been persisted. The personal-only and business-only field groups
// are mutually exclusive; which group is meaningful is decided by the
// budget a request targets, not by a stored discriminant.
type Transaction struct {
	ID          int64    `json:"id,omitempty"`
	Date        string   `json:"transactionDate"` // YYYY-MM-DD
	Table       string   `json:"table"`
	Subcategory string   `json:"subcategory"`
	LineItem    string   `json:"lineItem"`
	Amount      float64  `json:"amount"`
	Currency    Currency `json:"currency"`
	CADAmount   float64  `json:"cadAmount"`
	CADRate     float64  `json:"cadRate"`
	USDAmount   float64  `json:"usdAmount"`
	USDRate     float64  `json:"usdRate"`
	Vendor      string   `json:"vendor,omitempty"`
	Note        string   `json:"note,omitempty"`
	ReceiptURL  string   `json:"receiptUrl,omitempty"`
	Account     string   `json:"account"`
	Tag         string   `json:"tag,omitempty"`
	SubmittedAt string   `json:"submittedAt"` // ISO timestamp from the form

	// Personal budget only.
	Distribute Distribute `json:"distribute,omitempty"`

	// Business budget only.
	GSTHSTPaid     *float64 `json:"gstHstPaid,omitempty"`
	CapitalExpense bool     `json:"capitalExpense,omitempty"`
}

// Default account suggestions offered when the store has no history yet.
var (
	DefaultPersonalAccounts = []string{"RBC Visa", "RBC Chequing", "Chase Chequing"}
	DefaultBusinessAccounts = []string{"RBC Business Visa", "RBC Business Chequing"}
)

// DefaultAccounts returns the seed account list for a budget.
func DefaultAccounts(budget Budget) []string {
	if budget == BudgetBusiness {
		return DefaultBusinessAccounts
	}
	return DefaultPersonalAccounts
}
