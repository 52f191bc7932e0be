package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Currency identifies which ledger a statement belongs to.
type Currency string

const (
	CurrencySoles   Currency = "SOLES"
	CurrencyDolares Currency = "DOLARES"
	CurrencyUnknown Currency = "UNKNOWN"
)

// Currencies lists the recognized currencies in report order.
var Currencies = []Currency{CurrencySoles, CurrencyDolares}

// Recognized reports whether c is one of the ledger currencies.
func (c Currency) Recognized() bool {
	return c == CurrencySoles || c == CurrencyDolares
}

// Category is the classification label assigned to a transaction.
type Category string

const (
	CategorySUNAT      Category = "SUNAT"
	CategoryITF        Category = "ITF"
	CategoryTransfer   Category = "TRANSFER"
	CategoryDeposit    Category = "DEPOSIT"
	CategoryWithdrawal Category = "WITHDRAWAL"
	CategoryOther      Category = "OTHER"
)

// Label returns the label printed in reports.
func (c Category) Label() string {
	switch c {
	case CategoryTransfer:
		return "TRANSFERENCIA"
	case CategoryDeposit:
		return "ABONO"
	case CategoryWithdrawal:
		return "RETIRO"
	case CategoryOther, "":
		return "OTROS"
	default:
		return string(c)
	}
}

// StatementMetadata holds the document-level fields found in a statement.
type StatementMetadata struct {
	Currency Currency `json:"currency"`
	Period   string   `json:"period"` // e.g. "Marzo 2025", empty if absent
}

// TransactionCandidate is the raw text captured from one matched line.
type TransactionCandidate struct {
	Date        string
	Description string
	Amount      string
	Balance     string
}

// TransactionRecord is a parsed, categorized statement movement.
type TransactionRecord struct {
	SourceDocument string          `json:"sourceDocument"`
	Period         string          `json:"period"`
	Currency       Currency        `json:"currency"`
	Date           string          `json:"date"` // DD/MM
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Balance        decimal.Decimal `json:"balance"`
	Category       Category        `json:"category"`
}

// MarshalJSON writes Amount and Balance with exactly two decimals, the way
// they appear on the statement and in the reports.
func (r TransactionRecord) MarshalJSON() ([]byte, error) {
	type plain TransactionRecord
	return json.Marshal(struct {
		plain
		Amount  string `json:"amount"`
		Balance string `json:"balance"`
	}{
		plain:   plain(r),
		Amount:  r.Amount.StringFixed(2),
		Balance: r.Balance.StringFixed(2),
	})
}

// Outcome summarizes what happened to one document.
type Outcome struct {
	DocumentID string   `json:"documentId"`
	Currency   Currency `json:"currency"`
	Period     string   `json:"period,omitempty"`
	Count      int      `json:"count"`
	Malformed  int      `json:"malformed,omitempty"` // lines skipped because an amount failed to normalize
	Err        string   `json:"error,omitempty"`
}
