// Package ledger accumulates transaction records per currency.
package ledger

import (
	"slices"
	"sync"

	"github.com/Marcotagoras/CODIGOS-POLLO/internal/models"
)

// Snapshot maps each currency to its records in insertion order.
type Snapshot map[models.Currency][]models.TransactionRecord

// Currencies returns the recognized currencies in report order,
// followed by any other currency present, so output is deterministic.
func (s Snapshot) Currencies() []models.Currency {
	var extra []models.Currency
	for c := range s {
		if !c.Recognized() {
			extra = append(extra, c)
		}
	}
	slices.Sort(extra)
	return append(slices.Clone(models.Currencies), extra...)
}

// NonEmpty returns the currencies that hold at least one record, in report order.
func (s Snapshot) NonEmpty() []models.Currency {
	var out []models.Currency
	for _, c := range s.Currencies() {
		if len(s[c]) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the total number of records across currencies.
func (s Snapshot) Len() int {
	n := 0
	for _, recs := range s {
		n += len(recs)
	}
	return n
}

// Ledger is an append-only, per-currency record store. It is safe for
// concurrent use; callers that need a cross-document order must append in
// that order.
type Ledger struct {
	mu      sync.Mutex
	records map[models.Currency][]models.TransactionRecord
}

// New returns an empty ledger with a bucket for each recognized currency.
func New() *Ledger {
	l := &Ledger{records: make(map[models.Currency][]models.TransactionRecord)}
	for _, c := range models.Currencies {
		l.records[c] = nil
	}
	return l
}

// Record appends rec to the sequence of currency.
func (l *Ledger) Record(currency models.Currency, rec models.TransactionRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[currency] = append(l.records[currency], rec)
}

// Snapshot returns a copy of the ledger contents. Later appends do not
// affect it.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := make(Snapshot, len(l.records))
	for c, recs := range l.records {
		snap[c] = append([]models.TransactionRecord(nil), recs...)
	}
	return snap
}
