// Package statement turns the text of one statement document into
// categorized transaction records.
package statement

import (
	"strings"

	"github.com/Marcotagoras/CODIGOS-POLLO/internal/models"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/parser"
)

// Processor parses documents using a single statement layout.
type Processor struct {
	layout *parser.Layout
}

// NewProcessor returns a Processor for layout. A nil layout selects
// parser.DefaultLayout.
func NewProcessor(layout *parser.Layout) *Processor {
	if layout == nil {
		layout = parser.DefaultLayout
	}
	return &Processor{layout: layout}
}

// Layout returns the layout the processor parses with.
func (p *Processor) Layout() *parser.Layout {
	return p.layout
}

// Process extracts the records of one document.
//
// A document whose currency is not recognized yields no records and an
// outcome with CurrencyUnknown. Lines whose amount or balance cannot be
// normalized are skipped and counted in Outcome.Malformed; the rest of the
// document is still processed.
func (p *Processor) Process(documentID, text string) ([]models.TransactionRecord, models.Outcome) {
	meta := p.layout.ExtractMetadata(text)
	outcome := models.Outcome{
		DocumentID: documentID,
		Currency:   meta.Currency,
		Period:     meta.Period,
	}
	if !meta.Currency.Recognized() {
		return nil, outcome
	}

	var records []models.TransactionRecord
	for c := range p.layout.Candidates(text) {
		rec, err := newRecord(documentID, meta, c)
		if err != nil {
			outcome.Malformed++
			continue
		}
		records = append(records, rec)
	}

	outcome.Count = len(records)
	return records, outcome
}

func newRecord(documentID string, meta models.StatementMetadata, c models.TransactionCandidate) (models.TransactionRecord, error) {
	amount, err := parser.ParseAmount(c.Amount)
	if err != nil {
		return models.TransactionRecord{}, err
	}
	balance, err := parser.ParseAmount(c.Balance)
	if err != nil {
		return models.TransactionRecord{}, err
	}

	desc := strings.TrimSpace(c.Description)
	return models.TransactionRecord{
		SourceDocument: documentID,
		Period:         meta.Period,
		Currency:       meta.Currency,
		Date:           c.Date,
		Description:    desc,
		Amount:         amount,
		Balance:        balance,
		Category:       parser.Categorize(strings.ToUpper(desc)),
	}, nil
}
