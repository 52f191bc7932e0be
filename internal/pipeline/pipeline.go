// Package pipeline runs a batch of statement documents through extraction,
// parsing and currency aggregation.
package pipeline

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Marcotagoras/CODIGOS-POLLO/internal/extractor"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/ledger"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/logger"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/models"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/source"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/statement"
)

// Options tune a batch run.
type Options struct {
	// Workers is the number of documents processed at once. Values below
	// 2 process documents one at a time.
	Workers int
}

// Result is the outcome of one batch.
type Result struct {
	RunID    string           `json:"id"`
	Outcomes []models.Outcome `json:"outcomes"`
	Snapshot ledger.Snapshot  `json:"ledger"`
}

type docResult struct {
	records []models.TransactionRecord
	outcome models.Outcome
}

// Run processes docs and returns the per-currency ledger.
//
// Records enter the ledger in document order, then line order, whatever
// the number of workers. A document that cannot be read is reported in its
// outcome and contributes nothing. If ctx is cancelled the batch is
// abandoned and only the context error is returned.
func Run(ctx context.Context, docs []source.Document, ex extractor.Extractor, proc *statement.Processor, opts Options) (*Result, error) {
	runID := uuid.NewString()
	log := logger.FromContext(ctx).With().Str("run_id", runID).Logger()

	results := make([]docResult, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = processDocument(gctx, doc, ex, proc)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := ledger.New()
	outcomes := make([]models.Outcome, 0, len(docs))
	for _, r := range results {
		logOutcome(log, r.outcome)
		for _, rec := range r.records {
			l.Record(r.outcome.Currency, rec)
		}
		outcomes = append(outcomes, r.outcome)
	}

	return &Result{RunID: runID, Outcomes: outcomes, Snapshot: l.Snapshot()}, nil
}

// ProcessText runs a single already-extracted document.
func ProcessText(proc *statement.Processor, documentID string, pages []string) ([]models.TransactionRecord, models.Outcome) {
	return proc.Process(documentID, strings.Join(pages, "\n"))
}

func processDocument(ctx context.Context, doc source.Document, ex extractor.Extractor, proc *statement.Processor) docResult {
	pages, err := ex.Extract(ctx, doc.Path)
	if err != nil {
		return docResult{outcome: models.Outcome{
			DocumentID: doc.ID,
			Currency:   models.CurrencyUnknown,
			Err:        err.Error(),
		}}
	}
	records, outcome := ProcessText(proc, doc.ID, pages)
	return docResult{records: records, outcome: outcome}
}

func logOutcome(log zerolog.Logger, o models.Outcome) {
	switch {
	case o.Err != "":
		log.Error().Str("document", o.DocumentID).Str("error", o.Err).Msg("could not read document")
	case !o.Currency.Recognized():
		log.Warn().Str("document", o.DocumentID).Msg("currency not recognized")
	default:
		ev := log.Info().
			Str("document", o.DocumentID).
			Str("currency", string(o.Currency)).
			Str("period", o.Period).
			Int("movements", o.Count)
		if o.Malformed > 0 {
			ev = ev.Int("malformed", o.Malformed)
		}
		ev.Msg("movements found")
	}
}
