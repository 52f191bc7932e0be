// Package writer persists a currency ledger as a report.
package writer

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Marcotagoras/CODIGOS-POLLO/internal/ledger"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/models"
)

// ErrEmptyReport is returned when no currency holds any record.
var ErrEmptyReport = errors.New("no movements to write")

// Sink writes a ledger snapshot. Currencies without records are skipped.
type Sink interface {
	Write(out io.Writer, snap ledger.Snapshot) error
}

// columns are the report columns, in order.
var columns = []string{"Archivo", "Mes/Año", "Fecha", "Descripción", "Monto", "Saldo", "Categoría"}

// New returns the sink for a report format ("xlsx" or "csv").
func New(format string) (Sink, error) {
	switch format {
	case "xlsx", "excel":
		return &ExcelWriter{}, nil
	case "csv":
		return &CSVWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported report format: %q", format)
	}
}

// WriteToFile writes snap to path through sink. Nothing is created when
// the ledger is empty.
func WriteToFile(sink Sink, path string, snap ledger.Snapshot) error {
	if len(snap.NonEmpty()) == 0 {
		return ErrEmptyReport
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	if err := sink.Write(f, snap); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func row(rec models.TransactionRecord) []string {
	return []string{
		rec.SourceDocument,
		rec.Period,
		rec.Date,
		rec.Description,
		rec.Amount.StringFixed(2),
		rec.Balance.StringFixed(2),
		rec.Category.Label(),
	}
}
