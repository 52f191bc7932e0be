package writer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Marcotagoras/CODIGOS-POLLO/internal/ledger"
)

// CSVWriter writes all currencies into one table with a leading currency
// column.
type CSVWriter struct{}

// Write implements Sink.
func (w *CSVWriter) Write(out io.Writer, snap ledger.Snapshot) error {
	currencies := snap.NonEmpty()
	if len(currencies) == 0 {
		return ErrEmptyReport
	}

	writer := csv.NewWriter(out)

	header := append([]string{"Moneda"}, columns...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, c := range currencies {
		for _, rec := range snap[c] {
			if err := writer.Write(append([]string{string(c)}, row(rec)...)); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
