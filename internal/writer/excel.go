package writer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Marcotagoras/CODIGOS-POLLO/internal/ledger"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/models"
)

// ExcelWriter writes one worksheet per currency, named after it.
type ExcelWriter struct{}

// Write implements Sink.
func (w *ExcelWriter) Write(out io.Writer, snap ledger.Snapshot) error {
	currencies := snap.NonEmpty()
	if len(currencies) == 0 {
		return ErrEmptyReport
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	amountFormat := "#,##0.00"
	amountStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &amountFormat})
	if err != nil {
		return fmt.Errorf("failed to create amount style: %w", err)
	}

	for i, c := range currencies {
		sheet := string(c)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", sheet, err)
		}

		if err := writeSheet(f, sheet, snap[c], headerStyle, amountStyle); err != nil {
			return fmt.Errorf("sheet %q: %w", sheet, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, records []models.TransactionRecord, headerStyle, amountStyle int) error {
	for i, name := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for r, rec := range records {
		values := []interface{}{
			rec.SourceDocument,
			rec.Period,
			rec.Date,
			rec.Description,
			rec.Amount.InexactFloat64(),
			rec.Balance.InexactFloat64(),
			rec.Category.Label(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	if len(records) > 0 {
		first, _ := excelize.CoordinatesToCellName(5, 2)
		end, _ := excelize.CoordinatesToCellName(6, len(records)+1)
		if err := f.SetCellStyle(sheet, first, end, amountStyle); err != nil {
			return err
		}
	}

	widths := map[string]float64{"A": 28, "B": 14, "C": 8, "D": 44, "E": 14, "F": 14, "G": 16}
	for col, width := range widths {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}
