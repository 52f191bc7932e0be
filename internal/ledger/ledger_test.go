package ledger

import (
	"slices"
	"sync"
	"testing"

	"github.com/Marcotagoras/CODIGOS-POLLO/internal/models"
)

func rec(doc, date string) models.TransactionRecord {
	return models.TransactionRecord{SourceDocument: doc, Date: date, Description: doc + " " + date}
}

func TestLedger_PreservesArrivalOrder(t *testing.T) {
	l := New()
	// Dates deliberately out of order: the ledger must not sort.
	l.Record(models.CurrencySoles, rec("d1", "20/03"))
	l.Record(models.CurrencySoles, rec("d1", "05/03"))
	l.Record(models.CurrencySoles, rec("d2", "01/03"))

	got := l.Snapshot()[models.CurrencySoles]
	want := []string{"d1 20/03", "d1 05/03", "d2 01/03"}

	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Description != want[i] {
			t.Errorf("record[%d]: got %q, want %q", i, got[i].Description, want[i])
		}
	}
}

func TestLedger_KeepsDuplicates(t *testing.T) {
	l := New()
	r := rec("d1", "01/03")
	l.Record(models.CurrencyDolares, r)
	l.Record(models.CurrencyDolares, r)

	if n := len(l.Snapshot()[models.CurrencyDolares]); n != 2 {
		t.Errorf("got %d records, want 2", n)
	}
}

func TestLedger_SnapshotIsCopy(t *testing.T) {
	l := New()
	l.Record(models.CurrencySoles, rec("d1", "01/03"))

	snap := l.Snapshot()
	snap[models.CurrencySoles][0].Description = "changed"
	l.Record(models.CurrencySoles, rec("d1", "02/03"))

	if len(snap[models.CurrencySoles]) != 1 {
		t.Errorf("snapshot grew after Record: %d", len(snap[models.CurrencySoles]))
	}
	if l.Snapshot()[models.CurrencySoles][0].Description != "d1 01/03" {
		t.Error("mutating a snapshot changed the ledger")
	}
}

func TestSnapshot_NonEmpty(t *testing.T) {
	l := New()
	if got := l.Snapshot().NonEmpty(); len(got) != 0 {
		t.Errorf("empty ledger: got %v", got)
	}

	l.Record(models.CurrencyDolares, rec("d1", "01/03"))
	snap := l.Snapshot()

	if got := snap.NonEmpty(); !slices.Equal(got, []models.Currency{models.CurrencyDolares}) {
		t.Errorf("got %v, want [DOLARES]", got)
	}
	if got := snap.Currencies(); !slices.Equal(got, []models.Currency{models.CurrencySoles, models.CurrencyDolares}) {
		t.Errorf("got %v, want [SOLES DOLARES]", got)
	}
	if snap.Len() != 1 {
		t.Errorf("Len: got %d, want 1", snap.Len())
	}
}

func TestLedger_ConcurrentRecord(t *testing.T) {
	l := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Record(models.CurrencySoles, rec("d", "01/01"))
		}()
	}
	wg.Wait()

	if n := len(l.Snapshot()[models.CurrencySoles]); n != 50 {
		t.Errorf("got %d records, want 50", n)
	}
}
