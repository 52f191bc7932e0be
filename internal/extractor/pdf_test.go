package extractor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeStatementPDF writes a text-layer PDF with one page per entry of
// pages, each line placed on its own baseline.
func writeStatementPDF(t *testing.T, pages [][]string) string {
	t.Helper()

	var objects []string
	kids := make([]string, len(pages))
	// 1: catalog, 2: page tree, 3: font, then a page and a content stream per page.
	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>", "", "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	for i, lines := range pages {
		pageObj, contentObj := 4+2*i, 5+2*i
		kids[i] = fmt.Sprintf("%d 0 R", pageObj)

		var content strings.Builder
		content.WriteString("BT\n/F1 10 Tf\n")
		for j, line := range lines {
			escaped := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(line)
			fmt.Fprintf(&content, "1 0 0 1 40 %d Tm\n(%s) Tj\n", 750-14*j, escaped)
		}
		content.WriteString("ET\n")

		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", contentObj),
			fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
		)
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "estado.pdf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPDF_TextLayer(t *testing.T) {
	path := writeStatementPDF(t, [][]string{
		{
			"ESTADO DE CUENTA NEGOCIOS Mes: MARZO 2025",
			"MONEDA: SOLES",
			"01/03 02/03 ABONO TRANSFERENCIA 1,200.00 5,400.00",
		},
		{
			"05/03 05/03 ITF -0.05 5,399.95",
		},
	})

	pages, err := (&PDF{}).Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("pages: got %d, want 2: %q", len(pages), pages)
	}

	want := "ESTADO DE CUENTA NEGOCIOS Mes: MARZO 2025\nMONEDA: SOLES\n01/03 02/03 ABONO TRANSFERENCIA 1,200.00 5,400.00"
	if pages[0] != want {
		t.Errorf("page 1:\ngot  %q\nwant %q", pages[0], want)
	}
	if pages[1] != "05/03 05/03 ITF -0.05 5,399.95" {
		t.Errorf("page 2: got %q", pages[1])
	}
}

func TestPagesByRow_KeepsPageNumbering(t *testing.T) {
	path := writeStatementPDF(t, [][]string{{"MONEDA: SOLES"}, {}, {"pagina 3"}})

	pages, err := extractWithLibrary(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 3 || pages[1] != "" || pages[2] != "pagina 3" {
		t.Errorf("got %q", pages)
	}
}
