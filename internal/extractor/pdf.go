package extractor

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF extracts text from PDF statements with ledongthuc/pdf. When the
// library fails or finds no text and Pdftotext is set, the external
// pdftotext command (poppler-utils) is tried as a last resort.
type PDF struct {
	Pdftotext bool
}

// Extract implements Extractor.
func (p *PDF) Extract(ctx context.Context, path string) ([]string, error) {
	pages, libErr := extractWithLibrary(path)
	if libErr == nil && totalTextLen(pages) > 0 {
		return pages, nil
	}

	if p.Pdftotext {
		popplerPages, popplerErr := extractWithPdftotext(ctx, path)
		if popplerErr == nil && totalTextLen(popplerPages) > 0 {
			return popplerPages, nil
		}
	}

	if libErr != nil {
		return nil, fmt.Errorf("PDF text extraction failed: %w", libErr)
	}
	// A readable PDF without a text layer is not an error; the statement
	// simply yields no movements.
	return pages, nil
}

// libraryStrategies are tried in order until one yields text. Row order
// comes first because it keeps a statement line's columns together.
var libraryStrategies = []func(*pdf.Reader) []string{
	pagesByRow,
	pagesPlainText,
	documentPlainText,
}

func extractWithLibrary(filePath string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if r.NumPage() == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	for _, strategy := range libraryStrategies {
		pages = strategy(r)
		if totalTextLen(pages) > 0 {
			return pages, nil
		}
	}
	return pages, nil
}

// eachPage calls fn for every page with content. Pages fn cannot read
// stay empty so page numbering is preserved.
func eachPage(r *pdf.Reader, fn func(pdf.Page) (string, error)) []string {
	pages := make([]string, r.NumPage())
	for i := range pages {
		page := r.Page(i + 1)
		if page.V.IsNull() {
			continue
		}
		if text, err := fn(page); err == nil {
			pages[i] = text
		}
	}
	return pages
}

// pagesByRow rebuilds each text row by joining its fragments with spaces.
func pagesByRow(r *pdf.Reader) []string {
	return eachPage(r, func(page pdf.Page) (string, error) {
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", err
		}
		var lines []string
		for _, row := range rows {
			var b strings.Builder
			for _, word := range row.Content {
				if word.S == "" {
					continue
				}
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(word.S)
			}
			if line := strings.TrimSpace(b.String()); line != "" {
				lines = append(lines, line)
			}
		}
		return strings.Join(lines, "\n"), nil
	})
}

func pagesPlainText(r *pdf.Reader) []string {
	return eachPage(r, func(page pdf.Page) (string, error) {
		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			font := page.Font(name)
			fonts[name] = &font
		}
		text, err := page.GetPlainText(fonts)
		return strings.TrimSpace(text), err
	})
}

func documentPlainText(r *pdf.Reader) []string {
	reader, err := r.GetPlainText()
	if err != nil {
		return nil
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil
	}
	if text := strings.TrimSpace(string(data)); text != "" {
		return []string{text}
	}
	return nil
}

// extractWithPdftotext runs pdftotext -layout page by page so page
// boundaries survive.
func extractWithPdftotext(ctx context.Context, filePath string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %w", err)
	}

	numPages := pdfinfoPageCount(ctx, filePath)
	if numPages == 0 {
		out, err := exec.CommandContext(ctx, "pdftotext", "-layout", filePath, "-").Output()
		if err != nil {
			return nil, fmt.Errorf("pdftotext failed: %w", err)
		}
		return strings.Split(string(out), "\f"), nil
	}

	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		pageStr := strconv.Itoa(i)
		out, err := exec.CommandContext(ctx, "pdftotext", "-layout", "-f", pageStr, "-l", pageStr, filePath, "-").Output()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			pages = append(pages, "")
			continue
		}
		pages = append(pages, strings.TrimSpace(string(out)))
	}
	return pages, nil
}

// pdfinfoPageCount returns the page count reported by pdfinfo, or 0.
func pdfinfoPageCount(ctx context.Context, filePath string) int {
	out, err := exec.CommandContext(ctx, "pdfinfo", filePath).Output()
	if err != nil {
		return 0
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(line, "Pages:") {
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
			if err == nil && n > 0 {
				return n
			}
		}
	}
	return 0
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
