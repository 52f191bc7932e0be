// Package extractor turns statement files into page text.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extractor returns the text of a document, one string per page.
// Pages without extractable text come back as empty strings.
type Extractor interface {
	Extract(ctx context.Context, path string) ([]string, error)
}

// PlainText reads text dumps that were extracted beforehand.
// Form feeds separate pages, as pdftotext writes them.
type PlainText struct{}

// Extract implements Extractor.
func (PlainText) Extract(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading text dump: %w", err)
	}
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	return strings.Split(string(data), "\f"), nil
}

// ByExtension picks an extractor from the file extension.
type ByExtension map[string]Extractor

// Default returns the extractor used for statement folders: PDFs through
// PDF, .txt dumps through PlainText.
func Default() ByExtension {
	return ByExtension{
		".pdf": &PDF{Pdftotext: true},
		".txt": PlainText{},
	}
}

// Extract implements Extractor.
func (b ByExtension) Extract(ctx context.Context, path string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	ex, ok := b[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
	return ex.Extract(ctx, path)
}
