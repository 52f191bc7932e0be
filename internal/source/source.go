// Package source enumerates the statement documents of a batch.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Document identifies one statement file.
type Document struct {
	ID   string // file name, used as the record's source document
	Path string
}

// Source lists the documents to process, in processing order.
type Source interface {
	List() ([]Document, error)
}

// Dir lists the files of a directory that match Pattern.
type Dir struct {
	Path    string
	Pattern string // glob, defaults to "*.pdf"
}

// List returns matching regular files sorted by name.
func (d Dir) List() ([]Document, error) {
	info, err := os.Stat(d.Path)
	if err != nil {
		return nil, fmt.Errorf("statements folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("statements folder %q is not a directory", d.Path)
	}

	pattern := d.Pattern
	if pattern == "" {
		pattern = "*.pdf"
	}
	matches, err := filepath.Glob(filepath.Join(d.Path, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)

	var docs []Document
	for _, m := range matches {
		fi, err := os.Stat(m)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		docs = append(docs, Document{ID: filepath.Base(m), Path: m})
	}
	return docs, nil
}
