// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls the plain-text layer out of source documents so the
// markdown package can reconstruct structure from it. PDFs are read in
// process with ledongthuc/pdf or piped through pdftotext in a container;
// text files are read as is. All extracted text is NFC-normalized.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/docmark/pkg/types"
)

var (
	// ErrUnsupportedFormat is returned for files no extractor handles.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptyOutput is returned when a PDF yields no text, typically a
	// scanned document without a text layer.
	ErrEmptyOutput = errors.New("no extractable text")
)

// Result is the text layer of a document plus page-level facts.
type Result struct {
	Text string
	Info types.DocumentInfo
}

// Extractor reads the document at path and returns its text.
type Extractor interface {
	Extract(ctx context.Context, path string) (Result, error)
}

// textExtensions are the suffixes read by TextExtractor.
var textExtensions = map[string]bool{
	".txt":  true,
	".text": true,
	".md":   true,
}

// Supported reports whether ForPath can pick an extractor for path.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".pdf" || textExtensions[ext]
}

// ForPath returns the extractor for path by file extension. PDFs go to
// pdf, or to an in-process PDFExtractor when pdf is nil.
func ForPath(path string, pdf Extractor) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".pdf":
		if pdf == nil {
			return PDFExtractor{}, nil
		}
		return pdf, nil
	case textExtensions[ext]:
		return TextExtractor{}, nil
	}
	return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFormat)
}

// tableMarkers are substrings that suggest tabular content in a text layer.
var tableMarkers = []string{"Table ", "TABLE ", "| ", "+-"}

func looksTabular(text string) bool {
	for _, m := range tableMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// clean repairs invalid UTF-8, turns form feeds (page breaks) into blank
// lines, drops NUL bytes, and applies NFC so composed and decomposed
// accents compare equal downstream.
func clean(text string) string {
	text = strings.ToValidUTF8(text, "\uFFFD")
	text = strings.ReplaceAll(text, "\x00", "")
	text = strings.ReplaceAll(text, "\f", "\n\n")
	return norm.NFC.String(text)
}

// Preview returns the first n characters of text, followed by "..." when
// text is longer.
func Preview(text string, n int) string {
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + "..."
}
