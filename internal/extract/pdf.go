// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor reads the embedded text layer of a PDF in process. Image-only
// pages yield no text; OCR is not attempted.
type PDFExtractor struct{}

// Extract returns the text of every page, each followed by a blank line so
// pages never run together.
func (PDFExtractor) Extract(ctx context.Context, path string) (Result, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	var (
		b      strings.Builder
		images bool
	)
	fonts := make(map[string]*pdf.Font)
	numPages := r.NumPage()

	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}

		text, err := p.GetPlainText(fonts)
		if err != nil {
			return Result{}, fmt.Errorf("reading page %d of %s: %w", i, path, err)
		}
		b.WriteString(text)
		b.WriteString("\n\n")

		images = images || pageHasImages(p)
	}

	text := clean(b.String())
	if strings.TrimSpace(text) == "" {
		return Result{}, fmt.Errorf("%s: %w", path, ErrEmptyOutput)
	}

	res := Result{Text: text}
	res.Info.PageCount = numPages
	res.Info.HasImages = images
	res.Info.HasTables = looksTabular(text)
	return res, nil
}

// pageHasImages reports whether the page resources reference an image
// XObject.
func pageHasImages(p pdf.Page) bool {
	xobjects := p.Resources().Key("XObject")
	for _, name := range xobjects.Keys() {
		if xobjects.Key(name).Key("Subtype").Name() == "Image" {
			return true
		}
	}
	return false
}
