// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// TextExtractor reads plain-text files. Form feeds count as page breaks.
type TextExtractor struct{}

func (TextExtractor) Extract(_ context.Context, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	raw := string(data)
	text := clean(raw)

	res := Result{Text: text}
	res.Info.PageCount = strings.Count(strings.TrimRight(raw, "\f"), "\f") + 1
	res.Info.HasTables = looksTabular(text)
	return res, nil
}
