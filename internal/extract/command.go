// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/docmark/internal/container"
)

// DefaultImage is the pdftotext image used by the container backend.
const DefaultImage = "pdftotext:latest"

// pdftotextArgs read the PDF from stdin and write text to stdout, keeping
// the physical layout so column gaps survive for table detection.
var pdftotextArgs = []string{"-layout", "-enc", "UTF-8", "-", "-"}

// CommandExtractor converts PDFs by piping them through pdftotext in a
// container. It depends on a container.Runtime (docker or podman) injected
// at construction time.
type CommandExtractor struct {
	runtime container.Runtime
	image   string
}

// NewCommandExtractor creates an extractor that runs image with rt. It
// verifies that the image exists locally before returning.
func NewCommandExtractor(rt container.Runtime, image string) (*CommandExtractor, error) {
	if image == "" {
		image = DefaultImage
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("pdftotext image not available in %s: %w", rt.Name(), err)
	}
	return &CommandExtractor{runtime: rt, image: image}, nil
}

// Extract pipes the PDF at path through the container and returns its
// text. pdftotext separates pages with form feeds, which give the page
// count.
func (c *CommandExtractor) Extract(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := c.runtime.Run(ctx, c.image, pdftotextArgs, f, &out); err != nil {
		return Result{}, fmt.Errorf("extracting %s with pdftotext: %w", path, err)
	}

	raw := out.String()
	if strings.TrimSpace(strings.ReplaceAll(raw, "\f", "")) == "" {
		return Result{}, fmt.Errorf("%s: %w", path, ErrEmptyOutput)
	}
	text := clean(raw)

	res := Result{Text: text}
	res.Info.PageCount = max(strings.Count(raw, "\f"), 1)
	res.Info.HasTables = looksTabular(text)
	return res, nil
}
