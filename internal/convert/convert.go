// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs source documents through extraction and Markdown
// reconstruction and writes the results, with YAML frontmatter, under an
// output directory. Unchanged sources are skipped by content hash.
package convert

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/pdiddy/docmark/internal/extract"
	"github.com/pdiddy/docmark/internal/markdown"
	"github.com/pdiddy/docmark/internal/render"
	"github.com/pdiddy/docmark/pkg/types"
)

const (
	// markdownDir is the subdirectory under the output base for Markdown.
	markdownDir = "markdown"
	// htmlDir is the subdirectory under the output base for rendered pages.
	htmlDir = "html"
)

// Outcome is the result of converting one document.
type Outcome string

const (
	OutcomeConverted Outcome = "converted"
	OutcomeUpdated   Outcome = "updated"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Updated   int
	Skipped   int
	Failed    int
}

// Total returns the total number of documents processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Updated + r.Skipped + r.Failed
}

// HasFailures reports whether any documents failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

func (r *BatchResult) add(o Outcome) {
	switch o {
	case OutcomeConverted:
		r.Converted++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}
}

// HashSource returns the hex BLAKE3-256 digest of data.
func HashSource(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DocumentID derives the output name of a source file: its base name
// without extension.
func DocumentID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Process extracts the file at path and converts its text to Markdown
// without writing anything. pdf selects the PDF backend; nil means the
// in-process extractor.
func Process(ctx context.Context, pdf extract.Extractor, conv *markdown.Converter, path string) (types.Document, error) {
	ex, err := extract.ForPath(path, pdf)
	if err != nil {
		return types.Document{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	res, err := ex.Extract(ctx, path)
	if err != nil {
		return types.Document{}, err
	}

	return types.Document{
		Filename:      filepath.Base(path),
		SourcePath:    path,
		SourceHash:    HashSource(data),
		ExtractedText: res.Text,
		Markdown:      conv.Convert(res.Text),
		Info:          res.Info,
		Status:        types.ConversionDone,
	}, nil
}

// ConvertDocument converts a single file, writing markdown/<id>.md (and
// html/<id>.html when cfg.HTML is set) under cfg.OutputDir. An existing
// output whose recorded source hash matches is skipped unless cfg.Force
// is set; a changed source is reconverted and reported as updated.
func ConvertDocument(ctx context.Context, pdf extract.Extractor, conv *markdown.Converter, path string, cfg types.ConversionConfig, w io.Writer) Outcome {
	id := DocumentID(path)
	mdPath := filepath.Join(cfg.OutputDir, markdownDir, id+".md")

	fail := func(err error) Outcome {
		fmt.Fprintf(w, "failed:  %s (%v)\n", id, err)
		return OutcomeFailed
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(err)
	}
	hash := HashSource(data)

	outcome := OutcomeConverted
	if fm, err := ReadFrontmatter(mdPath); err == nil {
		if fm.SourceHash == hash && !cfg.Force {
			fmt.Fprintf(w, "skipped: %s (unchanged)\n", id)
			return OutcomeSkipped
		}
		outcome = OutcomeUpdated
	}

	doc, err := Process(ctx, pdf, conv, path)
	if err != nil {
		return fail(err)
	}

	fm := Frontmatter{
		DocumentID:  id,
		Source:      path,
		SourceHash:  doc.SourceHash,
		ConvertedAt: time.Now().UTC().Format(time.RFC3339),
		PageCount:   doc.Info.PageCount,
		HasImages:   doc.Info.HasImages,
		HasTables:   doc.Info.HasTables,
		Structure:   render.Inspect(doc.Markdown),
	}
	content, err := withFrontmatter(fm, doc.Markdown)
	if err != nil {
		return fail(err)
	}
	if err := writeFile(mdPath, content); err != nil {
		return fail(err)
	}

	if cfg.HTML {
		page, err := render.HTML(ctx, doc.Markdown, id)
		if err != nil {
			return fail(err)
		}
		if err := writeFile(filepath.Join(cfg.OutputDir, htmlDir, id+".html"), []byte(page)); err != nil {
			return fail(err)
		}
	}

	fmt.Fprintf(w, "%s: %s\n", outcome, id)
	return outcome
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ConvertBatch processes a list of files, printing per-file status to w
// and returning a summary. It stops early only when ctx is cancelled.
func ConvertBatch(ctx context.Context, pdf extract.Extractor, conv *markdown.Converter, paths []string, cfg types.ConversionConfig, w io.Writer) BatchResult {
	var result BatchResult
	for _, p := range paths {
		if ctx.Err() != nil {
			break
		}
		result.add(ConvertDocument(ctx, pdf, conv, p, cfg, w))
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d updated, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Updated, result.Skipped, result.Failed, result.Total())
	return result
}

// ConvertPaths expands directory arguments to the supported files they
// contain and delegates to ConvertBatch. File arguments are used as given.
func ConvertPaths(ctx context.Context, pdf extract.Extractor, conv *markdown.Converter, paths []string, cfg types.ConversionConfig, w io.Writer) (BatchResult, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return BatchResult{}, fmt.Errorf("reading %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		found, err := supportedFiles(p)
		if err != nil {
			return BatchResult{}, err
		}
		files = append(files, found...)
	}
	return ConvertBatch(ctx, pdf, conv, files, cfg, w), nil
}

// ConvertDir converts every supported file directly inside dir.
func ConvertDir(ctx context.Context, pdf extract.Extractor, conv *markdown.Converter, dir string, cfg types.ConversionConfig, w io.Writer) (BatchResult, error) {
	return ConvertPaths(ctx, pdf, conv, []string{dir}, cfg, w)
}

// supportedFiles lists the extractable files in dir, sorted by name.
func supportedFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && extract.Supported(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
