// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docmark/pkg/types"
)

// ExportEntry holds a stored document as written to export files.
type ExportEntry struct {
	ID         string             `json:"id" yaml:"id"`
	Filename   string             `json:"filename" yaml:"filename"`
	SourceHash string             `json:"source_hash" yaml:"source_hash"`
	Status     string             `json:"status" yaml:"status"`
	UploadedAt time.Time          `json:"uploaded_at" yaml:"uploaded_at"`
	Info       types.DocumentInfo `json:"info" yaml:"info"`
	Markdown   string             `json:"markdown" yaml:"markdown"`
}

// ExportYAML writes every document to <dir>/export.yaml and returns the
// file path.
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.yaml")
	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes every document to <dir>/export.json and returns the
// file path.
func (s *Store) ExportJSON(ctx context.Context) (string, error) {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.json")
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents d ORDER BY d.uploaded_at, d.rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	defer rows.Close()

	entries := []ExportEntry{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		entries = append(entries, ExportEntry{
			ID:         doc.ID,
			Filename:   doc.Filename,
			SourceHash: doc.SourceHash,
			Status:     string(doc.Status),
			UploadedAt: doc.UploadedAt,
			Info:       doc.Info,
			Markdown:   doc.Markdown,
		})
	}
	return entries, rows.Err()
}
