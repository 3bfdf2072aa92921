// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionStatus indicates the state of text-to-Markdown conversion for a
// document.
type ConversionStatus string

const (
	ConversionNone   ConversionStatus = "none"
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)

// DocumentInfo holds page-level facts gathered during extraction.
type DocumentInfo struct {
	// PageCount is the number of pages in the source (1 for plain text).
	PageCount int `json:"page_count" yaml:"page_count"`

	// HasImages reports whether any page references an image XObject.
	HasImages bool `json:"has_images" yaml:"has_images"`

	// HasTables reports whether the extracted text looks like it carries
	// tabular content.
	HasTables bool `json:"has_tables" yaml:"has_tables"`
}

// Document is a converted upload as persisted by the store.
type Document struct {
	// ID is a UUID assigned on first save.
	ID string `json:"id" yaml:"id"`

	// Filename is the original upload or file name.
	Filename string `json:"filename" yaml:"filename"`

	// SourcePath is the local path the text was extracted from, if any.
	SourcePath string `json:"source_path,omitempty" yaml:"source_path,omitempty"`

	// SourceHash is the hex BLAKE3 digest of the source bytes.
	SourceHash string `json:"source_hash" yaml:"source_hash"`

	// ExtractedText is the raw text layer before conversion.
	ExtractedText string `json:"extracted_text,omitempty" yaml:"extracted_text,omitempty"`

	// Markdown is the converted document.
	Markdown string `json:"markdown,omitempty" yaml:"markdown,omitempty"`

	Info DocumentInfo `json:"info" yaml:"info"`

	Status ConversionStatus `json:"status" yaml:"status"`

	// UploadedAt is when the document was first stored.
	UploadedAt time.Time `json:"uploaded_at" yaml:"uploaded_at"`
}

// Summary returns a copy of d without the text bodies, for listings.
func (d Document) Summary() Document {
	d.ExtractedText = ""
	d.Markdown = ""
	return d
}
