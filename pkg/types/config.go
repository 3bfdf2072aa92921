// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// MarkdownConfig holds the tunables of the Markdown reconstruction pipeline.
type MarkdownConfig struct {
	// TabWidth is the number of spaces a tab expands to (default 4).
	TabWidth int `json:"tab_width" yaml:"tab_width" mapstructure:"tab_width"`

	// HeaderKeywords lists the bare words promoted to level-2 headings.
	// Empty means the built-in set.
	HeaderKeywords []string `json:"header_keywords,omitempty" yaml:"header_keywords,omitempty" mapstructure:"header_keywords"`

	// PreserveListNumbers keeps numeric ordered-list markers instead of
	// collapsing them to "1.".
	PreserveListNumbers bool `json:"preserve_list_numbers" yaml:"preserve_list_numbers" mapstructure:"preserve_list_numbers"`
}

// ExtractBackend identifies the text extraction tool used for PDFs.
type ExtractBackend string

const (
	BackendPDF       ExtractBackend = "pdf"
	BackendContainer ExtractBackend = "container"
)

// ConversionConfig holds settings for the conversion stage.
type ConversionConfig struct {
	// Backend selects PDF extraction: pdf (in-process) or container
	// (pdftotext in docker or podman).
	Backend ExtractBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Image is the container image used by the container backend.
	Image string `json:"image" yaml:"image" mapstructure:"image"`

	// OutputDir is the base directory for output (contains markdown/, html/).
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Force reconverts even when the source hash is unchanged.
	Force bool `json:"force" yaml:"force" mapstructure:"force"`

	// HTML also renders each document to html/<id>.html.
	HTML bool `json:"html" yaml:"html" mapstructure:"html"`
}

// StoreConfig holds settings for the document store.
type StoreConfig struct {
	// Dir is the directory holding docmark.db and exports.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// MaxUploadBytes caps the size of an uploaded file (default 32 MiB).
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `json:"log_format" yaml:"log_format" mapstructure:"log_format"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`

	// SecretsDir holds credential files. When it contains api-token, upload
	// and delete requests must carry that bearer token.
	SecretsDir string `json:"secrets_dir" yaml:"secrets_dir" mapstructure:"secrets_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Markdown   MarkdownConfig   `json:"markdown" yaml:"markdown" mapstructure:"markdown"`
	Conversion ConversionConfig `json:"conversion" yaml:"conversion" mapstructure:"conversion"`
	Store      StoreConfig      `json:"store" yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
}
