// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docmark/internal/container"
	"github.com/pdiddy/docmark/internal/extract"
	"github.com/pdiddy/docmark/internal/markdown"
	"github.com/pdiddy/docmark/pkg/types"
)

func setDefaults() {
	viper.SetDefault("markdown.tab_width", 4)
	viper.SetDefault("markdown.header_keywords", []string{})
	viper.SetDefault("markdown.preserve_list_numbers", false)

	viper.SetDefault("conversion.backend", string(types.BackendPDF))
	viper.SetDefault("conversion.image", extract.DefaultImage)
	viper.SetDefault("conversion.output_dir", "output")
	viper.SetDefault("conversion.force", false)
	viper.SetDefault("conversion.html", false)

	viper.SetDefault("store.dir", "store")
	viper.SetDefault("store.max_results", 20)

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.max_upload_bytes", 32<<20)
	viper.SetDefault("server.log_format", "text")
	viper.SetDefault("server.shutdown_timeout", "10s")
	viper.SetDefault("server.secrets_dir", ".secrets")
}

// bindFlags binds the named flags of cmd to viper keys. Binding happens in
// PreRunE because several commands share keys and viper keeps one binding
// per key.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

// markdownFlags are the converter tunables shared by convert, text,
// documents and serve.
var markdownFlags = map[string]string{
	"tab-width":             "markdown.tab_width",
	"preserve-list-numbers": "markdown.preserve_list_numbers",
}

func addMarkdownFlags(cmd *cobra.Command) {
	cmd.Flags().Int("tab-width", 4, "spaces per tab when normalizing whitespace")
	cmd.Flags().Bool("preserve-list-numbers", false, "keep numeric ordered-list markers instead of collapsing to 1.")
}

func loadConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func newConverter(cfg types.MarkdownConfig) *markdown.Converter {
	return markdown.New(markdown.Options{
		TabWidth:            cfg.TabWidth,
		HeaderKeywords:      cfg.HeaderKeywords,
		PreserveListNumbers: cfg.PreserveListNumbers,
	})
}

// pdfBackend returns the PDF extractor selected by cfg.Backend.
func pdfBackend(cfg types.ConversionConfig) (extract.Extractor, error) {
	switch cfg.Backend {
	case types.BackendPDF, "":
		return extract.PDFExtractor{}, nil
	case types.BackendContainer:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "Using container runtime: %s\n", rt.Name())
		ce, err := extract.NewCommandExtractor(rt, cfg.Image)
		if err != nil {
			return nil, err
		}
		return ce, nil
	default:
		return nil, fmt.Errorf("unknown backend %q: use pdf or container", cfg.Backend)
	}
}
