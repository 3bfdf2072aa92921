// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docmark/internal/convert"
	"github.com/pdiddy/docmark/internal/extract"
	"github.com/pdiddy/docmark/internal/render"
)

var textCmd = &cobra.Command{
	Use:   "text [file]",
	Short: "Convert stdin or one file to Markdown on stdout",
	Long: `Text reads plain text from stdin, or from a file argument, and writes the
reconstructed Markdown to stdout. PDF and .txt files go through the same
extraction as convert; any other file is read as raw text.

--html writes a standalone HTML page instead; --structure writes the
element counts of the result as YAML.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd, markdownFlags); err != nil {
			return err
		}
		return bindFlags(cmd, map[string]string{"backend": "conversion.backend"})
	},
	RunE: runText,
}

func runText(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	conv := newConverter(cfg.Markdown)
	ctx := cmd.Context()

	var md, title string
	switch {
	case len(args) == 1 && extract.Supported(args[0]):
		pdf, err := pdfBackend(cfg.Conversion)
		if err != nil {
			return err
		}
		doc, err := convert.Process(ctx, pdf, conv, args[0])
		if err != nil {
			return err
		}
		md, title = doc.Markdown, convert.DocumentID(args[0])
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		md, title = conv.Convert(string(data)), filepath.Base(args[0])
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		md, title = conv.Convert(string(data)), "stdin"
	}

	out := cmd.OutOrStdout()
	htmlOut, _ := cmd.Flags().GetBool("html")
	structure, _ := cmd.Flags().GetBool("structure")
	switch {
	case structure:
		data, err := yaml.Marshal(render.Inspect(md))
		if err != nil {
			return fmt.Errorf("marshaling structure: %w", err)
		}
		_, err = out.Write(data)
		return err
	case htmlOut:
		page, err := render.HTML(ctx, md, title)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, page)
		return err
	default:
		_, err = fmt.Fprintln(out, md)
		return err
	}
}

func init() {
	textCmd.Flags().Bool("html", false, "write a standalone HTML page")
	textCmd.Flags().Bool("structure", false, "write element counts as YAML")
	textCmd.Flags().String("backend", "pdf", "PDF extraction backend: pdf or container")
	addMarkdownFlags(textCmd)

	rootCmd.AddCommand(textCmd)
}
