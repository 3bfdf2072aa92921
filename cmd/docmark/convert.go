// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docmark/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files or dirs...]",
	Short: "Convert PDF and text files to structured Markdown",
	Long: `Convert extracts the text layer of each file and rebuilds it as
structured Markdown under <output-dir>/markdown/<id>.md, with YAML
frontmatter recording the source hash, page facts and element counts.
Directory arguments convert every supported file they contain.

Files whose source hash matches the existing output are skipped unless
--force is given. PDFs are read in-process (--backend pdf) or with
pdftotext in a container (--backend container).`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd, markdownFlags); err != nil {
			return err
		}
		return bindFlags(cmd, map[string]string{
			"output-dir": "conversion.output_dir",
			"force":      "conversion.force",
			"html":       "conversion.html",
			"backend":    "conversion.backend",
			"image":      "conversion.image",
		})
	},
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pdf, err := pdfBackend(cfg.Conversion)
	if err != nil {
		return err
	}

	result, err := convert.ConvertPaths(cmd.Context(), pdf, newConverter(cfg.Markdown), args, cfg.Conversion, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}

func init() {
	convertCmd.Flags().String("output-dir", "output", "base directory for output (contains markdown/, html/)")
	convertCmd.Flags().Bool("force", false, "reconvert even when the source is unchanged")
	convertCmd.Flags().Bool("html", false, "also render html/<id>.html")
	convertCmd.Flags().String("backend", "pdf", "PDF extraction backend: pdf or container")
	convertCmd.Flags().String("image", "pdftotext:latest", "container image for the container backend")
	addMarkdownFlags(convertCmd)

	rootCmd.AddCommand(convertCmd)
}
