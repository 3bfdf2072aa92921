// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docmark/internal/convert"
	"github.com/pdiddy/docmark/internal/extract"
	"github.com/pdiddy/docmark/internal/store"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage the document store (add, list, show, search, delete, export)",
	Long: `Documents manages the local SQLite store that the HTTP API serves from.
Use subcommands to add converted files, inspect and search them, or export
the whole store to YAML or JSON.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{"store-dir": "store.dir"})
	},
}

// --- add subcommand ---

var documentsAddCmd = &cobra.Command{
	Use:   "add [files...]",
	Short: "Convert files and store the results",
	Long: `Add extracts and converts each file and saves it to the store. Files
whose content is already stored are reported as skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDocumentsAdd,
}

func runDocumentsAdd(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, markdownFlags); err != nil {
		return err
	}
	if err := bindFlags(cmd, map[string]string{"backend": "conversion.backend"}); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pdf, err := pdfBackend(cfg.Conversion)
	if err != nil {
		return err
	}
	s, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	conv := newConverter(cfg.Markdown)
	w := cmd.OutOrStdout()

	var added, skipped, failed int
	for _, path := range args {
		doc, err := convert.Process(ctx, pdf, conv, path)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", path, err)
			failed++
			continue
		}
		if existing, err := s.FindByHash(ctx, doc.SourceHash); err == nil {
			fmt.Fprintf(w, "skipped: %s (stored as %s)\n", path, existing.ID)
			skipped++
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		saved, err := s.Save(ctx, doc)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", path, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "added:   %s (%s)\n", path, saved.ID)
		added++
	}

	fmt.Fprintf(w, "\n%d added, %d skipped, %d failed\n", added, skipped, failed)
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}

// --- list subcommand ---

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents, newest first",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsList,
}

func runDocumentsList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	docs, err := s.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(w, docs)
	}
	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents stored.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-30s  %-5s  %-6s  %s\n", "ID", "Filename", "Pages", "Tables", "Uploaded")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, d := range docs {
		fmt.Fprintf(w, "%-36s  %-30s  %-5d  %-6t  %s\n",
			d.ID, truncate(d.Filename, 30), d.Info.PageCount, d.Info.HasTables, d.UploadedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(w, "\n%d documents\n", len(docs))
	return nil
}

// --- show subcommand ---

var documentsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a stored document's Markdown",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsShow,
}

func runDocumentsShow(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	doc, err := s.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(w, doc)
	}
	if raw, _ := cmd.Flags().GetBool("text"); raw {
		_, err = fmt.Fprintln(w, doc.ExtractedText)
		return err
	}
	_, err = fmt.Fprintln(w, doc.Markdown)
	return err
}

// --- search subcommand ---

var documentsSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search stored documents",
	Long: `Search matches every query term against the filename and Markdown of
stored documents, ranked by FTS5 relevance when the index is available.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDocumentsSearch,
}

func runDocumentsSearch(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	results, err := s.Search(cmd.Context(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(w, results)
	}
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-36s  %-30s  %s\n", "Rank", "ID", "Filename", "Snippet")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for i, r := range results {
		fmt.Fprintf(w, "%-4d  %-36s  %-30s  %s\n",
			i+1, r.ID, truncate(r.Filename, 30), strings.Join(strings.Fields(r.Snippet), " "))
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// --- delete subcommand ---

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a stored document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted: %s\n", args[0])
		return nil
	},
}

// --- export subcommand ---

var documentsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the store to YAML or JSON",
	Long: `Export writes every stored document, oldest first, to
<store-dir>/export.yaml or export.json.`,
	Args: cobra.NoArgs,
	RunE: runDocumentsExport,
}

func runDocumentsExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var path string
	switch format {
	case "yaml", "":
		path, err = s.ExportYAML(cmd.Context())
	case "json":
		path, err = s.ExportJSON(cmd.Context())
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func openStore() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.Store)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return extract.Preview(s, n-3)
}

func init() {
	documentsCmd.PersistentFlags().String("store-dir", "store", "directory holding docmark.db and exports")

	addMarkdownFlags(documentsAddCmd)
	documentsAddCmd.Flags().String("backend", "pdf", "PDF extraction backend: pdf or container")

	documentsListCmd.Flags().Int("limit", 0, "maximum documents to list (0 = all)")
	documentsListCmd.Flags().Bool("json", false, "output as JSON")

	documentsShowCmd.Flags().Bool("json", false, "output the full record as JSON")
	documentsShowCmd.Flags().Bool("text", false, "print the extracted text instead of Markdown")

	documentsSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	documentsSearchCmd.Flags().Bool("json", false, "output results as JSON")

	documentsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	documentsCmd.AddCommand(documentsAddCmd)
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsShowCmd)
	documentsCmd.AddCommand(documentsSearchCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	documentsCmd.AddCommand(documentsExportCmd)

	rootCmd.AddCommand(documentsCmd)
}
