// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docmark/internal/secrets"
	"github.com/pdiddy/docmark/internal/server"
	"github.com/pdiddy/docmark/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve conversion and the document store over HTTP",
	Long: `Serve starts the HTTP API: POST /convert converts a text body, POST
/documents uploads a PDF or text file into the store, and the /documents and
/search endpoints read it back. When <secrets-dir>/api-token exists, uploads
and deletes require it as a bearer token.

The server shuts down gracefully on SIGINT or SIGTERM.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd, markdownFlags); err != nil {
			return err
		}
		return bindFlags(cmd, map[string]string{
			"addr":        "server.addr",
			"max-upload":  "server.max_upload_bytes",
			"log-format":  "server.log_format",
			"secrets-dir": "server.secrets_dir",
			"store-dir":   "store.dir",
			"backend":     "conversion.backend",
		})
	},
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := server.NewLogger(cfg.Server.LogFormat, os.Stderr)

	token, err := secrets.APIToken(cfg.Server.SecretsDir, os.Stderr)
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
	if !s.FullText() {
		logger.Warn("FTS5 unavailable, search falls back to substring matching")
	}

	srv := server.New(s, newConverter(cfg.Markdown), server.Options{
		Config:     cfg.Server,
		PDF:        pdf,
		Token:      token,
		MaxResults: cfg.Store.MaxResults,
		Logger:     logger,
		Version:    version,
	})
	return srv.Run(cmd.Context())
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().Int64("max-upload", 32<<20, "maximum upload size in bytes")
	serveCmd.Flags().String("log-format", "text", "request log format: text or json")
	serveCmd.Flags().String("secrets-dir", ".secrets", "directory holding api-token")
	serveCmd.Flags().String("store-dir", "store", "directory holding docmark.db")
	serveCmd.Flags().String("backend", "pdf", "PDF extraction backend: pdf or container")
	addMarkdownFlags(serveCmd)

	rootCmd.AddCommand(serveCmd)
}
