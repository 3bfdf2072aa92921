// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes conversion and the document store over HTTP.
// Every JSON endpoint answers with the httputil envelope.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/pdiddy/docmark/internal/extract"
	"github.com/pdiddy/docmark/internal/markdown"
	"github.com/pdiddy/docmark/internal/store"
	"github.com/pdiddy/docmark/pkg/types"
)

const (
	defaultAddr            = ":8080"
	defaultMaxUploadBytes  = 32 << 20
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxResults      = 20

	// previewChars is the length of the text previews in upload responses.
	previewChars = 500
)

// Documents is the persistence the API needs. *store.Store implements it.
type Documents interface {
	Save(ctx context.Context, doc types.Document) (types.Document, error)
	Get(ctx context.Context, id string) (types.Document, error)
	List(ctx context.Context, limit int) ([]types.Document, error)
	Delete(ctx context.Context, id string) error
	FindByHash(ctx context.Context, hash string) (types.Document, error)
	Search(ctx context.Context, query string, limit int) ([]store.SearchResult, error)
}

// Options configures a Server.
type Options struct {
	Config types.ServerConfig

	// PDF is the PDF extraction backend; nil means the in-process extractor.
	PDF extract.Extractor

	// Token, when set, is required as a bearer token on upload and delete.
	Token string

	// MaxResults is the default search and list limit.
	MaxResults int

	Logger  *slog.Logger
	Version string
}

// Server holds the API handlers and their dependencies.
type Server struct {
	docs Documents
	conv *markdown.Converter
	opts Options
	log  *slog.Logger
}

// New returns a Server backed by docs that converts with conv.
func New(docs Documents, conv *markdown.Converter, opts Options) *Server {
	if opts.Config.Addr == "" {
		opts.Config.Addr = defaultAddr
	}
	if opts.Config.MaxUploadBytes <= 0 {
		opts.Config.MaxUploadBytes = defaultMaxUploadBytes
	}
	if opts.Config.ShutdownTimeout <= 0 {
		opts.Config.ShutdownTimeout = defaultShutdownTimeout
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = defaultMaxResults
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{docs: docs, conv: conv, opts: opts, log: logger}
}

// Handler returns the routed API with request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /convert", s.handleConvert)
	mux.Handle("POST /documents", s.requireToken(http.HandlerFunc(s.handleUpload)))
	mux.HandleFunc("GET /documents", s.handleList)
	mux.HandleFunc("GET /documents/{id}", s.handleGet)
	mux.HandleFunc("GET /documents/{id}/markdown", s.handleMarkdown)
	mux.Handle("DELETE /documents/{id}", s.requireToken(http.HandlerFunc(s.handleDelete)))
	mux.HandleFunc("GET /search", s.handleSearch)

	return requestID(s.logRequests(mux))
}

// Run serves the API on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Config.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.opts.Config.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("server started", "addr", ln.Addr().String(), "auth", s.opts.Token != "")
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.Config.ShutdownTimeout)
	defer cancel()
	s.log.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
