// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdiddy/docmark/internal/convert"
	"github.com/pdiddy/docmark/internal/extract"
	"github.com/pdiddy/docmark/internal/httputil"
	"github.com/pdiddy/docmark/internal/render"
	"github.com/pdiddy/docmark/internal/store"
	"github.com/pdiddy/docmark/pkg/types"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type convertResponse struct {
	Markdown  string           `json:"markdown"`
	Structure render.Structure `json:"structure"`
	HTML      string           `json:"html,omitempty"`
}

type uploadResponse struct {
	ID              string             `json:"id"`
	Filename        string             `json:"filename"`
	Preview         string             `json:"preview"`
	MarkdownPreview string             `json:"markdown_preview"`
	DocumentInfo    types.DocumentInfo `json:"document_info"`
	// Duplicate is set when the same content was already stored.
	Duplicate bool `json:"duplicate,omitempty"`
}

type deleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.Respond(w, http.StatusOK, healthResponse{Status: "ok", Version: s.opts.Version})
}

// handleConvert converts a raw text body. ?html=true also renders HTML.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.Config.MaxUploadBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.bodyError(w, err)
		return
	}

	md := s.conv.Convert(string(body))
	resp := convertResponse{Markdown: md, Structure: render.Inspect(md)}
	if wantHTML, _ := strconv.ParseBool(r.URL.Query().Get("html")); wantHTML {
		page, err := render.HTML(r.Context(), md, "document")
		if err != nil {
			httputil.RespondError(w, http.StatusInternalServerError, httputil.CodeConversion, err.Error())
			return
		}
		resp.HTML = page
	}
	httputil.Respond(w, http.StatusOK, resp)
}

// handleUpload extracts, converts and stores the multipart "file" field.
// Content already stored under the same hash is returned as is.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.Config.MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.bodyError(w, err)
		return
	}
	defer file.Close()

	if !extract.Supported(header.Filename) {
		httputil.RespondError(w, http.StatusBadRequest, httputil.CodeUnsupported,
			fmt.Sprintf("unsupported file type %q", filepath.Ext(header.Filename)))
		return
	}

	tmp, err := spool(file, filepath.Ext(header.Filename))
	if err != nil {
		s.bodyError(w, err)
		return
	}
	defer os.Remove(tmp)

	ctx := r.Context()
	data, err := os.ReadFile(tmp)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if existing, err := s.docs.FindByHash(ctx, convert.HashSource(data)); err == nil {
		httputil.Respond(w, http.StatusOK, newUploadResponse(existing, true))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		s.internalError(w, r, err)
		return
	}

	doc, err := convert.Process(ctx, s.opts.PDF, s.conv, tmp)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, extract.ErrEmptyOutput) {
			status = http.StatusUnprocessableEntity
		}
		s.log.WarnContext(ctx, "conversion failed", "request_id", RequestID(ctx), "filename", header.Filename, "error", err)
		httputil.RespondError(w, status, httputil.CodeConversion, err.Error())
		return
	}
	doc.Filename = filepath.Base(header.Filename)
	doc.SourcePath = ""

	saved, err := s.docs.Save(ctx, doc)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.log.InfoContext(ctx, "document stored", "request_id", RequestID(ctx), "id", saved.ID, "filename", saved.Filename)
	httputil.Respond(w, http.StatusCreated, newUploadResponse(saved, false))
}

func newUploadResponse(doc types.Document, duplicate bool) uploadResponse {
	return uploadResponse{
		ID:              doc.ID,
		Filename:        doc.Filename,
		Preview:         extract.Preview(doc.ExtractedText, previewChars),
		MarkdownPreview: extract.Preview(doc.Markdown, previewChars),
		DocumentInfo:    doc.Info,
		Duplicate:       duplicate,
	}
}

// spool copies an upload to a temporary file carrying ext, so extraction
// can pick a backend by extension.
func spool(src io.Reader, ext string) (string, error) {
	f, err := os.CreateTemp("", "docmark-upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	return f.Name(), nil
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	docs, err := s.docs.List(r.Context(), s.limit(r))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	httputil.RespondList(w, docs)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	httputil.Respond(w, http.StatusOK, doc)
}

func (s *Server) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", convert.DocumentID(doc.Filename)+".md"))
	io.WriteString(w, doc.Markdown)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.docs.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, httputil.CodeNotFound, err.Error())
			return
		}
		s.internalError(w, r, err)
		return
	}
	httputil.Respond(w, http.StatusOK, deleteResponse{ID: id, Deleted: true})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	results, err := s.docs.Search(r.Context(), r.URL.Query().Get("q"), s.limit(r))
	if err != nil {
		if errors.Is(err, store.ErrEmptyQuery) {
			httputil.RespondError(w, http.StatusBadRequest, httputil.CodeBadRequest, err.Error())
			return
		}
		s.internalError(w, r, err)
		return
	}
	for i := range results {
		results[i].Document = results[i].Document.Summary()
	}
	httputil.RespondList(w, results)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (types.Document, bool) {
	doc, err := s.docs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, httputil.CodeNotFound, err.Error())
		} else {
			s.internalError(w, r, err)
		}
		return types.Document{}, false
	}
	return doc, true
}

// limit reads ?limit=, falling back to the configured default.
func (s *Server) limit(r *http.Request) int {
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
		return n
	}
	return s.opts.MaxResults
}

func (s *Server) bodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, httputil.CodeTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		return
	}
	httputil.RespondError(w, http.StatusBadRequest, httputil.CodeBadRequest, err.Error())
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.ErrorContext(r.Context(), "request failed", "request_id", RequestID(r.Context()), "path", r.URL.Path, "error", err)
	httputil.RespondError(w, http.StatusInternalServerError, httputil.CodeInternalError, "internal error")
}
