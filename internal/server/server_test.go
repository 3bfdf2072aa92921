// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/pdiddy/docmark/internal/markdown"
	"github.com/pdiddy/docmark/internal/store"
	"github.com/pdiddy/docmark/pkg/types"
)

// memDocs is an in-memory Documents.
type memDocs struct {
	docs map[string]types.Document
	seq  int
}

func newMemDocs() *memDocs {
	return &memDocs{docs: map[string]types.Document{}}
}

func (m *memDocs) Save(_ context.Context, doc types.Document) (types.Document, error) {
	if doc.ID == "" {
		m.seq++
		doc.ID = fmt.Sprintf("doc-%d", m.seq)
	}
	m.docs[doc.ID] = doc
	return doc, nil
}

func (m *memDocs) Get(_ context.Context, id string) (types.Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return types.Document{}, store.ErrNotFound
	}
	return doc, nil
}

func (m *memDocs) List(_ context.Context, limit int) ([]types.Document, error) {
	var out []types.Document
	for _, d := range m.docs {
		out = append(out, d.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memDocs) Delete(_ context.Context, id string) error {
	if _, ok := m.docs[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *memDocs) FindByHash(_ context.Context, hash string) (types.Document, error) {
	for _, d := range m.docs {
		if d.SourceHash == hash {
			return d, nil
		}
	}
	return types.Document{}, store.ErrNotFound
}

func (m *memDocs) Search(_ context.Context, query string, _ int) ([]store.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, store.ErrEmptyQuery
	}
	var out []store.SearchResult
	for _, d := range m.docs {
		if strings.Contains(d.Markdown, query) {
			out = append(out, store.SearchResult{Document: d, Snippet: query})
		}
	}
	return out, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta struct {
		Total int `json:"total"`
	} `json:"meta"`
}

func newTestServer(docs Documents, opts Options) http.Handler {
	opts.Logger = NewLogger("text", io.Discard)
	return New(docs, markdown.New(markdown.DefaultOptions()), opts).Handler()
}

func do(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(fw, content)
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	h := newTestServer(newMemDocs(), Options{Version: "v1.2.3"})
	rec, env := do(t, h, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("status = %d, success = %v", rec.Code, env.Success)
	}
	var got healthResponse
	json.Unmarshal(env.Data, &got)
	if got.Status != "ok" || got.Version != "v1.2.3" {
		t.Errorf("health = %+v", got)
	}
}

func TestConvertEndpoint(t *testing.T) {
	h := newTestServer(newMemDocs(), Options{})

	tests := []struct {
		name     string
		target   string
		wantHTML bool
	}{
		{name: "markdown only", target: "/convert"},
		{name: "with html", target: "/convert?html=true", wantHTML: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader("Chapter 2: Results"))
			rec, env := do(t, h, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}

			var got struct {
				Markdown  string `json:"markdown"`
				Structure struct {
					Headings map[string]int `json:"headings"`
					Rules    int            `json:"rules"`
				} `json:"structure"`
				HTML string `json:"html"`
			}
			if err := json.Unmarshal(env.Data, &got); err != nil {
				t.Fatal(err)
			}
			if want := "---\n\n## Chapter 2: Results\n\n---"; got.Markdown != want {
				t.Errorf("markdown = %q, want %q", got.Markdown, want)
			}
			if got.Structure.Headings["2"] != 1 || got.Structure.Rules != 2 {
				t.Errorf("structure = %+v", got.Structure)
			}
			if gotHTML := strings.Contains(got.HTML, "Chapter 2: Results</h2>"); gotHTML != tt.wantHTML {
				t.Errorf("html present = %v, want %v", gotHTML, tt.wantHTML)
			}
		})
	}
}

func TestConvertEndpoint_TooLarge(t *testing.T) {
	h := newTestServer(newMemDocs(), Options{Config: types.ServerConfig{MaxUploadBytes: 8}})
	req := httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader("far more than eight bytes"))
	rec, env := do(t, h, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "PAYLOAD_TOO_LARGE" {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestUpload(t *testing.T) {
	docs := newMemDocs()
	h := newTestServer(docs, Options{})

	rec, env := do(t, h, uploadRequest(t, "notes.txt", "INTRODUCTION\n\nSome text here."))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got uploadResponse
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != "doc-1" || got.Filename != "notes.txt" {
		t.Errorf("id/filename = %q/%q", got.ID, got.Filename)
	}
	if got.Preview != "INTRODUCTION\n\nSome text here." {
		t.Errorf("preview = %q", got.Preview)
	}
	if !strings.Contains(got.MarkdownPreview, "## Introduction") {
		t.Errorf("markdown preview = %q", got.MarkdownPreview)
	}
	if got.DocumentInfo.PageCount != 1 || got.Duplicate {
		t.Errorf("info = %+v, duplicate = %v", got.DocumentInfo, got.Duplicate)
	}

	stored := docs.docs["doc-1"]
	if stored.SourcePath != "" || stored.Status != types.ConversionDone || stored.SourceHash == "" {
		t.Errorf("stored = %+v", stored)
	}
}

func TestUpload_Duplicate(t *testing.T) {
	docs := newMemDocs()
	h := newTestServer(docs, Options{})

	do(t, h, uploadRequest(t, "a.txt", "same content"))
	rec, env := do(t, h, uploadRequest(t, "b.txt", "same content"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got uploadResponse
	json.Unmarshal(env.Data, &got)
	if !got.Duplicate || got.ID != "doc-1" || got.Filename != "a.txt" {
		t.Errorf("got %+v", got)
	}
	if len(docs.docs) != 1 {
		t.Errorf("stored %d documents, want 1", len(docs.docs))
	}
}

func TestUpload_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		req      func(t *testing.T) *http.Request
		wantCode int
		wantErr  string
	}{
		{
			name:     "unsupported extension",
			req:      func(t *testing.T) *http.Request { return uploadRequest(t, "report.docx", "x") },
			wantCode: http.StatusBadRequest,
			wantErr:  "UNSUPPORTED_FORMAT",
		},
		{
			name: "missing file field",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader("plain body"))
			},
			wantCode: http.StatusBadRequest,
			wantErr:  "BAD_REQUEST",
		},
		{
			name:     "invalid pdf",
			req:      func(t *testing.T) *http.Request { return uploadRequest(t, "broken.pdf", "not a pdf") },
			wantCode: http.StatusInternalServerError,
			wantErr:  "CONVERSION_FAILED",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := newMemDocs()
			rec, env := do(t, newTestServer(docs, Options{}), tt.req(t))
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if env.Success || env.Error == nil || env.Error.Code != tt.wantErr {
				t.Errorf("envelope = %+v", env)
			}
			if len(docs.docs) != 0 {
				t.Errorf("stored %d documents, want 0", len(docs.docs))
			}
		})
	}
}

func TestDocuments_ReadAndDelete(t *testing.T) {
	docs := newMemDocs()
	docs.Save(context.Background(), types.Document{Filename: "one.txt", ExtractedText: "raw", Markdown: "# One"})
	docs.Save(context.Background(), types.Document{Filename: "two.pdf", Markdown: "# Two"})
	h := newTestServer(docs, Options{})

	rec, env := do(t, h, httptest.NewRequest(http.MethodGet, "/documents", nil))
	if rec.Code != http.StatusOK || env.Meta.Total != 2 {
		t.Fatalf("list status = %d, total = %d", rec.Code, env.Meta.Total)
	}
	var list []types.Document
	json.Unmarshal(env.Data, &list)
	if len(list) != 2 || list[0].Markdown != "" {
		t.Errorf("list = %+v", list)
	}

	rec, env = do(t, h, httptest.NewRequest(http.MethodGet, "/documents?limit=1", nil))
	if env.Meta.Total != 1 {
		t.Errorf("limited total = %d, want 1", env.Meta.Total)
	}

	rec, env = do(t, h, httptest.NewRequest(http.MethodGet, "/documents/doc-1", nil))
	var doc types.Document
	json.Unmarshal(env.Data, &doc)
	if rec.Code != http.StatusOK || doc.Markdown != "# One" || doc.ExtractedText != "raw" {
		t.Errorf("get status = %d, doc = %+v", rec.Code, doc)
	}

	rec, _ = do(t, h, httptest.NewRequest(http.MethodGet, "/documents/doc-1/markdown", nil))
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("content type = %q", ct)
	}
	if rec.Body.String() != "# One" {
		t.Errorf("markdown body = %q", rec.Body.String())
	}

	rec, _ = do(t, h, httptest.NewRequest(http.MethodDelete, "/documents/doc-1", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("delete status = %d", rec.Code)
	}
	for _, target := range []string{"/documents/doc-1", "/documents/doc-1/markdown"} {
		rec, env = do(t, h, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != "NOT_FOUND" {
			t.Errorf("%s after delete: status = %d", target, rec.Code)
		}
	}
	rec, _ = do(t, h, httptest.NewRequest(http.MethodDelete, "/documents/doc-1", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	docs := newMemDocs()
	docs.Save(context.Background(), types.Document{Filename: "a.txt", Markdown: "about quantum effects"})
	docs.Save(context.Background(), types.Document{Filename: "b.txt", Markdown: "unrelated"})
	h := newTestServer(docs, Options{})

	rec, env := do(t, h, httptest.NewRequest(http.MethodGet, "/search?q=quantum", nil))
	if rec.Code != http.StatusOK || env.Meta.Total != 1 {
		t.Fatalf("status = %d, total = %d", rec.Code, env.Meta.Total)
	}
	var results []store.SearchResult
	json.Unmarshal(env.Data, &results)
	if results[0].Filename != "a.txt" || results[0].Markdown != "" || results[0].Snippet != "quantum" {
		t.Errorf("result = %+v", results[0])
	}

	rec, env = do(t, h, httptest.NewRequest(http.MethodGet, "/search?q=", nil))
	if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != "BAD_REQUEST" {
		t.Errorf("empty query: status = %d", rec.Code)
	}

	rec, env = do(t, h, httptest.NewRequest(http.MethodGet, "/search?q=absent", nil))
	if rec.Code != http.StatusOK || string(env.Data) != "[]" {
		t.Errorf("no match: status = %d, data = %s", rec.Code, env.Data)
	}
}

func TestRequireToken(t *testing.T) {
	docs := newMemDocs()
	docs.Save(context.Background(), types.Document{Filename: "keep.txt"})
	h := newTestServer(docs, Options{Token: "s3cret"})

	tests := []struct {
		name   string
		req    func(t *testing.T) *http.Request
		header string
		want   int
	}{
		{
			name: "upload without token",
			req:  func(t *testing.T) *http.Request { return uploadRequest(t, "x.txt", "x") },
			want: http.StatusUnauthorized,
		},
		{
			name:   "upload with wrong token",
			req:    func(t *testing.T) *http.Request { return uploadRequest(t, "x.txt", "x") },
			header: "Bearer nope",
			want:   http.StatusUnauthorized,
		},
		{
			name:   "upload with token",
			req:    func(t *testing.T) *http.Request { return uploadRequest(t, "x.txt", "x") },
			header: "Bearer s3cret",
			want:   http.StatusCreated,
		},
		{
			name: "delete without token",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodDelete, "/documents/doc-1", nil)
			},
			want: http.StatusUnauthorized,
		},
		{
			name: "read without token",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodGet, "/documents/doc-1", nil)
			},
			want: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req(t)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec, _ := do(t, h, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	h := newTestServer(newMemDocs(), Options{})

	rec, _ := do(t, h, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated request ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec, _ = do(t, h, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("request ID = %q, want abc-123", got)
	}
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	srv := New(newMemDocs(), markdown.New(markdown.DefaultOptions()), Options{Logger: NewLogger("json", &buf)})

	req := httptest.NewRequest(http.MethodGet, "/documents/missing", nil)
	req.Header.Set("X-Request-ID", "req-7")
	srv.Handler().ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line %q is not JSON: %v", buf.String(), err)
	}
	if entry["msg"] != "http request" || entry["path"] != "/documents/missing" ||
		entry["status"] != float64(http.StatusNotFound) || entry["request_id"] != "req-7" {
		t.Errorf("log entry = %v", entry)
	}
}

func TestServe_Shutdown(t *testing.T) {
	srv := New(newMemDocs(), markdown.New(markdown.DefaultOptions()), Options{Logger: NewLogger("text", io.Discard)})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Serve returned %v", err)
	}
}
