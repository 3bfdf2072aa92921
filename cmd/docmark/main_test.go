// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/docmark/internal/extract"
	"github.com/pdiddy/docmark/pkg/types"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTextCommand_Stdin(t *testing.T) {
	out, err := execute(t, "- alpha\n- beta", "text")
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if want := "---\n\n* alpha\n* beta\n\n---\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestTextCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("INTRODUCTION"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "", "text", path)
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if !strings.Contains(out, "## Introduction") {
		t.Errorf("output = %q", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if out != "docmark dev\n" {
		t.Errorf("output = %q", out)
	}
}

func TestPDFBackend(t *testing.T) {
	tests := []struct {
		name    string
		backend types.ExtractBackend
		wantErr bool
	}{
		{name: "default", backend: ""},
		{name: "in-process", backend: types.BackendPDF},
		{name: "unknown", backend: "ocr", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, err := pdfBackend(types.ConversionConfig{Backend: tt.backend})
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if _, ok := ex.(extract.PDFExtractor); !ok {
				t.Errorf("extractor = %T, want extract.PDFExtractor", ex)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{in: "short.txt", n: 30, want: "short.txt"},
		{in: "exactly-ten", n: 11, want: "exactly-ten"},
		{in: "a-rather-long-file-name.pdf", n: 10, want: "a-rathe..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
