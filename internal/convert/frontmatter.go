// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docmark/internal/render"
)

// Frontmatter is the YAML header written at the top of every converted
// Markdown file.
type Frontmatter struct {
	DocumentID  string           `yaml:"document_id"`
	Source      string           `yaml:"source"`
	SourceHash  string           `yaml:"source_hash"`
	ConvertedAt string           `yaml:"converted_at"`
	PageCount   int              `yaml:"page_count"`
	HasImages   bool             `yaml:"has_images"`
	HasTables   bool             `yaml:"has_tables"`
	Structure   render.Structure `yaml:"structure"`
}

var (
	fmOpen  = []byte("---\n")
	fmClose = []byte("\n---\n")
)

var errNoFrontmatter = errors.New("no frontmatter")

func withFrontmatter(fm Frontmatter, body string) ([]byte, error) {
	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}
	var b bytes.Buffer
	b.Write(fmOpen)
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	return b.Bytes(), nil
}

// splitFrontmatter separates the YAML header from the body of a converted
// file.
func splitFrontmatter(data []byte) (header, body []byte, err error) {
	if !bytes.HasPrefix(data, fmOpen) {
		return nil, nil, errNoFrontmatter
	}
	rest := data[len(fmOpen):]
	end := bytes.Index(rest, fmClose)
	if end < 0 {
		return nil, nil, errNoFrontmatter
	}
	return rest[:end+1], bytes.TrimPrefix(rest[end+len(fmClose):], []byte("\n")), nil
}

// ReadFrontmatter parses the frontmatter of the converted file at path.
func ReadFrontmatter(path string) (Frontmatter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Frontmatter{}, err
	}
	header, _, err := splitFrontmatter(data)
	if err != nil {
		return Frontmatter{}, fmt.Errorf("%s: %w", path, err)
	}
	var fm Frontmatter
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return Frontmatter{}, fmt.Errorf("parsing frontmatter of %s: %w", path, err)
	}
	return fm, nil
}

// ReadBody returns the converted Markdown of the file at path without its
// frontmatter.
func ReadBody(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	_, body, err := splitFrontmatter(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return string(bytes.TrimSuffix(body, []byte("\n"))), nil
}
