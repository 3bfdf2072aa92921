// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render parses converted Markdown with goldmark. Inspect reports
// the block structure a CommonMark reader sees, and HTML renders a
// standalone page.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// ErrHTMLConversion indicates HTML rendering failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>
`

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(gmhtml.WithXHTML()),
)

// Structure counts the block and inline elements of a Markdown document.
type Structure struct {
	// Headings maps heading level to the number of headings at that level.
	Headings    map[int]int `json:"headings,omitempty" yaml:"headings,omitempty"`
	Tables      int         `json:"tables" yaml:"tables"`
	Lists       int         `json:"lists" yaml:"lists"`
	ListItems   int         `json:"list_items" yaml:"list_items"`
	CodeBlocks  int         `json:"code_blocks" yaml:"code_blocks"`
	Blockquotes int         `json:"blockquotes" yaml:"blockquotes"`
	Links       int         `json:"links" yaml:"links"`
	Rules       int         `json:"rules" yaml:"rules"`
}

// HeadingCount returns the number of headings at all levels.
func (s Structure) HeadingCount() int {
	n := 0
	for _, c := range s.Headings {
		n += c
	}
	return n
}

// Inspect parses markdown with GFM extensions and counts its elements.
func Inspect(markdown string) Structure {
	src := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(src))

	s := Structure{Headings: map[int]int{}}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			s.Headings[node.Level]++
		case *extast.Table:
			s.Tables++
		case *ast.List:
			s.Lists++
		case *ast.ListItem:
			s.ListItems++
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			s.CodeBlocks++
		case *ast.Blockquote:
			s.Blockquotes++
		case *ast.Link, *ast.AutoLink:
			s.Links++
		case *ast.ThematicBreak:
			s.Rules++
		}
		return ast.WalkContinue, nil
	})
	if len(s.Headings) == 0 {
		s.Headings = nil
	}
	return s
}

// HTML renders markdown as a standalone HTML5 page titled title. Raw HTML
// in the input is escaped. goldmark has no context support, so rendering
// runs in a goroutine and ctx only bounds the wait.
func HTML(ctx context.Context, markdown, title string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := md.Convert([]byte(markdown), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: fmt.Sprintf(pageTemplate, html.EscapeString(title), buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
