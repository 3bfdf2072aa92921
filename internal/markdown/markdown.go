// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markdown reconstructs Markdown structure from plain text that
// carries no formatting metadata, such as the text layer of a PDF.
//
// Conversion normalizes whitespace, splits the text into blank-line
// delimited sections, and runs every section through a fixed chain of
// line recognizers: code blocks, headers, lists, tables, block quotes,
// inline emphasis, then links and references. The rejoined document gets
// horizontal rules before major headings and is wrapped in rule lines.
//
// Every recognizer is total. Input it does not recognize passes through
// unchanged, so Convert never fails. Recognizer state lives in values
// created per section scan; a Converter is safe for concurrent use.
package markdown

import "strings"

const (
	ruleLine  = "---"
	fenceLine = "```"
)

// defaultHeaderKeywords are the bare words promoted to level-2 headings.
var defaultHeaderKeywords = []string{
	"introduction", "conclusion", "abstract", "summary", "references", "bibliography",
}

// Options tunes the conversion heuristics.
type Options struct {
	// TabWidth is the number of spaces that replace a tab (default 4).
	TabWidth int

	// HeaderKeywords lists the words recognized as bare section headings,
	// matched case-insensitively.
	HeaderKeywords []string

	// PreserveListNumbers keeps numeric ordered-list markers as they appear
	// in the source instead of collapsing every item to "1.".
	PreserveListNumbers bool
}

// DefaultOptions returns the options used by Convert.
func DefaultOptions() Options {
	return Options{
		TabWidth:       4,
		HeaderKeywords: append([]string(nil), defaultHeaderKeywords...),
	}
}

// stage is one recognizer in the per-section chain.
type stage struct {
	name  string
	apply func(lines []string) []string
}

// Converter runs the plain-text to Markdown pipeline.
type Converter struct {
	opts    Options
	headers []headerRule
	stages  []stage
}

// New creates a Converter. Zero-valued options fall back to defaults.
func New(opts Options) *Converter {
	if opts.TabWidth <= 0 {
		opts.TabWidth = 4
	}
	if len(opts.HeaderKeywords) == 0 {
		opts.HeaderKeywords = defaultHeaderKeywords
	}

	c := &Converter{
		opts:    opts,
		headers: headerRules(opts.HeaderKeywords),
	}
	// Order matters: fenced ranges must exist before structural passes, and
	// quotes must see list and table lines already claimed.
	c.stages = []stage{
		{name: "code", apply: detectCodeBlocks},
		{name: "headers", apply: c.classifyHeaders},
		{name: "lists", apply: c.formatLists},
		{name: "tables", apply: detectTables},
		{name: "quotes", apply: detectBlockquotes},
		{name: "emphasis", apply: formatEmphasis},
		{name: "links", apply: detectLinks},
	}
	return c
}

var defaultConverter = New(DefaultOptions())

// Convert turns plain text into Markdown using DefaultOptions.
func Convert(text string) string {
	return defaultConverter.Convert(text)
}

// Options returns the effective options of c.
func (c *Converter) Options() Options {
	return c.opts
}

// Stages returns the names of the section recognizers in execution order.
func (c *Converter) Stages() []string {
	names := make([]string, len(c.stages))
	for i, s := range c.stages {
		names[i] = s.name
	}
	return names
}

// Convert turns plain text into a Markdown document. The result always
// starts and ends with a "---" rule line, even for empty input.
func (c *Converter) Convert(text string) string {
	normalized := normalizeWhitespace(text, c.opts.TabWidth)

	sections := splitSections(normalized)
	converted := make([]string, 0, len(sections))
	for _, section := range sections {
		lines := c.ConvertSection(strings.Split(section, "\n"))
		converted = append(converted, strings.Join(lines, "\n"))
	}

	body := insertRules(strings.Join(converted, "\n\n"))
	return ruleLine + "\n\n" + body + "\n\n" + ruleLine
}

// ConvertSection runs the recognizer chain over the lines of one section
// and returns the transformed lines. The input slice is not modified.
func (c *Converter) ConvertSection(lines []string) []string {
	out := append([]string(nil), lines...)
	for _, s := range c.stages {
		out = s.apply(out)
	}
	return out
}
