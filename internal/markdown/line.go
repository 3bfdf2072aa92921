// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Line is one line of a section with its layout attributes.
type Line struct {
	// Content is the full line, indentation included.
	Content string

	// Indent is the number of leading whitespace characters.
	Indent int
}

func parseLine(s string) Line {
	text := strings.TrimLeftFunc(s, unicode.IsSpace)
	return Line{
		Content: s,
		Indent:  utf8.RuneCountInString(s[:len(s)-len(text)]),
	}
}

// IsBlank reports whether the line holds only whitespace.
func (l Line) IsBlank() bool {
	return strings.TrimSpace(l.Content) == ""
}

// Text returns the content without its leading indentation.
func (l Line) Text() string {
	return strings.TrimLeftFunc(l.Content, unicode.IsSpace)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// window is a position in a section scan with one line of lookback and
// one line of lookahead.
type window struct {
	lines []string
	i     int
}

func (w window) cur() Line { return parseLine(w.lines[w.i]) }

func (w window) first() bool { return w.i == 0 }

func (w window) last() bool { return w.i == len(w.lines)-1 }

func (w window) prev() (Line, bool) {
	if w.i == 0 {
		return Line{}, false
	}
	return parseLine(w.lines[w.i-1]), true
}

func (w window) next() (Line, bool) {
	if w.i+1 >= len(w.lines) {
		return Line{}, false
	}
	return parseLine(w.lines[w.i+1]), true
}

// prevBlank reports whether a previous line exists and is blank.
func (w window) prevBlank() bool {
	p, ok := w.prev()
	return ok && p.IsBlank()
}

func isFence(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), fenceLine)
}

// fenceState tracks whether a scan is inside a fenced code block. Passes
// after code detection leave fenced lines alone.
type fenceState struct {
	open bool
}

// step reports whether line is a fence marker or lies inside a fence.
func (f *fenceState) step(line string) bool {
	if isFence(line) {
		f.open = !f.open
		return true
	}
	return f.open
}
