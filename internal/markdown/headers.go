// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	maxCandidateLen = 100
	maxFallbackLen  = 60
	shortHeadingLen = 30
)

// headerRule maps a structural pattern to a Markdown heading. Rules are
// evaluated in order and the first match wins.
type headerRule struct {
	name    string
	pattern *regexp.Regexp
	render  func(m []string) string
}

// headerRules builds the ordered header table for the given keyword set.
// The keyword rules precede the all-caps rule, so "INTRODUCTION" renders
// as "## Introduction" rather than "## INTRODUCTION".
func headerRules(keywords []string) []headerRule {
	quoted := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			quoted = append(quoted, regexp.QuoteMeta(k))
		}
	}
	kw := strings.Join(quoted, "|")

	rules := []headerRule{
		{
			name:    "chapter",
			pattern: regexp.MustCompile(`(?i)^chapter\s+(\d+)(?:[:.]\s*|\s+)(.+)$`),
			render:  func(m []string) string { return "## Chapter " + m[1] + ": " + m[2] },
		},
		{
			name:    "section",
			pattern: regexp.MustCompile(`(?i)^section\s+(\d+(?:\.\d+)*)(?:[:.]\s*|\s+)(.+)$`),
			render:  func(m []string) string { return "### " + m[1] + " " + m[2] },
		},
		{
			name:    "appendix",
			pattern: regexp.MustCompile(`(?i)^appendix\s+([a-z])(?:[:.]\s*|\s+)(.+)$`),
			render:  func(m []string) string { return "### Appendix " + strings.ToUpper(m[1]) + ": " + m[2] },
		},
	}
	if kw != "" {
		rules = append(rules,
			headerRule{
				name:    "keyword",
				pattern: regexp.MustCompile(`(?i)^(` + kw + `)[:.]?\s*$`),
				render:  func(m []string) string { return "## " + capitalize(m[1]) },
			},
			headerRule{
				name:    "keyword-text",
				pattern: regexp.MustCompile(`(?i)^(` + kw + `)(?:[:.]\s*|\s+)(.+)$`),
				render:  func(m []string) string { return "## " + capitalize(m[1]) + ": " + m[2] },
			},
		)
	}
	return append(rules,
		headerRule{
			name:    "outline",
			pattern: regexp.MustCompile(`^(\d+(?:\.\d+)*)\s+([A-Z][^.]+)$`),
			render: func(m []string) string {
				level := min(len(strings.Split(m[1], ".")), 6)
				return strings.Repeat("#", level) + " " + m[2]
			},
		},
		headerRule{
			name:    "all-caps",
			pattern: regexp.MustCompile(`^([A-Z][A-Z\s]+[A-Z])$`),
			render:  func(m []string) string { return "## " + m[1] },
		},
		headerRule{
			name:    "colon",
			pattern: regexp.MustCompile(`^([A-Z][^.:\n]{3,50}):$`),
			render:  func(m []string) string { return "### " + m[1] },
		},
	)
}

var fallbackHeading = regexp.MustCompile(`^[A-Z].*[^.!?:]$`)

// capitalize upper-cases the first letter and lower-cases the rest.
// A Caser is not safe for concurrent use, so one is made per call.
func capitalize(s string) string {
	return cases.Title(language.Und).String(strings.ToLower(s))
}

// headerCandidate reports whether the current line is isolated enough to
// be a heading: short, at the section start or after a blank line, and at
// the section end or before a blank or indented line.
func (w window) headerCandidate() bool {
	line := strings.TrimRightFunc(w.lines[w.i], unicode.IsSpace)
	if utf8.RuneCountInString(line) >= maxCandidateLen {
		return false
	}
	if !w.first() && !w.prevBlank() {
		return false
	}
	next, ok := w.next()
	return !ok || next.IsBlank() || next.Indent >= 2
}

// classifyHeaders converts isolated short lines into Markdown headings.
func (c *Converter) classifyHeaders(lines []string) []string {
	var fences fenceState
	out := make([]string, len(lines))

	for i, raw := range lines {
		line := strings.TrimRightFunc(raw, unicode.IsSpace)
		out[i] = line
		if fences.step(raw) || line == "" {
			continue
		}
		w := window{lines: lines, i: i}
		if !w.headerCandidate() {
			continue
		}
		if heading, ok := c.matchHeader(line, w.first()); ok {
			out[i] = heading
		}
	}
	return out
}

// matchHeader applies the header table, then the fallback for short
// capitalized lines without terminal punctuation.
func (c *Converter) matchHeader(line string, first bool) (string, bool) {
	for _, r := range c.headers {
		if m := r.pattern.FindStringSubmatch(line); m != nil {
			return r.render(m), true
		}
	}

	n := utf8.RuneCountInString(line)
	if n < maxFallbackLen && fallbackHeading.MatchString(line) {
		if first || n < shortHeadingLen {
			return "## " + line, true
		}
		return "### " + line, true
	}
	return line, false
}
