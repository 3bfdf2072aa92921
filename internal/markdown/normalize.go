// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"regexp"
	"strings"
	"unicode"
)

var lineBreaks = regexp.MustCompile(`\r\n?`)

// normalizeWhitespace converts line endings to \n, expands tabs, and
// collapses interior whitespace runs to two spaces. Leading indentation is
// kept verbatim because later passes read structure from it.
func normalizeWhitespace(text string, tabWidth int) string {
	text = lineBreaks.ReplaceAllString(text, "\n")
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth))

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = collapseInterior(line)
	}
	return strings.Join(lines, "\n")
}

func collapseInterior(line string) string {
	body := strings.TrimLeftFunc(line, unicode.IsSpace)
	indent := line[:len(line)-len(body)]
	body = strings.TrimRightFunc(body, unicode.IsSpace)
	if body == "" {
		return ""
	}

	var (
		b   strings.Builder
		gap []rune
	)
	b.WriteString(indent)
	for _, r := range body {
		if unicode.IsSpace(r) {
			gap = append(gap, r)
			continue
		}
		switch {
		case len(gap) == 1:
			b.WriteRune(gap[0])
		case len(gap) > 1:
			b.WriteString("  ")
		}
		gap = gap[:0]
		b.WriteRune(r)
	}
	return b.String()
}

// splitSections partitions text on blank lines. Runs of blank lines act as
// a single separator; each section is trimmed and empty ones are dropped.
func splitSections(text string) []string {
	var (
		sections []string
		current  []string
	)
	flush := func() {
		if s := strings.TrimSpace(strings.Join(current, "\n")); s != "" {
			sections = append(sections, s)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		if isBlank(line) {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return sections
}
