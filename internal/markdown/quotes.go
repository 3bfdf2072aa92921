// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"regexp"
	"unicode/utf8"
)

const minQuoteLen = 20

var (
	quoteOpener = regexp.MustCompile(`^\s*["'“”‘’«»]`)
	// claimedLine matches output of the earlier passes: headings, list
	// items and table rows.
	claimedLine = regexp.MustCompile(`^(?:#{1,6}\s|[*]\s|\d+[.)]\s|\|)`)
)

// quoteState is the per-section state of the blockquote detector.
type quoteState struct {
	active bool
	indent int
}

// opensQuote reports whether the current line starts a quotation: it
// begins with a quote mark, or it is a long indented line set off by a
// blank line inside the section.
func (w window) opensQuote() bool {
	cur := w.cur()
	if quoteOpener.MatchString(cur.Content) {
		return true
	}
	return cur.Indent > 0 &&
		!w.first() && !w.last() &&
		w.prevBlank() &&
		utf8.RuneCountInString(cur.Text()) > minQuoteLen
}

// detectBlockquotes prefixes quoted runs with "> ". A quote continues over
// non-blank lines indented at least as far as its first line.
func detectBlockquotes(lines []string) []string {
	var (
		st     quoteState
		fences fenceState
	)
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		w := window{lines: lines, i: i}
		cur := w.cur()

		if fences.step(line) || claimedLine.MatchString(cur.Text()) {
			st.active = false
			out = append(out, line)
			continue
		}

		if w.opensQuote() {
			if !st.active {
				st.active = true
				st.indent = cur.Indent
			}
			out = append(out, "> "+cur.Text())
			continue
		}

		if st.active && !cur.IsBlank() && cur.Indent >= st.indent {
			out = append(out, "> "+cur.Text())
			continue
		}

		st.active = false
		out = append(out, line)
	}
	return out
}
