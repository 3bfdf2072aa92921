// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"regexp"
	"strings"
)

var (
	bulletItem      = regexp.MustCompile(`^(\s*)([•●○∙◦*\-]|\(\s*[a-z\d]\s*\)|\[\s*[a-z\d]\s*\])\s+(.+)$`)
	numberedItem    = regexp.MustCompile(`^(\s*)(\d+|[a-z])[.)]\s+(.+)$`)
	bracketedMarker = regexp.MustCompile(`^\s*\[`)
	numericMarker   = regexp.MustCompile(`^\d+$`)
)

// listItem is a recognized bullet or numbered line.
type listItem struct {
	indent  string
	marker  string
	content string
	ordered bool
}

func matchListItem(line string) (listItem, bool) {
	if m := bulletItem.FindStringSubmatch(line); m != nil {
		return listItem{indent: m[1], marker: m[2], content: m[3]}, true
	}
	if m := numberedItem.FindStringSubmatch(line); m != nil {
		return listItem{indent: m[1], marker: m[2], content: m[3], ordered: true}, true
	}
	return listItem{}, false
}

// listState is the per-section state of the list formatter.
type listState struct {
	active bool
	// indent is the indentation of the most recent list item.
	indent int
	// afterReferences is set once a references heading has been seen, so
	// bracketed reference markers are left to the reference detector.
	afterReferences bool
}

// formatLists normalizes bullet and numbered items to Markdown markers and
// re-indents wrapped continuation lines under the current item.
func (c *Converter) formatLists(lines []string) []string {
	var (
		st     listState
		fences fenceState
	)
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		if fences.step(line) {
			st.active = false
			out = append(out, line)
			continue
		}
		if referencesHeading.MatchString(strings.TrimSpace(line)) {
			st.afterReferences = true
		}

		w := window{lines: lines, i: i}
		cur := w.cur()

		item, ok := matchListItem(line)
		if ok && st.afterReferences && bracketedMarker.MatchString(line) {
			ok = false
		}
		if ok {
			indent := ""
			if st.active {
				indent = item.indent
			}
			out = append(out, indent+c.listMarker(item)+" "+item.content)
			st.active = true
			st.indent = cur.Indent
			continue
		}

		switch {
		case cur.IsBlank():
			st.active = false
			out = append(out, line)
		case st.active && cur.Indent > st.indent && !w.first() && !w.prevBlank():
			out = append(out, strings.Repeat(" ", st.indent+2)+cur.Text())
		default:
			if cur.Indent < st.indent || w.prevBlank() {
				st.active = false
			}
			out = append(out, line)
		}
	}
	return out
}

// listMarker returns the Markdown marker for item. Ordered items collapse
// to "1." unless numeric markers are preserved; lettered markers always
// collapse because CommonMark has no lettered lists.
func (c *Converter) listMarker(item listItem) string {
	if !item.ordered {
		return "*"
	}
	if c.opts.PreserveListNumbers && numericMarker.MatchString(item.marker) {
		return item.marker + "."
	}
	return "1."
}
