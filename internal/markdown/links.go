// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"regexp"
	"strings"
)

var (
	bareURL           = regexp.MustCompile(`https?://[^\s)]+`)
	referencesHeading = regexp.MustCompile(`(?i)^(?:#{1,6}\s+)?(references|bibliography):?$`)
	referenceEntry    = regexp.MustCompile(`^\s*\[(\d+|[a-z])\]\s*(.+)$`)
)

// urlTrailer is punctuation that ends a sentence or closes emphasis rather
// than belonging to the URL.
const urlTrailer = `.,;:!?"'*`

func linkURLs(s string) string {
	return bareURL.ReplaceAllStringFunc(s, func(u string) string {
		trimmed := strings.TrimRight(u, urlTrailer)
		if !strings.Contains(trimmed, "://") || strings.HasSuffix(trimmed, "://") {
			return u
		}
		return "[" + trimmed + "](" + trimmed + ")" + u[len(trimmed):]
	})
}

// referenceState is the per-section state of the reference detector.
type referenceState struct {
	open bool
}

// detectLinks turns bare URLs into Markdown links and, after a References
// or Bibliography heading, renders "[N] text" entries as "N. text". The
// references state lasts until the end of the section.
func detectLinks(lines []string) []string {
	var (
		st     referenceState
		fences fenceState
	)
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		if fences.step(line) {
			out = append(out, line)
			continue
		}
		line = outsideCode(line, linkURLs)

		trimmed := strings.TrimSpace(line)
		if m := referencesHeading.FindStringSubmatch(trimmed); m != nil {
			st.open = true
			if !strings.HasPrefix(trimmed, "#") {
				line = "## " + capitalize(m[1])
			}
			out = append(out, line)
			continue
		}

		if st.open {
			if m := referenceEntry.FindStringSubmatch(line); m != nil {
				out = append(out, m[1]+". "+strings.TrimSpace(m[2]))
				continue
			}
		}
		out = append(out, line)
	}
	return out
}
