// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"regexp"
	"strings"
)

// inlineRule is a text substitution applied outside code spans. Rules run
// in table order.
type inlineRule struct {
	name    string
	pattern *regexp.Regexp
	replace string
	// skipHeadings leaves heading lines untouched.
	skipHeadings bool
}

var inlineRules = []inlineRule{
	{
		name:    "term",
		pattern: regexp.MustCompile(`(^|[^\w*])(Definition|Theorem|Lemma|Proof|Example|Note|Remark|Corollary|Proposition)(\s*\d*\s*):`),
		replace: "${1}**${2}${3}:**",
	},
	{
		name:    "quote",
		pattern: regexp.MustCompile(`"([^"]{3,50})"`),
		replace: `*"${1}"*`,
	},
	{
		name:         "caps",
		pattern:      regexp.MustCompile(`\b[A-Z][A-Z0-9]+(?:[ ]+[A-Z][A-Z0-9]+){2,}\b`),
		replace:      "**${0}**",
		skipHeadings: true,
	},
}

var headingLine = regexp.MustCompile(`^#{1,6}\s`)

// outsideCode applies fn to the parts of line that are not inside backtick
// code spans. An unmatched trailing backtick opens no span.
func outsideCode(line string, fn func(string) string) string {
	parts := strings.Split(line, "`")
	unbalanced := len(parts)%2 == 0
	for i := range parts {
		if i%2 == 0 || (unbalanced && i == len(parts)-1) {
			parts[i] = fn(parts[i])
		}
	}
	return strings.Join(parts, "`")
}

// formatEmphasis bolds structural terms and upper-case runs and italicizes
// short quoted phrases.
func formatEmphasis(lines []string) []string {
	var fences fenceState
	out := make([]string, len(lines))

	for i, line := range lines {
		out[i] = line
		if fences.step(line) {
			continue
		}
		heading := headingLine.MatchString(line)
		for _, r := range inlineRules {
			if r.skipHeadings && heading {
				continue
			}
			out[i] = outsideCode(out[i], func(s string) string {
				return r.pattern.ReplaceAllString(s, r.replace)
			})
		}
	}
	return out
}
