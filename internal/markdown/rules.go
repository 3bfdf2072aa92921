// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"strings"
	"unicode"
)

// ruleRunes are the characters accepted in a horizontal-rule line,
// including the box-drawing and dash glyphs PDF extraction produces.
const ruleRunes = "-_*─━═—–"

const minRuleRunes = 3

func isRuleLine(line string) bool {
	n := 0
	for _, r := range line {
		switch {
		case strings.ContainsRune(ruleRunes, r):
			n++
		case unicode.IsSpace(r):
		default:
			return false
		}
	}
	return n >= minRuleRunes
}

// followsParagraph reports whether a rule placed after prev needs a blank
// line to keep prev from becoming a setext heading.
func followsParagraph(prev string) bool {
	return !isBlank(prev) && prev != ruleLine && !headingLine.MatchString(prev)
}

// insertRules canonicalizes rule-like lines to "---" and puts a rule
// before every heading that does not directly follow another heading.
// When the previous line is paragraph text a blank line is added first,
// so the rule cannot turn that text into a setext heading.
func insertRules(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	var (
		fences      fenceState
		prevHeading bool
	)
	for i, line := range lines {
		if fences.step(line) {
			out = append(out, line)
			prevHeading = false
			continue
		}
		if isRuleLine(line) {
			if n := len(out); n > 0 && followsParagraph(out[n-1]) {
				out = append(out, "")
			}
			out = append(out, ruleLine)
			prevHeading = false
			continue
		}

		heading := headingLine.MatchString(line)
		if heading && i > 0 && !prevHeading && out[len(out)-1] != ruleLine {
			if followsParagraph(out[len(out)-1]) {
				out = append(out, "")
			}
			out = append(out, ruleLine)
		}
		out = append(out, line)
		prevHeading = heading
	}
	return strings.Join(out, "\n")
}
