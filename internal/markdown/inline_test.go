// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatEmphasis(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"numbered term", "Theorem 1: Every bounded sequence", "**Theorem 1:** Every bounded sequence"},
		{"bare term", "Note: first", "**Note:** first"},
		{"already bold", "**Note:** done", "**Note:** done"},
		{"short quotation", `He said "hello there" twice`, `He said *"hello there"* twice`},
		{"caps run", "the NATIONAL SCIENCE FOUNDATION funds", "the **NATIONAL SCIENCE FOUNDATION** funds"},
		{"caps run in heading", "## NATIONAL SCIENCE FOUNDATION", "## NATIONAL SCIENCE FOUNDATION"},
		{"two caps words", "USA TODAY ok", "USA TODAY ok"},
		{"code span", "use `Note:` here", "use `Note:` here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, []string{tt.want}, formatEmphasis([]string{tt.line}))
		})
	}
}

func TestFormatEmphasis_SkipsFences(t *testing.T) {
	in := []string{"```", "Note: raw", "```"}
	assert.Equal(t, in, formatEmphasis(in))
}

func TestOutsideCode(t *testing.T) {
	upper := strings.ToUpper
	assert.Equal(t, "A `b` C", outsideCode("a `b` c", upper))
	assert.Equal(t, "A `B", outsideCode("a `b", upper))
}
