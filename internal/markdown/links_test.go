// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkURLs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare url", "See https://example.com/docs for more.", "See [https://example.com/docs](https://example.com/docs) for more."},
		{"parenthesized", "(https://example.com)", "([https://example.com](https://example.com))"},
		{"sentence period", "Visit https://example.com.", "Visit [https://example.com](https://example.com)."},
		{"plain text", "no links here", "no links here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, linkURLs(tt.in))
		})
	}
}

func TestDetectLinks(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name:  "references section",
			lines: []string{"References", "[1] Smith, J. (2020).", "[2] Doe"},
			want:  []string{"## References", "1. Smith, J. (2020).", "2. Doe"},
		},
		{
			name:  "bibliography with letters",
			lines: []string{"BIBLIOGRAPHY", "[a] Knuth"},
			want:  []string{"## Bibliography", "a. Knuth"},
		},
		{
			name:  "existing heading opens references",
			lines: []string{"## References", "[1] Smith"},
			want:  []string{"## References", "1. Smith"},
		},
		{
			name:  "entry without heading",
			lines: []string{"[1] Smith"},
			want:  []string{"[1] Smith"},
		},
		{
			name:  "url inside code span",
			lines: []string{"run `curl https://x.io` now"},
			want:  []string{"run `curl https://x.io` now"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectLinks(tt.lines))
		})
	}
}
