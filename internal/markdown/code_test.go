// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectCodeBlocks(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name:  "indented code-like run",
			lines: []string{"Example code", "    x = 1", "    y = 2", "Done here."},
			want:  []string{"Example code", "```", "    x = 1", "    y = 2", "```", "Done here."},
		},
		{
			name:  "two indented lines open before the first",
			lines: []string{"Lines follow", "    alpha beta", "    gamma delta", "end"},
			want:  []string{"Lines follow", "```", "    alpha beta", "    gamma delta", "```", "end"},
		},
		{
			name:  "code-like second line still opens before the first",
			lines: []string{"Intro text", "    alpha beta", "    x = 1", "Done."},
			want:  []string{"Intro text", "```", "    alpha beta", "    x = 1", "```", "Done."},
		},
		{
			name:  "unclosed block closed at section end",
			lines: []string{"Setup", "    let a = 1"},
			want:  []string{"Setup", "```", "    let a = 1", "```"},
		},
		{
			name:  "single indented prose line",
			lines: []string{"Prose", "    just indented", "more prose"},
			want:  []string{"Prose", "    just indented", "more prose"},
		},
		{
			name:  "code-like unindented line continues block",
			lines: []string{"Intro", "    x = compute(y)", "result(x) printed", "The end"},
			want:  []string{"Intro", "```", "    x = compute(y)", "result(x) printed", "```", "The end"},
		},
		{
			name:  "literal fence honored",
			lines: []string{"```", "    a  b", "```"},
			want:  []string{"```", "    a  b", "```"},
		},
		{
			name:  "stray literal fence closed",
			lines: []string{"intro", "```", "code"},
			want:  []string{"intro", "```", "code", "```"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectCodeBlocks(tt.lines))
		})
	}
}

func TestLooksLikeCode(t *testing.T) {
	assert.True(t, looksLikeCode("if x > 1"))
	assert.True(t, looksLikeCode("a == b"))
	assert.True(t, looksLikeCode("call(x)"))
	assert.False(t, looksLikeCode("Note: nothing here"))
	assert.False(t, looksLikeCode("the fortress stands"))
}
