// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectTables(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name:  "two rows",
			lines: []string{"Name  Age  City", "Alice  30  Paris"},
			want:  []string{"| Name | Age | City |", "| --- | --- | --- |", "| Alice | 30 | Paris |"},
		},
		{
			name:  "ragged rows padded",
			lines: []string{"A  B  C", "1  2  3  4", "x  y  z"},
			want: []string{
				"| A | B | C |  |",
				"| --- | --- | --- | --- |",
				"| 1 | 2 | 3 | 4 |",
				"| x | y | z |  |",
			},
		},
		{
			name:  "pipes escaped",
			lines: []string{"a|b  c  d", "1  2  3"},
			want:  []string{`| a\|b | c | d |`, "| --- | --- | --- |", "| 1 | 2 | 3 |"},
		},
		{
			name:  "single row left alone",
			lines: []string{"intro", "A  B  C", "outro"},
			want:  []string{"intro", "A  B  C", "outro"},
		},
		{
			name:  "fenced rows left alone",
			lines: []string{"```", "A  B  C", "D  E  F", "```"},
			want:  []string{"```", "A  B  C", "D  E  F", "```"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectTables(tt.lines))
		})
	}
}
