// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docmark/internal/markdown"
)

const sample = `# A

## B

## C

| a | b |
| --- | --- |
| 1 | 2 |

* x
* y

` + "```\ncode\n```" + `

> quoted

[link](https://example.com)

---
`

func TestInspect(t *testing.T) {
	s := Inspect(sample)

	assert.Equal(t, map[int]int{1: 1, 2: 2}, s.Headings)
	assert.Equal(t, 3, s.HeadingCount())
	assert.Equal(t, 1, s.Tables)
	assert.Equal(t, 1, s.Lists)
	assert.Equal(t, 2, s.ListItems)
	assert.Equal(t, 1, s.CodeBlocks)
	assert.Equal(t, 1, s.Blockquotes)
	assert.Equal(t, 1, s.Links)
	assert.Equal(t, 1, s.Rules)
}

func TestInspect_Empty(t *testing.T) {
	s := Inspect("")
	assert.Nil(t, s.Headings)
	assert.Equal(t, Structure{}, s)
}

func TestInspect_ConvertedDocument(t *testing.T) {
	out := markdown.Convert("Name      Age      City\nAlice     30       Paris")
	s := Inspect(out)

	assert.Equal(t, 1, s.Tables)
	assert.Equal(t, 2, s.Rules, "wrapper rules parse as thematic breaks")
	assert.Zero(t, s.HeadingCount())
}

func TestHTML(t *testing.T) {
	page, err := HTML(context.Background(), "## Title\n\nSome <b>text</b>.\n\n| a | b |\n| --- | --- |\n| 1 | 2 |", "Q&A")
	require.NoError(t, err)

	assert.Contains(t, page, "<!DOCTYPE html>")
	assert.Contains(t, page, "<title>Q&amp;A</title>")
	assert.Contains(t, page, `<h2 id="title">Title</h2>`)
	assert.Contains(t, page, "<table>")
	assert.NotContains(t, page, "<b>text</b>")
}

func TestHTML_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := HTML(ctx, "# x", "x")
	assert.ErrorIs(t, err, context.Canceled)
}
