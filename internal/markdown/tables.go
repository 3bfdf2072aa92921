// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"regexp"
	"strings"
)

var (
	tableRow = regexp.MustCompile(`\S+(?:\s{2,}|\t+)\S+(?:\s{2,}|\t+)\S+`)
	cellGap  = regexp.MustCompile(`\s{2,}|\t+`)
)

// minTableRows is the smallest buffer converted to a table; a single
// row-like line is not enough evidence.
const minTableRows = 2

// tableState is the per-section state of the table detector.
type tableState struct {
	rows []string
}

// detectTables converts runs of row-like lines (three or more tokens
// separated by wide gaps) into Markdown tables.
func detectTables(lines []string) []string {
	var (
		st     tableState
		fences fenceState
	)
	out := make([]string, 0, len(lines)+1)

	flush := func() {
		if len(st.rows) >= minTableRows {
			out = append(out, renderTable(st.rows)...)
		} else {
			out = append(out, st.rows...)
		}
		st.rows = nil
	}

	for _, line := range lines {
		if !fences.step(line) && tableRow.MatchString(line) {
			st.rows = append(st.rows, line)
			continue
		}
		flush()
		out = append(out, line)
	}
	flush()
	return out
}

func splitCells(row string) []string {
	var cells []string
	for _, c := range cellGap.Split(strings.TrimSpace(row), -1) {
		if c = strings.TrimSpace(c); c != "" {
			cells = append(cells, strings.ReplaceAll(c, "|", `\|`))
		}
	}
	return cells
}

// renderTable emits a header row, a separator, and the data rows. Short
// rows are padded with empty cells to the widest row.
func renderTable(rows []string) []string {
	cells := make([][]string, len(rows))
	width := 0
	for i, r := range rows {
		cells[i] = splitCells(r)
		width = max(width, len(cells[i]))
	}

	sep := make([]string, width)
	for i := range sep {
		sep[i] = "---"
	}

	out := make([]string, 0, len(rows)+1)
	for i, row := range cells {
		for len(row) < width {
			row = append(row, "")
		}
		out = append(out, "| "+strings.Join(row, " | ")+" |")
		if i == 0 {
			out = append(out, "| "+strings.Join(sep, " | ")+" |")
		}
	}
	return out
}
