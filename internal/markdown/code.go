// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import "regexp"

var (
	indentedLine = regexp.MustCompile(`^\s{4,}\S`)
	codeKeyword  = regexp.MustCompile(`\b(?:if|for|while|def|class|function|var|let|const|import|from)\s`)
	codeOperator = regexp.MustCompile(`[=!<>:]=|[=<>;]`)
	codeBracket  = regexp.MustCompile(`[{}\[\]()]`)
)

func looksLikeCode(line string) bool {
	return codeKeyword.MatchString(line) ||
		codeOperator.MatchString(line) ||
		codeBracket.MatchString(line)
}

// codeState is the per-section state of the code-block detector.
type codeState struct {
	// open is set while a fence emitted by the detector is open.
	open bool
	// literal is set while a fence already present in the input is open.
	literal bool
	// indentedRun counts consecutive indented lines.
	indentedRun int
}

// detectCodeBlocks wraps indented, code-like ranges in ``` fences. A block
// opens on an indented line that looks like code, or on the second of two
// consecutive indented lines (the fence then goes before the first one).
// It closes before the first line that is neither indented nor code-like.
// Fences already present in the input are honored and closed at section end
// if left open.
func detectCodeBlocks(lines []string) []string {
	var st codeState
	out := make([]string, 0, len(lines)+2)

	for _, line := range lines {
		if isFence(line) {
			if st.open {
				out = append(out, fenceLine)
				st.open = false
			}
			st.literal = !st.literal
			st.indentedRun = 0
			out = append(out, line)
			continue
		}
		if st.literal {
			out = append(out, line)
			continue
		}

		indented := indentedLine.MatchString(line)
		codeLike := looksLikeCode(line)
		if indented {
			st.indentedRun++
		} else {
			st.indentedRun = 0
		}

		switch {
		case !st.open && st.indentedRun >= 2:
			prev := out[len(out)-1]
			out = append(out[:len(out)-1], fenceLine, prev)
			st.open = true
		case !st.open && indented && codeLike:
			out = append(out, fenceLine)
			st.open = true
		case st.open && !indented && !codeLike:
			out = append(out, fenceLine)
			st.open = false
		}
		out = append(out, line)
	}

	if st.open || st.literal {
		out = append(out, fenceLine)
	}
	return out
}
