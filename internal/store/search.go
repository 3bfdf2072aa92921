// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/docmark/pkg/types"
)

// ErrEmptyQuery is returned by Search for a query with no terms.
var ErrEmptyQuery = errors.New("empty search query")

// snippetRadius is the number of bytes kept on each side of a match.
const snippetRadius = 60

// SearchResult is a matching document, without its text bodies, and the
// passage around the first match.
type SearchResult struct {
	types.Document
	Snippet string `json:"snippet" yaml:"snippet"`
}

// Search returns documents whose filename or Markdown contains every term
// of query. With FTS5 the results are ranked by relevance; the LIKE
// fallback orders them newest first. A non-positive limit uses the store
// default.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	if s.fts {
		qb.WriteString(`SELECT ` + documentColumns + `
			FROM documents_fts
			JOIN documents d ON d.rowid = documents_fts.rowid
			WHERE documents_fts MATCH ?
			ORDER BY documents_fts.rank`)
		args = append(args, ftsQuery(terms))
	} else {
		qb.WriteString(`SELECT ` + documentColumns + ` FROM documents d WHERE 1=1`)
		for _, t := range terms {
			qb.WriteString(` AND (d.markdown LIKE ? ESCAPE '\' OR d.filename LIKE ? ESCAPE '\')`)
			p := likePattern(t)
			args = append(args, p, p)
		}
		qb.WriteString(` ORDER BY d.uploaded_at DESC, d.rowid DESC`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, SearchResult{
			Document: doc.Summary(),
			Snippet:  snippet(doc.Markdown, terms),
		})
	}
	return results, rows.Err()
}

// ftsQuery quotes each term as an FTS5 string so operators and punctuation
// in user input are matched literally. Adjacent strings are ANDed.
func ftsQuery(terms []string) string {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(quoted, " ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// snippet returns the text around the first case-insensitive occurrence of
// any term, with whitespace collapsed. Without a match it returns the start
// of text.
func snippet(text string, terms []string) string {
	loc := []int{0, 0}
	for _, t := range terms {
		if m := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(t)).FindStringIndex(text); m != nil {
			loc = m
			break
		}
	}

	start := max(0, loc[0]-snippetRadius)
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	end := min(len(text), loc[1]+snippetRadius)
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}

	out := strings.Join(strings.Fields(text[start:end]), " ")
	if start > 0 {
		out = "..." + out
	}
	if end < len(text) {
		out += "..."
	}
	return out
}
