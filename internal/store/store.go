// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists converted documents in SQLite and indexes their
// Markdown for full-text search. FTS5 is used when the driver was built
// with it (-tags sqlite_fts5); otherwise search falls back to LIKE scans.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/docmark/pkg/types"
)

const dbFile = "docmark.db"

// timeLayout is fixed width so uploaded_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrNotFound is returned when no document has the requested ID.
var ErrNotFound = errors.New("document not found")

// Store manages the document SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
	fts        bool
}

// Open opens or creates the database at cfg.Dir/docmark.db and creates the
// schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		dir:        cfg.Dir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// FullText reports whether searches use the FTS5 index.
func (s *Store) FullText() bool {
	return s.fts
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			filename TEXT NOT NULL,
			source_path TEXT,
			source_hash TEXT,
			extracted_text TEXT,
			markdown TEXT,
			page_count INTEGER,
			has_images INTEGER,
			has_tables INTEGER,
			status TEXT,
			uploaded_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_uploaded ON documents(uploaded_at)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_hash ON documents(source_hash)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='documents_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		// A database created with FTS5 can be opened by a build without it.
		if _, err := s.db.Exec(`SELECT rowid FROM documents_fts LIMIT 0`); err != nil {
			if missingModule(err) {
				return nil
			}
			return fmt.Errorf("checking FTS table: %w", err)
		}
		s.fts = true
		return nil
	}

	if _, err := s.db.Exec(
		`CREATE VIRTUAL TABLE documents_fts USING fts5(filename, markdown, content=documents, content_rowid=rowid)`,
	); err != nil {
		if missingModule(err) {
			return nil
		}
		return fmt.Errorf("creating FTS table: %w", err)
	}

	triggers := []string{
		`CREATE TRIGGER documents_ai AFTER INSERT ON documents BEGIN
			INSERT INTO documents_fts(rowid, filename, markdown) VALUES (new.rowid, new.filename, new.markdown);
		END`,
		`CREATE TRIGGER documents_ad AFTER DELETE ON documents BEGIN
			INSERT INTO documents_fts(documents_fts, rowid, filename, markdown) VALUES('delete', old.rowid, old.filename, old.markdown);
		END`,
		`CREATE TRIGGER documents_au AFTER UPDATE ON documents BEGIN
			INSERT INTO documents_fts(documents_fts, rowid, filename, markdown) VALUES('delete', old.rowid, old.filename, old.markdown);
			INSERT INTO documents_fts(rowid, filename, markdown) VALUES (new.rowid, new.filename, new.markdown);
		END`,
	}
	for _, stmt := range triggers {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	s.fts = true
	return nil
}

// missingModule reports whether err is SQLite rejecting a virtual table
// module that this build does not include.
func missingModule(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such module")
}

// Save inserts or replaces doc. A missing ID is assigned a new UUID and a
// zero UploadedAt is set to the current time; the stored record is
// returned.
func (s *Store) Save(ctx context.Context, doc types.Document) (types.Document, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}
	if doc.Status == "" {
		doc.Status = types.ConversionNone
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, filename, source_path, source_hash, extracted_text, markdown,
			page_count, has_images, has_tables, status, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			filename=excluded.filename, source_path=excluded.source_path,
			source_hash=excluded.source_hash, extracted_text=excluded.extracted_text,
			markdown=excluded.markdown, page_count=excluded.page_count,
			has_images=excluded.has_images, has_tables=excluded.has_tables,
			status=excluded.status, uploaded_at=excluded.uploaded_at`,
		doc.ID, doc.Filename, doc.SourcePath, doc.SourceHash, doc.ExtractedText, doc.Markdown,
		doc.Info.PageCount, doc.Info.HasImages, doc.Info.HasTables, string(doc.Status),
		doc.UploadedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return types.Document{}, fmt.Errorf("saving document %s: %w", doc.ID, err)
	}
	return doc, nil
}

// documentColumns selects a full record from documents aliased as d.
const documentColumns = `d.id, d.filename, d.source_path, d.source_hash, d.extracted_text, d.markdown,
	d.page_count, d.has_images, d.has_tables, d.status, d.uploaded_at`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (types.Document, error) {
	var (
		doc                        types.Document
		sourcePath, hash, text, md sql.NullString
		status, uploaded           sql.NullString
		pages                      sql.NullInt64
		images, tables             sql.NullBool
	)
	if err := row.Scan(&doc.ID, &doc.Filename, &sourcePath, &hash, &text, &md,
		&pages, &images, &tables, &status, &uploaded); err != nil {
		return types.Document{}, err
	}

	doc.SourcePath = sourcePath.String
	doc.SourceHash = hash.String
	doc.ExtractedText = text.String
	doc.Markdown = md.String
	doc.Info = types.DocumentInfo{
		PageCount: int(pages.Int64),
		HasImages: images.Bool,
		HasTables: tables.Bool,
	}
	doc.Status = types.ConversionStatus(status.String)
	if uploaded.Valid {
		if t, err := time.Parse(timeLayout, uploaded.String); err == nil {
			doc.UploadedAt = t
		}
	}
	return doc, nil
}

// Get returns the document with the given ID.
func (s *Store) Get(ctx context.Context, id string) (types.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents d WHERE d.id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Document{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.Document{}, fmt.Errorf("looking up document: %w", err)
	}
	return doc, nil
}

// List returns up to limit documents, newest first, without their text
// bodies. A non-positive limit returns all documents.
func (s *Store) List(ctx context.Context, limit int) ([]types.Document, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents d ORDER BY d.uploaded_at DESC, d.rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []types.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		docs = append(docs, doc.Summary())
	}
	return docs, rows.Err()
}

// Delete removes the document with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

// FindByHash returns the most recent document with the given source hash.
func (s *Store) FindByHash(ctx context.Context, hash string) (types.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents d WHERE d.source_hash = ? ORDER BY d.uploaded_at DESC LIMIT 1`, hash)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Document{}, fmt.Errorf("hash %s: %w", hash, ErrNotFound)
	}
	if err != nil {
		return types.Document{}, fmt.Errorf("looking up document by hash: %w", err)
	}
	return doc, nil
}
