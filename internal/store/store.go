// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store caches extracted clauses per document and keeps the shared
// clause library in SQLite, with an FTS5 index over clause text.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/knowledge-hub/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "knowledge-hub.db"

	defaultMaxResults = 20

	// timeLayout is fixed-width so stored timestamps sort as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// ErrNotFound is returned when a document, clause, or library entry does not exist.
var ErrNotFound = errors.New("not found")

// Store manages the clause cache SQLite database.
type Store struct {
	db         *sql.DB
	dataDir    string
	maxResults int

	now func() time.Time
}

// Open opens or creates the database at dataDir/index/knowledge-hub.db and
// creates the schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		dataDir:    cfg.DataDir,
		maxResults: maxResults,
		now:        func() time.Time { return time.Now().UTC() },
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

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			name TEXT,
			source TEXT,
			mime_type TEXT,
			extracted_at TEXT,
			file_mod_time TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS clauses (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			clause_number INTEGER NOT NULL,
			section_number TEXT,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			extracted_at TEXT,
			UNIQUE(document_id, clause_number)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_clauses_title ON clauses(title COLLATE NOCASE)`,
		`CREATE TABLE IF NOT EXISTS clause_library (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			section_number TEXT,
			source_document_id TEXT,
			source_document_name TEXT,
			category TEXT,
			saved_by TEXT,
			created_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_library_source ON clause_library(source_document_id, title)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='clauses_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE clauses_fts USING fts5(title, content, content=clauses, content_rowid=rowid)`,
			`CREATE TRIGGER clauses_ai AFTER INSERT ON clauses BEGIN
				INSERT INTO clauses_fts(rowid, title, content) VALUES (new.rowid, new.title, new.content);
			END`,
			`CREATE TRIGGER clauses_ad AFTER DELETE ON clauses BEGIN
				INSERT INTO clauses_fts(clauses_fts, rowid, title, content) VALUES('delete', old.rowid, old.title, old.content);
			END`,
			`CREATE TRIGGER clauses_au AFTER UPDATE ON clauses BEGIN
				INSERT INTO clauses_fts(clauses_fts, rowid, title, content) VALUES('delete', old.rowid, old.title, old.content);
				INSERT INTO clauses_fts(rowid, title, content) VALUES (new.rowid, new.title, new.content);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// ReplaceClauses stores doc and replaces its cached clauses in a single
// transaction. Earlier clauses for the document are removed first, so a
// re-extraction never leaves stale rows behind.
func (s *Store) ReplaceClauses(ctx context.Context, doc types.Document, clauses []types.Clause) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	extractedAt := formatTime(s.now())

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, name, source, mime_type, extracted_at, file_mod_time)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, source=excluded.source, mime_type=excluded.mime_type,
			extracted_at=excluded.extracted_at, file_mod_time=excluded.file_mod_time`,
		doc.ID, doc.Name, doc.Source, doc.MimeType, extractedAt, formatTime(doc.ModTime),
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM clauses WHERE document_id = ?`, doc.ID); err != nil {
		return fmt.Errorf("deleting old clauses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO clauses (document_id, clause_number, section_number, title, content, extracted_at)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range clauses {
		if _, err := stmt.ExecContext(ctx,
			doc.ID, c.ClauseNumber, c.SectionNumber, c.Title, c.Content, extractedAt,
		); err != nil {
			return fmt.Errorf("inserting clause %d: %w", c.ClauseNumber, err)
		}
	}

	return tx.Commit()
}

// Document returns the stored record for id.
func (s *Store) Document(ctx context.Context, id string) (types.Document, error) {
	var (
		doc             types.Document
		name, src, mime sql.NullString
		modTime         sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, source, mime_type, file_mod_time FROM documents WHERE id = ?`, id,
	).Scan(&doc.ID, &name, &src, &mime, &modTime)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Document{}, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.Document{}, fmt.Errorf("looking up document: %w", err)
	}
	doc.Name = name.String
	doc.Source = src.String
	doc.MimeType = mime.String
	doc.ModTime = parseTime(modTime.String)
	return doc, nil
}

// DocumentModTime returns the source modification time recorded at the last
// extraction of id, or the zero time when the document is unknown or was
// supplied inline.
func (s *Store) DocumentModTime(ctx context.Context, id string) (time.Time, error) {
	var modTime sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT file_mod_time FROM documents WHERE id = ?`, id,
	).Scan(&modTime)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("looking up mod time for %s: %w", id, err)
	}
	return parseTime(modTime.String), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
