// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/knowledge-hub/pkg/types"
)

// SaveToLibrary copies cached clause number of docID into the clause
// library. A clause with the same title from the same document is saved
// once: later calls return the existing entry and created=false.
func (s *Store) SaveToLibrary(ctx context.Context, docID string, number int, savedBy, category string) (types.LibraryClause, bool, error) {
	doc, err := s.Document(ctx, docID)
	if err != nil {
		return types.LibraryClause{}, false, err
	}
	c, err := s.Clause(ctx, docID, number)
	if err != nil {
		return types.LibraryClause{}, false, err
	}

	existing, err := s.scanLibrary(s.db.QueryRowContext(ctx,
		libraryColumns+` WHERE source_document_id = ? AND title = ?`, docID, c.Title))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return types.LibraryClause{}, false, err
	}

	entry := types.LibraryClause{
		ID:                 uuid.NewString(),
		Title:              c.Title,
		Content:            c.Content,
		SectionNumber:      c.SectionNumber,
		SourceDocumentID:   doc.ID,
		SourceDocumentName: doc.Name,
		Category:           category,
		SavedBy:            savedBy,
		CreatedAt:          s.now(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO clause_library (id, title, content, section_number, source_document_id,
			source_document_name, category, saved_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Title, entry.Content, entry.SectionNumber, entry.SourceDocumentID,
		entry.SourceDocumentName, entry.Category, entry.SavedBy, formatTime(entry.CreatedAt),
	)
	if err != nil {
		return types.LibraryClause{}, false, fmt.Errorf("inserting library clause: %w", err)
	}
	return entry, true, nil
}

// LibraryQuery filters library listings.
type LibraryQuery struct {
	// Title matches entries whose title contains it, case-insensitively.
	Title string

	// Category matches exactly.
	Category string

	// Limit bounds the result count. Zero uses the store default.
	Limit int
}

const libraryColumns = `SELECT id, title, content, section_number, source_document_id,
	source_document_name, category, saved_by, created_at FROM clause_library`

// Library lists saved clauses, newest first.
func (s *Store) Library(ctx context.Context, q LibraryQuery) ([]types.LibraryClause, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(libraryColumns + ` WHERE 1=1`)
	if q.Title != "" {
		qb.WriteString(` AND lower(title) LIKE lower(?) ESCAPE '\'`)
		args = append(args, containsPattern(q.Title))
	}
	if q.Category != "" {
		qb.WriteString(` AND category = ?`)
		args = append(args, q.Category)
	}
	qb.WriteString(` ORDER BY created_at DESC, id LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying library: %w", err)
	}
	defer rows.Close()

	entries := []types.LibraryClause{}
	for rows.Next() {
		e, err := s.scanLibrary(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SavedEntry reports whether cached clause number of docID is already in
// the library, using the same document-and-title key as SaveToLibrary. A
// clause missing from the cache is reported as not saved.
func (s *Store) SavedEntry(ctx context.Context, docID string, number int) (types.LibraryClause, bool, error) {
	c, err := s.Clause(ctx, docID, number)
	if errors.Is(err, ErrNotFound) {
		return types.LibraryClause{}, false, nil
	}
	if err != nil {
		return types.LibraryClause{}, false, err
	}

	entry, err := s.scanLibrary(s.db.QueryRowContext(ctx,
		libraryColumns+` WHERE source_document_id = ? AND title = ?`, docID, c.Title))
	if errors.Is(err, sql.ErrNoRows) {
		return types.LibraryClause{}, false, nil
	}
	if err != nil {
		return types.LibraryClause{}, false, err
	}
	return entry, true, nil
}

// LibraryEntry returns one saved clause by id.
func (s *Store) LibraryEntry(ctx context.Context, id string) (types.LibraryClause, error) {
	e, err := s.scanLibrary(s.db.QueryRowContext(ctx, libraryColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return types.LibraryClause{}, fmt.Errorf("library clause %s: %w", id, ErrNotFound)
	}
	return e, err
}

func (s *Store) scanLibrary(sc scanner) (types.LibraryClause, error) {
	var (
		e                                 types.LibraryClause
		section, srcID, srcName, category sql.NullString
		savedBy, created                  sql.NullString
	)
	err := sc.Scan(&e.ID, &e.Title, &e.Content, &section, &srcID, &srcName, &category, &savedBy, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return types.LibraryClause{}, err
	}
	if err != nil {
		return types.LibraryClause{}, fmt.Errorf("scanning library clause: %w", err)
	}
	e.SectionNumber = section.String
	e.SourceDocumentID = srcID.String
	e.SourceDocumentName = srcName.String
	e.Category = category.String
	e.SavedBy = savedBy.String
	e.CreatedAt = parseTime(created.String)
	return e, nil
}

// SimilarDocuments finds cached documents with a clause whose title contains
// the library entry's title, case-insensitively. A document is an exact
// match when any such clause title equals the library title after trimming.
func (s *Store) SimilarDocuments(ctx context.Context, libraryID string) (types.LibraryClause, []types.SimilarDocument, error) {
	entry, err := s.LibraryEntry(ctx, libraryID)
	if err != nil {
		return types.LibraryClause{}, nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT d.id, d.name, d.mime_type, d.file_mod_time, c.title
		 FROM clauses c JOIN documents d ON d.id = c.document_id
		 WHERE lower(c.title) LIKE lower(?) ESCAPE '\'
		 ORDER BY d.id, c.clause_number`, containsPattern(entry.Title))
	if err != nil {
		return types.LibraryClause{}, nil, fmt.Errorf("querying matching clauses: %w", err)
	}
	defer rows.Close()

	want := strings.ToLower(strings.TrimSpace(entry.Title))
	docs := []types.SimilarDocument{}
	index := map[string]int{}
	for rows.Next() {
		var (
			id, title            string
			name, mime, modified sql.NullString
		)
		if err := rows.Scan(&id, &name, &mime, &modified, &title); err != nil {
			return types.LibraryClause{}, nil, fmt.Errorf("scanning row: %w", err)
		}

		match := types.MatchSimilar
		if strings.ToLower(strings.TrimSpace(title)) == want {
			match = types.MatchExact
		}

		if i, ok := index[id]; ok {
			if match == types.MatchExact {
				docs[i].MatchType = match
			}
			continue
		}
		index[id] = len(docs)
		docs = append(docs, types.SimilarDocument{
			DocumentID:   id,
			DocumentName: name.String,
			MimeType:     mime.String,
			ModifiedAt:   parseTime(modified.String),
			MatchType:    match,
		})
	}
	if err := rows.Err(); err != nil {
		return types.LibraryClause{}, nil, err
	}
	return entry, docs, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s as a literal substring.
// Queries using it must declare ESCAPE '\'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
