// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/knowledge-hub/pkg/types"
)

// Clauses returns the cached clauses for docID ordered by clause number.
// It returns ErrNotFound when the document has never been extracted.
func (s *Store) Clauses(ctx context.Context, docID string) ([]types.Clause, error) {
	if _, err := s.Document(ctx, docID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT clause_number, section_number, title, content
		 FROM clauses WHERE document_id = ? ORDER BY clause_number`, docID)
	if err != nil {
		return nil, fmt.Errorf("querying clauses: %w", err)
	}
	defer rows.Close()

	clauses := []types.Clause{}
	for rows.Next() {
		c, err := scanClause(rows)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, c)
	}
	return clauses, rows.Err()
}

// Clause returns one cached clause by number.
func (s *Store) Clause(ctx context.Context, docID string, number int) (types.Clause, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT clause_number, section_number, title, content
		 FROM clauses WHERE document_id = ? AND clause_number = ?`, docID, number)
	c, err := scanClause(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Clause{}, fmt.Errorf("clause %d of document %s: %w", number, docID, ErrNotFound)
	}
	return c, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClause(sc scanner) (types.Clause, error) {
	var (
		c       types.Clause
		section sql.NullString
	)
	if err := sc.Scan(&c.ClauseNumber, &section, &c.Title, &c.Content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Clause{}, err
		}
		return types.Clause{}, fmt.Errorf("scanning clause: %w", err)
	}
	c.SectionNumber = section.String
	return c, nil
}

// SearchOptions holds parameters for full-text clause search.
type SearchOptions struct {
	// Query is the FTS5 match expression over clause titles and content.
	// Empty lists clauses without ranking.
	Query string

	// DocumentID restricts results to one document.
	DocumentID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// SearchResult is a cached clause with the document it belongs to.
type SearchResult struct {
	types.Clause `yaml:",inline"`
	DocumentID   string `json:"document_id" yaml:"document_id"`
	DocumentName string `json:"document_name" yaml:"document_name"`
}

// Search queries cached clauses. Full-text results are ranked by relevance;
// unranked results are sorted by document and clause number.
func (s *Store) Search(ctx context.Context, opts SearchOptions) ([]SearchResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT c.document_id, d.name, c.clause_number, c.section_number, c.title, c.content
			FROM clauses_fts
			JOIN clauses c ON c.rowid = clauses_fts.rowid
			JOIN documents d ON d.id = c.document_id
			WHERE clauses_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT c.document_id, d.name, c.clause_number, c.section_number, c.title, c.content
			FROM clauses c
			JOIN documents d ON d.id = c.document_id
			WHERE 1=1`)
	}

	if opts.DocumentID != "" {
		qb.WriteString(` AND c.document_id = ?`)
		args = append(args, opts.DocumentID)
	}

	if useFTS {
		qb.WriteString(` ORDER BY clauses_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY c.document_id, c.clause_number`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("searching clauses: %w", err)
	}
	defer rows.Close()

	results := []SearchResult{}
	for rows.Next() {
		var (
			r             SearchResult
			name, section sql.NullString
		)
		if err := rows.Scan(&r.DocumentID, &name, &r.ClauseNumber, &section, &r.Title, &r.Content); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.DocumentName = name.String
		r.SectionNumber = section.String
		results = append(results, r)
	}

	return results, rows.Err()
}
