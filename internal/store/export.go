// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/knowledge-hub/pkg/types"
)

// ExportDocument holds one document's cached clauses for export.
type ExportDocument struct {
	ID      string         `json:"id" yaml:"id"`
	Name    string         `json:"name" yaml:"name"`
	Source  string         `json:"source,omitempty" yaml:"source,omitempty"`
	Clauses []types.Clause `json:"clauses" yaml:"clauses"`
}

const exportBase = "clauses-export"

// ExportYAML writes cached clauses to dataDir/index/clauses-export.yaml and
// returns the path. An empty docID exports every document.
func (s *Store) ExportYAML(ctx context.Context, docID string) (string, error) {
	docs, err := s.exportDocuments(ctx, docID)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(docs)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport(exportBase+".yaml", data)
}

// ExportJSON writes cached clauses to dataDir/index/clauses-export.json and
// returns the path. An empty docID exports every document.
func (s *Store) ExportJSON(ctx context.Context, docID string) (string, error) {
	docs, err := s.exportDocuments(ctx, docID)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport(exportBase+".json", data)
}

func (s *Store) writeExport(name string, data []byte) (string, error) {
	path := filepath.Join(s.dataDir, indexDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func (s *Store) exportDocuments(ctx context.Context, docID string) ([]ExportDocument, error) {
	ids := []string{docID}
	if docID == "" {
		var err error
		if ids, err = s.documentIDs(ctx); err != nil {
			return nil, err
		}
	}

	docs := make([]ExportDocument, 0, len(ids))
	for _, id := range ids {
		doc, err := s.Document(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("querying for export: %w", err)
		}
		clauses, err := s.Clauses(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("querying for export: %w", err)
		}
		docs = append(docs, ExportDocument{ID: doc.ID, Name: doc.Name, Source: doc.Source, Clauses: clauses})
	}
	return docs, nil
}

func (s *Store) documentIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning document id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
