// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest ties content loading, clause extraction, caching, and risk
// scoring into the operations the CLI and HTTP API expose.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/knowledge-hub/internal/clause"
	"github.com/pdiddy/knowledge-hub/internal/content"
	"github.com/pdiddy/knowledge-hub/internal/risk"
	"github.com/pdiddy/knowledge-hub/pkg/types"
)

// ErrNoClauses is returned when a document yields no clauses. The cache is
// left untouched in that case.
var ErrNoClauses = errors.New("no clauses found in document")

// ClauseStore is the subset of the clause cache the service needs.
type ClauseStore interface {
	ReplaceClauses(ctx context.Context, doc types.Document, clauses []types.Clause) error
	Clauses(ctx context.Context, docID string) ([]types.Clause, error)
	DocumentModTime(ctx context.Context, id string) (time.Time, error)
}

// Input is document content supplied inline. Blocks take precedence over
// Text when both are present.
type Input struct {
	Text   string               `json:"text,omitempty" yaml:"text,omitempty"`
	Blocks []types.ContentBlock `json:"blocks,omitempty" yaml:"blocks,omitempty"`
}

// Empty reports whether the input carries neither blocks nor text.
func (in Input) Empty() bool {
	return len(in.Blocks) == 0 && strings.TrimSpace(in.Text) == ""
}

// Service runs extraction and scoring against a clause cache.
type Service struct {
	store  ClauseStore
	source content.Source
	log    *zap.Logger
}

// NewService creates a Service. source may be nil when only inline content
// is processed; log may be nil.
func NewService(store ClauseStore, source content.Source, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, source: source, log: log}
}

// Extract returns the clauses for in without touching the cache.
func (s *Service) Extract(in Input) []types.Clause {
	if len(in.Blocks) > 0 {
		return clause.SafeExtractBlocks(s.log, in.Blocks)
	}
	return clause.SafeExtract(s.log, in.Text)
}

// Process extracts clauses from in and replaces the cached clauses of doc.
func (s *Service) Process(ctx context.Context, doc types.Document, in Input) ([]types.Clause, error) {
	clauses := s.Extract(in)
	if len(clauses) == 0 {
		return nil, fmt.Errorf("document %s: %w", doc.ID, ErrNoClauses)
	}
	if err := s.store.ReplaceClauses(ctx, doc, clauses); err != nil {
		return nil, fmt.Errorf("caching clauses for %s: %w", doc.ID, err)
	}
	s.log.Info("clauses extracted",
		zap.String("document_id", doc.ID),
		zap.Int("count", len(clauses)),
	)
	return clauses, nil
}

// Load reads ref through the content source, preferring structured blocks.
func (s *Service) Load(ctx context.Context, ref string) (Input, error) {
	if s.source == nil {
		return Input{}, fmt.Errorf("no content source configured for %s", ref)
	}
	blocks, err := s.source.Blocks(ctx, ref)
	if err != nil {
		return Input{}, fmt.Errorf("loading %s: %w", ref, err)
	}
	if len(blocks) > 0 {
		return Input{Blocks: blocks}, nil
	}
	text, err := s.source.Text(ctx, ref)
	if err != nil {
		return Input{}, fmt.Errorf("loading %s: %w", ref, err)
	}
	return Input{Text: text}, nil
}

// ProcessRef loads ref and processes it as doc.
func (s *Service) ProcessRef(ctx context.Context, doc types.Document, ref string) ([]types.Clause, error) {
	in, err := s.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.Process(ctx, doc, in)
}

// Risk scores the cached clauses of docID. The report is computed on every
// call and never cached.
func (s *Service) Risk(ctx context.Context, docID string) (types.RiskReport, error) {
	clauses, err := s.store.Clauses(ctx, docID)
	if err != nil {
		return types.RiskReport{}, fmt.Errorf("loading clauses for %s: %w", docID, err)
	}
	return risk.ScoreContract(clauses), nil
}

// Analyze extracts and scores in without storing anything.
func (s *Service) Analyze(in Input) types.RiskReport {
	return risk.ScoreContract(s.Extract(in))
}

// DocumentFor builds the Document record for a file or URL reference. The
// ID is the reference's base name without extension unless id is given.
func DocumentFor(ref, id string) types.Document {
	name := filepath.Base(ref)
	if id == "" {
		id = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return types.Document{
		ID:       id,
		Name:     name,
		Source:   ref,
		MimeType: mimeType(ref),
	}
}

func mimeType(ref string) string {
	ext := strings.ToLower(filepath.Ext(ref))
	switch ext {
	case ".md", ".markdown":
		return "text/markdown"
	case ".yaml", ".yml":
		return "application/yaml"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return ""
}
