// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// LibraryClause is a clause a reviewer saved as reusable reference text.
type LibraryClause struct {
	ID                 string    `json:"id" yaml:"id"`
	Title              string    `json:"title" yaml:"title"`
	Content            string    `json:"content" yaml:"content"`
	SectionNumber      string    `json:"section_number" yaml:"section_number"`
	SourceDocumentID   string    `json:"source_document_id" yaml:"source_document_id"`
	SourceDocumentName string    `json:"source_document_name" yaml:"source_document_name"`
	Category           string    `json:"category,omitempty" yaml:"category,omitempty"`
	SavedBy            string    `json:"saved_by,omitempty" yaml:"saved_by,omitempty"`
	CreatedAt          time.Time `json:"created_at" yaml:"created_at"`
}

// MatchType tells whether a document's clause title equals a library title
// or merely contains it.
type MatchType string

const (
	MatchExact   MatchType = "exact"
	MatchSimilar MatchType = "similar"
)

// SimilarDocument is a cached document holding a clause whose title
// contains a library clause's title.
type SimilarDocument struct {
	DocumentID   string    `json:"id" yaml:"id"`
	DocumentName string    `json:"title" yaml:"title"`
	MimeType     string    `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
	ModifiedAt   time.Time `json:"modified_at,omitzero" yaml:"modified_at,omitempty"`
	MatchType    MatchType `json:"match_type" yaml:"match_type"`
}
