// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Clause is a titled, numbered segment of a contract's text.
type Clause struct {
	// ClauseNumber is 1-based and contiguous within a document, assigned in
	// extraction order.
	ClauseNumber int `json:"clause_number" yaml:"clause_number"`

	// SectionNumber is the label parsed from the heading (e.g. "1.1", "IV").
	// It falls back to ClauseNumber when the heading carries no number.
	SectionNumber string `json:"section_number" yaml:"section_number"`

	// Title is the heading text with trailing punctuation and sentence
	// fragments stripped.
	Title string `json:"title" yaml:"title"`

	// Content is the body text under the heading, never empty.
	Content string `json:"content" yaml:"content"`
}

// BlockType distinguishes headings from body paragraphs in structured content.
type BlockType string

const (
	BlockHeading   BlockType = "heading"
	BlockParagraph BlockType = "paragraph"
)

// ContentBlock is one heading or paragraph from a document that carries
// native structure (word-processor styles, Markdown headings).
type ContentBlock struct {
	Type BlockType `json:"type" yaml:"type"`
	Text string    `json:"text" yaml:"text"`

	// Level is the heading level (1 for the outermost). Nil for paragraphs
	// and for headings whose style does not expose a level.
	Level *int `json:"level" yaml:"level"`
}

// Heading builds a heading block at the given level.
func Heading(text string, level int) ContentBlock {
	return ContentBlock{Type: BlockHeading, Text: text, Level: &level}
}

// Paragraph builds a body block.
func Paragraph(text string) ContentBlock {
	return ContentBlock{Type: BlockParagraph, Text: text}
}

// Document identifies the source a clause set was extracted from.
type Document struct {
	// ID is the caller's identifier (a Drive file ID, a path-derived slug, or a UUID).
	ID string `json:"id" yaml:"id"`

	// Name is a human-readable label, usually the file name.
	Name string `json:"name" yaml:"name"`

	// Source is the path or URL the content was read from.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// MimeType is the detected content type, if known.
	MimeType string `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`

	// ModTime is the source file's modification time, used to skip
	// unchanged files on rescans. Zero for content supplied inline.
	ModTime time.Time `json:"mod_time,omitzero" yaml:"mod_time,omitempty"`
}
