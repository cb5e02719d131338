// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package clause segments contract text into numbered, titled clauses.
//
// Two inputs are supported: flat text, where headings are recognized by an
// ordered list of header patterns, and structured content blocks, where the
// upstream extractor already knows which blocks are headings. Both paths
// share the same accumulation rules: a heading closes the open clause, body
// lines are trimmed and joined, and clauses with an empty body are dropped.
package clause

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/knowledge-hub/pkg/types"
)

const (
	// maxParagraphClauses caps the paragraph fallback.
	maxParagraphClauses = 20

	// maxParagraphTitle caps fallback titles, in characters.
	maxParagraphTitle = 50
)

// openClause is a clause whose body is still being collected.
type openClause struct {
	section string
	title   string
	body    []string
}

// accumulator folds lines (or blocks) into clauses. completed holds the
// emitted clauses; open is nil until the first heading.
type accumulator struct {
	completed []types.Clause
	open      *openClause
}

// heading closes the open clause and starts a new one.
func (a *accumulator) heading(section, title string) {
	a.flush()
	a.open = &openClause{section: section, title: cleanTitle(title)}
}

// line appends body text to the open clause. Text before the first heading
// is discarded.
func (a *accumulator) line(text string) {
	if a.open == nil {
		return
	}
	a.open.body = append(a.open.body, text)
}

// flush emits the open clause if its body is non-empty. Numbers are assigned
// on emission so dropped clauses leave no gaps.
func (a *accumulator) flush() {
	if a.open == nil {
		return
	}
	content := strings.TrimSpace(strings.Join(a.open.body, "\n"))
	if content != "" {
		n := len(a.completed) + 1
		section := a.open.section
		if section == "" {
			section = strconv.Itoa(n)
		}
		a.completed = append(a.completed, types.Clause{
			ClauseNumber:  n,
			SectionNumber: section,
			Title:         a.open.title,
			Content:       content,
		})
	}
	a.open = nil
}

// result flushes the final clause and returns the emitted list, never nil.
func (a *accumulator) result() []types.Clause {
	a.flush()
	if a.completed == nil {
		return []types.Clause{}
	}
	return a.completed
}

// cleanTitle drops a stray sentence continuation ("Term. The agreement...")
// and surrounding whitespace.
func cleanTitle(title string) string {
	if i := strings.Index(title, ". "); i >= 0 {
		title = title[:i]
	}
	return strings.TrimSpace(title)
}

// Extract segments raw document text into clauses. Lines are classified as
// headers or body text; when no header is found anywhere the text is split
// into blank-line-delimited paragraphs instead. Empty input yields an empty
// slice. Extract never fails: unmatched lines are body text.
func Extract(content string) []types.Clause {
	if strings.TrimSpace(content) == "" {
		return []types.Clause{}
	}

	var acc accumulator
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if section, title, ok := parseHeader(line); ok {
			acc.heading(section, title)
			continue
		}
		acc.line(line)
	}

	clauses := acc.result()
	if len(clauses) == 0 {
		return splitParagraphs(content)
	}
	return clauses
}

// splitParagraphs builds synthetic clauses from the first blank-line-delimited
// paragraphs of text. Each title is the text before the first period.
func splitParagraphs(content string) []types.Clause {
	clauses := []types.Clause{}
	for _, part := range strings.Split(content, "\n\n") {
		para := strings.TrimSpace(part)
		if para == "" {
			continue
		}
		if len(clauses) == maxParagraphClauses {
			break
		}
		n := len(clauses) + 1
		clauses = append(clauses, types.Clause{
			ClauseNumber:  n,
			SectionNumber: strconv.Itoa(n),
			Title:         paragraphTitle(para),
			Content:       para,
		})
	}
	return clauses
}

// paragraphTitle returns the first sentence of para, truncated to
// maxParagraphTitle characters.
func paragraphTitle(para string) string {
	first, _, _ := strings.Cut(para, ".")
	if utf8.RuneCountInString(first) <= maxParagraphTitle {
		return first
	}
	return string([]rune(first)[:maxParagraphTitle])
}
