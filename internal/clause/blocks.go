// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package clause

import (
	"regexp"
	"strings"

	"github.com/pdiddy/knowledge-hub/pkg/types"
)

// headingNumber splits a leading outline number from a styled heading,
// e.g. "2.1 Payment Terms" or "3. Termination".
var headingNumber = regexp.MustCompile(`^(\d+(?:\.\d+)*)\.?\s+(\S.*)$`)

// ExtractBlocks segments structured content into clauses. Every heading
// block is a clause boundary and every other block is body text; no pattern
// detection is applied to headings. If the blocks contain no heading at all,
// their text is joined and handed to Extract.
func ExtractBlocks(blocks []types.ContentBlock) []types.Clause {
	hasHeading := false
	for _, b := range blocks {
		if b.Type == types.BlockHeading && strings.TrimSpace(b.Text) != "" {
			hasHeading = true
			break
		}
	}
	if !hasHeading {
		return Extract(joinBlocks(blocks))
	}

	var acc accumulator
	for _, b := range blocks {
		text := strings.TrimSpace(b.Text)
		if text == "" {
			continue
		}
		if b.Type == types.BlockHeading {
			section, title := splitHeadingNumber(text)
			acc.heading(section, title)
			continue
		}
		acc.line(text)
	}
	return acc.result()
}

// splitHeadingNumber returns the outline number and remaining title of a
// heading. Headings without a number return an empty section.
func splitHeadingNumber(text string) (section, title string) {
	if m := headingNumber.FindStringSubmatch(text); m != nil {
		return m[1], trimTrailingPunct(strings.TrimSpace(m[2]))
	}
	return "", text
}

// joinBlocks flattens blocks back into text with a blank line between
// blocks, so the paragraph fallback sees one paragraph per block.
func joinBlocks(blocks []types.ContentBlock) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, "\n\n")
}
