// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/knowledge-hub/pkg/types"
)

func TestExtractBlocks(t *testing.T) {
	tests := []struct {
		name   string
		blocks []types.ContentBlock
		want   []types.Clause
	}{
		{
			name: "headings and paragraphs",
			blocks: []types.ContentBlock{
				types.Heading("Termination", 1),
				types.Paragraph("Either party may terminate on notice."),
				types.Paragraph(" The notice period is thirty days. "),
				types.Heading("2.1 Payment Terms", 2),
				types.Paragraph("Invoices are payable net 30."),
			},
			want: []types.Clause{
				{ClauseNumber: 1, SectionNumber: "1", Title: "Termination", Content: "Either party may terminate on notice.\nThe notice period is thirty days."},
				{ClauseNumber: 2, SectionNumber: "2.1", Title: "Payment Terms", Content: "Invoices are payable net 30."},
			},
		},
		{
			name: "numbered heading with trailing period",
			blocks: []types.ContentBlock{
				types.Heading("3. Confidentiality:", 1),
				types.Paragraph("Keep it secret."),
			},
			want: []types.Clause{
				{ClauseNumber: 1, SectionNumber: "3", Title: "Confidentiality", Content: "Keep it secret."},
			},
		},
		{
			name: "lowercase prose heading is still a boundary",
			blocks: []types.ContentBlock{
				types.Heading("what happens if we part ways", 2),
				types.Paragraph("Each party returns the other's property."),
			},
			want: []types.Clause{
				{ClauseNumber: 1, SectionNumber: "1", Title: "what happens if we part ways", Content: "Each party returns the other's property."},
			},
		},
		{
			name: "paragraphs before first heading discarded",
			blocks: []types.ContentBlock{
				types.Paragraph("Cover page"),
				types.Heading("Term", 1),
				types.Paragraph("One year."),
			},
			want: []types.Clause{
				{ClauseNumber: 1, SectionNumber: "1", Title: "Term", Content: "One year."},
			},
		},
		{
			name: "empty heading body dropped without gap",
			blocks: []types.ContentBlock{
				types.Heading("Definitions", 1),
				types.Heading("Scope", 1),
				types.Paragraph("Covers all services."),
			},
			want: []types.Clause{
				{ClauseNumber: 1, SectionNumber: "1", Title: "Scope", Content: "Covers all services."},
			},
		},
		{
			name: "unknown block type is body",
			blocks: []types.ContentBlock{
				types.Heading("Notices", 1),
				{Type: "list_item", Text: "By email."},
			},
			want: []types.Clause{
				{ClauseNumber: 1, SectionNumber: "1", Title: "Notices", Content: "By email."},
			},
		},
		{
			name:   "no blocks",
			blocks: nil,
			want:   []types.Clause{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractBlocks(tt.blocks))
		})
	}
}

func TestExtractBlocksWithoutHeadings(t *testing.T) {
	t.Run("pattern detection over joined text", func(t *testing.T) {
		blocks := []types.ContentBlock{
			types.Paragraph("1. Termination"),
			types.Paragraph("Either party may end this agreement."),
		}
		got := ExtractBlocks(blocks)
		require.Len(t, got, 1)
		assert.Equal(t, "Termination", got[0].Title)
		assert.Equal(t, "Either party may end this agreement.", got[0].Content)
	})

	t.Run("paragraph fallback one clause per block", func(t *testing.T) {
		blocks := []types.ContentBlock{
			types.Paragraph("first paragraph. more text"),
			types.Paragraph("second paragraph"),
		}
		got := ExtractBlocks(blocks)
		require.Len(t, got, 2)
		assert.Equal(t, "first paragraph", got[0].Title)
		assert.Equal(t, "second paragraph", got[1].Title)
	})

	t.Run("multi-line paragraph blocks stay whole", func(t *testing.T) {
		blocks := []types.ContentBlock{
			types.Paragraph("This agreement is made between the parties\nand continues on a second line."),
			types.Paragraph("Payment is due within thirty days\nof the invoice date."),
		}
		got := ExtractBlocks(blocks)
		require.Len(t, got, 2)
		assert.Contains(t, got[0].Content, "continues on a second line")
		assert.Contains(t, got[1].Content, "of the invoice date")
	})
}

func TestSafeExtract(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	log := zap.New(core)

	saved := headerPatterns
	headerPatterns = []headerPattern{panicPattern{}}
	t.Cleanup(func() { headerPatterns = saved })

	got := SafeExtract(log, "1. Termination\nbody")
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 1, logs.FilterMessage("clause extraction panicked").Len())
}

func TestSafeExtractPassesThrough(t *testing.T) {
	got := SafeExtract(zap.NewNop(), scenarioA)
	assert.Len(t, got, 2)

	got = SafeExtractBlocks(nil, []types.ContentBlock{types.Heading("Term", 1), types.Paragraph("One year.")})
	assert.Len(t, got, 1)
}

type panicPattern struct{}

func (panicPattern) match(string) (string, string, bool) { panic("pattern failure") }
