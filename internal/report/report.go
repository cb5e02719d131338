// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders contract risk reports as text, JSON, or XLSX.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/knowledge-hub/pkg/types"
)

// WriteText writes an aligned clause table followed by the contract summary.
func WriteText(w io.Writer, r types.RiskReport) error {
	b := &strings.Builder{}

	if len(r.Clauses) == 0 {
		b.WriteString("No clauses found.\n")
	} else {
		fmt.Fprintf(b, "%-4s  %-8s  %-40s  %-6s  %s\n", "No.", "Section", "Title", "Level", "Score")
		b.WriteString(strings.Repeat("-", 72) + "\n")
		for _, c := range r.Clauses {
			fmt.Fprintf(b, "%-4d  %-8s  %-40s  %-6s  %d\n",
				c.ClauseNumber, clip(c.SectionNumber, 8), clip(c.Title, 40), c.RiskLevel, c.RiskScore)
		}
	}

	fmt.Fprintf(b, "\nRisk score: %d (%s)\n", r.RiskScore, r.RiskLevel)
	fmt.Fprintf(b, "Good clauses:    %s\n", list(r.GoodClauses))
	fmt.Fprintf(b, "Caution clauses: %s\n", list(r.CautionClauses))
	fmt.Fprintf(b, "Missing clauses: %s\n", list(r.MissingClauses))

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r types.RiskReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

func list(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
