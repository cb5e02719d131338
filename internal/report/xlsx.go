// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/knowledge-hub/pkg/types"
)

const (
	SummarySheet = "Summary"
	ClausesSheet = "Clauses"
)

// XLSXContentType is the MIME type of WriteXLSX output.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteXLSX writes the report as a workbook with a Summary sheet (score,
// level, clause lists) and a Clauses sheet (one row per scored clause).
func WriteXLSX(w io.Writer, r types.RiskReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("naming summary sheet: %w", err)
	}
	if _, err := f.NewSheet(ClausesSheet); err != nil {
		return fmt.Errorf("creating clauses sheet: %w", err)
	}

	summary := [][]any{
		{"Risk Score", r.RiskScore},
		{"Risk Level", string(r.RiskLevel)},
		{"Good Clauses", strings.Join(r.GoodClauses, ", ")},
		{"Caution Clauses", strings.Join(r.CautionClauses, ", ")},
		{"Missing Clauses", strings.Join(r.MissingClauses, ", ")},
	}
	for i, row := range summary {
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(SummarySheet, "A", "A", 18)
	_ = f.SetColWidth(SummarySheet, "B", "B", 80)

	if err := setRow(f, ClausesSheet, 1, []any{"Clause", "Section", "Title", "Risk Level", "Risk Score", "Content"}); err != nil {
		return err
	}
	for i, c := range r.Clauses {
		row := []any{c.ClauseNumber, c.SectionNumber, c.Title, string(c.RiskLevel), c.RiskScore, c.Content}
		if err := setRow(f, ClausesSheet, i+2, row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(ClausesSheet, "A", "B", 10)
	_ = f.SetColWidth(ClausesSheet, "C", "C", 32)
	_ = f.SetColWidth(ClausesSheet, "D", "E", 12)
	_ = f.SetColWidth(ClausesSheet, "F", "F", 80)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}
