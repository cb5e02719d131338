// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/knowledge-hub/internal/report"
	"github.com/pdiddy/knowledge-hub/pkg/types"
)

var riskCmd = &cobra.Command{
	Use:   "risk [file|url]",
	Short: "Score a contract against the required-clause checklist",
	Long: `Risk scores each clause of a contract and summarizes the contract:
a 0-100 score (the rounded mean of clause scores), a HIGH/MEDIUM/LOW level,
and the required clauses whose exact titles were not found.

Pass a file or URL to analyze it directly (nothing is cached), or
--document to score the cached clauses of an extracted document.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRisk,
}

func runRisk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig()

	docID, _ := cmd.Flags().GetString("document")
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	if (docID == "") == (len(args) == 0) {
		return fmt.Errorf("provide either a file or URL argument or --document")
	}
	switch format {
	case "text", "json", "xlsx":
	default:
		return fmt.Errorf("unsupported format %q: use text, json, or xlsx", format)
	}
	if format == "xlsx" && output == "" {
		return fmt.Errorf("--output is required for xlsx reports")
	}

	svc, st, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	var rep types.RiskReport
	if docID != "" {
		if rep, err = svc.Risk(ctx, docID); err != nil {
			return err
		}
	} else {
		in, err := svc.Load(ctx, args[0])
		if err != nil {
			return err
		}
		rep = svc.Analyze(in)
	}

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json":
		err = report.WriteJSON(w, rep)
	case "xlsx":
		err = report.WriteXLSX(w, rep)
	default:
		err = report.WriteText(w, rep)
	}
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if output != "" {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", output)
	}
	return nil
}

func init() {
	riskCmd.Flags().String("document", "", "score the cached clauses of this document id")
	riskCmd.Flags().String("format", "text", "output format: text, json, or xlsx")
	riskCmd.Flags().StringP("output", "o", "", "write the report to this file")

	rootCmd.AddCommand(riskCmd)
}
