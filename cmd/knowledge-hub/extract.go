// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/pdiddy/knowledge-hub/internal/ingest"
	"github.com/pdiddy/knowledge-hub/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file|url>",
	Short: "Extract numbered clauses from a contract",
	Long: `Extract segments a contract into clauses by recognizing numbered
headings ("1.1 Confidentiality"), Section and Article labels, and
all-caps headings. Documents with native structure (Markdown headings,
JSON/YAML block files, converted PDF/DOCX) are split on their headings.
When nothing looks like a heading, paragraphs become clauses.

The clauses are cached under the document id (the file name without its
extension unless --id is given), replacing any earlier extraction.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig()
	ref := args[0]

	id, _ := cmd.Flags().GetString("id")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	svc, st, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	in, err := svc.Load(ctx, ref)
	if err != nil {
		return err
	}

	doc := ingest.DocumentFor(ref, id)
	var clauses []types.Clause
	if dryRun {
		clauses = svc.Extract(in)
	} else if clauses, err = svc.Process(ctx, doc, in); err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(os.Stdout, clauses)
	}
	formatClauseTable(os.Stdout, clauses)
	if !dryRun {
		fmt.Fprintf(os.Stdout, "\ncached as %s\n", doc.ID)
	}
	return nil
}

func formatClauseTable(w io.Writer, clauses []types.Clause) {
	if len(clauses) == 0 {
		fmt.Fprintln(w, "No clauses found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-8s  %-50s  %s\n", "No.", "Section", "Title", "Chars")
	for _, c := range clauses {
		fmt.Fprintf(w, "%-4d  %-8s  %-50s  %d\n",
			c.ClauseNumber, c.SectionNumber, truncate(c.Title, 50), utf8.RuneCountInString(c.Content))
	}
	fmt.Fprintf(w, "\n%d clauses\n", len(clauses))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	extractCmd.Flags().String("id", "", "document id (default: file name without extension)")
	extractCmd.Flags().Bool("dry-run", false, "print clauses without caching them")
	extractCmd.Flags().Bool("json", false, "output clauses as JSON")

	rootCmd.AddCommand(extractCmd)
}
