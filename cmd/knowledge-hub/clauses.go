// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/knowledge-hub/internal/store"
	"github.com/pdiddy/knowledge-hub/pkg/types"
)

var clausesCmd = &cobra.Command{
	Use:   "clauses",
	Short: "Browse cached clauses and the clause library",
	Long: `Clauses reads the clause cache built by extract and scan, searches it,
exports it, and manages the shared library of reference clauses.`,
}

// --- list subcommand ---

var clausesListCmd = &cobra.Command{
	Use:   "list <document-id>",
	Short: "List the cached clauses of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(loadConfig())
		if err != nil {
			return err
		}
		defer st.Close()

		clauses, err := st.Clauses(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(os.Stdout, clauses)
		}
		formatClauseTable(os.Stdout, clauses)
		return nil
	},
}

// --- show subcommand ---

var clausesShowCmd = &cobra.Command{
	Use:   "show <document-id> <clause-number>",
	Short: "Print one cached clause in full",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := clauseNumberArg(args[1])
		if err != nil {
			return err
		}
		st, err := openStore(loadConfig())
		if err != nil {
			return err
		}
		defer st.Close()

		c, err := st.Clause(cmd.Context(), args[0], n)
		if err != nil {
			return err
		}
		fmt.Printf("%s. %s\n\n%s\n", c.SectionNumber, c.Title, c.Content)
		return nil
	},
}

// --- search subcommand ---

var clausesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over cached clauses",
	Long: `Search matches clause titles and content with SQLite FTS5 query syntax
(terms, "quoted phrases", AND/OR/NOT, prefix*). Results are ranked by relevance.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		docID, _ := cmd.Flags().GetString("document")
		maxResults, _ := cmd.Flags().GetInt("max-results")
		results, err := st.Search(cmd.Context(), store.SearchOptions{
			Query:      strings.Join(args, " "),
			DocumentID: docID,
			MaxResults: maxResults,
		})
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(os.Stdout, results)
		}
		if len(results) == 0 {
			fmt.Println("No results found.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-4s  %-24s  %-4s  %-30s  %s\n", "Rank", "Document", "No.", "Title", "Content")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
		for i, r := range results {
			fmt.Fprintf(os.Stdout, "%-4d  %-24s  %-4d  %-30s  %s\n",
				i+1, truncate(r.DocumentID, 24), r.ClauseNumber, truncate(r.Title, 30), truncate(r.Content, 40))
		}
		fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
		return nil
	},
}

// --- export subcommand ---

var clausesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export cached clauses to YAML or JSON",
	Long: `Export writes cached clauses (all documents, or one with --document)
to index/clauses-export.yaml or clauses-export.json under the data directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		docID, _ := cmd.Flags().GetString("document")

		st, err := openStore(loadConfig())
		if err != nil {
			return err
		}
		defer st.Close()

		var path string
		switch format {
		case "yaml", "":
			path, err = st.ExportYAML(cmd.Context(), docID)
		case "json":
			path, err = st.ExportJSON(cmd.Context(), docID)
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
		if err != nil {
			return err
		}
		fmt.Println("Exported to", path)
		return nil
	},
}

// --- save subcommand ---

var clausesSaveCmd = &cobra.Command{
	Use:   "save <document-id> <clause-number>",
	Short: "Save a cached clause to the clause library",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := clauseNumberArg(args[1])
		if err != nil {
			return err
		}
		category, _ := cmd.Flags().GetString("category")
		savedBy, _ := cmd.Flags().GetString("saved-by")

		st, err := openStore(loadConfig())
		if err != nil {
			return err
		}
		defer st.Close()

		entry, created, err := st.SaveToLibrary(cmd.Context(), args[0], n, savedBy, category)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("saved %q as %s\n", entry.Title, entry.ID)
		} else {
			fmt.Printf("already in library: %q (%s)\n", entry.Title, entry.ID)
		}
		return nil
	},
}

var clausesSavedCmd = &cobra.Command{
	Use:   "saved <document-id> <clause-number>",
	Short: "Report whether a cached clause is already in the library",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := clauseNumberArg(args[1])
		if err != nil {
			return err
		}
		st, err := openStore(loadConfig())
		if err != nil {
			return err
		}
		defer st.Close()

		entry, saved, err := st.SavedEntry(cmd.Context(), args[0], n)
		if err != nil {
			return err
		}
		if saved {
			fmt.Printf("saved as %s\n", entry.ID)
		} else {
			fmt.Println("not saved")
		}
		return nil
	},
}

// --- library subcommand ---

var clausesLibraryCmd = &cobra.Command{
	Use:   "library",
	Short: "List saved clauses in the library",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		category, _ := cmd.Flags().GetString("category")
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore(loadConfig())
		if err != nil {
			return err
		}
		defer st.Close()

		entries, err := st.Library(cmd.Context(), store.LibraryQuery{Title: title, Category: category, Limit: limit})
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(os.Stdout, entries)
		}
		formatLibrary(entries)
		return nil
	},
}

var clausesFilesCmd = &cobra.Command{
	Use:   "files <library-id>",
	Short: "List documents containing a library clause",
	Long: `Files finds cached documents with a clause whose title contains the
library clause's title. Documents with an identical title are marked exact.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(loadConfig())
		if err != nil {
			return err
		}
		defer st.Close()

		entry, docs, err := st.SimilarDocuments(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s\n\n", entry.Title)
		if len(docs) == 0 {
			fmt.Println("No documents found.")
			return nil
		}
		for _, d := range docs {
			fmt.Printf("%-8s  %-36s  %s\n", d.MatchType, d.DocumentID, d.DocumentName)
		}
		return nil
	},
}

func formatLibrary(entries []types.LibraryClause) {
	if len(entries) == 0 {
		fmt.Println("Library is empty.")
		return
	}
	fmt.Fprintf(os.Stdout, "%-36s  %-30s  %-12s  %s\n", "ID", "Title", "Category", "Source")
	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "%-36s  %-30s  %-12s  %s\n",
			e.ID, truncate(e.Title, 30), truncate(e.Category, 12), e.SourceDocumentName)
	}
}

func clauseNumberArg(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("clause number must be a positive integer, got %q", s)
	}
	return n, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	clausesListCmd.Flags().Bool("json", false, "output clauses as JSON")

	clausesSearchCmd.Flags().String("document", "", "restrict to one document id")
	clausesSearchCmd.Flags().Int("max-results", 0, "maximum results (default: store.max_results)")
	clausesSearchCmd.Flags().Bool("json", false, "output results as JSON")

	clausesExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	clausesExportCmd.Flags().String("document", "", "export one document id (default: all)")

	clausesSaveCmd.Flags().String("category", "", "library category")
	clausesSaveCmd.Flags().String("saved-by", os.Getenv("USER"), "who saved the clause")

	clausesLibraryCmd.Flags().String("title", "", "filter by title substring")
	clausesLibraryCmd.Flags().String("category", "", "filter by category")
	clausesLibraryCmd.Flags().Int("limit", 0, "maximum entries (default: store.max_results)")
	clausesLibraryCmd.Flags().Bool("json", false, "output entries as JSON")

	clausesLibraryCmd.AddCommand(clausesFilesCmd)
	clausesCmd.AddCommand(clausesListCmd, clausesShowCmd, clausesSearchCmd,
		clausesExportCmd, clausesSaveCmd, clausesSavedCmd, clausesLibraryCmd)
	rootCmd.AddCommand(clausesCmd)
}
