// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Extract clauses from every document in a directory",
	Long: `Scan walks a documents directory (default: scan.documents_dir) and
extracts clauses from every supported file, caching them under the file's
path relative to the directory. Files unchanged since their last
extraction are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		dir := cfg.Scan.DocumentsDir
		if len(args) == 1 {
			dir = args[0]
		}

		svc, st, err := newService(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		summary, err := svc.ScanDir(cmd.Context(), dir, os.Stdout)
		if err != nil {
			return err
		}
		if summary.HasFailures() {
			return fmt.Errorf("%d document(s) failed extraction", summary.Failed)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().String("documents-dir", "", "directory to scan (overrides scan.documents_dir)")
	_ = viper.BindPFlag("scan.documents_dir", scanCmd.Flags().Lookup("documents-dir"))

	rootCmd.AddCommand(scanCmd)
}
