// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pdiddy/knowledge-hub/internal/content"
)

// ScanSummary holds counts from a directory scan.
type ScanSummary struct {
	Extracted int
	Skipped   int
	Empty     int
	Failed    int
}

// Total returns the number of documents considered.
func (s ScanSummary) Total() int {
	return s.Extracted + s.Skipped + s.Empty + s.Failed
}

// HasFailures reports whether any document failed to load or cache.
func (s ScanSummary) HasFailures() bool {
	return s.Failed > 0
}

// ScanDir extracts clauses from every supported file under dir, printing
// per-file status to w. Files whose modification time matches the one
// recorded at their last extraction are skipped. Document IDs are paths
// relative to dir.
func (s *Service) ScanDir(ctx context.Context, dir string, w io.Writer) (ScanSummary, error) {
	var summary ScanSummary

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || !content.Supported(path) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		s.scanFile(ctx, path, filepath.ToSlash(rel), d, w, &summary)
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("scanning %s: %w", dir, err)
	}

	fmt.Fprintf(w, "\nextracted: %d, skipped: %d, empty: %d, failed: %d\n",
		summary.Extracted, summary.Skipped, summary.Empty, summary.Failed)

	return summary, nil
}

func (s *Service) scanFile(ctx context.Context, path, id string, d fs.DirEntry, w io.Writer, summary *ScanSummary) {
	info, err := d.Info()
	if err != nil {
		fmt.Fprintf(w, "failed    %s: %v\n", id, err)
		summary.Failed++
		return
	}
	modTime := info.ModTime().UTC()

	stored, err := s.store.DocumentModTime(ctx, id)
	if err != nil {
		fmt.Fprintf(w, "failed    %s: %v\n", id, err)
		summary.Failed++
		return
	}
	if !stored.IsZero() && stored.Equal(modTime) {
		fmt.Fprintf(w, "skipped   %s\n", id)
		summary.Skipped++
		return
	}

	doc := DocumentFor(path, id)
	doc.ModTime = modTime

	clauses, err := s.ProcessRef(ctx, doc, path)
	switch {
	case errors.Is(err, ErrNoClauses):
		fmt.Fprintf(w, "empty     %s\n", id)
		summary.Empty++
	case err != nil:
		fmt.Fprintf(w, "failed    %s: %v\n", id, err)
		summary.Failed++
	default:
		fmt.Fprintf(w, "extracted %s (%d clauses)\n", id, len(clauses))
		summary.Extracted++
	}
}
