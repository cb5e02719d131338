// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/knowledge-hub/internal/content"
	"github.com/pdiddy/knowledge-hub/internal/store"
	"github.com/pdiddy/knowledge-hub/pkg/types"
)

const msa = `1. Termination
Either party may terminate this agreement immediately without notice.

2. Confidentiality
The parties agree to keep all information confidential indefinitely.`

func newService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(types.StoreConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewService(st, content.NewLoader(types.ContentConfig{}, nil), nil), st
}

// failingStore records calls and fails on demand.
type failingStore struct {
	replaceErr error
	replaced   int
}

func (f *failingStore) ReplaceClauses(context.Context, types.Document, []types.Clause) error {
	f.replaced++
	return f.replaceErr
}

func (f *failingStore) Clauses(context.Context, string) ([]types.Clause, error) {
	return nil, store.ErrNotFound
}

func (f *failingStore) DocumentModTime(context.Context, string) (time.Time, error) {
	return time.Time{}, nil
}

func TestProcess(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	clauses, err := svc.Process(ctx, types.Document{ID: "msa", Name: "msa.txt"}, Input{Text: msa})
	require.NoError(t, err)
	require.Len(t, clauses, 2)

	cached, err := st.Clauses(ctx, "msa")
	require.NoError(t, err)
	assert.Equal(t, clauses, cached)
}

func TestProcessPrefersBlocks(t *testing.T) {
	svc, _ := newService(t)

	clauses, err := svc.Process(context.Background(), types.Document{ID: "d"}, Input{
		Text: msa,
		Blocks: []types.ContentBlock{
			types.Heading("Payment Terms", 1),
			types.Paragraph("Invoices are payable net 30."),
		},
	})
	require.NoError(t, err)
	require.Len(t, clauses, 1)
	assert.Equal(t, "Payment Terms", clauses[0].Title)
}

func TestProcessNoClausesLeavesCache(t *testing.T) {
	fs := &failingStore{}
	svc := NewService(fs, nil, nil)

	_, err := svc.Process(context.Background(), types.Document{ID: "blank"}, Input{Text: "   \n\n "})
	assert.ErrorIs(t, err, ErrNoClauses)
	assert.Zero(t, fs.replaced)
}

func TestProcessStoreFailure(t *testing.T) {
	svc := NewService(&failingStore{replaceErr: errors.New("disk full")}, nil, nil)

	_, err := svc.Process(context.Background(), types.Document{ID: "d"}, Input{Text: msa})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "caching clauses for d: disk full")
}

func TestProcessLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := NewService(&failingStore{}, nil, zap.New(core))

	_, err := svc.Process(context.Background(), types.Document{ID: "msa"}, Input{Text: msa})
	require.NoError(t, err)

	entries := logs.FilterMessage("clauses extracted").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "msa", entries[0].ContextMap()["document_id"])
	assert.Equal(t, int64(2), entries[0].ContextMap()["count"])
}

func TestRisk(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Process(ctx, types.Document{ID: "msa"}, Input{Text: msa})
	require.NoError(t, err)

	report, err := svc.Risk(ctx, "msa")
	require.NoError(t, err)
	assert.Equal(t, 78, report.RiskScore)
	assert.Equal(t, types.ContractLow, report.RiskLevel)

	_, err = svc.Risk(ctx, "unknown")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAnalyze(t *testing.T) {
	svc := NewService(&failingStore{}, nil, nil)

	report := svc.Analyze(Input{Text: msa})
	assert.Equal(t, 78, report.RiskScore)
	assert.Len(t, report.Clauses, 2)

	empty := svc.Analyze(Input{})
	assert.Equal(t, 0, empty.RiskScore)
	assert.Equal(t, types.ContractHigh, empty.RiskLevel)
}

func TestProcessRef(t *testing.T) {
	svc, _ := newService(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "nda.md")
	require.NoError(t, os.WriteFile(path, []byte("# Confidentiality\nRecipient may disclose to its advisers."), 0o644))

	clauses, err := svc.ProcessRef(context.Background(), DocumentFor(path, ""), path)
	require.NoError(t, err)
	require.Len(t, clauses, 1)
	assert.Equal(t, "Confidentiality", clauses[0].Title)

	_, err = svc.ProcessRef(context.Background(), DocumentFor("x.csv", ""), filepath.Join(dir, "x.csv"))
	assert.ErrorIs(t, err, content.ErrUnsupported)
}

func TestHeadinglessMarkdownMatchesText(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	dir := t.TempDir()

	body := "This agreement is made between the parties\nand continues on a second line.\n\n" +
		"Payment is due within thirty days\nof the invoice date.\n"
	txt := filepath.Join(dir, "a.txt")
	md := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(txt, []byte(body), 0o644))
	require.NoError(t, os.WriteFile(md, []byte(body), 0o644))

	fromText, err := svc.Load(ctx, txt)
	require.NoError(t, err)
	fromMarkdown, err := svc.Load(ctx, md)
	require.NoError(t, err)

	want := svc.Extract(fromText)
	got := svc.Extract(fromMarkdown)
	require.Len(t, want, 2)
	assert.Equal(t, want, got)
	assert.Contains(t, got[0].Content, "and continues on a second line.")
	assert.Contains(t, got[1].Content, "of the invoice date.")
}

func TestLoadWithoutSource(t *testing.T) {
	svc := NewService(&failingStore{}, nil, nil)
	_, err := svc.Load(context.Background(), "a.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no content source")
}

func TestDocumentFor(t *testing.T) {
	doc := DocumentFor("/contracts/Master Services.md", "")
	assert.Equal(t, "Master Services", doc.ID)
	assert.Equal(t, "Master Services.md", doc.Name)
	assert.Equal(t, "/contracts/Master Services.md", doc.Source)
	assert.Equal(t, "text/markdown", doc.MimeType)

	assert.Equal(t, "explicit", DocumentFor("a.txt", "explicit").ID)
}

func TestInputEmpty(t *testing.T) {
	assert.True(t, Input{}.Empty())
	assert.True(t, Input{Text: " \n"}.Empty())
	assert.False(t, Input{Text: "x"}.Empty())
	assert.False(t, Input{Blocks: []types.ContentBlock{types.Paragraph("x")}}.Empty())
}

// --- scan ---

func writeDoc(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestScanDir(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	dir := t.TempDir()

	writeDoc(t, dir, "msa.txt", msa)
	writeDoc(t, dir, "vendors/nda.md", "# Confidentiality\nRecipient may disclose to its advisers.")
	writeDoc(t, dir, "blank.txt", "  \n")
	writeDoc(t, dir, "broken.json", `{"blocks": "nope"}`)
	writeDoc(t, dir, "notes.csv", "a,b")
	writeDoc(t, dir, ".hidden/secret.txt", msa)

	var out bytes.Buffer
	summary, err := svc.ScanDir(ctx, dir, &out)
	require.NoError(t, err)

	assert.Equal(t, ScanSummary{Extracted: 2, Empty: 1, Failed: 1}, summary, out.String())
	assert.Equal(t, 4, summary.Total())
	assert.True(t, summary.HasFailures())
	assert.Contains(t, out.String(), "extracted msa.txt (2 clauses)")
	assert.Contains(t, out.String(), "extracted vendors/nda.md (1 clauses)")
	assert.Contains(t, out.String(), "empty     blank.txt")
	assert.Contains(t, out.String(), "failed    broken.json")
	assert.NotContains(t, out.String(), "secret")

	cached, err := st.Clauses(ctx, "vendors/nda.md")
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	// A second pass skips files that have not changed.
	out.Reset()
	summary, err = svc.ScanDir(ctx, dir, &out)
	require.NoError(t, err)
	assert.Equal(t, ScanSummary{Skipped: 2, Empty: 1, Failed: 1}, summary, out.String())
}

func TestScanDirRescansChangedFiles(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	dir := t.TempDir()
	path := writeDoc(t, dir, "msa.txt", msa)

	_, err := svc.ScanDir(ctx, dir, &bytes.Buffer{})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("1. Payment Terms\nInvoices are payable net 30."), 0o644))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	var out bytes.Buffer
	summary, err := svc.ScanDir(ctx, dir, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Extracted, out.String())

	cached, err := st.Clauses(ctx, "msa.txt")
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "Payment Terms", cached[0].Title)
}

func TestScanDirMissing(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.ScanDir(context.Background(), filepath.Join(t.TempDir(), "nope"), &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "scanning "))
}

func TestScanDirCancelled(t *testing.T) {
	svc, _ := newService(t)
	dir := t.TempDir()
	writeDoc(t, dir, "msa.txt", msa)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.ScanDir(ctx, dir, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}
