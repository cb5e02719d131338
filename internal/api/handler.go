// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pdiddy/knowledge-hub/internal/ingest"
	"github.com/pdiddy/knowledge-hub/internal/report"
	"github.com/pdiddy/knowledge-hub/internal/store"
	"github.com/pdiddy/knowledge-hub/pkg/types"
)

// Store is the read and library side of the clause cache the API serves.
type Store interface {
	Clauses(ctx context.Context, docID string) ([]types.Clause, error)
	Clause(ctx context.Context, docID string, number int) (types.Clause, error)
	SaveToLibrary(ctx context.Context, docID string, number int, savedBy, category string) (types.LibraryClause, bool, error)
	SavedEntry(ctx context.Context, docID string, number int) (types.LibraryClause, bool, error)
	Library(ctx context.Context, q store.LibraryQuery) ([]types.LibraryClause, error)
	SimilarDocuments(ctx context.Context, libraryID string) (types.LibraryClause, []types.SimilarDocument, error)
	Search(ctx context.Context, opts store.SearchOptions) ([]store.SearchResult, error)
}

// Handler serves the clause and risk endpoints.
type Handler struct {
	svc   *ingest.Service
	store Store
}

// NewHandler creates a Handler.
func NewHandler(svc *ingest.Service, st Store) *Handler {
	return &Handler{svc: svc, store: st}
}

const previewLen = 100

type extractRequest struct {
	Name string `json:"name"`
	ingest.Input
}

type clauseSummary struct {
	ClauseNumber   int    `json:"clause_number"`
	SectionNumber  string `json:"section_number"`
	Title          string `json:"title"`
	ContentPreview string `json:"content_preview"`
}

type extractResponse struct {
	Count      int             `json:"count"`
	DocumentID string          `json:"document_id"`
	Clauses    []clauseSummary `json:"clauses"`
}

// preview truncates content to previewLen characters, marking the cut.
func preview(content string) string {
	if utf8.RuneCountInString(content) <= previewLen {
		return content
	}
	return string([]rune(content)[:previewLen]) + "..."
}

// ExtractClauses extracts and caches clauses for the document in the path,
// or for a new document with a generated id when the path has none.
func (h *Handler) ExtractClauses(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Empty() {
		fail(c, http.StatusBadRequest, "text or blocks required")
		return
	}

	id := c.Param("id")
	status := http.StatusOK
	if id == "" {
		id = uuid.NewString()
		status = http.StatusCreated
	}
	name := req.Name
	if name == "" {
		name = id
	}

	clauses, err := h.svc.Process(c.Request.Context(), types.Document{ID: id, Name: name}, req.Input)
	if err != nil {
		h.failErr(c, err)
		return
	}

	resp := extractResponse{
		Count:      len(clauses),
		DocumentID: id,
		Clauses:    make([]clauseSummary, len(clauses)),
	}
	for i, cl := range clauses {
		resp.Clauses[i] = clauseSummary{
			ClauseNumber:   cl.ClauseNumber,
			SectionNumber:  cl.SectionNumber,
			Title:          cl.Title,
			ContentPreview: preview(cl.Content),
		}
	}
	success(c, status, resp)
}

// ListClauses returns the cached clauses of a document with full content.
func (h *Handler) ListClauses(c *gin.Context) {
	id := c.Param("id")
	clauses, err := h.store.Clauses(c.Request.Context(), id)
	if err != nil {
		h.failErr(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{
		"document_id": id,
		"count":       len(clauses),
		"clauses":     clauses,
	})
}

// GetClause returns one cached clause by number.
func (h *Handler) GetClause(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("number"))
	if err != nil || n < 1 {
		fail(c, http.StatusBadRequest, "clause number must be a positive integer")
		return
	}
	cl, err := h.store.Clause(c.Request.Context(), c.Param("id"), n)
	if err != nil {
		h.failErr(c, err)
		return
	}
	success(c, http.StatusOK, cl)
}

// RiskScore scores the cached clauses of a contract. format=xlsx returns a
// workbook instead of JSON.
func (h *Handler) RiskScore(c *gin.Context) {
	id := c.Param("id")
	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "xlsx" {
		fail(c, http.StatusBadRequest, fmt.Sprintf("unsupported format %q: use json or xlsx", format))
		return
	}

	rep, err := h.svc.Risk(c.Request.Context(), id)
	if err != nil {
		h.failErr(c, err)
		return
	}

	if format == "xlsx" {
		var buf bytes.Buffer
		if err := report.WriteXLSX(&buf, rep); err != nil {
			h.failErr(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+"-risk.xlsx"))
		c.Data(http.StatusOK, report.XLSXContentType, buf.Bytes())
		return
	}
	success(c, http.StatusOK, rep)
}

// AnalyzeRisk extracts and scores inline content without caching it.
func (h *Handler) AnalyzeRisk(c *gin.Context) {
	var in ingest.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if in.Empty() {
		fail(c, http.StatusBadRequest, "text or blocks required")
		return
	}
	success(c, http.StatusOK, h.svc.Analyze(in))
}

type saveRequest struct {
	DocumentID   string `json:"document_id" binding:"required"`
	ClauseNumber int    `json:"clause_number" binding:"required,min=1"`
	Category     string `json:"category"`
}

// SaveClause copies a cached clause into the library. An existing entry for
// the same document and title is returned with 200 instead of 201.
func (h *Handler) SaveClause(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	entry, created, err := h.store.SaveToLibrary(c.Request.Context(),
		req.DocumentID, req.ClauseNumber, c.Query("saved_by"), req.Category)
	if err != nil {
		h.failErr(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	success(c, status, gin.H{"created": created, "clause": entry})
}

type savedResponse struct {
	Saved     bool    `json:"saved"`
	LibraryID *string `json:"library_id"`
}

// CheckSaved reports whether a cached clause is already in the library
// without writing anything. A clause missing from the cache is not saved.
func (h *Handler) CheckSaved(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("number"))
	if err != nil || n < 1 {
		fail(c, http.StatusBadRequest, "clause number must be a positive integer")
		return
	}
	entry, saved, err := h.store.SavedEntry(c.Request.Context(), c.Param("document_id"), n)
	if err != nil {
		h.failErr(c, err)
		return
	}
	resp := savedResponse{Saved: saved}
	if saved {
		resp.LibraryID = &entry.ID
	}
	success(c, http.StatusOK, resp)
}

// ListLibrary lists saved clauses filtered by title and category.
func (h *Handler) ListLibrary(c *gin.Context) {
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}
	entries, err := h.store.Library(c.Request.Context(), store.LibraryQuery{
		Title:    c.Query("title"),
		Category: c.Query("category"),
		Limit:    limit,
	})
	if err != nil {
		h.failErr(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"count": len(entries), "clauses": entries})
}

// LibraryFiles lists documents holding a clause like the library entry.
func (h *Handler) LibraryFiles(c *gin.Context) {
	entry, docs, err := h.store.SimilarDocuments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.failErr(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{
		"clause_title":   entry.Title,
		"clause_content": entry.Content,
		"files":          docs,
	})
}

// SearchClauses runs a full-text query over cached clauses.
func (h *Handler) SearchClauses(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		fail(c, http.StatusBadRequest, "query parameter q is required")
		return
	}
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}
	results, err := h.store.Search(c.Request.Context(), store.SearchOptions{
		Query:      q,
		DocumentID: c.Query("document_id"),
		MaxResults: limit,
	})
	if err != nil {
		h.failErr(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"count": len(results), "results": results})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	success(c, http.StatusOK, gin.H{"status": "ok"})
}

// intQuery parses an optional non-negative integer query parameter. On a bad
// value it writes a 400 and returns ok=false.
func intQuery(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		fail(c, http.StatusBadRequest, fmt.Sprintf("%s must be a non-negative integer", key))
		return 0, false
	}
	return n, true
}
