// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api exposes clause extraction, the clause cache and library, and
// risk scoring over HTTP with gin.
package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options configures the router.
type Options struct {
	// APIToken, when set, is required as a bearer token on /api/v1 routes.
	APIToken string
	Log      *zap.Logger

	// Metrics receives request observations and is served on /metrics.
	// NewRouter creates one when nil.
	Metrics *Metrics
}

// NewRouter builds the gin engine with middleware and routes installed.
func NewRouter(h *Handler, opts Options) *gin.Engine {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	m := opts.Metrics
	if m == nil {
		m = NewMetrics()
	}

	r := gin.New()
	r.Use(requestID(), requestLogger(log), m.instrument(), recovery(log))
	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	RegisterRoutes(r, h, opts.APIToken)
	return r
}

// RegisterRoutes mounts the /api/v1 routes on r.
func RegisterRoutes(r *gin.Engine, h *Handler, token string) {
	api := r.Group("/api/v1")
	if token != "" {
		api.Use(bearerAuth(token))
	}
	{
		docs := api.Group("/documents")
		{
			docs.POST("", h.ExtractClauses)
			docs.POST("/:id/extract-clauses", h.ExtractClauses)
			docs.GET("/:id/clauses", h.ListClauses)
			docs.GET("/:id/clauses/:number", h.GetClause)
		}
		api.GET("/contracts/:id/risk-score", h.RiskScore)
		api.POST("/risk/analyze", h.AnalyzeRisk)

		clauses := api.Group("/clauses")
		{
			clauses.GET("/search", h.SearchClauses)
			clauses.POST("/library", h.SaveClause)
			clauses.GET("/library", h.ListLibrary)
			clauses.GET("/library/:id/files", h.LibraryFiles)
			clauses.GET("/check-saved/:document_id/:number", h.CheckSaved)
		}
	}
}
