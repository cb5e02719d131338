// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/knowledge-hub/internal/ingest"
	"github.com/pdiddy/knowledge-hub/internal/store"
)

// Response is the envelope of every JSON reply. Code is 0 on success and
// -1 on failure; the HTTP status carries the failure class.
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func success(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Code: 0, Msg: "success", Data: data})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Response{Code: -1, Msg: msg})
}

// failErr maps a service error to its HTTP status. Internal errors are
// logged with the request and reported without detail.
func (h *Handler) failErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ingest.ErrNoClauses):
		fail(c, http.StatusUnprocessableEntity, ingest.ErrNoClauses.Error())
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, "internal error")
	}
}
