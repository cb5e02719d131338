// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the per-request id, echoed back on every response.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			fields = append(fields, zap.String("error", errs.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

func recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		log.Error("handler panicked",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Any("panic", rec),
			zap.Stack("stack"),
		)
		fail(c, http.StatusInternalServerError, "internal error")
	})
}

// bearerAuth rejects requests whose Authorization header does not carry token.
func bearerAuth(token string) gin.HandlerFunc {
	want := []byte(token)
	return func(c *gin.Context) {
		got, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			fail(c, http.StatusUnauthorized, "missing or invalid bearer token")
			return
		}
		c.Next()
	}
}
