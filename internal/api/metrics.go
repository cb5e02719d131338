// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the HTTP API. Each Metrics has
// its own registry, so several routers can coexist in one process.
//
// Metrics:
//   - knowledge_hub_http_requests_total{method,route,status}
//   - knowledge_hub_http_request_duration_seconds{method,route}
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates and registers the API collectors plus the Go runtime
// and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "knowledge_hub_http_requests_total",
				Help: "HTTP requests served, by route and status.",
			},
			[]string{"method", "route", "status"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "knowledge_hub_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// instrument records one observation per request. Unmatched paths share the
// "unmatched" route label to keep cardinality bounded.
func (m *Metrics) instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
