// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus instrumentation for the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_query_http_requests_total",
			Help: "HTTP requests processed, by route, method and status code.",
		},
		[]string{"route", "method", "code"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_query_http_request_duration_seconds",
			Help:    "HTTP request latency, by route and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	visibilityRoleChecks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_query_role_checks_total",
			Help: "Per-domain role checks performed while resolving visibility.",
		},
	)
)

// CountRoleCheck records one per-domain role check
func CountRoleCheck() {
	visibilityRoleChecks.Inc()
}

// statusRecorder captures the status code written by the handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Instrument creates a middleware that records request counts and latency
// under the given route label. Routes are labeled by pattern, not raw path,
// to keep cardinality bounded.
func Instrument(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
			requestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}
