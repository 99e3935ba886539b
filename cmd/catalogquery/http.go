// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/civicdata/catalog-query-service/internal/domain/model"
	"github.com/civicdata/catalog-query-service/internal/metrics"
	"github.com/civicdata/catalog-query-service/internal/middleware"
	"github.com/civicdata/catalog-query-service/internal/service"
	"github.com/civicdata/catalog-query-service/pkg/errors"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type searchResponseItem struct {
	Resource json.RawMessage `json:"resource"`
	Score    *float64        `json:"score,omitempty"`
}

type searchResponse struct {
	Results       []searchResponseItem `json:"results"`
	ResultSetSize int                  `json:"resultSetSize"`
}

type countResponse struct {
	Results []model.AggregationBucket `json:"results"`
}

type metadataFacetJSON struct {
	Key    string                    `json:"key"`
	Values []model.AggregationBucket `json:"values"`
}

type facetResponse struct {
	Datatypes  []model.AggregationBucket `json:"datatypes"`
	Categories []model.AggregationBucket `json:"categories"`
	Tags       []model.AggregationBucket `json:"tags"`
	Metadata   []metadataFacetJSON       `json:"metadata"`
}

type errorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

type handlers struct {
	catalog *service.CatalogSearch
}

// newRouter wires the HTTP surface: the catalog endpoints plus health and
// metrics. Instrumentation labels use the route pattern to keep metric
// cardinality bounded.
func newRouter(catalog *service.CatalogSearch) http.Handler {
	h := &handlers{catalog: catalog}

	r := chi.NewRouter()
	r.Use(middleware.RequestID())

	r.With(metrics.Instrument("/catalog/v1")).
		Get("/catalog/v1", h.search)
	r.With(metrics.Instrument("/catalog/v1/domains/{cname}/facets")).
		Get("/catalog/v1/domains/{cname}/facets", h.facets)
	r.With(metrics.Instrument("/catalog/v1/count/{field}")).
		Get("/catalog/v1/count/{field}", h.count)

	r.Get("/healthz", h.health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (h *handlers) search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.catalog.Search(ctx, r.URL.Query(), cookieHeader(r), middleware.RequestIDFromContext(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}

	response := searchResponse{
		Results:       make([]searchResponseItem, 0, len(result.Hits)),
		ResultSetSize: result.Total,
	}
	for _, hit := range result.Hits {
		response.Results = append(response.Results, searchResponseItem{
			Resource: hit.Source,
			Score:    hit.Score,
		})
	}

	echoCookies(w, result.SetCookies)
	writeJSON(w, r, http.StatusOK, response)
}

func (h *handlers) count(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	field := chi.URLParam(r, "field")

	result, err := h.catalog.Count(ctx, field, r.URL.Query(), cookieHeader(r), middleware.RequestIDFromContext(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}

	echoCookies(w, result.SetCookies)
	writeJSON(w, r, http.StatusOK, countResponse{Results: result.Buckets})
}

func (h *handlers) facets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cname := chi.URLParam(r, "cname")

	result, err := h.catalog.Facets(ctx, cname, cookieHeader(r), middleware.RequestIDFromContext(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}

	response := facetResponse{
		Datatypes:  result.Datatypes,
		Categories: result.Categories,
		Tags:       result.Tags,
		Metadata:   make([]metadataFacetJSON, 0, len(result.Metadata)),
	}
	for _, facet := range result.Metadata {
		response.Metadata = append(response.Metadata, metadataFacetJSON{
			Key:    facet.Key,
			Values: facet.Values,
		})
	}

	echoCookies(w, result.SetCookies)
	writeJSON(w, r, http.StatusOK, response)
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.IsReady(r.Context()); err != nil {
		writeJSON(w, r, http.StatusServiceUnavailable, errorResponse{Error: "not ready"})
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// writeError maps domain errors onto HTTP status codes. Unrecognized errors
// are logged in full and surfaced without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch e := err.(type) {
	case errors.Validation:
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: e.Message(), Problems: e.Problems})
	case errors.NotFound:
		writeJSON(w, r, http.StatusNotFound, errorResponse{Error: e.Error()})
	case errors.ServiceUnavailable:
		writeJSON(w, r, http.StatusServiceUnavailable, errorResponse{Error: e.Error()})
	case errors.Decode:
		writeJSON(w, r, http.StatusBadGateway, errorResponse{Error: e.Error()})
	default:
		slog.ErrorContext(r.Context(), "unhandled request error", "error", err)
		writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

// cookieHeader returns the raw inbound cookie header, nil when absent
func cookieHeader(r *http.Request) *string {
	if cookie := r.Header.Get("Cookie"); cookie != "" {
		return &cookie
	}
	return nil
}

// echoCookies propagates identity-service cookies to the caller verbatim
func echoCookies(w http.ResponseWriter, cookies []string) {
	for _, c := range cookies {
		w.Header().Add("Set-Cookie", c)
	}
}
