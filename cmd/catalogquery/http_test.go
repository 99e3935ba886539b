// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/civicdata/catalog-query-service/internal/infrastructure/mock"
	"github.com/civicdata/catalog-query-service/internal/service"
	"github.com/civicdata/catalog-query-service/pkg/constants"
	"github.com/civicdata/catalog-query-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *mock.MockIdentityResolver, *mock.MockRoleChecker) {
	t.Helper()

	identity := mock.NewMockIdentityResolver()
	roles := mock.NewMockRoleChecker()
	resolver := service.NewDomainResolver(mock.NewMockDomainRegistry(), identity, roles)
	catalog := service.NewCatalogSearch(resolver, mock.NewMockCatalogSearcher())

	server := httptest.NewServer(newRouter(catalog))
	t.Cleanup(server.Close)
	return server, identity, roles
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestSearchEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t)

	var body searchResponse
	resp := getJSON(t, server.URL+"/catalog/v1?q=water+quality", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get(constants.RequestIDHeader))

	require.Len(t, body.Results, 1)
	assert.Equal(t, 1, body.ResultSetSize)
	assert.Nil(t, body.Results[0].Score)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(body.Results[0].Resource, &doc))
	assert.Equal(t, "Water Quality Samples", doc["name"])
}

func TestSearchEndpointShowScore(t *testing.T) {
	server, _, _ := newTestServer(t)

	var body searchResponse
	resp := getJSON(t, server.URL+"/catalog/v1?q=water&show_score=true", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, body.Results)
	assert.NotNil(t, body.Results[0].Score)
}

func TestSearchEndpointValidation(t *testing.T) {
	server, _, _ := newTestServer(t)

	var body errorResponse
	resp := getJSON(t, server.URL+"/catalog/v1?only=spreadsheets&limit=0", &body)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid query parameters", body.Error)
	assert.Len(t, body.Problems, 2)
}

func TestSearchEndpointUnknownContext(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := getJSON(t, server.URL+"/catalog/v1?search_context=nosuch.example.com", nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCountEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t)

	var body countResponse
	resp := getJSON(t, server.URL+"/catalog/v1/count/domains?search_context=annabelle.island.net", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body.Results, 4)
	assert.Equal(t, "annabelle.island.net", body.Results[0].Key)
	assert.Equal(t, uint64(0), body.Results[1].DocCount, "blue.org reports an explicit zero bucket")
}

func TestCountEndpointUnknownField(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := getJSON(t, server.URL+"/catalog/v1/count/owners", nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFacetsEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t)

	var body facetResponse
	resp := getJSON(t, server.URL+"/catalog/v1/domains/petercetera.net/facets", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body.Datatypes, 4)
	require.NotEmpty(t, body.Metadata)
	assert.Equal(t, "Department", body.Metadata[0].Key)
}

func TestFacetsEndpointHiddenDomain(t *testing.T) {
	server, _, _ := newTestServer(t)

	tests := []struct {
		name  string
		cname string
	}{
		{name: "unknown domain", cname: "nosuch.example.com"},
		{name: "locked domain without a grant", cname: "locked.demo.com"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := getJSON(t, server.URL+"/catalog/v1/domains/"+tc.cname+"/facets", nil)

			// Hidden and nonexistent must be indistinguishable.
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}

func TestSearchEndpointEchoesSetCookies(t *testing.T) {
	server, identity, _ := newTestServer(t)
	identity.SetCookies([]string{"session=refreshed; Path=/"})

	resp := getJSON(t, server.URL+"/catalog/v1?domains=locked.demo.com", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Values("Set-Cookie"), "session=refreshed; Path=/")
}

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "validation", err: errors.NewValidation("bad request"), wantStatus: http.StatusBadRequest},
		{name: "not found", err: errors.NewDomainNotFound("nosuch.example.com"), wantStatus: http.StatusNotFound},
		{name: "service unavailable", err: errors.NewServiceUnavailable("down"), wantStatus: http.StatusServiceUnavailable},
		{name: "decode", err: errors.NewDecode("malformed"), wantStatus: http.StatusBadGateway},
		{name: "unexpected", err: stderrors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/catalog/v1", nil)

			writeError(rec, req, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/catalog/v1", nil)

	writeError(rec, req, stderrors.New("pg: connection string leaked"))

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body.Error)
}

func TestHealthEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := getJSON(t, server.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := getJSON(t, server.URL+"/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
