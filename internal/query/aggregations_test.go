// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package query

import (
	"testing"

	"github.com/civicdata/catalog-query-service/internal/domain/model"
	"github.com/civicdata/catalog-query-service/pkg/constants"
	"github.com/civicdata/catalog-query-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCountRequestFields(t *testing.T) {
	tests := []struct {
		name      string
		field     string
		wantField string
		wantErr   bool
	}{
		{name: "domains", field: "domains", wantField: "domain_cname.raw"},
		{name: "categories", field: "categories", wantField: "categories.raw"},
		{name: "tags", field: "tags", wantField: "tags.raw"},
		{name: "unknown field rejected", field: "owners", wantErr: true},
	}

	criteria := &model.SearchCriteria{Limit: 100}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := BuildCountRequest(tc.field, criteria, testDomainSet(nil))

			if tc.wantErr {
				require.Error(t, err)
				assert.IsType(t, errors.Validation{}, err)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, 0, req.Body["size"])
			counts := req.Body["aggs"].(map[string]any)["counts"].(map[string]any)
			assert.Equal(t, map[string]any{
				"field":         tc.wantField,
				"size":          constants.MaxFacetBuckets,
				"min_doc_count": 0,
			}, counts["terms"])
		})
	}
}

func TestBuildCountRequestKeepsFiltersDropsBoosts(t *testing.T) {
	criteria := &model.SearchCriteria{
		Query:          model.Query{Kind: model.QuerySimple, Text: "water"},
		DatatypeBoosts: map[string]float64{"chart": 5},
		Categories:     []string{"Environment"},
		Limit:          100,
	}
	req, err := BuildCountRequest("domains", criteria, testDomainSet(nil))
	require.NoError(t, err)

	boolClause := req.Body["query"].(map[string]any)["bool"].(map[string]any)

	// The match clause is the bare cross-field match, no should boosts.
	crossFields, ok := boolClause["must"].(map[string]any)["multi_match"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "water", crossFields["query"])

	filters := boolClause["filter"].([]map[string]any)
	assert.Contains(t, filters, map[string]any{
		"terms": map[string]any{"categories.raw": []string{"Environment"}},
	})
}

func TestBuildCountRequestMatchesSearchMinimumShouldMatch(t *testing.T) {
	explicit := "2"

	tests := []struct {
		name     string
		criteria *model.SearchCriteria
		want     string
	}{
		{
			name: "context default",
			criteria: &model.SearchCriteria{
				Query: model.Query{Kind: model.QuerySimple, Text: "water quality samples"},
				Limit: 100,
			},
			want: constants.DefaultMinShouldMatch,
		},
		{
			name: "explicit value wins",
			criteria: &model.SearchCriteria{
				Query:          model.Query{Kind: model.QuerySimple, Text: "water quality samples"},
				MinShouldMatch: &explicit,
				Limit:          100,
			},
			want: explicit,
		},
	}

	context := &model.Domain{ID: 1, Cname: "petercetera.net", IsCustomerDomain: true}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ds := testDomainSet(context)

			searchReq := BuildSearchRequest(tc.criteria, ds)
			countReq, err := BuildCountRequest("domains", tc.criteria, ds)
			require.NoError(t, err)

			searchBool := searchReq.Body["query"].(map[string]any)["bool"].(map[string]any)
			searchCross := searchBool["must"].(map[string]any)["bool"].(map[string]any)["must"].(map[string]any)["multi_match"].(map[string]any)
			countBool := countReq.Body["query"].(map[string]any)["bool"].(map[string]any)
			countCross := countBool["must"].(map[string]any)["multi_match"].(map[string]any)

			// Counting must evaluate the same match set as searching.
			assert.Equal(t, tc.want, searchCross["minimum_should_match"])
			assert.Equal(t, tc.want, countCross["minimum_should_match"])
		})
	}
}

func TestBuildFacetRequestSingletonScope(t *testing.T) {
	domain := &model.Domain{ID: 4, Cname: "annabelle.island.net", IsCustomerDomain: true, ModerationEnabled: true, RoutingApprovalEnabled: true}
	req := BuildFacetRequest(domain)

	assert.Equal(t, 0, req.Body["size"])

	boolClause := req.Body["query"].(map[string]any)["bool"].(map[string]any)
	filters := boolClause["filter"].([]map[string]any)

	assert.Equal(t, map[string]any{
		"terms": map[string]any{"domain_id": []int{4}},
	}, filters[0])

	// The domain's own policy applies: moderated and routing-enabled.
	require.Len(t, filters, 3)
	assert.Contains(t, filters[2], "bool")
}

func TestBuildFacetRequestAggregationSet(t *testing.T) {
	domain := &model.Domain{ID: 1, Cname: "petercetera.net", IsCustomerDomain: true}
	req := BuildFacetRequest(domain)

	aggs := req.Body["aggs"].(map[string]any)
	for _, name := range []string{"datatypes", "categories", "tags", "metadata"} {
		assert.Contains(t, aggs, name)
	}

	metadata := aggs["metadata"].(map[string]any)
	assert.Equal(t, map[string]any{"path": "metadata"}, metadata["nested"])

	keys := metadata["aggs"].(map[string]any)["keys"].(map[string]any)
	assert.Equal(t, "metadata.key", keys["terms"].(map[string]any)["field"])

	values := keys["aggs"].(map[string]any)["values"].(map[string]any)
	assert.Equal(t, "metadata.value", values["terms"].(map[string]any)["field"])
}

func TestBuildFacetRequestUnmoderatedDomainHasNoRoutingFilter(t *testing.T) {
	domain := &model.Domain{ID: 1, Cname: "petercetera.net", IsCustomerDomain: true}
	req := BuildFacetRequest(domain)

	boolClause := req.Body["query"].(map[string]any)["bool"].(map[string]any)
	filters := boolClause["filter"].([]map[string]any)

	// Membership plus the moderation policy filter only.
	assert.Len(t, filters, 2)
}
