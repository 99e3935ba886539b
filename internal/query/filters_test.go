// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package query

import (
	"testing"

	"github.com/civicdata/catalog-query-service/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFiltersAlwaysRestrictsDomainMembership(t *testing.T) {
	criteria := &model.SearchCriteria{Limit: 100}
	filters := buildFilters(criteria, testDomainSet(nil))

	assert.Contains(t, filters, map[string]any{
		"terms": map[string]any{"domain_id": []int{1, 3, 4}},
	})
}

func TestBuildFiltersEmptyVisibleSetMatchesNothing(t *testing.T) {
	criteria := &model.SearchCriteria{Limit: 100}
	filters := buildFilters(criteria, &model.DomainSet{})

	assert.Contains(t, filters, map[string]any{
		"terms": map[string]any{"domain_id": []int{}},
	})
}

func TestBuildFiltersOnlyDatatype(t *testing.T) {
	only := "chart"
	criteria := &model.SearchCriteria{Only: &only, Limit: 100}
	filters := buildFilters(criteria, testDomainSet(nil))

	assert.Equal(t, map[string]any{
		"term": map[string]any{"datatype": "chart"},
	}, filters[0])
}

func TestModerationFilterUnmoderatedContext(t *testing.T) {
	ds := testDomainSet(&model.Domain{ID: 1, Cname: "petercetera.net", IsCustomerDomain: true})
	filter := moderationFilter(ds.Context, ds.Partition())

	// Moderated domains contribute only default views; unmoderated domains
	// are unrestricted.
	assert.Equal(t, map[string]any{
		"bool": map[string]any{
			"should": []map[string]any{
				{
					"bool": map[string]any{
						"must": []map[string]any{
							{"terms": map[string]any{"domain_id": []int{3, 4}}},
							{"term": map[string]any{"is_default_view": true}},
						},
					},
				},
				{"terms": map[string]any{"domain_id": []int{1}}},
			},
		},
	}, filter)
}

func TestModerationFilterModeratedContext(t *testing.T) {
	ds := testDomainSet(&model.Domain{ID: 4, Cname: "annabelle.island.net", IsCustomerDomain: true, ModerationEnabled: true, RoutingApprovalEnabled: true})
	filter := moderationFilter(ds.Context, ds.Partition())

	// Moderated domains need approval; unmoderated domains contribute only
	// default views.
	assert.Equal(t, map[string]any{
		"bool": map[string]any{
			"should": []map[string]any{
				{
					"bool": map[string]any{
						"must": []map[string]any{
							{"terms": map[string]any{"domain_id": []int{3, 4}}},
							{"term": map[string]any{"is_moderation_approved": true}},
						},
					},
				},
				{
					"bool": map[string]any{
						"must": []map[string]any{
							{"terms": map[string]any{"domain_id": []int{1}}},
							{"term": map[string]any{"is_default_view": true}},
						},
					},
				},
			},
		},
	}, filter)
}

func TestModerationFilterNoContextBehavesUnmoderated(t *testing.T) {
	ds := testDomainSet(nil)
	withoutContext := moderationFilter(nil, ds.Partition())
	unmoderatedContext := moderationFilter(&model.Domain{ID: 1, Cname: "petercetera.net"}, ds.Partition())

	assert.Equal(t, unmoderatedContext, withoutContext)
}

func TestRoutingApprovalFilter(t *testing.T) {
	ds := testDomainSet(nil)
	partition := ds.Partition()

	tests := []struct {
		name    string
		context *model.Domain
		want    map[string]any
	}{
		{
			name: "absent without a context",
		},
		{
			name:    "absent when the context has routing approval disabled",
			context: &model.Domain{ID: 1, Cname: "petercetera.net"},
		},
		{
			name:    "present when the context has routing approval enabled",
			context: &model.Domain{ID: 4, Cname: "annabelle.island.net", RoutingApprovalEnabled: true},
			want: map[string]any{
				"bool": map[string]any{
					"should": []map[string]any{
						{"terms": map[string]any{"domain_id": []int{1, 3}}},
						{"term": map[string]any{"is_routing_approved": true}},
					},
				},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			filter := routingApprovalFilter(tc.context, partition)

			if tc.want == nil {
				assert.Nil(t, filter)
			} else {
				assert.Equal(t, tc.want, filter)
			}
		})
	}
}

func TestContextScopedFiltersIncludeMetadata(t *testing.T) {
	criteria := &model.SearchCriteria{
		Categories: []string{"Environment"},
		Tags:       []string{"water"},
		Metadata:   []model.MetadataPair{{Key: "Department", Value: "Fire"}},
		Limit:      100,
	}
	context := &model.Domain{ID: 1, Cname: "petercetera.net"}
	filters := buildFilters(criteria, testDomainSet(context))

	assert.Contains(t, filters, map[string]any{
		"terms": map[string]any{"categories.raw": []string{"Environment"}},
	})
	assert.Contains(t, filters, map[string]any{
		"terms": map[string]any{"tags.raw": []string{"water"}},
	})

	var nestedFilter map[string]any
	for _, f := range filters {
		if _, ok := f["nested"]; ok {
			nestedFilter = f
		}
	}
	require.NotNil(t, nestedFilter, "metadata filters must be nested")
	assert.Equal(t, map[string]any{
		"nested": map[string]any{
			"path": "metadata",
			"query": map[string]any{
				"bool": map[string]any{
					"must": []map[string]any{
						{"term": map[string]any{"metadata.key": "Department"}},
						{"term": map[string]any{"metadata.value": "Fire"}},
					},
				},
			},
		},
	}, nestedFilter)
}

func TestCatalogWideFiltersDropMetadata(t *testing.T) {
	// A suppressed locked context leaves metadata filters in the criteria;
	// the catalog-wide variant must not apply them.
	criteria := &model.SearchCriteria{
		Categories: []string{"Environment"},
		Metadata:   []model.MetadataPair{{Key: "Department", Value: "Fire"}},
		Limit:      100,
	}
	filters := buildFilters(criteria, testDomainSet(nil))

	for _, f := range filters {
		_, ok := f["nested"]
		assert.False(t, ok, "catalog-wide filters must not contain nested metadata")
	}
	assert.Contains(t, filters, map[string]any{
		"terms": map[string]any{"categories.raw": []string{"Environment"}},
	})
}
