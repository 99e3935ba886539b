// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"net/url"
	"testing"

	"github.com/civicdata/catalog-query-service/internal/domain/model"
	"github.com/civicdata/catalog-query-service/internal/infrastructure/mock"
	"github.com/civicdata/catalog-query-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	registry *mock.MockDomainRegistry
	identity *mock.MockIdentityResolver
	roles    *mock.MockRoleChecker
	searcher *mock.MockCatalogSearcher
	catalog  *CatalogSearch
}

func newCatalogFixture() *catalogFixture {
	f := &catalogFixture{
		registry: mock.NewMockDomainRegistry(),
		identity: mock.NewMockIdentityResolver(),
		roles:    mock.NewMockRoleChecker(),
		searcher: mock.NewMockCatalogSearcher(),
	}
	resolver := NewDomainResolver(f.registry, f.identity, f.roles)
	f.catalog = NewCatalogSearch(resolver, f.searcher)
	return f
}

func hitIDs(result *model.SearchResult) []string {
	ids := make([]string, 0, len(result.Hits))
	for _, h := range result.Hits {
		ids = append(ids, h.ID)
	}
	return ids
}

func TestSearchDefaultCatalog(t *testing.T) {
	f := newCatalogFixture()

	result, err := f.catalog.Search(context.Background(), url.Values{}, nil, nil)

	require.NoError(t, err)
	// Customer domains only; moderated domains contribute default views;
	// the locked domain is hidden from the anonymous caller. Name order.
	assert.Equal(t, []string{"p1", "p2", "p3", "a1", "o1", "b1", "p4"}, hitIDs(result))
	assert.Equal(t, 7, result.Total)
}

func TestSearchScoresHiddenByDefault(t *testing.T) {
	f := newCatalogFixture()

	tests := []struct {
		name      string
		params    url.Values
		wantScore bool
	}{
		{
			name:   "scores stripped by default",
			params: url.Values{"q": {"water"}},
		},
		{
			name:      "scores shown on request",
			params:    url.Values{"q": {"water"}, "show_score": {"true"}},
			wantScore: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := f.catalog.Search(context.Background(), tc.params, nil, nil)

			require.NoError(t, err)
			require.NotEmpty(t, result.Hits)
			for _, hit := range result.Hits {
				if tc.wantScore {
					assert.NotNil(t, hit.Score)
				} else {
					assert.Nil(t, hit.Score)
				}
			}
		})
	}
}

func TestSearchSimpleQueryMatches(t *testing.T) {
	f := newCatalogFixture()

	result, err := f.catalog.Search(context.Background(), url.Values{"q": {"water quality"}}, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"b1"}, hitIDs(result))
}

func TestSearchOnlyDatatype(t *testing.T) {
	f := newCatalogFixture()

	result, err := f.catalog.Search(context.Background(), url.Values{"only": {"charts"}}, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, hitIDs(result))
}

func TestSearchExplicitDomains(t *testing.T) {
	f := newCatalogFixture()

	result, err := f.catalog.Search(context.Background(), url.Values{
		"domains": {"petercetera.net,blue.org"},
	}, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 5, result.Total)
	assert.NotContains(t, hitIDs(result), "o1")
}

func TestSearchCategoryFilterSortsByPopularity(t *testing.T) {
	f := newCatalogFixture()

	result, err := f.catalog.Search(context.Background(), url.Values{
		"search_context": {"petercetera.net"},
		"categories":     {"Public Safety"},
	}, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3"}, hitIDs(result))
}

func TestSearchMetadataFilterWithContext(t *testing.T) {
	f := newCatalogFixture()

	result, err := f.catalog.Search(context.Background(), url.Values{
		"search_context": {"petercetera.net"},
		"metadata":       {"Department:Fire"},
	}, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, hitIDs(result))
}

func TestSearchModeratedContextRequiresApproval(t *testing.T) {
	f := newCatalogFixture()

	result, err := f.catalog.Search(context.Background(), url.Values{
		"search_context": {"annabelle.island.net"},
	}, nil, nil)

	require.NoError(t, err)
	// Approval required on moderated domains (b1 out), default views only on
	// unmoderated ones (p2-p4 out), routing approval enforced (a2 out).
	assert.ElementsMatch(t, []string{"p1", "o1", "a1"}, hitIDs(result))
}

func TestSearchPagination(t *testing.T) {
	f := newCatalogFixture()

	result, err := f.catalog.Search(context.Background(), url.Values{
		"offset": {"2"},
		"limit":  {"3"},
	}, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "a1", "o1"}, hitIDs(result))
	assert.Equal(t, 7, result.Total, "total reflects the full match set")
}

func TestSearchLockedDomainWithGrant(t *testing.T) {
	f := newCatalogFixture()
	cookie := "session=abc"
	f.identity.SetUser(&model.UserIdentity{ID: "user-7"})
	f.roles.Grant("locked.demo.com", "user-7", "viewer", true)

	result, err := f.catalog.Search(context.Background(), url.Values{
		"domains": {"locked.demo.com"},
	}, &cookie, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"l1"}, hitIDs(result))
}

func TestSearchLockedDomainAnonymous(t *testing.T) {
	f := newCatalogFixture()

	result, err := f.catalog.Search(context.Background(), url.Values{
		"domains": {"locked.demo.com"},
	}, nil, nil)

	require.NoError(t, err)
	assert.Empty(t, result.Hits, "a hidden catalog yields empty results, not an error")
	assert.Equal(t, 0, result.Total)
}

func TestSearchValidationFailsBeforeAnyCall(t *testing.T) {
	f := newCatalogFixture()

	_, err := f.catalog.Search(context.Background(), url.Values{"only": {"spreadsheets"}}, nil, nil)

	require.Error(t, err)
	assert.IsType(t, errors.Validation{}, err)
	assert.Equal(t, 0, f.identity.Calls())
	assert.Nil(t, f.searcher.LastBody())
}

func TestSearchPropagatesSetCookies(t *testing.T) {
	f := newCatalogFixture()
	f.identity.SetCookies([]string{"session=refreshed; Path=/"})

	result, err := f.catalog.Search(context.Background(), url.Values{
		"domains": {"locked.demo.com,petercetera.net"},
	}, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"session=refreshed; Path=/"}, result.SetCookies)
}

func TestSearchIndexFailure(t *testing.T) {
	f := newCatalogFixture()
	f.searcher.SetError(stderrors.New("index down"))

	_, err := f.catalog.Search(context.Background(), url.Values{}, nil, nil)
	assert.Error(t, err)
}

func TestCountDomainsModeratedRoutingContext(t *testing.T) {
	f := newCatalogFixture()

	result, err := f.catalog.Count(context.Background(), "domains", url.Values{
		"search_context": {"annabelle.island.net"},
	}, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, []model.AggregationBucket{
		{Key: "annabelle.island.net", DocCount: 1},
		{Key: "blue.org", DocCount: 0},
		{Key: "opendata-demo.socrata.com", DocCount: 1},
		{Key: "petercetera.net", DocCount: 1},
	}, result.Buckets)
}

func TestCountDomainsUnmoderatedContext(t *testing.T) {
	f := newCatalogFixture()

	result, err := f.catalog.Count(context.Background(), "domains", url.Values{
		"search_context": {"petercetera.net"},
	}, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, []model.AggregationBucket{
		{Key: "annabelle.island.net", DocCount: 1},
		{Key: "blue.org", DocCount: 1},
		{Key: "opendata-demo.socrata.com", DocCount: 1},
		{Key: "petercetera.net", DocCount: 4},
	}, result.Buckets)
}

func TestCountDomainsHidesLockedDomain(t *testing.T) {
	f := newCatalogFixture()

	result, err := f.catalog.Count(context.Background(), "domains", url.Values{}, nil, nil)

	require.NoError(t, err)
	for _, bucket := range result.Buckets {
		assert.NotEqual(t, "locked.demo.com", bucket.Key,
			"a hidden domain must not appear even as a zero bucket")
	}
	assert.Len(t, result.Buckets, 4)
}

func TestCountCategories(t *testing.T) {
	f := newCatalogFixture()

	result, err := f.catalog.Count(context.Background(), "categories", url.Values{}, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, []model.AggregationBucket{
		{Key: "Public Safety", DocCount: 2},
		{Key: "Transportation", DocCount: 2},
		{Key: "Environment", DocCount: 1},
		{Key: "Finance", DocCount: 1},
		{Key: "Planning", DocCount: 1},
	}, result.Buckets)
}

func TestCountUnknownField(t *testing.T) {
	f := newCatalogFixture()

	_, err := f.catalog.Count(context.Background(), "owners", url.Values{}, nil, nil)

	require.Error(t, err)
	assert.IsType(t, errors.Validation{}, err)
}

func TestFacetsForDomain(t *testing.T) {
	f := newCatalogFixture()

	result, err := f.catalog.Facets(context.Background(), "petercetera.net", nil, nil)

	require.NoError(t, err)
	assert.ElementsMatch(t, []model.AggregationBucket{
		{Key: "chart", DocCount: 1},
		{Key: "dataset", DocCount: 1},
		{Key: "file", DocCount: 1},
		{Key: "href", DocCount: 1},
	}, result.Datatypes)
	assert.Equal(t, []model.AggregationBucket{
		{Key: "Public Safety", DocCount: 2},
		{Key: "Finance", DocCount: 1},
		{Key: "Planning", DocCount: 1},
	}, result.Categories)
	require.Len(t, result.Metadata, 1)
	assert.Equal(t, "Department", result.Metadata[0].Key)
	assert.ElementsMatch(t, []model.AggregationBucket{
		{Key: "Finance", DocCount: 1},
		{Key: "Fire", DocCount: 1},
	}, result.Metadata[0].Values)
}

func TestFacetsUnknownDomain(t *testing.T) {
	f := newCatalogFixture()

	_, err := f.catalog.Facets(context.Background(), "nosuch.example.com", nil, nil)

	require.Error(t, err)
	assert.IsType(t, errors.NotFound{}, err)
}

func TestFacetsLockedDomainLooksNonexistent(t *testing.T) {
	f := newCatalogFixture()

	_, err := f.catalog.Facets(context.Background(), "locked.demo.com", nil, nil)

	require.Error(t, err)
	assert.IsType(t, errors.NotFound{}, err,
		"a hidden locked domain must be indistinguishable from a missing one")
}

func TestFacetsLockedDomainWithGrant(t *testing.T) {
	f := newCatalogFixture()
	f.identity.SetUser(&model.UserIdentity{ID: "user-7"})
	f.roles.Grant("locked.demo.com", "user-7", "viewer", true)

	result, err := f.catalog.Facets(context.Background(), "locked.demo.com", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, []model.AggregationBucket{
		{Key: "dataset", DocCount: 1},
	}, result.Datatypes)
}

func TestFacetsBlankCname(t *testing.T) {
	f := newCatalogFixture()

	_, err := f.catalog.Facets(context.Background(), "   ", nil, nil)

	require.Error(t, err)
	assert.IsType(t, errors.Validation{}, err)
}
