// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/civicdata/catalog-query-service/internal/domain/model"
	"github.com/civicdata/catalog-query-service/internal/domain/port"
	"github.com/civicdata/catalog-query-service/internal/query"
	"github.com/civicdata/catalog-query-service/pkg/errors"
)

// CatalogSearch drives the request pipeline: validate parameters, resolve the
// candidate domains and their visibility, build the index request, execute it
// and format the result. It holds no per-request state.
type CatalogSearch struct {
	resolver *DomainResolver
	searcher port.CatalogSearcher
}

// NewCatalogSearch creates a new CatalogSearch instance
func NewCatalogSearch(resolver *DomainResolver, searcher port.CatalogSearcher) *CatalogSearch {
	return &CatalogSearch{
		resolver: resolver,
		searcher: searcher,
	}
}

// Search runs one catalog search from raw parameters to formatted hits.
func (s *CatalogSearch) Search(ctx context.Context, raw url.Values, cookie, requestID *string) (*model.SearchResult, error) {
	criteria, err := query.ParseSearchCriteria(raw)
	if err != nil {
		return nil, err
	}

	visible, err := s.resolveVisible(ctx, criteria, cookie, requestID)
	if err != nil {
		return nil, err
	}

	req := query.BuildSearchRequest(criteria, visible.DomainSet())

	result, err := s.searcher.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	if !criteria.ShowScore {
		for i := range result.Hits {
			result.Hits[i].Score = nil
		}
	}
	result.SetCookies = visible.SetCookies

	slog.DebugContext(ctx, "catalog search completed",
		"total", result.Total,
		"hits", len(result.Hits),
	)
	return result, nil
}

// Count runs a count-by-field aggregation. For the domains field the buckets
// are restricted to the visible set and missing visible domains are reported
// as explicit zero buckets, so a hidden domain can neither appear nor be
// inferred by its absence from an otherwise complete list.
func (s *CatalogSearch) Count(ctx context.Context, field string, raw url.Values, cookie, requestID *string) (*model.CountResult, error) {
	criteria, err := query.ParseSearchCriteria(raw)
	if err != nil {
		return nil, err
	}

	visible, err := s.resolveVisible(ctx, criteria, cookie, requestID)
	if err != nil {
		return nil, err
	}

	req, err := query.BuildCountRequest(field, criteria, visible.DomainSet())
	if err != nil {
		return nil, err
	}

	buckets, err := s.searcher.Aggregate(ctx, req)
	if err != nil {
		return nil, err
	}

	if field == "domains" {
		buckets = alignDomainBuckets(buckets, visible.DomainSet().Cnames())
	}

	return &model.CountResult{
		Buckets:    buckets,
		SetCookies: visible.SetCookies,
	}, nil
}

// Facets computes the fixed aggregation set for one domain. A locked domain
// the caller cannot view is reported as not found, indistinguishable from a
// domain that does not exist.
func (s *CatalogSearch) Facets(ctx context.Context, cname string, cookie, requestID *string) (*model.FacetResult, error) {
	cname = strings.ToLower(strings.TrimSpace(cname))
	if cname == "" {
		return nil, errors.NewValidation("facet domain cname is required")
	}

	ds, err := s.resolver.FindDomains(ctx, &cname, []string{cname})
	if err != nil {
		return nil, err
	}

	visible, err := s.resolver.ResolveVisibility(ctx, ds, cookie, requestID)
	if err != nil {
		return nil, err
	}
	if visible.Context == nil {
		return nil, errors.NewDomainNotFound(cname)
	}

	req := query.BuildFacetRequest(visible.Context)
	result, err := s.searcher.Facets(ctx, req)
	if err != nil {
		return nil, err
	}
	result.SetCookies = visible.SetCookies
	return result, nil
}

// IsReady checks every collaborator the request path depends on.
func (s *CatalogSearch) IsReady(ctx context.Context) error {
	if err := s.searcher.IsReady(ctx); err != nil {
		return err
	}
	return s.resolver.IsReady(ctx)
}

// resolveVisible chains candidate resolution and visibility for one request.
func (s *CatalogSearch) resolveVisible(ctx context.Context, criteria *model.SearchCriteria, cookie, requestID *string) (*model.VisibilityDecision, error) {
	ds, err := s.resolver.FindDomains(ctx, criteria.SearchContext, criteria.DomainCnames)
	if err != nil {
		return nil, err
	}
	return s.resolver.ResolveVisibility(ctx, ds, cookie, requestID)
}

// alignDomainBuckets restricts domain count buckets to the visible cnames and
// adds zero buckets for visible domains the aggregation did not report.
// Output is ordered by cname.
func alignDomainBuckets(buckets []model.AggregationBucket, visibleCnames []string) []model.AggregationBucket {
	counts := make(map[string]uint64, len(buckets))
	for _, b := range buckets {
		counts[b.Key] = b.DocCount
	}

	aligned := make([]model.AggregationBucket, 0, len(visibleCnames))
	for _, cname := range visibleCnames {
		aligned = append(aligned, model.AggregationBucket{Key: cname, DocCount: counts[cname]})
	}
	sort.Slice(aligned, func(i, j int) bool { return aligned[i].Key < aligned[j].Key })
	return aligned
}
