// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package opensearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/civicdata/catalog-query-service/internal/domain/model"
	"github.com/civicdata/catalog-query-service/internal/domain/port"
	"github.com/civicdata/catalog-query-service/pkg/errors"
)

// Searcher implements the CatalogSearcher interface for OpenSearch
type Searcher struct {
	client ClientRetriever
	index  string
}

// Search executes a built search request and formats the hits.
func (s *Searcher) Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResult, error) {
	response, err := s.execute(ctx, req.Body)
	if err != nil {
		return nil, err
	}

	result := &model.SearchResult{
		Total: response.Total,
		Hits:  make([]model.Hit, 0, len(response.Hits)),
	}
	for _, hit := range response.Hits {
		converted, err := convertHit(hit)
		if err != nil {
			// A malformed hit drops out of the page; the rest of the
			// response is still served.
			slog.ErrorContext(ctx, "failed to decode hit", "hit_id", hit.ID, "error", err)
			continue
		}
		result.Hits = append(result.Hits, converted)
	}

	return result, nil
}

// Aggregate executes a built count request and returns its buckets.
func (s *Searcher) Aggregate(ctx context.Context, req *model.AggregationRequest) ([]model.AggregationBucket, error) {
	response, err := s.execute(ctx, req.Body)
	if err != nil {
		return nil, err
	}

	var aggs countAggregations
	if err := json.Unmarshal(response.Aggregations, &aggs); err != nil {
		slog.ErrorContext(ctx, "failed to decode count aggregation",
			"error", err,
			"aggregations", string(response.Aggregations),
		)
		return nil, errors.NewDecode("malformed aggregation response")
	}

	buckets := make([]model.AggregationBucket, len(aggs.Counts.Buckets))
	for i, b := range aggs.Counts.Buckets {
		buckets[i] = model.AggregationBucket{Key: b.Key, DocCount: b.DocCount}
	}
	return buckets, nil
}

// Facets executes a built facet request and returns the fixed aggregation set.
func (s *Searcher) Facets(ctx context.Context, req *model.AggregationRequest) (*model.FacetResult, error) {
	response, err := s.execute(ctx, req.Body)
	if err != nil {
		return nil, err
	}

	var aggs facetAggregations
	if err := json.Unmarshal(response.Aggregations, &aggs); err != nil {
		slog.ErrorContext(ctx, "failed to decode facet aggregations",
			"error", err,
			"aggregations", string(response.Aggregations),
		)
		return nil, errors.NewDecode("malformed aggregation response")
	}

	result := &model.FacetResult{
		Datatypes:  convertBuckets(aggs.Datatypes),
		Categories: convertBuckets(aggs.Categories),
		Tags:       convertBuckets(aggs.Tags),
	}
	for _, key := range aggs.Metadata.Keys.Buckets {
		result.Metadata = append(result.Metadata, model.MetadataFacet{
			Key:    key.Key,
			Values: convertBuckets(key.Values),
		})
	}
	return result, nil
}

// IsReady checks if the index is reachable with a zero-hit probe.
func (s *Searcher) IsReady(ctx context.Context) error {
	probe := map[string]any{"size": 0, "query": map[string]any{"match_all": map[string]any{}}}
	if _, err := s.execute(ctx, probe); err != nil {
		return errors.NewServiceUnavailable("opensearch is not reachable", err)
	}
	return nil
}

func (s *Searcher) execute(ctx context.Context, body map[string]any) (*SearchResponse, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	response, err := s.client.Search(ctx, s.index, raw)
	if err != nil {
		// Index failures are opaque upstream errors, not domain conditions.
		return nil, errors.NewUnexpected("opensearch search failed", err)
	}
	return response, nil
}

// convertHit converts a single OpenSearch hit to a formatted result hit.
func convertHit(hit Hit) (model.Hit, error) {
	var source documentSource
	if err := json.Unmarshal(hit.Source, &source); err != nil {
		return model.Hit{}, fmt.Errorf("failed to unmarshal hit source: %w", err)
	}

	score := hit.Score
	return model.Hit{
		ID:       hit.ID,
		Datatype: source.Datatype,
		Score:    &score,
		Source:   hit.Source,
	}, nil
}

func convertBuckets(agg TermsAggregation) []model.AggregationBucket {
	buckets := make([]model.AggregationBucket, len(agg.Buckets))
	for i, b := range agg.Buckets {
		buckets[i] = model.AggregationBucket{Key: b.Key, DocCount: b.DocCount}
	}
	return buckets
}

// NewSearcher returns a new OpenSearch-backed CatalogSearcher.
func NewSearcher(ctx context.Context, config Config) (port.CatalogSearcher, error) {
	if config.URL == "" {
		slog.ErrorContext(ctx, "opensearch URL is required")
		return nil, fmt.Errorf("opensearch URL is required")
	}
	if config.DocumentIndex == "" {
		slog.ErrorContext(ctx, "opensearch document index is required")
		return nil, fmt.Errorf("opensearch document index is required")
	}

	client, err := newAPIClient(config)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create OpenSearch client", "error", err)
		return nil, fmt.Errorf("failed to create OpenSearch client: %w", err)
	}

	return &Searcher{
		client: &httpClient{client: client},
		index:  config.DocumentIndex,
	}, nil
}
