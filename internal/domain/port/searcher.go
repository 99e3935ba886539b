// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/civicdata/catalog-query-service/internal/domain/model"
)

// CatalogSearcher defines the behavior of the backing document index.
// This abstraction allows different index implementations (OpenSearch, etc.)
// without the domain layer knowing about specific implementations.
type CatalogSearcher interface {
	// Search executes a built search request and returns ranked hits
	Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResult, error)

	// Aggregate executes a built count request and returns its buckets
	Aggregate(ctx context.Context, req *model.AggregationRequest) ([]model.AggregationBucket, error)

	// Facets executes a built facet request and returns the fixed
	// aggregation set for one domain
	Facets(ctx context.Context, req *model.AggregationRequest) (*model.FacetResult, error)

	// IsReady checks if the index is reachable
	IsReady(ctx context.Context) error
}
