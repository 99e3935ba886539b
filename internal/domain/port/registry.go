// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/civicdata/catalog-query-service/internal/domain/model"
)

// DomainRegistry fetches domain records from the index. Snapshots are
// per-request; this layer does not cache.
type DomainRegistry interface {
	// FetchDomainsByCname returns the domains matching the given cnames
	// in one batched lookup. Unknown cnames are simply absent.
	FetchDomainsByCname(ctx context.Context, cnames []string) ([]model.Domain, error)

	// FetchCustomerDomains returns up to limit customer domains. Larger
	// registries are truncated, not rejected.
	FetchCustomerDomains(ctx context.Context, limit int) ([]model.Domain, error)

	// IsReady checks if the registry is reachable
	IsReady(ctx context.Context) error
}
