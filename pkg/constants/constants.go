// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package constants

import "time"

const (
	// DefaultLimit is the default number of hits per search page.
	DefaultLimit = 100

	// MaxLimit bounds the per-request page size.
	MaxLimit = 10000

	// MaxDomainFetch caps the default customer-domain lookup. Registries
	// larger than this are truncated rather than rejected; at current
	// catalog scale the cap is never reached.
	MaxDomainFetch = 1000

	// MaxFacetBuckets bounds the bucket count of facet aggregations.
	MaxFacetBuckets = 1000
)

const (
	// RoleCheckSubject is the NATS subject for per-domain role grant lookups.
	RoleCheckSubject = "catalog.role_check.request"

	// RoleCheckTimeout bounds a single role grant round trip.
	RoleCheckTimeout = 15 * time.Second

	// RoleCheckConcurrency caps the fan-out of locked-domain role checks
	// within one request.
	RoleCheckConcurrency = 8
)

const (
	// RequestIDHeader is the header name for the request ID.
	RequestIDHeader = "X-Request-Id"

	// CatalogHostHeader carries the search-context cname on identity calls.
	CatalogHostHeader = "X-Catalog-Host"
)

const (
	// DefaultMinShouldMatch is applied to simple queries when a search
	// context is present and the request does not override it.
	DefaultMinShouldMatch = "3<60%"

	// DefaultTitleBoost is the weight of the name field in simple queries
	// unless overridden by an explicit field boost.
	DefaultTitleBoost = 2.2
)
