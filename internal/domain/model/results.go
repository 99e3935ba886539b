// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package model

import "encoding/json"

// Hit is a single formatted search result.
type Hit struct {
	// ID is the document identifier
	ID string
	// Datatype is the document's canonical datatype
	Datatype string
	// Score is present only when the request asked for scores
	Score *float64
	// Source is the raw document body
	Source json.RawMessage
}

// SearchResult contains the formatted results of a catalog search.
type SearchResult struct {
	// Hits found, in request order
	Hits []Hit
	// Total number of matching documents
	Total int
	// SetCookies to propagate to the caller, verbatim
	SetCookies []string
}

// AggregationBucket represents a single aggregation bucket. A zero DocCount
// is a valid result, not an error.
type AggregationBucket struct {
	Key      string `json:"key"`
	DocCount uint64 `json:"doc_count"`
}

// CountResult contains the buckets of a count-by-field aggregation.
type CountResult struct {
	Buckets    []AggregationBucket
	SetCookies []string
}

// MetadataFacet groups value buckets under one metadata key.
type MetadataFacet struct {
	Key    string
	Values []AggregationBucket
}

// FacetResult is the fixed aggregation set computed for a single domain.
type FacetResult struct {
	Datatypes  []AggregationBucket
	Categories []AggregationBucket
	Tags       []AggregationBucket
	Metadata   []MetadataFacet
	SetCookies []string
}
