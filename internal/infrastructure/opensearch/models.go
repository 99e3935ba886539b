// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package opensearch

import "encoding/json"

// Config represents OpenSearch configuration
type Config struct {
	URL           string `json:"url"`
	DocumentIndex string `json:"document_index"`
	DomainIndex   string `json:"domain_index"`
}

// SearchResponse represents the OpenSearch search response
type SearchResponse struct {
	Total        int
	Hits         []Hit
	Aggregations json.RawMessage
}

// Hit represents a single search result hit
type Hit struct {
	ID     string
	Score  float64
	Source json.RawMessage
}

// documentSource is the slice of a catalog document the formatter needs.
type documentSource struct {
	Datatype string `json:"datatype"`
}

// domainDocument is the registry record shape in the domain index.
type domainDocument struct {
	ID                     int    `json:"domain_id"`
	Cname                  string `json:"domain_cname"`
	IsCustomerDomain       bool   `json:"is_customer_domain"`
	IsLocked               bool   `json:"is_locked"`
	ModerationEnabled      bool   `json:"moderation_enabled"`
	RoutingApprovalEnabled bool   `json:"routing_approval_enabled"`
}

// TermsAggregation represents a terms aggregation response.
type TermsAggregation struct {
	Buckets []TermsBucket `json:"buckets"`
}

// TermsBucket represents a single terms aggregation bucket.
type TermsBucket struct {
	Key      string `json:"key"`
	DocCount uint64 `json:"doc_count"`
}

// metadataKeyBucket carries the nested value sub-aggregation of one
// metadata key.
type metadataKeyBucket struct {
	Key      string           `json:"key"`
	DocCount uint64           `json:"doc_count"`
	Values   TermsAggregation `json:"values"`
}

// facetAggregations is the fixed aggregation set of a facet response.
type facetAggregations struct {
	Datatypes  TermsAggregation `json:"datatypes"`
	Categories TermsAggregation `json:"categories"`
	Tags       TermsAggregation `json:"tags"`
	Metadata   struct {
		Keys struct {
			Buckets []metadataKeyBucket `json:"buckets"`
		} `json:"keys"`
	} `json:"metadata"`
}

// countAggregations is the single-terms shape of a count response.
type countAggregations struct {
	Counts TermsAggregation `json:"counts"`
}
