// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package model

// QueryKind discriminates the three match-query modes.
type QueryKind int

const (
	// QueryNone matches everything
	QueryNone QueryKind = iota
	// QuerySimple is a cross-field term match with a phrase-boost companion
	QuerySimple
	// QueryAdvanced passes the raw text through as a query-string expression
	QueryAdvanced
)

// Query is the tagged match-query mode. Text is empty for QueryNone.
type Query struct {
	Kind QueryKind
	Text string
}

// MetadataPair is a single domain-metadata key/value filter.
type MetadataPair struct {
	Key   string
	Value string
}

// SearchCriteria is the validated, immutable parameter set for one request.
// Constructed once from the raw multi-valued string parameters.
type SearchCriteria struct {
	// Query is the match-query mode and text
	Query Query
	// SearchContext is the normalized context cname, if any
	SearchContext *string
	// DomainCnames restricts the candidate set; nil means all customer domains
	DomainCnames []string
	// FieldBoosts maps field name to weight; weights are > 0
	FieldBoosts map[string]float64
	// DatatypeBoosts maps canonical datatype to weight
	DatatypeBoosts map[string]float64
	// DomainBoosts maps cname to weight
	DomainBoosts map[string]float64
	// Only restricts results to a single canonical datatype
	Only *string
	// Categories filters, case preserved
	Categories []string
	// Tags filters, lower-cased
	Tags []string
	// Metadata key/value filters; valid only with a search context
	Metadata []MetadataPair
	// MinShouldMatch overrides the minimum-should-match constraint
	MinShouldMatch *string
	// Slop is the phrase-match slop for simple queries
	Slop *int
	// Offset into the result set; >= 0
	Offset int
	// Limit is the page size; > 0
	Limit int
	// ShowScore includes per-hit scores in the response
	ShowScore bool
	// ShowFeatureValues includes raw ranking feature values per hit
	ShowFeatureValues bool
}

// HasCategoriesOrTags reports whether a category or tag filter is active,
// which drives the popularity sort selection.
func (c *SearchCriteria) HasCategoriesOrTags() bool {
	return len(c.Categories) > 0 || len(c.Tags) > 0
}
