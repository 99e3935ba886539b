// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package query

import (
	"fmt"

	"github.com/civicdata/catalog-query-service/internal/domain/model"
	"github.com/civicdata/catalog-query-service/pkg/constants"
	"github.com/civicdata/catalog-query-service/pkg/errors"
)

// countFields maps the public count target names to index fields.
var countFields = map[string]string{
	"domains":    "domain_cname.raw",
	"categories": "categories.raw",
	"tags":       "tags.raw",
}

// BuildCountRequest reuses the search filter and match composition (minus
// boosts, sorting and pagination) and adds a terms aggregation keyed by the
// target field. Zero-count buckets are valid results.
func BuildCountRequest(field string, criteria *model.SearchCriteria, visible *model.DomainSet) (*model.AggregationRequest, error) {
	indexField, ok := countFields[field]
	if !ok {
		return nil, errors.NewValidation(fmt.Sprintf("unknown count field: %s", field))
	}

	body := map[string]any{
		"query": boolQuery(map[string]any{
			"must":   countMatch(criteria, visible),
			"filter": buildFilters(criteria, visible),
		}),
		"size": 0,
		"aggs": map[string]any{
			"counts": termsAgg(indexField, constants.MaxFacetBuckets),
		},
	}
	return &model.AggregationRequest{Body: body}, nil
}

// countMatch is the search match clause without relevance boosts: counting
// does not score, so the simple-query phrase/datatype/domain should clauses
// are omitted. Minimum-should-match stays, since it changes which documents
// match and counts must evaluate the same match set as search.
func countMatch(criteria *model.SearchCriteria, visible *model.DomainSet) map[string]any {
	switch criteria.Query.Kind {
	case model.QuerySimple:
		crossFields := map[string]any{}
		if msm := resolveMinShouldMatch(criteria, visible.Context); msm != nil {
			crossFields["minimum_should_match"] = *msm
		}
		return multiMatch(criteria.Query.Text, boostedFields(nil), "cross_fields", crossFields)
	case model.QueryAdvanced:
		return queryString(criteria.Query.Text, boostedFields(nil))
	default:
		return matchAll()
	}
}

// BuildFacetRequest builds the fixed per-domain aggregation set: datatypes,
// categories, tags and nested metadata key/value buckets. The domain's own
// moderation and routing policy shapes the document filter, expressed through
// the labeled id partition of the singleton set.
func BuildFacetRequest(domain *model.Domain) *model.AggregationRequest {
	single := &model.DomainSet{
		Context: domain,
		Domains: []model.Domain{*domain},
	}
	partition := single.Partition()

	filters := []map[string]any{
		terms("domain_id", partition.AllIDs),
		moderationFilter(domain, partition),
	}
	if rf := routingApprovalFilter(domain, partition); rf != nil {
		filters = append(filters, rf)
	}

	body := map[string]any{
		"query": boolQuery(map[string]any{
			"must":   matchAll(),
			"filter": filters,
		}),
		"size": 0,
		"aggs": map[string]any{
			"datatypes":  termsAgg("datatype", constants.MaxFacetBuckets),
			"categories": termsAgg("categories.raw", constants.MaxFacetBuckets),
			"tags":       termsAgg("tags.raw", constants.MaxFacetBuckets),
			"metadata": map[string]any{
				"nested": map[string]any{"path": "metadata"},
				"aggs": map[string]any{
					"keys": map[string]any{
						"terms": map[string]any{
							"field":         "metadata.key",
							"size":          constants.MaxFacetBuckets,
							"min_doc_count": 0,
						},
						"aggs": map[string]any{
							"values": termsAgg("metadata.value", constants.MaxFacetBuckets),
						},
					},
				},
			},
		},
	}
	return &model.AggregationRequest{Body: body}
}
