// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package query

import (
	"fmt"
	"sort"

	"github.com/civicdata/catalog-query-service/internal/domain/model"
	"github.com/civicdata/catalog-query-service/pkg/constants"
)

// defaultMatchFields is the fixed field set both query modes search over.
// The name field carries the title boost.
var defaultMatchFields = []string{"name", "description", "categories", "tags"}

// defaultDatatypeBoosts are merged under explicit boosts; explicit wins.
var defaultDatatypeBoosts = map[string]float64{
	"datalens": 1.5,
	"story":    1.5,
}

// BuildSearchRequest composes the full search request: match query per mode,
// boosts, structural filters, sort, and pagination. The visible set is the
// visibility resolver's output; building never executes anything.
func BuildSearchRequest(criteria *model.SearchCriteria, visible *model.DomainSet) *model.SearchRequest {
	body := map[string]any{
		"query": boolQuery(map[string]any{
			"must":   matchQuery(criteria, visible),
			"filter": buildFilters(criteria, visible),
		}),
		"sort": sortOrder(criteria),
		"from": criteria.Offset,
		"size": criteria.Limit,
	}
	if criteria.ShowScore || criteria.ShowFeatureValues {
		// Field sorts suppress score computation unless asked for.
		body["track_scores"] = true
	}
	if criteria.ShowFeatureValues {
		body["explain"] = true
	}
	return &model.SearchRequest{Body: body}
}

// matchQuery builds the mode-specific match clause.
func matchQuery(criteria *model.SearchCriteria, visible *model.DomainSet) map[string]any {
	switch criteria.Query.Kind {
	case model.QuerySimple:
		return simpleQuery(criteria, visible)
	case model.QueryAdvanced:
		return advancedQuery(criteria)
	default:
		return matchAll()
	}
}

// simpleQuery is a must cross-field match AND-ed with optional relevance
// boosts: a should phrase match, plus should term clauses for configured
// datatype and domain boosts.
func simpleQuery(criteria *model.SearchCriteria, visible *model.DomainSet) map[string]any {
	crossFields := map[string]any{}
	if msm := resolveMinShouldMatch(criteria, visible.Context); msm != nil {
		crossFields["minimum_should_match"] = *msm
	}
	must := multiMatch(criteria.Query.Text, boostedFields(criteria.FieldBoosts), "cross_fields", crossFields)

	phrase := map[string]any{}
	if criteria.Slop != nil {
		phrase["slop"] = *criteria.Slop
	}
	should := []map[string]any{
		multiMatch(criteria.Query.Text, boostedFields(criteria.FieldBoosts), "phrase", phrase),
	}

	datatypeBoosts := mergeBoosts(defaultDatatypeBoosts, criteria.DatatypeBoosts)
	for _, dt := range sortedKeys(datatypeBoosts) {
		should = append(should, termBoosted("datatype", dt, datatypeBoosts[dt]))
	}

	cnameIDs := visible.CnameIDMap()
	for _, cname := range sortedKeys(criteria.DomainBoosts) {
		// Boosts on cnames outside the visible set are dropped; a boost
		// must not reveal or reach a domain the caller cannot see.
		if id, ok := cnameIDs[cname]; ok {
			should = append(should, termBoosted("domain_id", id, criteria.DomainBoosts[cname]))
		}
	}

	return boolQuery(map[string]any{
		"must":   must,
		"should": should,
	})
}

// advancedQuery passes the raw text through as a query-string expression.
// Only field boosts apply: datatype boosts, domain boosts and
// minimum-should-match are deliberately not honored in this mode.
func advancedQuery(criteria *model.SearchCriteria) map[string]any {
	return queryString(criteria.Query.Text, boostedFields(criteria.FieldBoosts))
}

// boostedFields renders the default field set with the title boost applied to
// name plus any extra explicitly boosted fields, in deterministic order.
func boostedFields(fieldBoosts map[string]float64) []string {
	boosts := map[string]float64{"name": constants.DefaultTitleBoost}
	for field, weight := range fieldBoosts {
		boosts[field] = weight
	}

	fields := make([]string, 0, len(defaultMatchFields))
	covered := map[string]bool{}
	for _, field := range defaultMatchFields {
		covered[field] = true
		if weight, ok := boosts[field]; ok {
			fields = append(fields, fmt.Sprintf("%s^%g", field, weight))
		} else {
			fields = append(fields, field)
		}
	}
	for _, field := range sortedKeys(boosts) {
		if !covered[field] {
			fields = append(fields, fmt.Sprintf("%s^%g", field, boosts[field]))
		}
	}
	return fields
}

// resolveMinShouldMatch applies the priority order: explicit request value,
// then the configured default when a search context is present, then none.
func resolveMinShouldMatch(criteria *model.SearchCriteria, context *model.Domain) *string {
	if criteria.MinShouldMatch != nil {
		return criteria.MinShouldMatch
	}
	if context != nil {
		msm := constants.DefaultMinShouldMatch
		return &msm
	}
	return nil
}

// mergeBoosts unions defaults with explicit boosts, explicit winning on
// conflicting keys.
func mergeBoosts(defaults, explicit map[string]float64) map[string]float64 {
	merged := make(map[string]float64, len(defaults)+len(explicit))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range explicit {
		merged[k] = v
	}
	return merged
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortOrder selects the sort by a fixed precedence: query relevance, then
// category/tag popularity, then the stable name default.
func sortOrder(criteria *model.SearchCriteria) []map[string]any {
	switch {
	case criteria.Query.Kind != model.QueryNone:
		return []map[string]any{
			{"_score": map[string]any{"order": "desc"}},
		}
	case criteria.HasCategoriesOrTags():
		return []map[string]any{
			{"page_views_total": map[string]any{"order": "desc"}},
			{"name.raw": map[string]any{"order": "asc"}},
		}
	default:
		return []map[string]any{
			{"name.raw": map[string]any{"order": "asc"}},
		}
	}
}
