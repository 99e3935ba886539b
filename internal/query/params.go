// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/civicdata/catalog-query-service/internal/domain/model"
	"github.com/civicdata/catalog-query-service/pkg/constants"
	"github.com/civicdata/catalog-query-service/pkg/errors"
)

// datatypeAliases maps accepted spellings (singular and plural) to canonical
// datatype names.
var datatypeAliases = map[string]string{
	"dataset": "dataset", "datasets": "dataset",
	"datalens": "datalens", "datalenses": "datalens",
	"chart": "chart", "charts": "chart",
	"map": "map", "maps": "map",
	"file": "file", "files": "file",
	"href": "href", "hrefs": "href",
	"calendar": "calendar", "calendars": "calendar",
	"filter": "filter", "filters": "filter",
	"form": "form", "forms": "form",
	"story": "story", "stories": "story",
}

// ParseSearchCriteria validates the raw multi-valued parameters into an
// immutable SearchCriteria. Every offending parameter is itemized; a non-nil
// error means no external call has been made yet.
func ParseSearchCriteria(raw url.Values) (*model.SearchCriteria, error) {
	var problems []string

	criteria := &model.SearchCriteria{
		Offset: 0,
		Limit:  constants.DefaultLimit,
	}

	criteria.Query = parseQuery(raw)

	if v := strings.TrimSpace(raw.Get("search_context")); v != "" {
		cname := strings.ToLower(v)
		criteria.SearchContext = &cname
	}

	if v := strings.TrimSpace(raw.Get("domains")); v != "" {
		criteria.DomainCnames = splitCnames(v)
	}

	if v := strings.TrimSpace(raw.Get("only")); v != "" {
		only, problem := parseOnly(v)
		if problem != "" {
			problems = append(problems, problem)
		} else {
			criteria.Only = &only
		}
	}

	for _, c := range raw["categories"] {
		if c = strings.TrimSpace(c); c != "" {
			criteria.Categories = append(criteria.Categories, c)
		}
	}
	for _, t := range raw["tags"] {
		if t = strings.TrimSpace(t); t != "" {
			criteria.Tags = append(criteria.Tags, strings.ToLower(t))
		}
	}

	for _, m := range raw["metadata"] {
		key, value, found := strings.Cut(m, ":")
		if !found || key == "" {
			problems = append(problems, fmt.Sprintf("metadata: %q is not a key:value pair", m))
			continue
		}
		criteria.Metadata = append(criteria.Metadata, model.MetadataPair{Key: key, Value: value})
	}
	if len(criteria.Metadata) > 0 && criteria.SearchContext == nil {
		problems = append(problems, "metadata: filters require a search_context")
	}

	criteria.FieldBoosts = map[string]float64{}
	if v := raw.Get("boost_title"); v != "" {
		if w, ok := parseWeight(v); ok {
			criteria.FieldBoosts["name"] = w
		} else {
			problems = append(problems, fmt.Sprintf("boost_title: %q is not a positive number", v))
		}
	}
	criteria.DatatypeBoosts, problems = parseWeightedPairs(raw["boost_datatype"], "boost_datatype", canonicalDatatype, problems)
	criteria.DomainBoosts, problems = parseWeightedPairs(raw["boost_domain"], "boost_domain", strings.ToLower, problems)

	if v := strings.TrimSpace(raw.Get("min_should_match")); v != "" {
		criteria.MinShouldMatch = &v
	}

	if v := raw.Get("slop"); v != "" {
		slop, err := strconv.Atoi(v)
		if err != nil || slop < 0 {
			problems = append(problems, fmt.Sprintf("slop: %q is not a non-negative integer", v))
		} else {
			criteria.Slop = &slop
		}
	}

	if v := raw.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			problems = append(problems, fmt.Sprintf("offset: %q is not a non-negative integer", v))
		} else {
			criteria.Offset = offset
		}
	}

	if v := raw.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 || limit > constants.MaxLimit {
			problems = append(problems, fmt.Sprintf("limit: %q is not in 1..%d", v, constants.MaxLimit))
		} else {
			criteria.Limit = limit
		}
	}

	criteria.ShowScore = raw.Get("show_score") == "true"
	criteria.ShowFeatureValues = raw.Get("show_feature_values") == "true"

	if len(problems) > 0 {
		return nil, errors.NewValidationProblems("invalid query parameters", problems)
	}
	return criteria, nil
}

// parseQuery selects the match-query mode. A simple query (q) wins over an
// advanced one (q_internal) when both are present.
func parseQuery(raw url.Values) model.Query {
	if q := strings.TrimSpace(raw.Get("q")); q != "" {
		return model.Query{Kind: model.QuerySimple, Text: q}
	}
	if q := strings.TrimSpace(raw.Get("q_internal")); q != "" {
		return model.Query{Kind: model.QueryAdvanced, Text: q}
	}
	return model.Query{Kind: model.QueryNone}
}

// parseOnly resolves the datatype restriction. Exactly one selection is
// allowed; a comma list or repeated parameter is an error.
func parseOnly(v string) (canonical, problem string) {
	if strings.Contains(v, ",") {
		return "", fmt.Sprintf("only: %q selects more than one datatype", v)
	}
	canonical, ok := datatypeAliases[strings.ToLower(v)]
	if !ok {
		return "", fmt.Sprintf("only: %q is not a known datatype", v)
	}
	return canonical, ""
}

func canonicalDatatype(v string) string {
	if canonical, ok := datatypeAliases[strings.ToLower(v)]; ok {
		return canonical
	}
	return strings.ToLower(v)
}

// parseWeightedPairs parses repeated key:weight parameters into a map,
// normalizing keys with the given function.
func parseWeightedPairs(values []string, param string, normalize func(string) string, problems []string) (map[string]float64, []string) {
	pairs := map[string]float64{}
	for _, v := range values {
		key, weight, found := strings.Cut(v, ":")
		if !found || key == "" {
			problems = append(problems, fmt.Sprintf("%s: %q is not a key:weight pair", param, v))
			continue
		}
		w, ok := parseWeight(weight)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: weight %q is not a positive number", param, weight))
			continue
		}
		pairs[normalize(key)] = w
	}
	return pairs, problems
}

func parseWeight(v string) (float64, bool) {
	w, err := strconv.ParseFloat(v, 64)
	if err != nil || w <= 0 {
		return 0, false
	}
	return w, true
}

// splitCnames splits a comma-separated cname list, lower-casing and deduping
// while preserving first-seen order.
func splitCnames(v string) []string {
	seen := map[string]bool{}
	var cnames []string
	for _, c := range strings.Split(v, ",") {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		cnames = append(cnames, c)
	}
	return cnames
}
