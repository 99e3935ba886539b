// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package query

// Small constructors for the index query DSL. The builders compose these into
// raw request bodies; nothing here executes anything.

func matchAll() map[string]any {
	return map[string]any{"match_all": map[string]any{}}
}

func boolQuery(clauses map[string]any) map[string]any {
	return map[string]any{"bool": clauses}
}

func term(field string, value any) map[string]any {
	return map[string]any{"term": map[string]any{field: value}}
}

func termBoosted(field string, value any, boost float64) map[string]any {
	return map[string]any{
		"term": map[string]any{
			field: map[string]any{"value": value, "boost": boost},
		},
	}
}

func terms(field string, values any) map[string]any {
	return map[string]any{"terms": map[string]any{field: values}}
}

func nested(path string, query map[string]any) map[string]any {
	return map[string]any{
		"nested": map[string]any{"path": path, "query": query},
	}
}

func multiMatch(text string, fields []string, matchType string, extra map[string]any) map[string]any {
	mm := map[string]any{
		"query":  text,
		"fields": fields,
		"type":   matchType,
	}
	for k, v := range extra {
		mm[k] = v
	}
	return map[string]any{"multi_match": mm}
}

func queryString(text string, fields []string) map[string]any {
	return map[string]any{
		"query_string": map[string]any{
			"query":  text,
			"fields": fields,
		},
	}
}

func termsAgg(field string, size int) map[string]any {
	return map[string]any{
		"terms": map[string]any{
			"field":         field,
			"size":          size,
			"min_doc_count": 0,
		},
	}
}
