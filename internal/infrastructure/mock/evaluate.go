// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package mock

import "strings"

// Query evaluation over fixture documents. Handles the clause types the
// builders emit: match_all, bool, term, terms, nested, multi_match and
// query_string. Text matching is deliberately crude (token containment over a
// lowercased field blob); relevance order is not modeled, filter semantics
// are.

// matcher evaluates clauses against one document or one nested metadata entry
type matcher struct {
	get    func(field string) (any, bool)
	blob   string
	nested func(path string, query map[string]any) bool
}

func matchDocument(doc *Document, query map[string]any) bool {
	m := matcher{
		get:  func(field string) (any, bool) { return docValue(doc, field) },
		blob: docBlob(doc),
		nested: func(path string, query map[string]any) bool {
			if path != "metadata" {
				return false
			}
			for _, entry := range doc.Metadata {
				pair := entry
				inner := matcher{
					get: func(field string) (any, bool) { return pairValue(&pair, field) },
				}
				if inner.eval(query) {
					return true
				}
			}
			return false
		},
	}
	return m.eval(query)
}

// eval evaluates a single-key clause map
func (m matcher) eval(clause map[string]any) bool {
	for name, body := range clause {
		spec, _ := body.(map[string]any)
		switch name {
		case "match_all":
			return true
		case "bool":
			return m.evalBool(spec)
		case "term":
			return m.evalTerm(spec)
		case "terms":
			return m.evalTerms(spec)
		case "nested":
			if m.nested == nil {
				return false
			}
			path, _ := spec["path"].(string)
			query, _ := spec["query"].(map[string]any)
			return m.nested(path, query)
		case "multi_match":
			return m.evalText(spec["query"], spec["type"] == "phrase")
		case "query_string":
			return m.evalText(spec["query"], false)
		}
	}
	return false
}

// evalBool applies bool-query semantics: must, filter and must_not always
// constrain; should constrains only when it is the sole clause kind, matching
// filter-context behavior for the builders' pure-should policy filters.
func (m matcher) evalBool(clauses map[string]any) bool {
	must := clauseList(clauses["must"])
	filter := clauseList(clauses["filter"])
	mustNot := clauseList(clauses["must_not"])
	should := clauseList(clauses["should"])

	for _, c := range must {
		if !m.eval(c) {
			return false
		}
	}
	for _, c := range filter {
		if !m.eval(c) {
			return false
		}
	}
	for _, c := range mustNot {
		if m.eval(c) {
			return false
		}
	}

	if len(should) > 0 && len(must) == 0 && len(filter) == 0 && len(mustNot) == 0 {
		for _, c := range should {
			if m.eval(c) {
				return true
			}
		}
		return false
	}
	return true
}

func (m matcher) evalTerm(spec map[string]any) bool {
	for field, want := range spec {
		// termBoosted wraps the value
		if wrapped, ok := want.(map[string]any); ok {
			want = wrapped["value"]
		}
		docVal, ok := m.get(field)
		if !ok {
			return false
		}
		return valueMatches(docVal, want)
	}
	return false
}

func (m matcher) evalTerms(spec map[string]any) bool {
	for field, values := range spec {
		docVal, ok := m.get(field)
		if !ok {
			return false
		}
		for _, want := range anySlice(values) {
			if valueMatches(docVal, want) {
				return true
			}
		}
		return false
	}
	return false
}

// evalText matches query text against the document blob: phrase queries as a
// substring, term queries as all-tokens containment.
func (m matcher) evalText(queryAny any, phrase bool) bool {
	text, _ := queryAny.(string)
	text = strings.ToLower(text)
	if phrase {
		return strings.Contains(m.blob, text)
	}
	for _, token := range strings.Fields(text) {
		if !strings.Contains(m.blob, token) {
			return false
		}
	}
	return true
}

// docValue resolves an index field name on a document
func docValue(doc *Document, field string) (any, bool) {
	switch field {
	case "domain_id":
		return doc.DomainID, true
	case "domain_cname", "domain_cname.raw":
		return doc.DomainCname, true
	case "datatype":
		return doc.Datatype, true
	case "name", "name.raw":
		return doc.Name, true
	case "categories", "categories.raw":
		return doc.Categories, true
	case "tags", "tags.raw":
		return doc.Tags, true
	case "is_default_view":
		return doc.IsDefaultView, true
	case "is_moderation_approved":
		return doc.IsModerationApproved, true
	case "is_routing_approved":
		return doc.IsRoutingApproved, true
	case "page_views_total":
		return doc.PageViewsTotal, true
	default:
		return nil, false
	}
}

// pairValue resolves a nested field name on a metadata entry
func pairValue(pair *MetadataEntry, field string) (any, bool) {
	switch field {
	case "metadata.key":
		return pair.Key, true
	case "metadata.value":
		return pair.Value, true
	default:
		return nil, false
	}
}

func docBlob(doc *Document) string {
	parts := []string{doc.Name, doc.Description}
	parts = append(parts, doc.Categories...)
	parts = append(parts, doc.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// valueMatches compares a document value with a query value; multi-valued
// document fields match on any element.
func valueMatches(docVal, want any) bool {
	if list, ok := docVal.([]string); ok {
		for _, v := range list {
			if scalarEqual(v, want) {
				return true
			}
		}
		return false
	}
	return scalarEqual(docVal, want)
}

func scalarEqual(a, b any) bool {
	if af, aok := asFloat(a); aok {
		bf, bok := asFloat(b)
		return bok && af == bf
	}
	return a == b
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// clauseList normalizes a clause position that may hold one clause or a list
func clauseList(v any) []map[string]any {
	switch c := v.(type) {
	case map[string]any:
		return []map[string]any{c}
	case []map[string]any:
		return c
	case []any:
		out := make([]map[string]any, 0, len(c))
		for _, e := range c {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

// anySlice normalizes the typed slices the builders place in terms clauses
func anySlice(v any) []any {
	switch s := v.(type) {
	case []any:
		return s
	case []int:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out
	case []string:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out
	default:
		return nil
	}
}
