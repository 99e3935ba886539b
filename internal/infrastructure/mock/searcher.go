// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/civicdata/catalog-query-service/internal/domain/model"
)

// MockCatalogSearcher is an in-memory CatalogSearcher. It evaluates the exact
// request bodies the builders emit against the fixture documents, so service
// tests exercise real filter semantics without an index.
type MockCatalogSearcher struct {
	mu       sync.Mutex
	docs     []Document
	err      error
	lastBody map[string]any
}

// NewMockCatalogSearcher creates a searcher over the bootstrap fixtures
func NewMockCatalogSearcher() *MockCatalogSearcher {
	return &MockCatalogSearcher{docs: FixtureDocuments()}
}

// SetDocuments replaces the fixture documents
func (m *MockCatalogSearcher) SetDocuments(docs []Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = docs
}

// SetError makes every operation fail with the given error
func (m *MockCatalogSearcher) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// LastBody returns the most recently executed request body
func (m *MockCatalogSearcher) LastBody() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastBody
}

// Search implements the CatalogSearcher interface against the fixtures
func (m *MockCatalogSearcher) Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.lastBody = req.Body

	matched := m.matchDocs(req.Body)
	sortDocs(matched, req.Body["sort"])

	total := len(matched)
	matched = paginate(matched, asInt(req.Body["from"]), asInt(req.Body["size"]))

	hits := make([]model.Hit, 0, len(matched))
	for _, doc := range matched {
		source, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal fixture document: %w", err)
		}
		score := 1.0
		hits = append(hits, model.Hit{
			ID:       doc.ID,
			Datatype: doc.Datatype,
			Score:    &score,
			Source:   source,
		})
	}

	return &model.SearchResult{Hits: hits, Total: total}, nil
}

// Aggregate implements the CatalogSearcher interface against the fixtures
func (m *MockCatalogSearcher) Aggregate(ctx context.Context, req *model.AggregationRequest) ([]model.AggregationBucket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.lastBody = req.Body

	field, ok := termsAggField(req.Body, "counts")
	if !ok {
		return nil, fmt.Errorf("request has no counts aggregation")
	}

	counts := map[string]uint64{}
	for _, doc := range m.matchDocs(req.Body) {
		for _, value := range docTermValues(&doc, field) {
			counts[value]++
		}
	}
	return bucketize(counts), nil
}

// Facets implements the CatalogSearcher interface against the fixtures
func (m *MockCatalogSearcher) Facets(ctx context.Context, req *model.AggregationRequest) (*model.FacetResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.lastBody = req.Body

	matched := m.matchDocs(req.Body)

	datatypes := map[string]uint64{}
	categories := map[string]uint64{}
	tags := map[string]uint64{}
	metadata := map[string]map[string]uint64{}
	for _, doc := range matched {
		datatypes[doc.Datatype]++
		for _, c := range doc.Categories {
			categories[c]++
		}
		for _, t := range doc.Tags {
			tags[t]++
		}
		for _, entry := range doc.Metadata {
			if metadata[entry.Key] == nil {
				metadata[entry.Key] = map[string]uint64{}
			}
			metadata[entry.Key][entry.Value]++
		}
	}

	result := &model.FacetResult{
		Datatypes:  bucketize(datatypes),
		Categories: bucketize(categories),
		Tags:       bucketize(tags),
	}
	keys := make([]string, 0, len(metadata))
	for key := range metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		result.Metadata = append(result.Metadata, model.MetadataFacet{
			Key:    key,
			Values: bucketize(metadata[key]),
		})
	}
	return result, nil
}

// IsReady always succeeds for the mock
func (m *MockCatalogSearcher) IsReady(ctx context.Context) error {
	return m.err
}

// matchDocs evaluates the body's query against every document. Callers hold
// the lock.
func (m *MockCatalogSearcher) matchDocs(body map[string]any) []Document {
	query, _ := body["query"].(map[string]any)
	var matched []Document
	for _, doc := range m.docs {
		if query == nil || matchDocument(&doc, query) {
			matched = append(matched, doc)
		}
	}
	return matched
}

// sortDocs applies the request sort. Scores are uniform in the mock, so a
// _score sort preserves document order.
func sortDocs(docs []Document, sortSpec any) {
	specs := clauseList(sortSpec)
	sort.SliceStable(docs, func(i, j int) bool {
		for _, spec := range specs {
			for field, orderAny := range spec {
				desc := false
				if order, ok := orderAny.(map[string]any); ok {
					desc = order["order"] == "desc"
				}
				switch field {
				case "name.raw":
					if docs[i].Name != docs[j].Name {
						return (docs[i].Name < docs[j].Name) != desc
					}
				case "page_views_total":
					if docs[i].PageViewsTotal != docs[j].PageViewsTotal {
						return (docs[i].PageViewsTotal < docs[j].PageViewsTotal) != desc
					}
				}
			}
		}
		return false
	})
}

func paginate(docs []Document, from, size int) []Document {
	if from >= len(docs) {
		return nil
	}
	docs = docs[from:]
	if size >= 0 && size < len(docs) {
		docs = docs[:size]
	}
	return docs
}

// termsAggField extracts the terms field of the named aggregation
func termsAggField(body map[string]any, name string) (string, bool) {
	aggs, _ := body["aggs"].(map[string]any)
	agg, _ := aggs[name].(map[string]any)
	termsSpec, _ := agg["terms"].(map[string]any)
	field, ok := termsSpec["field"].(string)
	return field, ok
}

// docTermValues returns the document's values for an aggregation field
func docTermValues(doc *Document, field string) []string {
	switch field {
	case "domain_cname.raw", "domain_cname":
		return []string{doc.DomainCname}
	case "datatype":
		return []string{doc.Datatype}
	case "categories.raw", "categories":
		return doc.Categories
	case "tags.raw", "tags":
		return doc.Tags
	default:
		return nil
	}
}

// bucketize orders buckets the way a terms aggregation does: descending count,
// ascending key on ties.
func bucketize(counts map[string]uint64) []model.AggregationBucket {
	buckets := make([]model.AggregationBucket, 0, len(counts))
	for key, count := range counts {
		buckets = append(buckets, model.AggregationBucket{Key: key, DocCount: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].DocCount != buckets[j].DocCount {
			return buckets[i].DocCount > buckets[j].DocCount
		}
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}
