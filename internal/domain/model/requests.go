// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package model

import "encoding/json"

// SearchRequest is a built index query. Opaque to everything past the
// builders: it is sent to the index unmodified and building never executes it.
type SearchRequest struct {
	Body map[string]any
}

// Bytes renders the request body as JSON for the index client.
func (r *SearchRequest) Bytes() ([]byte, error) {
	return json.Marshal(r.Body)
}

// AggregationRequest is a built count or facet request. Same filter
// composition as a SearchRequest, no hits requested.
type AggregationRequest struct {
	Body map[string]any
}

// Bytes renders the request body as JSON for the index client.
func (r *AggregationRequest) Bytes() ([]byte, error) {
	return json.Marshal(r.Body)
}
