// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package opensearch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

// ClientRetriever defines the interface for OpenSearch operations
// This allows for easy mocking and testing
type ClientRetriever interface {
	Search(ctx context.Context, index string, body []byte) (*SearchResponse, error)
}

type httpClient struct {
	client *opensearchapi.Client
}

func (c *httpClient) Search(ctx context.Context, index string, body []byte) (*SearchResponse, error) {
	slog.DebugContext(ctx, "executing opensearch search",
		"index", index,
		"body", string(body),
	)

	searchRequest := opensearchapi.SearchReq{
		Indices: []string{index},
		Body:    bytes.NewReader(body),
	}

	searchResponse, err := c.client.Search(ctx, &searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	if searchResponse.Errors {
		return nil, fmt.Errorf("opensearch search returned errors")
	}

	result := &SearchResponse{
		Total:        searchResponse.Hits.Total.Value,
		Hits:         make([]Hit, len(searchResponse.Hits.Hits)),
		Aggregations: searchResponse.Aggregations,
	}
	for i, hit := range searchResponse.Hits.Hits {
		result.Hits[i] = Hit{
			ID:     hit.ID,
			Score:  float64(hit.Score),
			Source: hit.Source,
		}
	}

	return result, nil
}

// newAPIClient builds the shared opensearch-go client for one config.
func newAPIClient(config Config) (*opensearchapi.Client, error) {
	return opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses: []string{config.URL},
			Transport: &http.Transport{
				MaxIdleConnsPerHost:   10,
				ResponseHeaderTimeout: time.Second,
				DialContext:           (&net.Dialer{Timeout: 3 * time.Second}).DialContext,
			},
		},
	})
}
