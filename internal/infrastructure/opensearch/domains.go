// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package opensearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/civicdata/catalog-query-service/internal/domain/model"
	"github.com/civicdata/catalog-query-service/internal/domain/port"
	"github.com/civicdata/catalog-query-service/pkg/errors"
)

// DomainStore implements the DomainRegistry interface on the domain index.
type DomainStore struct {
	client ClientRetriever
	index  string
}

// FetchDomainsByCname returns the domains matching the given cnames in one
// batched terms lookup. Unknown cnames are simply absent from the result.
func (ds *DomainStore) FetchDomainsByCname(ctx context.Context, cnames []string) ([]model.Domain, error) {
	if len(cnames) == 0 {
		return nil, nil
	}

	body := map[string]any{
		"query": map[string]any{
			"terms": map[string]any{"domain_cname.raw": cnames},
		},
		"size": len(cnames),
	}
	return ds.fetch(ctx, body)
}

// FetchCustomerDomains returns up to limit customer domains, ordered by id
// for a deterministic truncation point.
func (ds *DomainStore) FetchCustomerDomains(ctx context.Context, limit int) ([]model.Domain, error) {
	body := map[string]any{
		"query": map[string]any{
			"term": map[string]any{"is_customer_domain": true},
		},
		"sort": []map[string]any{
			{"domain_id": map[string]any{"order": "asc"}},
		},
		"size": limit,
	}
	return ds.fetch(ctx, body)
}

// IsReady checks if the domain index is reachable.
func (ds *DomainStore) IsReady(ctx context.Context) error {
	probe := map[string]any{"size": 0, "query": map[string]any{"match_all": map[string]any{}}}
	raw, err := json.Marshal(probe)
	if err != nil {
		return fmt.Errorf("failed to marshal probe body: %w", err)
	}
	if _, err := ds.client.Search(ctx, ds.index, raw); err != nil {
		return errors.NewServiceUnavailable("domain index is not reachable", err)
	}
	return nil
}

func (ds *DomainStore) fetch(ctx context.Context, body map[string]any) ([]model.Domain, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal domain lookup body: %w", err)
	}

	response, err := ds.client.Search(ctx, ds.index, raw)
	if err != nil {
		return nil, fmt.Errorf("domain lookup failed: %w", err)
	}

	domains := make([]model.Domain, 0, len(response.Hits))
	for _, hit := range response.Hits {
		var doc domainDocument
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			// A domain record that does not parse is a hard failure:
			// visibility decisions cannot be made on partial registry data.
			slog.ErrorContext(ctx, "failed to decode domain document",
				"hit_id", hit.ID,
				"source", string(hit.Source),
				"error", err,
			)
			return nil, errors.NewDecode("malformed domain document")
		}
		domains = append(domains, model.Domain{
			ID:                     doc.ID,
			Cname:                  doc.Cname,
			IsCustomerDomain:       doc.IsCustomerDomain,
			IsLocked:               doc.IsLocked,
			ModerationEnabled:      doc.ModerationEnabled,
			RoutingApprovalEnabled: doc.RoutingApprovalEnabled,
		})
	}
	return domains, nil
}

// NewDomainRegistry returns a new OpenSearch-backed DomainRegistry.
func NewDomainRegistry(ctx context.Context, config Config) (port.DomainRegistry, error) {
	if config.URL == "" {
		slog.ErrorContext(ctx, "opensearch URL is required")
		return nil, fmt.Errorf("opensearch URL is required")
	}
	if config.DomainIndex == "" {
		slog.ErrorContext(ctx, "opensearch domain index is required")
		return nil, fmt.Errorf("opensearch domain index is required")
	}

	client, err := newAPIClient(config)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create OpenSearch client", "error", err)
		return nil, fmt.Errorf("failed to create OpenSearch client: %w", err)
	}

	return &DomainStore{
		client: &httpClient{client: client},
		index:  config.DomainIndex,
	}, nil
}
