// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/civicdata/catalog-query-service/internal/domain/model"
	"github.com/civicdata/catalog-query-service/internal/domain/port"
	"github.com/civicdata/catalog-query-service/pkg/constants"
	"github.com/civicdata/catalog-query-service/pkg/errors"
)

// RoleCheckClient implements the RoleChecker interface over NATS
// request/reply.
type RoleCheckClient struct {
	client ClientInterface
}

// FetchUserRole looks up the user's grant on one domain. A missing grant is
// a nil result; transport failures are ServiceUnavailable so the caller
// never confuses them with "no role".
func (r *RoleCheckClient) FetchUserRole(ctx context.Context, domainCname, userID string, requestID *string) (*model.RoleGrant, error) {
	request := roleCheckRequest{
		Domain: domainCname,
		UserID: userID,
	}
	if requestID != nil {
		request.RequestID = *requestID
	}

	data, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal role check request: %w", err)
	}

	slog.DebugContext(ctx, "executing role check",
		"domain", domainCname,
		"user_id", userID,
	)

	raw, err := r.client.RequestReply(ctx, constants.RoleCheckSubject, data)
	if err != nil {
		return nil, errors.NewServiceUnavailable("role check failed", err)
	}

	var reply roleCheckReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		slog.ErrorContext(ctx, "invalid role check response",
			"response", string(raw),
			"error", err,
		)
		return nil, errors.NewServiceUnavailable("malformed role check response", err)
	}

	if !reply.Found {
		return nil, nil
	}
	return &model.RoleGrant{
		Role:        reply.Role,
		ViewCatalog: reply.ViewCatalog,
	}, nil
}

// Close gracefully closes the NATS connection
func (r *RoleCheckClient) Close() error {
	return r.client.Close()
}

// IsReady checks if the role service connection is established
func (r *RoleCheckClient) IsReady(ctx context.Context) error {
	return r.client.IsReady(ctx)
}

// NewRoleChecker creates a new NATS-backed role checker
func NewRoleChecker(ctx context.Context, config Config) (port.RoleChecker, error) {
	slog.InfoContext(ctx, "creating NATS role checker",
		"url", config.URL,
	)

	client, err := NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS client: %w", err)
	}

	return &RoleCheckClient{client: client}, nil
}
