// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package coreapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/civicdata/catalog-query-service/internal/domain/model"
	"github.com/civicdata/catalog-query-service/internal/domain/port"
	"github.com/civicdata/catalog-query-service/pkg/constants"
	"github.com/civicdata/catalog-query-service/pkg/errors"
	"github.com/civicdata/catalog-query-service/pkg/httpclient"
)

// IdentityClient resolves session cookies against the user directory API.
type IdentityClient struct {
	config     Config
	httpClient *httpclient.Client
}

// ResolveUserByCookie resolves the caller's identity. An unauthenticated
// response is a nil user, not an error; any Set-Cookie headers the directory
// produced are returned verbatim in both cases. Transport failures surface
// as errors so callers can distinguish "no identity" from "unknown".
func (c *IdentityClient) ResolveUserByCookie(ctx context.Context, contextCname, cookie, requestID *string) (*model.UserIdentity, []string, error) {
	headers := map[string]string{}
	if cookie != nil {
		headers["Cookie"] = *cookie
	}
	if contextCname != nil {
		headers[constants.CatalogHostHeader] = *contextCname
	}
	if requestID != nil {
		headers[constants.RequestIDHeader] = *requestID
	}

	resp, err := c.httpClient.Request(ctx, http.MethodGet, c.config.BaseURL+"/users/current", nil, headers)
	if err != nil {
		if statusErr, ok := err.(*httpclient.StatusError); ok {
			switch statusErr.StatusCode {
			case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
				// No resolvable identity. The directory may still have
				// refreshed the session cookie.
				return nil, setCookies(resp), nil
			}
		}
		return nil, nil, errors.NewServiceUnavailable("user directory request failed", err)
	}

	var user currentUserResponse
	if err := json.Unmarshal(resp.Body, &user); err != nil {
		slog.ErrorContext(ctx, "failed to decode user directory response",
			"body", string(resp.Body),
			"error", err,
		)
		return nil, nil, errors.NewServiceUnavailable("malformed user directory response", err)
	}
	if user.ID == "" {
		return nil, setCookies(resp), nil
	}

	return &model.UserIdentity{
		ID:          user.ID,
		DisplayName: user.DisplayName,
	}, setCookies(resp), nil
}

// IsReady checks if the user directory is reachable.
func (c *IdentityClient) IsReady(ctx context.Context) error {
	resp, err := c.httpClient.Request(ctx, http.MethodGet, c.config.BaseURL+"/version", nil, nil)
	if err != nil {
		return errors.NewServiceUnavailable("user directory is not reachable", err)
	}
	if resp.StatusCode != http.StatusOK {
		return errors.NewServiceUnavailable("user directory is not reachable",
			fmt.Errorf("status code: %d", resp.StatusCode))
	}
	return nil
}

func setCookies(resp *httpclient.Response) []string {
	if resp == nil {
		return nil
	}
	return resp.Headers.Values("Set-Cookie")
}

// NewIdentityResolver creates a user-directory-backed IdentityResolver.
// Retries stay disabled: the transport layer owns retry policy.
func NewIdentityResolver(config Config) port.IdentityResolver {
	return &IdentityClient{
		config: config,
		httpClient: httpclient.NewClient(httpclient.Config{
			Timeout: config.Timeout,
		}),
	}
}
