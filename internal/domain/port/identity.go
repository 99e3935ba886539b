// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/civicdata/catalog-query-service/internal/domain/model"
)

// IdentityResolver resolves a session cookie to a caller identity via the
// user directory. The returned cookies are Set-Cookie values the directory
// produced and must be propagated to the caller verbatim, even when no user
// resolved.
type IdentityResolver interface {
	// ResolveUserByCookie resolves the caller. A nil user with a nil error
	// means "no identity"; transport failures are returned as errors and
	// must never be collapsed into "no identity".
	ResolveUserByCookie(ctx context.Context, contextCname, cookie, requestID *string) (*model.UserIdentity, []string, error)

	// IsReady checks if the user directory is reachable
	IsReady(ctx context.Context) error
}

// RoleChecker looks up a user's grant on a single domain.
type RoleChecker interface {
	// FetchUserRole returns the grant for (domainCname, userID), or nil
	// when the user has no role on the domain.
	FetchUserRole(ctx context.Context, domainCname, userID string, requestID *string) (*model.RoleGrant, error)

	// Close gracefully closes the underlying connection
	Close() error

	// IsReady checks if the role service is reachable
	IsReady(ctx context.Context) error
}
