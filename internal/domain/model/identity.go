// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package model

// UserIdentity is the caller resolved from a session cookie by the user
// directory.
type UserIdentity struct {
	// ID is the user's unique identifier
	ID string
	// DisplayName is informational only
	DisplayName string
}

// RoleGrant is a user's grant on one domain. ViewCatalog is the capability
// the visibility resolver keys on.
type RoleGrant struct {
	// Role is the grant's role name on the domain
	Role string
	// ViewCatalog reports whether the grant can view the domain's catalog
	ViewCatalog bool
}
