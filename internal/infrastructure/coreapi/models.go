// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package coreapi

// currentUserResponse is the user directory's current-user record.
type currentUserResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
