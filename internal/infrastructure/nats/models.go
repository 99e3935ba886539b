// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package nats

import "time"

// Config represents NATS connection configuration
type Config struct {
	URL           string
	Timeout       time.Duration
	MaxReconnect  int
	ReconnectWait time.Duration
}

// roleCheckRequest is the request payload of one role grant lookup.
type roleCheckRequest struct {
	Domain    string `json:"domain"`
	UserID    string `json:"user_id"`
	RequestID string `json:"request_id,omitempty"`
}

// roleCheckReply is the role service's response. Found is false when the
// user has no role on the domain.
type roleCheckReply struct {
	Found       bool   `json:"found"`
	Role        string `json:"role"`
	ViewCatalog bool   `json:"view_catalog"`
}
