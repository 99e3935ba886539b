// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package httpclient

import "time"

// Config controls timeout and retry behavior of the client. A zero MaxRetries
// disables retries entirely; callers that own their retry policy (the catalog
// core never retries internally) pass it as zero.
type Config struct {
	Timeout      time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
	RetryBackoff bool
}
