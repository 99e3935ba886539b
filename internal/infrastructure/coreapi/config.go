// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package coreapi

import (
	"fmt"
	"time"
)

// Config represents user directory client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewConfig validates and assembles a Config from raw settings.
func NewConfig(baseURL, timeout string) (Config, error) {
	if baseURL == "" {
		return Config{}, fmt.Errorf("user directory base URL is required")
	}

	config := Config{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid user directory timeout %q: %w", timeout, err)
		}
		config.Timeout = d
	}
	return config, nil
}
