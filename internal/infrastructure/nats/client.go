// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Client wraps the NATS connection and provides request/reply operations
type Client struct {
	conn    *nats.Conn
	timeout time.Duration
}

// ClientInterface defines the interface for NATS operations
// This allows for easy mocking and testing
type ClientInterface interface {
	RequestReply(ctx context.Context, subject string, data []byte) ([]byte, error)
	Close() error
	IsReady(ctx context.Context) error
}

// RequestReply sends a request on the subject and waits for the response.
func (c *Client) RequestReply(ctx context.Context, subject string, data []byte) ([]byte, error) {
	if subject == "" || len(data) == 0 {
		slog.ErrorContext(ctx, "invalid NATS request",
			"subject", subject,
			"data_len", len(data),
		)
		return nil, fmt.Errorf("invalid NATS request: subject and data must be set")
	}

	response, err := c.conn.Request(subject, data, c.timeout)
	if err != nil {
		slog.ErrorContext(ctx, "NATS request failed", "subject", subject, "error", err)
		return nil, fmt.Errorf("NATS request failed: %w", err)
	}

	slog.DebugContext(ctx, "received NATS response",
		"subject", subject,
		"response", string(response.Data),
	)
	return response.Data, nil
}

// Close gracefully closes the NATS connection
func (c *Client) Close() error {
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}

// IsReady checks if the NATS connection is established
func (c *Client) IsReady(ctx context.Context) error {
	if c.conn == nil || !c.conn.IsConnected() {
		return fmt.Errorf("NATS connection is not established")
	}
	return nil
}

// NewClient creates a new NATS client with the given configuration
func NewClient(ctx context.Context, config Config) (*Client, error) {
	slog.InfoContext(ctx, "creating NATS client",
		"url", config.URL,
		"timeout", config.Timeout,
	)

	opts := []nats.Option{
		nats.Name("catalog-query-service"),
		nats.Timeout(config.Timeout),
		nats.MaxReconnects(config.MaxReconnect),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			slog.WarnContext(ctx, "NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS connection closed")
		}),
	}

	conn, err := nats.Connect(config.URL, opts...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to NATS", "error", err)
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Client{
		conn:    conn,
		timeout: config.Timeout,
	}, nil
}
