// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package httpclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client represents a generic HTTP client with optional retry logic
type Client struct {
	config     Config
	httpClient *http.Client
}

// Request represents an HTTP request configuration
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    io.Reader
}

// Response represents an HTTP response
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// StatusError represents a non-2xx HTTP response
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return e.Message
}

// Do executes an HTTP request, retrying per the client configuration. On a
// non-2xx status the response is returned alongside the error so callers can
// still read headers such as Set-Cookie.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	var (
		lastResp *Response
		lastErr  error
	)

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.config.RetryDelay
			if c.config.RetryBackoff {
				delay = time.Duration(int64(delay) * int64(1<<(attempt-1)))
			}

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		response, err := c.doRequest(ctx, req)
		if err == nil {
			return response, nil
		}

		lastResp = response
		lastErr = err

		if !c.shouldRetry(err) {
			break
		}
	}

	slog.ErrorContext(ctx, "request failed", "error", lastErr, "url", req.URL)

	return lastResp, lastErr
}

// doRequest performs a single HTTP request
func (c *Client) doRequest(ctx context.Context, reqConfig Request) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, reqConfig.Method, reqConfig.URL, reqConfig.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")

	for key, value := range reqConfig.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return response, &StatusError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	return response, nil
}

// shouldRetry determines if a request should be retried based on the error
func (c *Client) shouldRetry(err error) bool {
	if err == nil {
		return false
	}

	if statusErr, ok := err.(*StatusError); ok {
		// Retry on server errors and rate limiting only
		return statusErr.StatusCode >= http.StatusInternalServerError || statusErr.StatusCode == http.StatusTooManyRequests
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection") ||
		strings.Contains(errStr, "network")
}

// Request performs an HTTP request with the specified verb
func (c *Client) Request(ctx context.Context, verb, url string, body io.Reader, headers map[string]string) (*Response, error) {
	req := Request{
		Method:  verb,
		URL:     url,
		Headers: headers,
		Body:    body,
	}
	return c.Do(ctx, req)
}

// NewClient creates a new HTTP client with the given configuration
func NewClient(config Config) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}
