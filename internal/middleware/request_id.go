// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/civicdata/catalog-query-service/pkg/constants"
	"github.com/civicdata/catalog-query-service/pkg/log"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// RequestID creates a middleware that tags every request with an id: reused
// from the inbound header when present, generated otherwise. The id is echoed
// on the response, stored in the context, and attached to every log record
// written with that context.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(constants.RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			w.Header().Set(constants.RequestIDHeader, requestID)

			ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
			ctx = log.AppendCtx(ctx, slog.String("request_id", requestID))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext returns the request id set by the middleware, or nil
// outside a tagged request. Downstream clients forward it on outbound calls.
func RequestIDFromContext(ctx context.Context) *string {
	if requestID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return &requestID
	}
	return nil
}
