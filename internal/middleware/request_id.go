// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/log"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// WithRequestID stores a request ID in the context and appends it to the
// log attributes. An empty id generates a new one.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = generateRequestID()
	}
	ctx = context.WithValue(ctx, requestIDKey{}, id)
	return log.AppendCtx(ctx, slog.String(string(constants.RequestIDHeader), id))
}

// RequestIDFromContext returns the request ID stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

type requestIDTransport struct {
	next http.RoundTripper
}

// RoundTrip sets the request ID header on the outgoing request. The ID is
// taken from the request context, or generated when the caller did not set one.
func (t requestIDTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.Header.Get(string(constants.RequestIDHeader)) != "" {
		return t.next.RoundTrip(r)
	}

	requestID, ok := RequestIDFromContext(r.Context())
	if !ok {
		requestID = generateRequestID()
	}

	// RoundTrippers must not mutate the caller's request
	out := r.Clone(r.Context())
	out.Header.Set(string(constants.RequestIDHeader), requestID)

	slog.DebugContext(r.Context(), "outgoing request",
		"method", r.Method,
		"url", r.URL.String(),
		string(constants.RequestIDHeader), requestID,
	)

	return t.next.RoundTrip(out)
}

// RequestIDTransport wraps next so every outgoing request carries an
// X-REQUEST-ID header. A nil next uses http.DefaultTransport.
func RequestIDTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return requestIDTransport{next: next}
}

// generateRequestID generates a new unique request ID
func generateRequestID() string {
	return uuid.New().String()
}
