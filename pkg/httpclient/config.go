// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package httpclient

import (
	"net/http"
	"time"
)

// Config holds the configuration for the HTTP client
type Config struct {
	// Timeout is the HTTP client timeout for requests
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts for failed requests.
	// Catalogue requests are user driven and never retried, so the default is 0.
	MaxRetries int

	// RetryDelay is the delay between retry attempts
	RetryDelay time.Duration

	// RetryBackoff enables exponential backoff for retries
	RetryBackoff bool

	// Transport is the round tripper used for requests, nil means http.DefaultTransport
	Transport http.RoundTripper

	// UserAgent is sent on every request when set
	UserAgent string
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Timeout:      30 * time.Second,
		MaxRetries:   0,
		RetryDelay:   1 * time.Second,
		RetryBackoff: true,
		UserAgent:    "lfx-v2-geocatalog",
	}
}
