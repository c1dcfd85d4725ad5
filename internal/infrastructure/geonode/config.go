// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package geonode

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

var defaultBaseURL = "http://localhost:8000"

// Config holds the configuration for the GeoNode API client
type Config struct {
	// BaseURL is the GeoNode site root, the API lives under /api/v2
	BaseURL string

	// APIToken is sent as a bearer token when set; anonymous otherwise
	APIToken string

	// Timeout is the HTTP client timeout for API requests
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts for failed requests.
	// Listing, detail and facet requests are user driven, keep it at 0.
	MaxRetries int

	// RetryDelay is the delay between retry attempts
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:    defaultBaseURL,
		Timeout:    30 * time.Second,
		MaxRetries: 0,
		RetryDelay: 1 * time.Second,
	}
}

// NewConfig creates a new GeoNode configuration with the provided parameters
func NewConfig(baseURL, apiToken, timeout string, maxRetries int, retryDelay string) (Config, error) {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Config{}, fmt.Errorf("invalid GeoNode base URL %q", baseURL)
	}

	if timeout == "" {
		timeout = "30s"
	}
	timeoutDuration, err := time.ParseDuration(timeout)
	if err != nil {
		return Config{}, fmt.Errorf("invalid timeout duration: %w", err)
	}

	if maxRetries < 0 {
		return Config{}, fmt.Errorf("max retries must not be negative, got %d", maxRetries)
	}

	if retryDelay == "" {
		retryDelay = "1s"
	}
	retryDelayDuration, err := time.ParseDuration(retryDelay)
	if err != nil {
		return Config{}, fmt.Errorf("invalid retry delay duration: %w", err)
	}

	return Config{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		APIToken:   apiToken,
		Timeout:    timeoutDuration,
		MaxRetries: maxRetries,
		RetryDelay: retryDelayDuration,
	}, nil
}
