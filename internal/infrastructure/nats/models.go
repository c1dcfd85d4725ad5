// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"time"
)

// Config represents NATS configuration
type Config struct {
	// URL is the NATS server URL
	URL string `json:"url"`
	// Timeout is the connection timeout duration
	Timeout time.Duration `json:"timeout"`
	// MaxReconnect is the maximum number of reconnection attempts
	MaxReconnect int `json:"max_reconnect"`
	// ReconnectWait is the time to wait between reconnection attempts
	ReconnectWait time.Duration `json:"reconnect_wait"`
	// SubjectPrefix is prepended to every published subject
	SubjectPrefix string `json:"subject_prefix"`
}

// Message is a payload ready to publish
type Message struct {
	// Subject is the full NATS subject
	Subject string `json:"subject"`
	// Data is the serialized payload
	Data []byte `json:"data"`
	// RequestID is forwarded as a header when known
	RequestID string `json:"request_id,omitempty"`
}
