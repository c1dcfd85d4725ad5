// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/constants"

	"github.com/nats-io/nats.go"
)

// NATSClient wraps the NATS connection used to publish catalogue events
type NATSClient struct {
	conn   *nats.Conn
	config Config
}

// NATSClientInterface defines the interface for NATS operations
// This allows for easy mocking and testing
type NATSClientInterface interface {
	Publish(ctx context.Context, message *Message) error
	Close() error
}

// Publish sends a message without waiting for subscribers
func (c *NATSClient) Publish(ctx context.Context, message *Message) error {
	if message == nil || message.Subject == "" || len(message.Data) == 0 {
		slog.ErrorContext(ctx, "invalid NATS message: subject and data must be set")
		return fmt.Errorf("invalid NATS message: subject and data must be set")
	}

	msg := nats.NewMsg(message.Subject)
	msg.Data = message.Data
	if message.RequestID != "" {
		msg.Header.Set(string(constants.RequestIDHeader), message.RequestID)
	}

	if err := c.conn.PublishMsg(msg); err != nil {
		slog.ErrorContext(ctx, "NATS publish failed", "subject", message.Subject, "error", err)
		return fmt.Errorf("NATS publish failed: %w", err)
	}

	slog.DebugContext(ctx, "published NATS message",
		"subject", message.Subject,
		"size", len(message.Data),
	)
	return nil
}

// Close flushes pending messages and closes the NATS connection
func (c *NATSClient) Close() error {
	if c.conn == nil {
		return nil
	}
	if err := c.conn.Flush(); err != nil {
		slog.Warn("NATS flush failed", "error", err)
	}
	c.conn.Close()
	return nil
}

// NewClient creates a new NATS client with the given configuration
func NewClient(ctx context.Context, config Config) (*NATSClient, error) {
	slog.InfoContext(ctx, "creating NATS client",
		"url", config.URL,
		"timeout", config.Timeout,
	)

	opts := []nats.Option{
		nats.Name("lfx-v2-geocatalog"),
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

	slog.InfoContext(ctx, "NATS client created successfully",
		"connected_url", conn.ConnectedUrl(),
		"status", conn.Status(),
	)

	return &NATSClient{conn: conn, config: config}, nil
}
