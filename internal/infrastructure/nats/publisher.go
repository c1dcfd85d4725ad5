// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/constants"
)

// EventPublisher implements port.EventPublisher over NATS
type EventPublisher struct {
	client NATSClientInterface
	prefix string
}

var _ port.EventPublisher = (*EventPublisher)(nil)

// PublishProcessWatch publishes on {prefix}.process.watch
func (p *EventPublisher) PublishProcessWatch(ctx context.Context, watch model.ProcessWatch) error {
	return p.publish(ctx, constants.ProcessWatchSubject, watch)
}

// PublishNotification publishes on {prefix}.notification.{level}
func (p *EventPublisher) PublishNotification(ctx context.Context, notification model.Notification) error {
	return p.publish(ctx, constants.NotificationSubject+"."+string(notification.Level), notification)
}

func (p *EventPublisher) publish(ctx context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", subject, err)
	}

	message := &Message{
		Subject: p.prefix + "." + subject,
		Data:    data,
	}
	if requestID, ok := middleware.RequestIDFromContext(ctx); ok {
		message.RequestID = requestID
	}
	return p.client.Publish(ctx, message)
}

// Close closes the underlying client
func (p *EventPublisher) Close() error {
	return p.client.Close()
}

// NewEventPublisherWithClient builds a publisher on an existing client
func NewEventPublisherWithClient(client NATSClientInterface, prefix string) *EventPublisher {
	if prefix == "" {
		prefix = constants.DefaultSubjectPrefix
	}
	return &EventPublisher{client: client, prefix: prefix}
}

// NewEventPublisher connects to NATS and returns a publisher
func NewEventPublisher(ctx context.Context, config Config) (*EventPublisher, error) {
	client, err := NewClient(ctx, config)
	if err != nil {
		return nil, err
	}
	return NewEventPublisherWithClient(client, config.SubjectPrefix), nil
}
