// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package logevents publishes catalogue events to the structured log, for
// runs without a message broker.
package logevents

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/constants"
)

// Publisher writes events as log records
type Publisher struct {
	logger *slog.Logger
}

var _ port.EventPublisher = (*Publisher)(nil)

// PublishProcessWatch logs a process to watch
func (p *Publisher) PublishProcessWatch(ctx context.Context, watch model.ProcessWatch) error {
	p.logger.InfoContext(ctx, "process watch",
		"event", constants.ProcessWatchSubject,
		"resource_pk", watch.ResourcePK,
		"resource_type", watch.ResourceType,
		"process_type", watch.ProcessType,
		"execution_id", watch.ExecutionID,
		"status_url", watch.StatusURL,
	)
	return nil
}

// PublishNotification logs a notification at the matching level
func (p *Publisher) PublishNotification(ctx context.Context, notification model.Notification) error {
	level := slog.LevelInfo
	switch notification.Level {
	case model.NotificationWarning:
		level = slog.LevelWarn
	case model.NotificationError:
		level = slog.LevelError
	}

	p.logger.Log(ctx, level, notification.Title,
		"event", constants.NotificationSubject,
		"level", string(notification.Level),
		"message", notification.Message,
	)
	return nil
}

// Close is a no-op
func (p *Publisher) Close() error {
	return nil
}

// NewPublisher creates a publisher; a nil logger uses slog.Default
func NewPublisher(logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{logger: logger}
}
