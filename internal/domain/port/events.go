// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
)

// EventPublisher hands signals to whatever tracks async processes and shows
// notifications.
type EventPublisher interface {
	PublishProcessWatch(ctx context.Context, watch model.ProcessWatch) error
	PublishNotification(ctx context.Context, notification model.Notification) error
	Close() error
}
