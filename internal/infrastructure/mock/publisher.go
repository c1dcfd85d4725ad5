// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/port"
)

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu            sync.Mutex
	watches       []model.ProcessWatch
	notifications []model.Notification
	err           error
}

var _ port.EventPublisher = (*MockEventPublisher)(nil)

// NewMockEventPublisher creates a recording publisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// PublishProcessWatch implements the EventPublisher interface
func (m *MockEventPublisher) PublishProcessWatch(ctx context.Context, watch model.ProcessWatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	slog.DebugContext(ctx, "mock process watch", "resource_pk", watch.ResourcePK, "execution_id", watch.ExecutionID)
	m.watches = append(m.watches, watch)
	return nil
}

// PublishNotification implements the EventPublisher interface
func (m *MockEventPublisher) PublishNotification(ctx context.Context, notification model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	slog.DebugContext(ctx, "mock notification", "level", notification.Level, "title", notification.Title)
	m.notifications = append(m.notifications, notification)
	return nil
}

// Close implements the EventPublisher interface
func (m *MockEventPublisher) Close() error {
	return nil
}

// SetError makes every publish fail
func (m *MockEventPublisher) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Watches returns the recorded process watches
func (m *MockEventPublisher) Watches() []model.ProcessWatch {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.ProcessWatch(nil), m.watches...)
}

// Notifications returns the recorded notifications
func (m *MockEventPublisher) Notifications() []model.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Notification(nil), m.notifications...)
}
