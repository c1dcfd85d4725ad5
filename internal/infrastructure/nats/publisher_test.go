// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/middleware"
	"github.com/stretchr/testify/assert"
)

// MockNATSClient is a mock implementation of NATSClientInterface
type MockNATSClient struct {
	messages     []*Message
	publishError error
	closeError   error
}

func NewMockNATSClient() *MockNATSClient {
	return &MockNATSClient{}
}

func (m *MockNATSClient) Publish(ctx context.Context, message *Message) error {
	if m.publishError != nil {
		return m.publishError
	}
	m.messages = append(m.messages, message)
	return nil
}

func (m *MockNATSClient) Close() error {
	return m.closeError
}

func TestEventPublisherPublishProcessWatch(t *testing.T) {
	assertion := assert.New(t)

	client := NewMockNATSClient()
	publisher := NewEventPublisherWithClient(client, "")

	ctx := middleware.WithRequestID(context.Background(), "req-1")
	err := publisher.PublishProcessWatch(ctx, model.ProcessWatch{
		ResourcePK:   "5",
		ResourceType: "dataset",
		ProcessType:  "copy",
		ExecutionID:  "abc",
	})

	assertion.NoError(err)
	assertion.Len(client.messages, 1)
	assertion.Equal("geocatalog.process.watch", client.messages[0].Subject)
	assertion.Equal("req-1", client.messages[0].RequestID)

	var decoded model.ProcessWatch
	assertion.NoError(json.Unmarshal(client.messages[0].Data, &decoded))
	assertion.Equal("abc", decoded.ExecutionID)
}

func TestEventPublisherPublishNotification(t *testing.T) {
	tests := []struct {
		name            string
		prefix          string
		level           model.NotificationLevel
		publishError    error
		expectedSubject string
		expectedError   bool
	}{
		{
			name:            "warning with custom prefix",
			prefix:          "dev.catalog",
			level:           model.NotificationWarning,
			expectedSubject: "dev.catalog.notification.warning",
		},
		{
			name:            "success with default prefix",
			level:           model.NotificationSuccess,
			expectedSubject: "geocatalog.notification.success",
		},
		{
			name:          "publish failure",
			level:         model.NotificationError,
			publishError:  errors.New("connection closed"),
			expectedError: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := NewMockNATSClient()
			client.publishError = tc.publishError
			publisher := NewEventPublisherWithClient(client, tc.prefix)

			err := publisher.PublishNotification(context.Background(), model.Notification{Level: tc.level, Title: "Sync"})
			if tc.expectedError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedSubject, client.messages[0].Subject)
			assert.Empty(t, client.messages[0].RequestID)
		})
	}
}

func TestEventPublisherClose(t *testing.T) {
	client := NewMockNATSClient()
	client.closeError = errors.New("already closed")

	assert.Error(t, NewEventPublisherWithClient(client, "").Close())
}
