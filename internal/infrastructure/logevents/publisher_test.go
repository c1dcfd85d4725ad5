// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package logevents

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	logging "github.com/linuxfoundation/lfx-v2-geocatalog/pkg/log"

	"github.com/stretchr/testify/assert"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode log record %q: %v", buf.String(), err)
	}
	return record
}

func TestPublisherPublishNotification(t *testing.T) {
	tests := []struct {
		name          string
		notification  model.Notification
		expectedLevel string
	}{
		{name: "success", notification: model.Notification{Level: model.NotificationSuccess, Title: "Sync completed"}, expectedLevel: "INFO"},
		{name: "warning", notification: model.Notification{Level: model.NotificationWarning, Title: "Sync partially completed"}, expectedLevel: "WARN"},
		{name: "error", notification: model.Notification{Level: model.NotificationError, Title: "Sync failed"}, expectedLevel: "ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			publisher := NewPublisher(logging.NewLogger(&buf, logging.Config{Level: "debug"}))

			assert.NoError(t, publisher.PublishNotification(context.Background(), tc.notification))

			record := decode(t, &buf)
			assert.Equal(t, tc.expectedLevel, record["level"])
			assert.Equal(t, tc.notification.Title, record["msg"])
			assert.Equal(t, "notification", record["event"])
		})
	}
}

func TestPublisherPublishProcessWatch(t *testing.T) {
	var buf bytes.Buffer
	publisher := NewPublisher(logging.NewLogger(&buf, logging.Config{}))

	err := publisher.PublishProcessWatch(context.Background(), model.ProcessWatch{
		ResourcePK:   "2",
		ResourceType: "dataset",
		ProcessType:  "copy",
		ExecutionID:  "exec-2",
	})

	assert.NoError(t, err)
	record := decode(t, &buf)
	assert.Equal(t, "process watch", record["msg"])
	assert.Equal(t, "exec-2", record["execution_id"])
	assert.NoError(t, publisher.Close())
}
