// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import "fmt"

// SyncStatus is the state of an embedded resources sync.
type SyncStatus string

// Sync states. A sync goes Idle, Saving, Reconciling, Notified, or straight
// from Saving to Notified when it fails.
const (
	SyncIdle        SyncStatus = "idle"
	SyncSaving      SyncStatus = "saving"
	SyncReconciling SyncStatus = "reconciling"
	SyncNotified    SyncStatus = "notified"
)

// Parent resource types holding embedded resources.
const (
	ResourceTypeGeoStory  = "geostory"
	ResourceTypeDashboard = "dashboard"
	ResourceTypeMap       = "map"
	ResourceTypeDocument  = "document"
	ResourceTypeDataset   = "dataset"
)

// SyncResultStatus classifies one embedded resource.
type SyncResultStatus string

// Sync result statuses.
const (
	SyncSuccess SyncResultStatus = "success"
	SyncError   SyncResultStatus = "error"
)

// EmbeddedRef identifies an embedded map or document.
type EmbeddedRef struct {
	PK           string
	ResourceType string
}

// String renders "type/pk", the title used for entries that failed to sync.
func (r EmbeddedRef) String() string {
	return fmt.Sprintf("%s/%s", r.ResourceType, r.PK)
}

// SyncResult is the outcome for one embedded resource.
type SyncResult struct {
	Status       SyncResultStatus `json:"status"`
	Title        string           `json:"title"`
	PK           string           `json:"pk"`
	ResourceType string           `json:"resource_type"`
	Resource     *Resource        `json:"-"`
}

// ReplaceDirective tells a geostory to swap an embedded resource's data.
type ReplaceDirective struct {
	ResourceID   string         `json:"resource_id"`
	ResourceType string         `json:"resource_type"`
	Data         map[string]any `json:"data"`
}

// SyncReport is the result of SyncEmbedded.
type SyncReport struct {
	Results      []SyncResult       `json:"results"`
	Directives   []ReplaceDirective `json:"directives,omitempty"`
	Data         map[string]any     `json:"data,omitempty"`
	Notification Notification       `json:"notification"`
}
