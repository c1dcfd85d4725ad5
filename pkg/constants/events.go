// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

const (
	// DefaultSubjectPrefix prefixes every subject the catalog publishes on
	DefaultSubjectPrefix = "geocatalog"

	// ProcessWatchSubject receives one message per async process to track
	ProcessWatchSubject = "process.watch"
	// NotificationSubject receives user facing notifications
	NotificationSubject = "notification"
)
