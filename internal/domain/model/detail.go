// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// Detail is the resource shown in the detail panel.
type Detail struct {
	Resource  *Resource
	IsPreview bool
	Loading   bool
	Error     string
}
