// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import "context"

// PreferenceStore persists client preferences between runs.
type PreferenceStore interface {
	// ExpandedFacets returns the names of the accordion facets left expanded
	ExpandedFacets(ctx context.Context) ([]string, error)

	// SetExpandedFacets replaces the expanded accordion facets
	SetExpandedFacets(ctx context.Context, names []string) error
}
