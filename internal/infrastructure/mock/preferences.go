// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"slices"
	"sync"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/port"
)

// MockPreferenceStore keeps preferences in memory
type MockPreferenceStore struct {
	mu       sync.Mutex
	expanded []string
	err      error
}

var _ port.PreferenceStore = (*MockPreferenceStore)(nil)

// NewMockPreferenceStore creates a store with the given expanded facets
func NewMockPreferenceStore(expanded ...string) *MockPreferenceStore {
	return &MockPreferenceStore{expanded: expanded}
}

// ExpandedFacets implements the PreferenceStore interface
func (m *MockPreferenceStore) ExpandedFacets(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.expanded), nil
}

// SetExpandedFacets implements the PreferenceStore interface
func (m *MockPreferenceStore) SetExpandedFacets(ctx context.Context, names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.expanded = slices.Clone(names)
	return nil
}

// SetError makes every call fail
func (m *MockPreferenceStore) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
