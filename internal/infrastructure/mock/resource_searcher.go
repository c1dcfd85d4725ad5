// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/errors"
)

// QueryHook runs before a mock listing answers. Returning an error fails the
// query; blocking delays it.
type QueryHook func(ctx context.Context, query model.ResourceQuery) error

// MockResourceSearcher is an in-memory catalogue for testing and local runs
// This demonstrates how the clean architecture allows easy swapping of implementations
type MockResourceSearcher struct {
	mu          sync.RWMutex
	resources   []model.Resource
	queryHook   QueryHook
	getError    error
	batchErrors map[string]error
	calls       map[string]int
}

var (
	_ port.ResourceSearcher = (*MockResourceSearcher)(nil)
	_ port.ResourceManager  = (*MockResourceSearcher)(nil)
)

// NewMockResourceSearcher creates a new mock searcher with some sample data
func NewMockResourceSearcher() *MockResourceSearcher {
	m := NewEmptyMockResourceSearcher()
	for _, data := range []map[string]any{
		{
			"pk": "1", "resource_type": "dataset", "title": "Administrative Boundaries",
			"category": map[string]any{"identifier": "boundaries"},
			"owner":    map[string]any{"username": "admin"},
		},
		{
			"pk": "2", "resource_type": "dataset", "title": "Crop Fields 2024",
			"category": map[string]any{"identifier": "farming"},
			"owner":    map[string]any{"username": "editor"},
			"executions": []any{
				map[string]any{"exec_id": "exec-2", "user": "editor", "status": "running", "func_name": "copy"},
			},
		},
		{
			"pk": "10", "resource_type": "map", "title": "Road Network",
			"owner": map[string]any{"username": "admin"},
			"data":  map[string]any{"map": map[string]any{"zoom": 6.0, "center": map[string]any{"x": 11.0, "y": 43.0}}},
		},
		{
			"pk": "11", "resource_type": "map", "title": "Flood Risk",
			"owner": map[string]any{"username": "editor"},
			"data":  map[string]any{"map": map[string]any{"zoom": 8.0}},
		},
		{
			"pk": "20", "resource_type": "document", "title": "Survey Report",
			"owner": map[string]any{"username": "admin"},
			"href":  "/documents/20/link",
		},
		{
			"pk": "30", "resource_type": "geostory", "title": "River Story",
			"owner": map[string]any{"username": "admin"},
			"data": map[string]any{
				"resources": []any{
					map[string]any{"id": "r1", "type": "map", "data": map[string]any{"sourceId": "geonode", "id": 10.0}},
					map[string]any{"id": "r2", "type": "image", "data": map[string]any{"sourceId": "geonode", "id": 20.0}},
				},
			},
		},
		{
			"pk": "40", "resource_type": "dashboard", "title": "Monitoring",
			"owner": map[string]any{"username": "admin"},
			"data": map[string]any{
				"widgets": []any{
					map[string]any{"id": "w1", "widgetType": "map", "maps": []any{
						map[string]any{"mapId": "m1", "extraParams": map[string]any{"pk": 11.0}},
					}},
					map[string]any{"id": "w2", "widgetType": "text", "text": "Notes"},
				},
			},
		},
	} {
		m.resources = append(m.resources, model.NewResource(data))
	}
	return m
}

// NewEmptyMockResourceSearcher creates a mock searcher without data
func NewEmptyMockResourceSearcher() *MockResourceSearcher {
	return &MockResourceSearcher{
		batchErrors: map[string]error{},
		calls:       map[string]int{},
	}
}

// QueryResources implements the ResourceSearcher interface with mock data
func (m *MockResourceSearcher) QueryResources(ctx context.Context, query model.ResourceQuery) (*model.ResourcePage, error) {
	m.mu.Lock()
	m.calls["QueryResources"]++
	hook := m.queryHook
	m.mu.Unlock()

	slog.DebugContext(ctx, "executing mock search", "params", query.Params.Encode(), "page", query.Page)

	if hook != nil {
		if err := hook(ctx, query); err != nil {
			return nil, err
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []model.Resource
	for _, resource := range m.resources {
		if matches(resource, query.Params) {
			matched = append(matched, resource.Clone())
		}
	}

	page := max(query.Page, 1)
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}

	start := min((page-1)*pageSize, len(matched))
	end := min(start+pageSize, len(matched))

	result := &model.ResourcePage{
		Resources:           matched[start:end],
		Total:               len(matched),
		IsNextPageAvailable: end < len(matched),
	}

	slog.DebugContext(ctx, "mock search completed", "results_count", len(result.Resources))
	return result, nil
}

// GetResource implements the ResourceSearcher interface with mock data
func (m *MockResourceSearcher) GetResource(ctx context.Context, pk, resourceType string) (*model.Resource, error) {
	m.mu.Lock()
	m.calls["GetResource"]++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.getError != nil {
		return nil, m.getError
	}

	for _, resource := range m.resources {
		if resource.Matches(pk, resourceType) {
			clone := resource.Clone()
			return &clone, nil
		}
	}
	return nil, errors.NewNotFound("resource not found")
}

// GetResourcesByPK implements the ResourceSearcher interface with mock data
func (m *MockResourceSearcher) GetResourcesByPK(ctx context.Context, resourceType string, pks []string) ([]model.Resource, error) {
	m.mu.Lock()
	m.calls["GetResourcesByPK:"+resourceType]++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.batchErrors[resourceType]; err != nil {
		return nil, err
	}

	var found []model.Resource
	for _, resource := range m.resources {
		if resource.ResourceType == resourceType && slices.Contains(pks, resource.PK) {
			found = append(found, resource.Clone())
		}
	}
	return found, nil
}

// CopyResource implements the ResourceManager interface
func (m *MockResourceSearcher) CopyResource(ctx context.Context, pk, resourceType string) (*model.ProcessWatch, error) {
	if _, err := m.GetResource(ctx, pk, resourceType); err != nil {
		return nil, err
	}
	return &model.ProcessWatch{
		ResourcePK:   pk,
		ResourceType: resourceType,
		ProcessType:  "copy",
		ExecutionID:  "mock-exec-" + pk,
	}, nil
}

// DeleteResource implements the ResourceManager interface
func (m *MockResourceSearcher) DeleteResource(ctx context.Context, pk string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, resource := range m.resources {
		if resource.PK == pk {
			m.resources = slices.Delete(m.resources, i, i+1)
			return nil
		}
	}
	return errors.NewNotFound("resource not found")
}

// IsReady implements the ResourceSearcher interface (always ready for mock)
func (m *MockResourceSearcher) IsReady(ctx context.Context) error {
	return nil
}

// AddResource adds a resource to the mock data
func (m *MockResourceSearcher) AddResource(resource model.Resource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources = append(m.resources, resource)
}

// ClearResources removes all resources from the mock data
func (m *MockResourceSearcher) ClearResources() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources = nil
}

// SetQueryHook installs a hook run before every listing
func (m *MockResourceSearcher) SetQueryHook(hook QueryHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryHook = hook
}

// SetGetError makes GetResource fail
func (m *MockResourceSearcher) SetGetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getError = err
}

// SetBatchError makes GetResourcesByPK fail for one resource type
func (m *MockResourceSearcher) SetBatchError(resourceType string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchErrors[resourceType] = err
}

// Calls returns how many times an operation ran
func (m *MockResourceSearcher) Calls(operation string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[operation]
}

// matches applies the free text search and the structured filters
func matches(resource model.Resource, params model.SearchParams) bool {
	if text := strings.ToLower(params.Get(constants.TextQueryKey)); text != "" {
		if !strings.Contains(strings.ToLower(resource.Title), text) {
			return false
		}
	}

	for _, filter := range params.Filters() {
		value := lookup(resource.Data, filter.Key.Field)
		switch filter.Key.Operator {
		case model.OperatorEqual, model.OperatorIn:
			if !slices.Contains(filter.Values, value) {
				return false
			}
		case model.OperatorContains:
			if !strings.Contains(strings.ToLower(value), strings.ToLower(filter.Values[0])) {
				return false
			}
		}
	}
	return true
}

// lookup resolves a dotted path in decoded JSON
func lookup(data map[string]any, path string) string {
	var current any = data
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current = m[part]
	}
	return model.Stringify(current)
}
