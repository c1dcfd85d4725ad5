// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"slices"
	"sync"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/errors"
)

// MockFacetProvider serves a fixed facet catalogue
type MockFacetProvider struct {
	mu          sync.Mutex
	facets      []model.Facet
	items       map[string][]model.FacetItem
	itemErrors  map[string]error
	facetsError error
	itemCalls   []string
}

var _ port.FacetProvider = (*MockFacetProvider)(nil)

// NewMockFacetProvider creates a provider with category, owner and keyword facets
func NewMockFacetProvider() *MockFacetProvider {
	m := NewEmptyMockFacetProvider()
	m.AddFacet(model.Facet{Name: "category", FilterKey: "filter{category.identifier.in}", Label: "Category", Type: "select", Order: 1},
		model.FacetItem{Name: "Boundaries", FilterValue: "boundaries", Count: 1},
		model.FacetItem{Name: "Farming", FilterValue: "farming", Count: 1},
	)
	m.AddFacet(model.Facet{Name: "owner", FilterKey: "filter{owner.username.in}", Label: "Owner", Type: "select", Order: 2},
		model.FacetItem{Name: "admin", FilterValue: "admin", Count: 5},
		model.FacetItem{Name: "editor", FilterValue: "editor", Count: 2},
	)
	m.AddFacet(model.Facet{Name: "keyword", FilterKey: "filter{keywords.slug.in}", Label: "Keyword", Type: model.FacetTypeAccordion, Order: 3},
		model.FacetItem{Name: "Hydrology", FilterValue: "hydrology", Count: 3},
	)
	return m
}

// NewEmptyMockFacetProvider creates a provider without facets
func NewEmptyMockFacetProvider() *MockFacetProvider {
	return &MockFacetProvider{
		items:      map[string][]model.FacetItem{},
		itemErrors: map[string]error{},
	}
}

// GetFacets implements the FacetProvider interface
func (m *MockFacetProvider) GetFacets(ctx context.Context, query model.SearchParams) ([]model.Facet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.facetsError != nil {
		return nil, m.facetsError
	}

	facets := make([]model.Facet, 0, len(m.facets))
	for _, facet := range m.facets {
		name := facet.Name
		facets = append(facets, facet.WithLoader(func(ctx context.Context, q model.FacetItemsQuery) (model.FacetPage, error) {
			page, err := m.GetFacetItems(ctx, name, q)
			if err != nil {
				return model.FacetPage{}, err
			}
			return *page, nil
		}))
	}
	return facets, nil
}

// GetFacetItems implements the FacetProvider interface
func (m *MockFacetProvider) GetFacetItems(ctx context.Context, name string, query model.FacetItemsQuery) (*model.FacetPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.itemCalls = append(m.itemCalls, name)

	if err := m.itemErrors[name]; err != nil {
		return nil, err
	}

	items, ok := m.items[name]
	if !ok {
		return nil, errors.NewNotFound("facet not found")
	}

	if len(query.Keys) > 0 {
		var keyed []model.FacetItem
		for _, item := range items {
			if slices.Contains(query.Keys, item.FilterValue) {
				keyed = append(keyed, item)
			}
		}
		items = keyed
	}

	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = constants.DefaultFacetPageSize
	}
	start := min(query.Page*pageSize, len(items))
	end := min(start+pageSize, len(items))

	return &model.FacetPage{
		Items:               append([]model.FacetItem(nil), items[start:end]...),
		Total:               len(items),
		Page:                query.Page,
		PageSize:            pageSize,
		IsNextPageAvailable: model.HasNextTopicsPage(len(items), query.Page, pageSize),
	}, nil
}

// AddFacet registers a facet and its items; items inherit the facet keys
func (m *MockFacetProvider) AddFacet(facet model.Facet, items ...model.FacetItem) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.facets = append(m.facets, facet)
	for i := range items {
		items[i].FilterKey = facet.FilterKey
		items[i].FacetName = facet.Name
	}
	m.items[facet.Name] = items
}

// SetItems replaces the items of a facet
func (m *MockFacetProvider) SetItems(name string, items ...model.FacetItem) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, facet := range m.facets {
		if facet.Name != name {
			continue
		}
		for i := range items {
			items[i].FilterKey = facet.FilterKey
			items[i].FacetName = facet.Name
		}
	}
	m.items[name] = items
}

// SetFacetsError makes GetFacets fail
func (m *MockFacetProvider) SetFacetsError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.facetsError = err
}

// SetItemsError makes GetFacetItems fail for one facet
func (m *MockFacetProvider) SetItemsError(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.itemErrors[name] = err
}

// ItemCalls returns the facet names looked up so far
func (m *MockFacetProvider) ItemCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.itemCalls...)
}
