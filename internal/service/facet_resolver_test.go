// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/errors"

	"github.com/stretchr/testify/assert"
)

const (
	categoryKey = "filter{category.identifier.in}"
	ownerKey    = "filter{owner.username.in}"
	keywordKey  = "filter{keywords.slug.in}"
)

func TestFacetResolverResolve(t *testing.T) {
	tests := []struct {
		name            string
		request         ResolveRequest
		setup           func(*mock.MockFacetProvider)
		expectedLookups []string
		expectedFilters model.FilterRegistry
	}{
		{
			name:            "no applied filters",
			request:         ResolveRequest{Query: model.SearchParams{"q": {"road"}}},
			expectedLookups: nil,
			expectedFilters: model.FilterRegistry{},
		},
		{
			name:            "applied select filter is looked up",
			request:         ResolveRequest{Query: model.SearchParams{categoryKey: {"farming"}}},
			expectedLookups: []string{"category"},
			expectedFilters: model.FilterRegistry{
				categoryKey + "farming": {Name: "Farming", FilterKey: categoryKey, FilterValue: "farming", Count: 1, FacetName: "category"},
			},
		},
		{
			name:            "collapsed accordion is not looked up",
			request:         ResolveRequest{Query: model.SearchParams{keywordKey: {"hydrology"}}},
			expectedLookups: nil,
			expectedFilters: model.FilterRegistry{},
		},
		{
			name: "expanded accordion is looked up",
			request: ResolveRequest{
				Query:    model.SearchParams{keywordKey: {"hydrology"}},
				Expanded: []string{"keyword"},
			},
			expectedLookups: []string{"keyword"},
			expectedFilters: model.FilterRegistry{
				keywordKey + "hydrology": {Name: "Hydrology", FilterKey: keywordKey, FilterValue: "hydrology", Count: 3, FacetName: "keyword"},
			},
		},
		{
			name: "missing filter is kept with zero count",
			request: ResolveRequest{
				Query: model.SearchParams{categoryKey: {"farming", "forestry"}},
				Previous: model.FilterRegistry{
					categoryKey + "forestry": {Name: "Forestry", FilterKey: categoryKey, FilterValue: "forestry", Count: 4, FacetName: "category"},
				},
			},
			expectedLookups: []string{"category"},
			expectedFilters: model.FilterRegistry{
				categoryKey + "farming":  {Name: "Farming", FilterKey: categoryKey, FilterValue: "farming", Count: 1, FacetName: "category"},
				categoryKey + "forestry": {Name: "Forestry", FilterKey: categoryKey, FilterValue: "forestry", Count: 0, FacetName: "category"},
			},
		},
		{
			name:            "unknown filter value is created with zero count",
			request:         ResolveRequest{Query: model.SearchParams{ownerKey: {"ghost"}}},
			expectedLookups: []string{"owner"},
			expectedFilters: model.FilterRegistry{
				ownerKey + "ghost": {Name: "ghost", FilterKey: ownerKey, FilterValue: "ghost", Count: 0, FacetName: "owner"},
			},
		},
		{
			name:    "failed lookup degrades to empty items",
			request: ResolveRequest{Query: model.SearchParams{categoryKey: {"farming"}}},
			setup: func(provider *mock.MockFacetProvider) {
				provider.SetItemsError("category", errors.NewServiceUnavailable("backend down"))
			},
			expectedLookups: []string{"category"},
			expectedFilters: model.FilterRegistry{
				categoryKey + "farming": {Name: "farming", FilterKey: categoryKey, FilterValue: "farming", Count: 0, FacetName: "category"},
			},
		},
		{
			name: "previous entries are kept",
			request: ResolveRequest{
				Query: model.SearchParams{ownerKey: {"admin"}},
				Previous: model.FilterRegistry{
					categoryKey + "farming": {Name: "Farming", FilterKey: categoryKey, FilterValue: "farming", Count: 1, FacetName: "category"},
				},
			},
			expectedLookups: []string{"owner"},
			expectedFilters: model.FilterRegistry{
				categoryKey + "farming": {Name: "Farming", FilterKey: categoryKey, FilterValue: "farming", Count: 1, FacetName: "category"},
				ownerKey + "admin":      {Name: "admin", FilterKey: ownerKey, FilterValue: "admin", Count: 5, FacetName: "owner"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertion := assert.New(t)

			provider := mock.NewMockFacetProvider()
			if tc.setup != nil {
				tc.setup(provider)
			}

			result, err := NewFacetResolver(provider).Resolve(context.Background(), tc.request)

			assertion.NoError(err)
			assertion.Len(result.Facets, 3)
			assertion.ElementsMatch(tc.expectedLookups, provider.ItemCalls())
			assertion.Equal(tc.expectedFilters, result.Filters)
		})
	}
}

func TestFacetResolverResolveDoesNotMutatePrevious(t *testing.T) {
	previous := model.FilterRegistry{
		categoryKey + "forestry": {Name: "Forestry", FilterKey: categoryKey, FilterValue: "forestry", Count: 4, FacetName: "category"},
	}

	_, err := NewFacetResolver(mock.NewMockFacetProvider()).Resolve(context.Background(), ResolveRequest{
		Query:    model.SearchParams{categoryKey: {"forestry"}},
		Previous: previous,
	})

	assert.NoError(t, err)
	assert.Equal(t, 4, previous[categoryKey+"forestry"].Count)
}

func TestFacetResolverResolveOrdersFacets(t *testing.T) {
	provider := mock.NewEmptyMockFacetProvider()
	provider.AddFacet(model.Facet{Name: "third", FilterKey: "filter{c}", Order: 3})
	provider.AddFacet(model.Facet{Name: "first", FilterKey: "filter{a}", Order: 1})
	provider.AddFacet(model.Facet{Name: "second", FilterKey: "filter{b}", Order: 2})

	result, err := NewFacetResolver(provider).Resolve(context.Background(), ResolveRequest{})

	assert.NoError(t, err)
	var names []string
	for _, facet := range result.Facets {
		names = append(names, facet.Name)
	}
	assert.Equal(t, []string{"first", "second", "third"}, names)
}

func TestFacetResolverResolveCatalogueFailure(t *testing.T) {
	provider := mock.NewMockFacetProvider()
	provider.SetFacetsError(errors.NewServiceUnavailable("backend down"))

	_, err := NewFacetResolver(provider).Resolve(context.Background(), ResolveRequest{})

	assert.Error(t, err)
	var unavailable errors.ServiceUnavailable
	assert.ErrorAs(t, err, &unavailable)
}

func TestFacetResolverLoadFacetItems(t *testing.T) {
	tests := []struct {
		name         string
		query        model.FacetItemsQuery
		expectedLen  int
		expectedNext bool
	}{
		{name: "first page", query: model.FacetItemsQuery{Page: 0, PageSize: 1}, expectedLen: 1, expectedNext: true},
		{name: "last page", query: model.FacetItemsQuery{Page: 1, PageSize: 1}, expectedLen: 1, expectedNext: false},
		{name: "default page size", query: model.FacetItemsQuery{}, expectedLen: 2, expectedNext: false},
	}

	provider := mock.NewMockFacetProvider()
	facets, err := provider.GetFacets(context.Background(), nil)
	assert.NoError(t, err)
	owner := facets[1]

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page, err := NewFacetResolver(provider).LoadFacetItems(context.Background(), owner, tc.query)

			assert.NoError(t, err)
			assert.Len(t, page.Items, tc.expectedLen)
			assert.Equal(t, 2, page.Total)
			assert.Equal(t, tc.expectedNext, page.IsNextPageAvailable)
		})
	}
}

func TestFacetResolverLoadFacetItemsWithoutLoader(t *testing.T) {
	_, err := NewFacetResolver(mock.NewEmptyMockFacetProvider()).LoadFacetItems(context.Background(), model.Facet{Name: "bare"}, model.FacetItemsQuery{})
	assert.ErrorIs(t, err, model.ErrNoLoader)
}
