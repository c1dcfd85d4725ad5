// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"context"
	"errors"
	"maps"
	"math"
	"slices"
	"strings"
)

// FacetTypeAccordion marks facets shown as collapsible groups. Their items
// are only loaded while the group is expanded.
const FacetTypeAccordion = "accordion"

// FacetItemsLoader fetches one page of items of a facet.
type FacetItemsLoader func(ctx context.Context, query FacetItemsQuery) (FacetPage, error)

// Facet is a filterable dimension of the catalogue.
type Facet struct {
	Name        string
	FilterKey   string
	Label       string
	Type        string
	Order       int
	IsLocalized bool

	loader FacetItemsLoader
}

// FacetItemsQuery selects a page of facet topics. Query carries the active
// search so counts reflect it; Keys forces the given topics into the page.
type FacetItemsQuery struct {
	Page     int
	PageSize int
	Text     string
	Keys     []string
	Query    SearchParams
}

// FacetPage is one page of facet topics.
type FacetPage struct {
	Items               []FacetItem
	Total               int
	Page                int
	PageSize            int
	IsNextPageAvailable bool
}

// FacetItem is a selectable value of a facet.
type FacetItem struct {
	Name        string `json:"name"`
	FilterKey   string `json:"filter_key"`
	FilterValue string `json:"filter_value"`
	Count       int    `json:"count"`
	FacetName   string `json:"facet_name"`
}

// FilterRegistry indexes facet items by filterKey+filterValue.
type FilterRegistry map[string]FacetItem

// ErrNoLoader is returned by LoadItems on a facet without a bound loader.
var ErrNoLoader = errors.New("facet has no items loader")

// WithLoader binds the items capability to the facet.
func (f Facet) WithLoader(loader FacetItemsLoader) Facet {
	f.loader = loader
	return f
}

// LoadItems fetches a page of the facet's items.
func (f Facet) LoadItems(ctx context.Context, query FacetItemsQuery) (FacetPage, error) {
	if f.loader == nil {
		return FacetPage{}, ErrNoLoader
	}
	return f.loader(ctx, query)
}

// IsAccordion reports whether the facet is rendered as an accordion.
func (f Facet) IsAccordion() bool {
	return strings.EqualFold(f.Type, FacetTypeAccordion)
}

// HasNextTopicsPage applies the facet topics rule: pages are zero based and
// another page exists while ceil(total/pageSize)-(page+1) is not zero.
func HasNextTopicsPage(total, page, pageSize int) bool {
	if pageSize <= 0 {
		return false
	}
	pages := int(math.Ceil(float64(total) / float64(pageSize)))
	return pages-(page+1) != 0
}

// RegistryKey is the FilterRegistry key of a filter value.
func RegistryKey(filterKey, filterValue string) string {
	return filterKey + filterValue
}

// Key returns the item's registry key.
func (i FacetItem) Key() string {
	return RegistryKey(i.FilterKey, i.FilterValue)
}

// Clone returns a copy of the registry.
func (r FilterRegistry) Clone() FilterRegistry {
	if r == nil {
		return FilterRegistry{}
	}
	return maps.Clone(r)
}

// Lookup finds the item for a filter value.
func (r FilterRegistry) Lookup(filterKey, filterValue string) (FacetItem, bool) {
	item, ok := r[RegistryKey(filterKey, filterValue)]
	return item, ok
}

// Items returns the entries sorted by key.
func (r FilterRegistry) Items() []FacetItem {
	keys := slices.Sorted(maps.Keys(r))
	items := make([]FacetItem, 0, len(keys))
	for _, key := range keys {
		items = append(items, r[key])
	}
	return items
}
