// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"slices"

	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/constants"
)

// CustomFilter is a named alias for a set of query params, selected with
// f={id} in the location.
type CustomFilter struct {
	ID    string
	Label string
	Query SearchParams
}

// CustomFilterTable resolves custom filter aliases.
type CustomFilterTable struct {
	filters map[string]CustomFilter
	order   []string
}

// NewCustomFilterTable indexes filters by id. Later duplicates win.
func NewCustomFilterTable(filters ...CustomFilter) CustomFilterTable {
	table := CustomFilterTable{filters: make(map[string]CustomFilter, len(filters))}
	for _, filter := range filters {
		if _, seen := table.filters[filter.ID]; !seen {
			table.order = append(table.order, filter.ID)
		}
		table.filters[filter.ID] = filter
	}
	return table
}

// Get returns the filter with the given id.
func (t CustomFilterTable) Get(id string) (CustomFilter, bool) {
	filter, ok := t.filters[id]
	return filter, ok
}

// Filters returns the filters in declaration order.
func (t CustomFilterTable) Filters() []CustomFilter {
	out := make([]CustomFilter, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.filters[id])
	}
	return out
}

// Expand replaces the f aliases in params with the queries they stand for.
// Alias values are added to native values of the same key, so an alias
// widens an explicit filter instead of overriding it. Unknown aliases are
// dropped and returned.
func (t CustomFilterTable) Expand(params SearchParams) (SearchParams, []string) {
	aliases := params[constants.CustomFilterQueryKey]
	out := params.Without(constants.CustomFilterQueryKey)

	var unknown []string
	for _, id := range aliases {
		filter, ok := t.filters[id]
		if !ok {
			if !slices.Contains(unknown, id) {
				unknown = append(unknown, id)
			}
			continue
		}
		out = out.Union(filter.Query)
	}
	return out, unknown
}
