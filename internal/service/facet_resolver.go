// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/constants"

	"golang.org/x/sync/errgroup"
)

// ResolveRequest asks for the facets matching a query.
type ResolveRequest struct {
	Query    model.SearchParams
	Previous model.FilterRegistry
	// Expanded lists the accordion facets the user left open
	Expanded []string
}

// ResolveResult holds the facet catalogue and the refreshed filter registry.
type ResolveResult struct {
	Facets  []model.Facet
	Filters model.FilterRegistry
}

// FacetResolver resolves facets and the labels of the applied filters
type FacetResolver struct {
	provider port.FacetProvider
}

type facetLookup struct {
	facet   model.Facet
	applied []string
	items   []model.FacetItem
}

// Resolve fetches the facet catalogue, then looks up the items of every
// relevant facet in parallel. Applied filters the backend no longer
// reports stay in the registry with a zero count.
func (r *FacetResolver) Resolve(ctx context.Context, req ResolveRequest) (ResolveResult, error) {
	query := req.Query.Canonical(constants.DetailQueryKey, constants.PageQueryKey)

	facets, err := r.provider.GetFacets(ctx, query)
	if err != nil {
		slog.With("error", err).ErrorContext(ctx, "facet catalogue lookup failed")
		return ResolveResult{}, fmt.Errorf("get facets: %w", err)
	}
	slices.SortStableFunc(facets, func(a, b model.Facet) int {
		return a.Order - b.Order
	})

	var lookups []*facetLookup
	for _, facet := range facets {
		applied := query[facet.FilterKey]
		if len(applied) == 0 {
			continue
		}
		if facet.IsAccordion() && !slices.Contains(req.Expanded, facet.Name) {
			continue
		}
		lookups = append(lookups, &facetLookup{facet: facet, applied: applied})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, lookup := range lookups {
		g.Go(func() error {
			page, err := lookup.facet.LoadItems(gctx, model.FacetItemsQuery{
				PageSize: len(lookup.applied),
				Keys:     lookup.applied,
				Query:    query,
			})
			if err != nil {
				slog.With("error", err).WarnContext(gctx, "facet items lookup failed",
					"facet", lookup.facet.Name,
				)
				return nil
			}
			lookup.items = page.Items
			return nil
		})
	}
	// lookups never fail the group
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return ResolveResult{}, err
	}

	filters := req.Previous.Clone()
	for _, lookup := range lookups {
		mergeLookup(filters, lookup)
	}

	slog.DebugContext(ctx, "facets resolved",
		"facets", len(facets),
		"lookups", len(lookups),
		"filters", len(filters),
	)

	return ResolveResult{Facets: facets, Filters: filters}, nil
}

// mergeLookup records the looked up items of the applied values. An
// applied value missing from the response is kept with a zero count.
func mergeLookup(filters model.FilterRegistry, lookup *facetLookup) {
	for _, value := range lookup.applied {
		index := slices.IndexFunc(lookup.items, func(item model.FacetItem) bool {
			return item.FilterValue == value
		})
		if index >= 0 {
			item := lookup.items[index]
			item.FilterKey = lookup.facet.FilterKey
			item.FacetName = lookup.facet.Name
			filters[item.Key()] = item
			continue
		}

		item, ok := filters.Lookup(lookup.facet.FilterKey, value)
		if !ok {
			item = model.FacetItem{
				Name:        value,
				FilterKey:   lookup.facet.FilterKey,
				FilterValue: value,
				FacetName:   lookup.facet.Name,
			}
		}
		item.Count = 0
		filters[item.Key()] = item
	}
}

// LoadFacetItems loads one page of a facet's items.
func (r *FacetResolver) LoadFacetItems(ctx context.Context, facet model.Facet, query model.FacetItemsQuery) (model.FacetPage, error) {
	if query.PageSize <= 0 {
		query.PageSize = constants.DefaultFacetPageSize
	}
	query.Page = max(query.Page, 0)

	page, err := facet.LoadItems(ctx, query)
	if err != nil {
		return model.FacetPage{}, fmt.Errorf("load items of facet %s: %w", facet.Name, err)
	}

	page.Page = query.Page
	page.PageSize = query.PageSize
	page.IsNextPageAvailable = model.HasNextTopicsPage(page.Total, query.Page, query.PageSize)
	return page, nil
}

// NewFacetResolver creates a new FacetResolver
func NewFacetResolver(provider port.FacetProvider) *FacetResolver {
	return &FacetResolver{provider: provider}
}
