// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

const (

	// DefaultPageSize is the default number of results per page for queries
	DefaultPageSize = 20

	// DefaultFacetPageSize is the number of topics requested per facet lookup
	DefaultFacetPageSize = 10

	// DetailQueryKey carries the resource shown in the detail panel as "{pk};{resourceType}"
	DetailQueryKey = "d"
	// CustomFilterQueryKey carries custom filter aliases
	CustomFilterQueryKey = "f"
	// PageQueryKey is the page number
	PageQueryKey = "page"
	// TextQueryKey is the free text search
	TextQueryKey = "q"
	// SortQueryKey is the sort order
	SortQueryKey = "sort"

	// DetailSeparator splits pk and resource type in the detail key
	DetailSeparator = ";"
)

// DefaultSearchFields are the fields the free text search applies to.
var DefaultSearchFields = []string{"title", "abstract"}

// DefaultViewerRoutes are the routes rendering a single resource, where a
// location change must not refresh the catalogue listing.
var DefaultViewerRoutes = []string{
	"/dataset/{pk}",
	"/dataset/{pk}/edit/*",
	"/map/{pk}",
	"/document/{pk}",
	"/geostory/{pk}",
	"/dashboard/{pk}",
	"/viewer/*",
}
