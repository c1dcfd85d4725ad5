// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
)

// ResourceSearcher defines the read operations on the catalogue backend.
// This abstraction allows different implementations (GeoNode REST, in-memory)
// without the services knowing about specific implementations
type ResourceSearcher interface {
	// QueryResources lists one page of resources matching the query
	QueryResources(ctx context.Context, query model.ResourceQuery) (*model.ResourcePage, error)

	// GetResource fetches a single resource; resourceType selects the endpoint
	GetResource(ctx context.Context, pk, resourceType string) (*model.Resource, error)

	// GetResourcesByPK fetches many resources of one type in a single request
	GetResourcesByPK(ctx context.Context, resourceType string, pks []string) ([]model.Resource, error)

	// IsReady checks if the backend is reachable
	IsReady(ctx context.Context) error
}

// ResourceManager defines the write operations on the catalogue backend.
type ResourceManager interface {
	// CopyResource starts an asynchronous copy and returns the process to watch
	CopyResource(ctx context.Context, pk, resourceType string) (*model.ProcessWatch, error)

	// DeleteResource removes a resource
	DeleteResource(ctx context.Context, pk string) error
}

// FacetProvider defines the facet lookups.
type FacetProvider interface {
	// GetFacets returns the facet catalogue for the current query
	GetFacets(ctx context.Context, query model.SearchParams) ([]model.Facet, error)

	// GetFacetItems returns one page of topics of a facet
	GetFacetItems(ctx context.Context, name string, query model.FacetItemsQuery) (*model.FacetPage, error)
}
