// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package geonode

import (
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
)

// endpoint maps a resource type to its API collection and the key wrapping
// a single record in detail responses.
type endpoint struct {
	Collection string
	Envelope   string
}

var (
	resourcesEndpoint = endpoint{Collection: "resources", Envelope: "resource"}

	endpointsByType = map[string]endpoint{
		model.ResourceTypeDataset:   {Collection: "datasets", Envelope: "dataset"},
		model.ResourceTypeMap:       {Collection: "maps", Envelope: "map"},
		model.ResourceTypeDocument:  {Collection: "documents", Envelope: "document"},
		model.ResourceTypeGeoStory:  {Collection: "geoapps", Envelope: "geoapp"},
		model.ResourceTypeDashboard: {Collection: "geoapps", Envelope: "geoapp"},
		"geoapp":                    {Collection: "geoapps", Envelope: "geoapp"},
	}
)

func endpointFor(resourceType string) endpoint {
	if e, ok := endpointsByType[resourceType]; ok {
		return e
	}
	return resourcesEndpoint
}

// Links is the pagination block of list responses
type Links struct {
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// ResourcesResponse is the body of GET /api/v2/resources
type ResourcesResponse struct {
	Total     int              `json:"total"`
	Page      int              `json:"page"`
	PageSize  int              `json:"page_size"`
	Links     Links            `json:"links"`
	Resources []model.Resource `json:"resources"`
}

// FacetPayload is one facet as listed by GET /api/v2/facets
type FacetPayload struct {
	Name        string         `json:"name"`
	Filter      string         `json:"filter"`
	Label       string         `json:"label"`
	Type        string         `json:"type"`
	Order       int            `json:"order"`
	IsLocalized bool           `json:"is_localized"`
	Topics      *TopicsPayload `json:"topics,omitempty"`
}

// FacetsResponse is the body of GET /api/v2/facets
type FacetsResponse struct {
	Facets []FacetPayload `json:"facets"`
}

// TopicsPayload is a page of facet values
type TopicsPayload struct {
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Start    int            `json:"start"`
	Total    int            `json:"total"`
	Items    []TopicPayload `json:"items"`
}

// TopicPayload is one facet value. Keys are numbers for some facets.
type TopicPayload struct {
	Key         any    `json:"key"`
	Label       string `json:"label"`
	Count       int    `json:"count"`
	IsLocalized bool   `json:"is_localized"`
}

// FacetItemsResponse is the body of GET /api/v2/facets/{name}
type FacetItemsResponse struct {
	FacetPayload
	Topics TopicsPayload `json:"topics"`
}

// CopyResponse is the body of PUT /api/v2/resources/{pk}/copy
type CopyResponse struct {
	ExecutionID string `json:"execution_id"`
	Status      string `json:"status"`
	StatusURL   string `json:"status_url"`
}
