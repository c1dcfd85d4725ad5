// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package geonode

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/errors"
)

const processTypeCopy = "copy"

// Searcher implements the catalogue ports on top of the GeoNode REST API
type Searcher struct {
	client *Client
}

var (
	_ port.ResourceSearcher = (*Searcher)(nil)
	_ port.ResourceManager  = (*Searcher)(nil)
	_ port.FacetProvider    = (*Searcher)(nil)
)

// QueryResources lists one page of resources
func (s *Searcher) QueryResources(ctx context.Context, query model.ResourceQuery) (*model.ResourcePage, error) {
	values := encodeResourceQuery(query)

	slog.DebugContext(ctx, "querying GeoNode resources",
		"query", values.Encode(),
	)

	response, err := s.client.ListResources(ctx, values)
	if err != nil {
		return nil, err
	}

	page := &model.ResourcePage{
		Resources:           response.Resources,
		Total:               response.Total,
		IsNextPageAvailable: response.Links.Next != nil && *response.Links.Next != "",
	}

	slog.DebugContext(ctx, "GeoNode resources fetched",
		"count", len(page.Resources),
		"total", page.Total,
		"next", page.IsNextPageAvailable,
	)

	return page, nil
}

// GetResource fetches a single resource from its type specific endpoint
func (s *Searcher) GetResource(ctx context.Context, pk, resourceType string) (*model.Resource, error) {
	if pk == "" {
		return nil, errors.NewValidation("resource pk is required")
	}

	raw, err := s.client.GetRecord(ctx, endpointFor(resourceType), pk)
	if err != nil {
		return nil, err
	}

	var resource model.Resource
	if err := json.Unmarshal(raw, &resource); err != nil {
		return nil, errors.NewUnexpected("failed to decode resource", err)
	}
	return &resource, nil
}

// GetResourcesByPK fetches resources of one type with a single pk.in filter
func (s *Searcher) GetResourcesByPK(ctx context.Context, resourceType string, pks []string) ([]model.Resource, error) {
	if len(pks) == 0 {
		return nil, nil
	}

	filter := model.NewInFilter("pk", pks...)
	values := url.Values{}
	for _, pk := range filter.Values {
		values.Add(filter.Key.String(), pk)
	}
	values.Set(wirePageSize, strconv.Itoa(len(pks)))

	e := endpointFor(resourceType)
	records, err := s.client.ListCollection(ctx, e.Collection, values)
	if err != nil {
		return nil, err
	}

	resources := make([]model.Resource, 0, len(records))
	for _, raw := range records {
		var resource model.Resource
		if err := json.Unmarshal(raw, &resource); err != nil {
			return nil, errors.NewUnexpected("failed to decode resource", err)
		}
		resources = append(resources, resource)
	}
	return resources, nil
}

// GetFacets returns the facet catalogue, each facet bound to its items lookup
func (s *Searcher) GetFacets(ctx context.Context, query model.SearchParams) ([]model.Facet, error) {
	response, err := s.client.ListFacets(ctx, encodeParams(query))
	if err != nil {
		return nil, err
	}

	facets := make([]model.Facet, 0, len(response.Facets))
	for _, payload := range response.Facets {
		name := payload.Name
		facet := model.Facet{
			Name:        payload.Name,
			FilterKey:   payload.Filter,
			Label:       payload.Label,
			Type:        payload.Type,
			Order:       payload.Order,
			IsLocalized: payload.IsLocalized,
		}
		facets = append(facets, facet.WithLoader(func(ctx context.Context, q model.FacetItemsQuery) (model.FacetPage, error) {
			page, err := s.GetFacetItems(ctx, name, q)
			if err != nil {
				return model.FacetPage{}, err
			}
			return *page, nil
		}))
	}
	return facets, nil
}

// GetFacetItems returns one page of topics of a facet
func (s *Searcher) GetFacetItems(ctx context.Context, name string, query model.FacetItemsQuery) (*model.FacetPage, error) {
	if name == "" {
		return nil, errors.NewValidation("facet name is required")
	}

	response, err := s.client.GetFacet(ctx, name, encodeFacetItemsQuery(query))
	if err != nil {
		return nil, err
	}

	topics := response.Topics
	page := &model.FacetPage{
		Items:               make([]model.FacetItem, 0, len(topics.Items)),
		Total:               topics.Total,
		Page:                topics.Page,
		PageSize:            topics.PageSize,
		IsNextPageAvailable: model.HasNextTopicsPage(topics.Total, topics.Page, topics.PageSize),
	}
	for _, topic := range topics.Items {
		value := model.Stringify(topic.Key)
		label := topic.Label
		if label == "" {
			label = value
		}
		page.Items = append(page.Items, model.FacetItem{
			Name:        label,
			FilterKey:   response.Filter,
			FilterValue: value,
			Count:       max(topic.Count, 0),
			FacetName:   name,
		})
	}
	return page, nil
}

// CopyResource starts an asynchronous copy of the resource
func (s *Searcher) CopyResource(ctx context.Context, pk, resourceType string) (*model.ProcessWatch, error) {
	response, err := s.client.CopyResource(ctx, pk)
	if err != nil {
		return nil, err
	}
	return &model.ProcessWatch{
		ResourcePK:   pk,
		ResourceType: resourceType,
		ProcessType:  processTypeCopy,
		ExecutionID:  response.ExecutionID,
		StatusURL:    response.StatusURL,
	}, nil
}

// DeleteResource removes the resource
func (s *Searcher) DeleteResource(ctx context.Context, pk string) error {
	return s.client.DeleteResource(ctx, pk)
}

// IsReady checks if the GeoNode API is reachable
func (s *Searcher) IsReady(ctx context.Context) error {
	return s.client.IsReady(ctx)
}

// NewSearcher creates a Searcher for the configured GeoNode site
func NewSearcher(ctx context.Context, config Config) (*Searcher, error) {
	if config.BaseURL == "" {
		return nil, errors.NewValidation("GeoNode base URL is required")
	}

	slog.InfoContext(ctx, "creating GeoNode searcher",
		"base_url", config.BaseURL,
		"timeout", config.Timeout,
		"max_retries", config.MaxRetries,
	)

	return &Searcher{client: NewClient(config)}, nil
}
