// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/constants"
)

// FetchRequest asks for one page of resources.
type FetchRequest struct {
	Params            model.SearchParams
	Page              int
	PageSize          int
	PreferredUsername string
}

// FetchResult is a page of resources. Error is set when the backend call
// failed; Resources is then empty and Total zero.
type FetchResult struct {
	Resources           []model.Resource
	Total               int
	IsNextPageAvailable bool
	Error               bool
	Processes           []model.ProcessWatch
}

// ResourceFetcher loads resource pages from the catalogue backend
type ResourceFetcher struct {
	searcher     port.ResourceSearcher
	filters      model.CustomFilterTable
	defaultQuery model.SearchParams
}

// Fetch expands custom filters, applies the default query and sends the
// request once. A failed request is reported through FetchResult.Error and
// the returned error.
func (f *ResourceFetcher) Fetch(ctx context.Context, req FetchRequest) (FetchResult, error) {
	params, unknown := f.filters.Expand(req.Params.Canonical(constants.DetailQueryKey, constants.PageQueryKey))
	if len(unknown) > 0 {
		slog.WarnContext(ctx, "dropping unknown custom filters", "filters", unknown)
	}
	params = f.defaultQuery.Merge(params)

	page := max(req.Page, 1)
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}

	slog.DebugContext(ctx, "fetching resources",
		"params", params.Encode(),
		"page", page,
		"page_size", pageSize,
	)

	result, err := f.searcher.QueryResources(ctx, model.ResourceQuery{
		Params:   params,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		slog.With("error", err).ErrorContext(ctx, "resource fetch failed")
		return FetchResult{Error: true}, fmt.Errorf("fetch resources: %w", err)
	}

	return FetchResult{
		Resources:           result.Resources,
		Total:               result.Total,
		IsNextPageAvailable: result.IsNextPageAvailable,
		Processes:           DetectProcesses(result.Resources, req.PreferredUsername),
	}, nil
}

// DetectProcesses returns one watch per execution still running on behalf
// of username. An empty username detects nothing.
func DetectProcesses(resources []model.Resource, username string) []model.ProcessWatch {
	if username == "" {
		return nil
	}

	var watches []model.ProcessWatch
	for _, resource := range resources {
		for _, execution := range resource.Executions() {
			if execution.User != username || !execution.Running() {
				continue
			}
			watches = append(watches, model.ProcessWatch{
				ResourcePK:   resource.PK,
				ResourceType: resource.ResourceType,
				ProcessType:  execution.FuncName,
				ExecutionID:  execution.ID,
				StatusURL:    execution.StatusURL,
			})
		}
	}
	return watches
}

// NewResourceFetcher creates a fetcher. defaultQuery is merged under every
// request, so request params win.
func NewResourceFetcher(searcher port.ResourceSearcher, filters model.CustomFilterTable, defaultQuery model.SearchParams) *ResourceFetcher {
	return &ResourceFetcher{
		searcher:     searcher,
		filters:      filters,
		defaultQuery: defaultQuery.Canonical(),
	}
}
