// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package state holds the catalogue client state. Mutations are actions
// applied one at a time by the store loop.
package state

import (
	"slices"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
)

// State is the whole client state.
type State struct {
	Location      model.Location
	Search        SearchState
	Facets        FacetState
	Detail        model.Detail
	Sync          SyncState
	Notifications []model.Notification
}

// SearchState is the resource listing.
type SearchState struct {
	// Params are the canonical params of the last request, page excluded
	Params    model.SearchParams
	Page      model.PageState
	Resources []model.Resource
	Loading   bool
	Error     bool
	Processes []model.ProcessWatch
	// Requested is set once any listing request has started
	Requested bool
}

// FacetState is the facet panel.
type FacetState struct {
	Facets   []model.Facet
	Filters  model.FilterRegistry
	Expanded []string
	Loading  bool
}

// SyncState tracks the embedded resources sync.
type SyncState struct {
	Status model.SyncStatus
	Report *model.SyncReport
}

// Initial returns the state before any action.
func Initial(location model.Location, pageSize int) State {
	return State{
		Location: location.Clone(),
		Search: SearchState{
			Params: model.SearchParams{},
			Page:   model.PageState{Page: 1, PageSize: pageSize},
		},
		Facets: FacetState{Filters: model.FilterRegistry{}},
		Sync:   SyncState{Status: model.SyncIdle},
	}
}

// Clone deep copies the state so snapshots never alias the store.
func (s State) Clone() State {
	out := s
	out.Location = s.Location.Clone()

	out.Search.Params = s.Search.Params.Clone()
	out.Search.Resources = cloneResources(s.Search.Resources)
	out.Search.Processes = slices.Clone(s.Search.Processes)

	out.Facets.Facets = slices.Clone(s.Facets.Facets)
	out.Facets.Filters = s.Facets.Filters.Clone()
	out.Facets.Expanded = slices.Clone(s.Facets.Expanded)

	if s.Detail.Resource != nil {
		r := s.Detail.Resource.Clone()
		out.Detail.Resource = &r
	}

	if s.Sync.Report != nil {
		report := *s.Sync.Report
		report.Results = slices.Clone(report.Results)
		report.Directives = slices.Clone(report.Directives)
		report.Data = model.CloneMap(report.Data)
		out.Sync.Report = &report
	}

	out.Notifications = slices.Clone(s.Notifications)
	return out
}

func cloneResources(resources []model.Resource) []model.Resource {
	if resources == nil {
		return nil
	}
	out := make([]model.Resource, len(resources))
	for i, r := range resources {
		out[i] = r.Clone()
	}
	return out
}
