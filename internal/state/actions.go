// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package state

import (
	"slices"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
)

// Action is a state transition. Reduce runs on the store loop only.
type Action interface {
	Type() string
	Reduce(s *State)
}

// LocationChanged records the current location.
type LocationChanged struct {
	Location model.Location
}

func (LocationChanged) Type() string { return "location/changed" }

func (a LocationChanged) Reduce(s *State) {
	s.Location = a.Location.Clone()
}

// SearchStarted marks a listing request in flight.
type SearchStarted struct {
	Params   model.SearchParams
	Page     int
	PageSize int
}

func (SearchStarted) Type() string { return "search/started" }

func (a SearchStarted) Reduce(s *State) {
	s.Search.Params = a.Params.Clone()
	s.Search.Page.Page = a.Page
	s.Search.Page.PageSize = a.PageSize
	s.Search.Loading = true
	s.Search.Error = false
	s.Search.Requested = true
}

// ResourcesLoaded applies a listing response. Reset replaces the list,
// otherwise the page is appended. A failed request clears the list.
type ResourcesLoaded struct {
	Resources           []model.Resource
	Total               int
	IsNextPageAvailable bool
	Error               bool
	Reset               bool
}

func (ResourcesLoaded) Type() string { return "search/loaded" }

func (a ResourcesLoaded) Reduce(s *State) {
	s.Search.Loading = false
	s.Search.Error = a.Error
	s.Search.Page.Total = a.Total
	s.Search.Page.IsNextPageAvailable = a.IsNextPageAvailable

	if a.Error || a.Reset {
		s.Search.Resources = slices.Clone(a.Resources)
		return
	}
	s.Search.Resources = append(s.Search.Resources, a.Resources...)
}

// ProcessesWatched records async processes being tracked. Executions
// already tracked are not added twice.
type ProcessesWatched struct {
	Processes []model.ProcessWatch
}

func (ProcessesWatched) Type() string { return "search/processes" }

func (a ProcessesWatched) Reduce(s *State) {
	for _, p := range a.Processes {
		if !slices.ContainsFunc(s.Search.Processes, func(existing model.ProcessWatch) bool {
			return existing.ExecutionID == p.ExecutionID && existing.ResourcePK == p.ResourcePK
		}) {
			s.Search.Processes = append(s.Search.Processes, p)
		}
	}
}

// ResourceRemoved drops a deleted resource from the list.
type ResourceRemoved struct {
	PK string
}

func (ResourceRemoved) Type() string { return "search/removed" }

func (a ResourceRemoved) Reduce(s *State) {
	before := len(s.Search.Resources)
	s.Search.Resources = slices.DeleteFunc(s.Search.Resources, func(r model.Resource) bool {
		return r.PK == a.PK
	})
	if removed := before - len(s.Search.Resources); removed > 0 {
		s.Search.Page.Total = max(s.Search.Page.Total-removed, 0)
	}
	if s.Detail.Resource != nil && s.Detail.Resource.PK == a.PK {
		s.Detail = model.Detail{}
	}
}

// FacetsLoading marks a facet resolution in flight.
type FacetsLoading struct{}

func (FacetsLoading) Type() string { return "facets/loading" }

func (FacetsLoading) Reduce(s *State) {
	s.Facets.Loading = true
}

// FacetsResolved applies a facet resolution.
type FacetsResolved struct {
	Facets  []model.Facet
	Filters model.FilterRegistry
}

func (FacetsResolved) Type() string { return "facets/resolved" }

func (a FacetsResolved) Reduce(s *State) {
	s.Facets.Loading = false
	s.Facets.Facets = slices.Clone(a.Facets)
	s.Facets.Filters = a.Filters.Clone()
}

// FacetsFailed ends a facet resolution that failed; the previous facets stay.
type FacetsFailed struct{}

func (FacetsFailed) Type() string { return "facets/failed" }

func (FacetsFailed) Reduce(s *State) {
	s.Facets.Loading = false
}

// FacetsExpanded records the expanded accordion facets.
type FacetsExpanded struct {
	Names []string
}

func (FacetsExpanded) Type() string { return "facets/expanded" }

func (a FacetsExpanded) Reduce(s *State) {
	s.Facets.Expanded = slices.Clone(a.Names)
}

// DetailUpdated replaces the detail panel content.
type DetailUpdated struct {
	Detail model.Detail
}

func (DetailUpdated) Type() string { return "detail/updated" }

func (a DetailUpdated) Reduce(s *State) {
	detail := a.Detail
	if detail.Resource != nil {
		r := detail.Resource.Clone()
		detail.Resource = &r
	}
	s.Detail = detail
}

// SyncStatusChanged moves the sync state machine.
type SyncStatusChanged struct {
	Status model.SyncStatus
}

func (SyncStatusChanged) Type() string { return "sync/status" }

func (a SyncStatusChanged) Reduce(s *State) {
	s.Sync.Status = a.Status
	if a.Status == model.SyncSaving {
		s.Sync.Report = nil
	}
}

// SyncCompleted stores the sync report.
type SyncCompleted struct {
	Report model.SyncReport
}

func (SyncCompleted) Type() string { return "sync/completed" }

func (a SyncCompleted) Reduce(s *State) {
	report := a.Report
	s.Sync.Report = &report
}

// NotificationPushed queues a user facing message.
type NotificationPushed struct {
	Notification model.Notification
}

func (NotificationPushed) Type() string { return "notification/pushed" }

func (a NotificationPushed) Reduce(s *State) {
	s.Notifications = append(s.Notifications, a.Notification)
}
