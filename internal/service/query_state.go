// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"net/http"
	"strconv"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/constants"

	"github.com/go-chi/chi/v5"
)

// DecisionKind is the outcome of DecideSearch.
type DecisionKind int

const (
	// DecisionNoop means nothing changed
	DecisionNoop DecisionKind = iota
	// DecisionNavigate means a new location must be pushed; the resulting
	// location change drives the fetch
	DecisionNavigate
	// DecisionRequest means the location is unchanged but resources must be
	// requested again
	DecisionRequest
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionNavigate:
		return "navigate"
	case DecisionRequest:
		return "request"
	default:
		return "noop"
	}
}

// SearchRequest asks for a search. Params overlay the current query, an
// empty value clears a key. Pathname defaults to the current one.
type SearchRequest struct {
	Params   model.SearchParams
	Pathname string
	Reset    bool
}

// SearchDecision tells the caller what to do with a SearchRequest.
type SearchDecision struct {
	Kind     DecisionKind
	Location model.Location
	Params   model.SearchParams
}

// PreviousRequest describes the listing currently held in state.
// Requested is false until the first listing request; the skip rules only
// apply after it.
type PreviousRequest struct {
	Location  model.Location
	Params    model.SearchParams
	Page      int
	PageSize  int
	Loaded    int
	Requested bool
}

// LocationPlan is the outcome of PlanLocationChange.
type LocationPlan struct {
	Fetch  bool
	Reason string
	Params model.SearchParams
	Page   int
	Reset  bool
}

// Skip reasons reported in LocationPlan.
const (
	SkipViewerPage = "viewer page"
	SkipUnchanged  = "unchanged params"
	SkipDetailOnly = "detail only"
)

// QueryStateConfig configures the QueryStateManager.
type QueryStateConfig struct {
	// Paginated selects pagination mode; infinite scroll otherwise
	Paginated bool
	PageSize  int
	// ViewerRoutes are chi patterns of pages that render a single resource
	ViewerRoutes []string
}

// QueryStateManager keeps the location and the search params in step.
type QueryStateManager struct {
	paginated bool
	pageSize  int
	viewers   *chi.Mux
}

// NewQueryStateManager builds a manager. Empty ViewerRoutes uses the
// default viewer routes.
func NewQueryStateManager(config QueryStateConfig) *QueryStateManager {
	routes := config.ViewerRoutes
	if len(routes) == 0 {
		routes = constants.DefaultViewerRoutes
	}

	viewers := chi.NewRouter()
	for _, route := range routes {
		viewers.Get(route, func(http.ResponseWriter, *http.Request) {})
	}

	pageSize := config.PageSize
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}

	return &QueryStateManager{
		paginated: config.Paginated,
		pageSize:  pageSize,
		viewers:   viewers,
	}
}

// Paginated reports whether pagination mode is on.
func (m *QueryStateManager) Paginated() bool {
	return m.paginated
}

// PageSize returns the listing page size.
func (m *QueryStateManager) PageSize() int {
	return m.pageSize
}

// Canonicalize prunes params to their canonical form. The detail key is
// always excluded.
func (m *QueryStateManager) Canonicalize(params model.SearchParams, exclude ...string) model.SearchParams {
	return params.Canonical(append(exclude, constants.DetailQueryKey)...)
}

// ShouldNotRequestResources reports whether pathname is a viewer page.
func (m *QueryStateManager) ShouldNotRequestResources(pathname string) bool {
	return m.viewers.Match(chi.NewRouteContext(), http.MethodGet, pathname)
}

// DecideSearch merges a search request into the current location.
func (m *QueryStateManager) DecideSearch(current model.Location, lastParams model.SearchParams, req SearchRequest) SearchDecision {
	pathname := req.Pathname
	if pathname == "" {
		pathname = current.Pathname
	}

	nextQuery := current.Query.Without(constants.PageQueryKey).Merge(req.Params).Canonical()
	next := model.Location{Pathname: pathname, Query: nextQuery}
	params := m.Canonicalize(nextQuery, constants.PageQueryKey)

	if pathname != current.Pathname || nextQuery.Encode() != current.Query.Canonical().Encode() {
		return SearchDecision{Kind: DecisionNavigate, Location: next, Params: params}
	}

	if req.Reset || !params.Equal(lastParams.Canonical()) {
		return SearchDecision{Kind: DecisionRequest, Location: next, Params: params}
	}

	return SearchDecision{Kind: DecisionNoop, Location: next, Params: params}
}

// PlanLocationChange decides whether a location change fetches resources,
// and which page.
func (m *QueryStateManager) PlanLocationChange(change model.LocationChange, previous PreviousRequest) LocationPlan {
	location := change.Location
	if m.ShouldNotRequestResources(location.Pathname) {
		return LocationPlan{Reason: SkipViewerPage}
	}

	params := m.Canonicalize(location.Query, constants.PageQueryKey)
	page := urlPage(location.Query)

	unchanged := previous.Requested &&
		params.Equal(previous.Params.Canonical()) &&
		(!m.paginated || page == previous.Page)
	if unchanged && change.Action == model.ActionPop {
		return LocationPlan{Reason: SkipUnchanged, Params: params}
	}
	if unchanged && previous.Location.Query.Get(constants.DetailQueryKey) != location.Query.Get(constants.DetailQueryKey) {
		return LocationPlan{Reason: SkipDetailOnly, Params: params}
	}
	if unchanged && m.ShouldNotRequestResources(previous.Location.Pathname) {
		return LocationPlan{Reason: SkipViewerPage, Params: params}
	}

	target := m.TargetPage(params, page, previous)
	return LocationPlan{
		Fetch:  true,
		Params: params,
		Page:   target,
		Reset:  target == 1 || m.paginated,
	}
}

// TargetPage selects the page to request. In pagination mode any params
// change resets to page 1. In infinite scroll a page only continues the
// list when it directly follows the loaded pages; anything else restarts.
func (m *QueryStateManager) TargetPage(params model.SearchParams, page int, previous PreviousRequest) int {
	paramsChanged := !params.Equal(previous.Params.Canonical())

	if m.paginated {
		if paramsChanged {
			return 1
		}
		return page
	}

	pageSize := previous.PageSize
	if pageSize <= 0 {
		pageSize = m.pageSize
	}
	if !paramsChanged && page == previous.Page+1 && previous.Loaded == (page-1)*pageSize {
		return page
	}
	return 1
}

// urlPage reads the page key, defaulting to 1.
func urlPage(query model.SearchParams) int {
	page, err := strconv.Atoi(query.Get(constants.PageQueryKey))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
