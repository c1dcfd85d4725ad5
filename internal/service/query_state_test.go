// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"strconv"
	"testing"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func mustLocation(t *testing.T, raw string) model.Location {
	t.Helper()
	location, err := model.ParseLocation(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return location
}

func TestQueryStateManagerCanonicalize(t *testing.T) {
	manager := NewQueryStateManager(QueryStateConfig{})

	params := model.SearchParams{
		"q":                    {"river"},
		"d":                    {"12;map"},
		"page":                 {"3"},
		"empty":                {""},
		"filter{category.in}": {"", "hydro"},
	}

	once := manager.Canonicalize(params, "page")
	twice := manager.Canonicalize(once, "page")

	assert.Equal(t, model.SearchParams{
		"q":                    {"river"},
		"filter{category.in}": {"hydro"},
	}, once)
	assert.Equal(t, once, twice)
}

func TestQueryStateManagerShouldNotRequestResources(t *testing.T) {
	tests := []struct {
		name     string
		routes   []string
		pathname string
		expected bool
	}{
		{name: "catalogue root", pathname: "/", expected: false},
		{name: "search page", pathname: "/search", expected: false},
		{name: "dataset viewer", pathname: "/dataset/12", expected: true},
		{name: "dataset editor", pathname: "/dataset/12/edit/style", expected: true},
		{name: "map viewer", pathname: "/map/7", expected: true},
		{name: "generic viewer", pathname: "/viewer/anything/here", expected: true},
		{name: "custom route", routes: []string{"/app/{pk}"}, pathname: "/app/3", expected: true},
		{name: "custom route replaces defaults", routes: []string{"/app/{pk}"}, pathname: "/map/7", expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			manager := NewQueryStateManager(QueryStateConfig{ViewerRoutes: tc.routes})
			assert.Equal(t, tc.expected, manager.ShouldNotRequestResources(tc.pathname))
		})
	}
}

func TestQueryStateManagerDecideSearch(t *testing.T) {
	manager := NewQueryStateManager(QueryStateConfig{})

	tests := []struct {
		name         string
		current      string
		lastParams   model.SearchParams
		request      SearchRequest
		expectedKind DecisionKind
		expectedURL  string
	}{
		{
			name:         "new text navigates",
			current:      "/?q=river",
			lastParams:   model.SearchParams{"q": {"river"}},
			request:      SearchRequest{Params: model.SearchParams{"q": {"lake"}}},
			expectedKind: DecisionNavigate,
			expectedURL:  "/?q=lake",
		},
		{
			name:         "empty value clears key",
			current:      "/?q=river&sort=title",
			lastParams:   model.SearchParams{"q": {"river"}, "sort": {"title"}},
			request:      SearchRequest{Params: model.SearchParams{"q": {""}}},
			expectedKind: DecisionNavigate,
			expectedURL:  "/?sort=title",
		},
		{
			name:         "page is dropped on new search",
			current:      "/?q=river&page=3",
			lastParams:   model.SearchParams{"q": {"river"}},
			request:      SearchRequest{Params: model.SearchParams{"q": {"river"}}},
			expectedKind: DecisionNavigate,
			expectedURL:  "/?q=river",
		},
		{
			name:         "same location with stale params requests",
			current:      "/?q=river",
			lastParams:   model.SearchParams{"q": {"lake"}},
			request:      SearchRequest{Params: model.SearchParams{"q": {"river"}}},
			expectedKind: DecisionRequest,
			expectedURL:  "/?q=river",
		},
		{
			name:         "same location and params is a no-op",
			current:      "/?q=river",
			lastParams:   model.SearchParams{"q": {"river"}},
			request:      SearchRequest{Params: model.SearchParams{"q": {"river"}}},
			expectedKind: DecisionNoop,
			expectedURL:  "/?q=river",
		},
		{
			name:         "reset forces a request",
			current:      "/?q=river",
			lastParams:   model.SearchParams{"q": {"river"}},
			request:      SearchRequest{Params: model.SearchParams{"q": {"river"}}, Reset: true},
			expectedKind: DecisionRequest,
			expectedURL:  "/?q=river",
		},
		{
			name:         "pathname change navigates",
			current:      "/?q=river",
			lastParams:   model.SearchParams{"q": {"river"}},
			request:      SearchRequest{Pathname: "/search"},
			expectedKind: DecisionNavigate,
			expectedURL:  "/search?q=river",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decision := manager.DecideSearch(mustLocation(t, tc.current), tc.lastParams, tc.request)
			assert.Equal(t, tc.expectedKind, decision.Kind)
			assert.Equal(t, tc.expectedURL, decision.Location.String())
		})
	}
}

func TestQueryStateManagerPlanLocationChange(t *testing.T) {
	infinite := NewQueryStateManager(QueryStateConfig{PageSize: 20})
	paginated := NewQueryStateManager(QueryStateConfig{PageSize: 20, Paginated: true})

	previous := PreviousRequest{
		Location:  model.Location{Pathname: "/", Query: model.SearchParams{"q": {"river"}}},
		Params:    model.SearchParams{"q": {"river"}},
		Page:      1,
		PageSize:  20,
		Loaded:    20,
		Requested: true,
	}

	onPage := func(page int) PreviousRequest {
		p := previous
		p.Location = model.Location{Pathname: "/", Query: model.SearchParams{"q": {"river"}, "page": {strconv.Itoa(page)}}}
		p.Page = page
		return p
	}

	tests := []struct {
		name           string
		manager        *QueryStateManager
		location       string
		action         model.HistoryAction
		previous       PreviousRequest
		expectedFetch  bool
		expectedReason string
		expectedPage   int
	}{
		{
			name:           "viewer page is skipped",
			manager:        infinite,
			location:       "/map/10?q=river",
			action:         model.ActionPush,
			previous:       previous,
			expectedReason: SkipViewerPage,
		},
		{
			name:           "back with unchanged params is skipped",
			manager:        infinite,
			location:       "/?q=river",
			action:         model.ActionPop,
			previous:       previous,
			expectedReason: SkipUnchanged,
		},
		{
			name:           "opening detail is skipped",
			manager:        infinite,
			location:       "/?q=river&d=10;map",
			action:         model.ActionPush,
			previous:       previous,
			expectedReason: SkipDetailOnly,
		},
		{
			name:          "back with new params fetches page one",
			manager:       infinite,
			location:      "/?q=lake",
			action:        model.ActionPop,
			previous:      previous,
			expectedFetch: true,
			expectedPage:  1,
		},
		{
			name:          "next page continues infinite scroll",
			manager:       infinite,
			location:      "/?q=river&page=2",
			action:        model.ActionPush,
			previous:      previous,
			expectedFetch: true,
			expectedPage:  2,
		},
		{
			name:          "paginated page jump is honored",
			manager:       paginated,
			location:      "/?q=river&page=4",
			action:        model.ActionPush,
			previous:      previous,
			expectedFetch: true,
			expectedPage:  4,
		},
		{
			name:          "paginated params change resets",
			manager:       paginated,
			location:      "/?q=lake&page=4",
			action:        model.ActionPush,
			previous:      previous,
			expectedFetch: true,
			expectedPage:  1,
		},
		{
			name:     "returning from viewer keeps the list",
			manager:  infinite,
			location: "/?q=river",
			action:   model.ActionPush,
			previous: PreviousRequest{
				Location:  model.Location{Pathname: "/dataset/1", Query: model.SearchParams{"q": {"river"}}},
				Params:    model.SearchParams{"q": {"river"}},
				Page:      1,
				PageSize:  20,
				Loaded:    20,
				Requested: true,
			},
			expectedReason: SkipViewerPage,
		},
		{
			name:     "leaving a viewer before any listing fetches",
			manager:  infinite,
			location: "/",
			action:   model.ActionPush,
			previous: PreviousRequest{
				Location: model.Location{Pathname: "/map/10", Query: model.SearchParams{}},
				Params:   model.SearchParams{},
				Page:     1,
				PageSize: 20,
			},
			expectedFetch: true,
			expectedPage:  1,
		},
		{
			name:     "back before any listing fetches",
			manager:  infinite,
			location: "/?d=10;map",
			action:   model.ActionPop,
			previous: PreviousRequest{
				Location: model.Location{Pathname: "/", Query: model.SearchParams{}},
				Params:   model.SearchParams{},
				Page:     1,
				PageSize: 20,
			},
			expectedFetch: true,
			expectedPage:  1,
		},
		{
			name:          "paginated back to another page fetches it",
			manager:       paginated,
			location:      "/?q=river&page=2",
			action:        model.ActionPop,
			previous:      onPage(1),
			expectedFetch: true,
			expectedPage:  2,
		},
		{
			name:           "paginated back to the same page is skipped",
			manager:        paginated,
			location:       "/?q=river&page=2",
			action:         model.ActionPop,
			previous:       onPage(2),
			expectedReason: SkipUnchanged,
		},
		{
			name:           "infinite back ignores the page",
			manager:        infinite,
			location:       "/?q=river&page=3",
			action:         model.ActionPop,
			previous:       onPage(1),
			expectedReason: SkipUnchanged,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			change := model.LocationChange{Location: mustLocation(t, tc.location), Action: tc.action}
			plan := tc.manager.PlanLocationChange(change, tc.previous)

			assert.Equal(t, tc.expectedFetch, plan.Fetch)
			assert.Equal(t, tc.expectedReason, plan.Reason)
			if tc.expectedFetch {
				assert.Equal(t, tc.expectedPage, plan.Page)
				assert.Equal(t, tc.expectedPage == 1 || tc.manager.Paginated(), plan.Reset)
			}
		})
	}
}

func TestQueryStateManagerTargetPage(t *testing.T) {
	params := model.SearchParams{"q": {"river"}}
	previous := PreviousRequest{Params: params, Page: 2, PageSize: 20, Loaded: 40}

	tests := []struct {
		name      string
		paginated bool
		params    model.SearchParams
		page      int
		previous  PreviousRequest
		expected  int
	}{
		{name: "sequential page continues", params: params, page: 3, previous: previous, expected: 3},
		{name: "page gap resets", params: params, page: 5, previous: previous, expected: 1},
		{name: "repeated page resets", params: params, page: 2, previous: previous, expected: 1},
		{
			name:     "short load resets",
			params:   params,
			page:     3,
			previous: PreviousRequest{Params: params, Page: 2, PageSize: 20, Loaded: 35},
			expected: 1,
		},
		{name: "changed params reset", params: model.SearchParams{"q": {"lake"}}, page: 3, previous: previous, expected: 1},
		{name: "paginated keeps url page", paginated: true, params: params, page: 5, previous: previous, expected: 5},
		{name: "paginated params change resets", paginated: true, params: model.SearchParams{"q": {"lake"}}, page: 5, previous: previous, expected: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			manager := NewQueryStateManager(QueryStateConfig{PageSize: 20, Paginated: tc.paginated})
			assert.Equal(t, tc.expected, manager.TargetPage(tc.params, tc.page, tc.previous))
		})
	}
}
