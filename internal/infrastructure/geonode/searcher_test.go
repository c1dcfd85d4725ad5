// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package geonode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	pkgerrors "github.com/linuxfoundation/lfx-v2-geocatalog/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newTestSearcher(t *testing.T, handler http.HandlerFunc) *Searcher {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	searcher, err := NewSearcher(context.Background(), Config{
		BaseURL:  server.URL,
		APIToken: "secret",
		Timeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Expected no error creating searcher, got %v", err)
	}
	return searcher
}

func TestSearcherQueryResources(t *testing.T) {
	assertion := assert.New(t)

	searcher := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		assertion.Equal("/api/v2/resources", r.URL.Path)
		assertion.Equal("Bearer secret", r.Header.Get("Authorization"))
		assertion.NotEmpty(r.Header.Get("X-REQUEST-ID"))
		assertion.Equal("roads", r.URL.Query().Get("search"))
		assertion.Equal([]string{"map"}, r.URL.Query()["filter{resource_type.in}"])
		assertion.Equal("2", r.URL.Query().Get("page"))

		_, _ = w.Write([]byte(`{
			"total": 41,
			"links": {"next": "http://geonode/api/v2/resources?page=3", "previous": null},
			"resources": [{"pk": 1, "resource_type": "map", "title": "Roads"}]
		}`))
	})

	page, err := searcher.QueryResources(context.Background(), model.ResourceQuery{
		Params:   model.SearchParams{"q": {"roads"}, "filter{resource_type.in}": {"map"}},
		Page:     2,
		PageSize: 20,
	})

	assertion.NoError(err)
	assertion.Equal(41, page.Total)
	assertion.True(page.IsNextPageAvailable)
	assertion.Len(page.Resources, 1)
	assertion.Equal("1", page.Resources[0].PK)
	assertion.Equal("Roads", page.Resources[0].Title)
}

func TestSearcherQueryResourcesLastPage(t *testing.T) {
	searcher := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total": 1, "links": {"next": null}, "resources": [{"pk": "1"}]}`))
	})

	page, err := searcher.QueryResources(context.Background(), model.ResourceQuery{Page: 1, PageSize: 20})

	assert.NoError(t, err)
	assert.False(t, page.IsNextPageAvailable)
}

func TestSearcherGetResource(t *testing.T) {
	tests := []struct {
		name         string
		resourceType string
		expectedPath string
		body         string
	}{
		{name: "dataset", resourceType: "dataset", expectedPath: "/api/v2/datasets/7", body: `{"dataset": {"pk": 7, "resource_type": "dataset", "title": "Rivers"}}`},
		{name: "map", resourceType: "map", expectedPath: "/api/v2/maps/7", body: `{"map": {"pk": 7, "resource_type": "map", "title": "Rivers"}}`},
		{name: "geostory", resourceType: "geostory", expectedPath: "/api/v2/geoapps/7", body: `{"geoapp": {"pk": 7, "resource_type": "geostory", "title": "Rivers"}}`},
		{name: "unknown type", resourceType: "", expectedPath: "/api/v2/resources/7", body: `{"resource": {"pk": 7, "title": "Rivers"}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertion := assert.New(t)

			searcher := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
				assertion.Equal(tc.expectedPath, r.URL.Path)
				_, _ = w.Write([]byte(tc.body))
			})

			resource, err := searcher.GetResource(context.Background(), "7", tc.resourceType)
			assertion.NoError(err)
			assertion.Equal("7", resource.PK)
			assertion.Equal("Rivers", resource.Title)
		})
	}
}

func TestSearcherGetResourceErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{name: "not found", status: http.StatusNotFound, check: func(err error) bool {
			var target pkgerrors.NotFound
			return errors.As(err, &target)
		}},
		{name: "bad request", status: http.StatusBadRequest, check: func(err error) bool {
			var target pkgerrors.Validation
			return errors.As(err, &target)
		}},
		{name: "server error", status: http.StatusBadGateway, check: func(err error) bool {
			var target pkgerrors.ServiceUnavailable
			return errors.As(err, &target)
		}},
		{name: "forbidden", status: http.StatusForbidden, check: func(err error) bool {
			var target pkgerrors.Unexpected
			return errors.As(err, &target)
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var calls int32
			searcher := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tc.status)
			})

			_, err := searcher.GetResource(context.Background(), "7", "map")
			assert.Error(t, err)
			assert.True(t, tc.check(err), "unexpected error type %T", err)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "requests must not be retried")
		})
	}
}

func TestSearcherGetResourcesByPK(t *testing.T) {
	assertion := assert.New(t)

	searcher := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		assertion.Equal("/api/v2/maps", r.URL.Path)
		assertion.Equal([]string{"1", "2"}, r.URL.Query()["filter{pk.in}"])
		assertion.Equal("2", r.URL.Query().Get("page_size"))
		_, _ = w.Write([]byte(`{"total": 1, "maps": [{"pk": 1, "resource_type": "map", "title": "One"}]}`))
	})

	resources, err := searcher.GetResourcesByPK(context.Background(), "map", []string{"1", "2"})

	assertion.NoError(err)
	assertion.Len(resources, 1)
	assertion.Equal("One", resources[0].Title)

	none, err := searcher.GetResourcesByPK(context.Background(), "map", nil)
	assertion.NoError(err)
	assertion.Empty(none)
}

func TestSearcherFacets(t *testing.T) {
	assertion := assert.New(t)

	searcher := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/facets":
			_, _ = w.Write([]byte(`{"facets": [
				{"name": "category", "filter": "filter{category.identifier.in}", "label": "Category", "type": "select", "order": 1}
			]}`))
		case "/api/v2/facets/category":
			assertion.Equal([]string{"farming"}, r.URL.Query()["key"])
			_, _ = w.Write([]byte(`{
				"name": "category", "filter": "filter{category.identifier.in}",
				"topics": {"page": 0, "page_size": 10, "start": 0, "total": 12, "items": [
					{"key": "farming", "label": "Farming", "count": 4},
					{"key": 3, "count": 1}
				]}
			}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	facets, err := searcher.GetFacets(context.Background(), model.SearchParams{})
	assertion.NoError(err)
	assertion.Len(facets, 1)
	assertion.Equal("filter{category.identifier.in}", facets[0].FilterKey)

	page, err := facets[0].LoadItems(context.Background(), model.FacetItemsQuery{PageSize: 10, Keys: []string{"farming"}})
	assertion.NoError(err)
	assertion.True(page.IsNextPageAvailable)
	assertion.Equal([]model.FacetItem{
		{Name: "Farming", FilterKey: "filter{category.identifier.in}", FilterValue: "farming", Count: 4, FacetName: "category"},
		{Name: "3", FilterKey: "filter{category.identifier.in}", FilterValue: "3", Count: 1, FacetName: "category"},
	}, page.Items)
}

func TestSearcherCopyAndDelete(t *testing.T) {
	assertion := assert.New(t)

	searcher := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/api/v2/resources/5/copy":
			_, _ = w.Write([]byte(`{"execution_id": "abc", "status": "ready", "status_url": "http://geonode/api/v2/executionrequest/abc"}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/api/v2/resources/5":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	watch, err := searcher.CopyResource(context.Background(), "5", "dataset")
	assertion.NoError(err)
	assertion.Equal(&model.ProcessWatch{
		ResourcePK:   "5",
		ResourceType: "dataset",
		ProcessType:  "copy",
		ExecutionID:  "abc",
		StatusURL:    "http://geonode/api/v2/executionrequest/abc",
	}, watch)

	assertion.NoError(searcher.DeleteResource(context.Background(), "5"))
}

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name        string
		baseURL     string
		timeout     string
		maxRetries  int
		expectError bool
	}{
		{name: "defaults", expectError: false},
		{name: "custom", baseURL: "https://demo.geonode.org/", timeout: "5s", expectError: false},
		{name: "invalid url", baseURL: "not a url", expectError: true},
		{name: "invalid timeout", timeout: "soon", expectError: true},
		{name: "negative retries", maxRetries: -1, expectError: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config, err := NewConfig(tc.baseURL, "", tc.timeout, tc.maxRetries, "")
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.NotEmpty(t, config.BaseURL)
			assert.NotEqual(t, '/', config.BaseURL[len(config.BaseURL)-1])
		})
	}
}
