// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/linuxfoundation/lfx-v2-geocatalog/cmd/service"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/infrastructure/mock"
	catalogsvc "github.com/linuxfoundation/lfx-v2-geocatalog/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setMockEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GEONODE_SOURCE", "mock")
	t.Setenv("EVENTS_SOURCE", "mock")
	t.Setenv("PREFS_SOURCE", "mock")
	t.Setenv("CATALOG_FILTERS_FILE", "")
	t.Setenv("CATALOG_PAGE_SIZE", "")
	t.Setenv("CATALOG_PAGINATION", "")
	t.Setenv("CATALOG_PREFERRED_USERNAME", "editor")
	t.Setenv("CATALOG_DEFAULT_QUERY", "")
	t.Setenv("CATALOG_VIEWER_ROUTES", "")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectedPKs []string
		expectedErr bool
	}{
		{name: "whole catalogue", args: []string{"search"}, expectedPKs: []string{"1", "2", "10", "11", "20", "30", "40"}},
		{name: "free text", args: []string{"search", "flood"}, expectedPKs: []string{"11"}},
		{name: "custom filter", args: []string{"search", "-f", "map"}, expectedPKs: []string{"10", "11"}},
		{name: "location query", args: []string{"search", "-l", "/?q=road"}, expectedPKs: []string{"10"}},
		{
			name:        "structured param",
			args:        []string{"search", "-p", "filter{category.identifier.in}=farming"},
			expectedPKs: []string{"2"},
		},
		{name: "bad param", args: []string{"search", "-p", "nokey"}, expectedErr: true},
		{name: "bad format", args: []string{"search", "--format", "xml"}, expectedErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setMockEnv(t)

			out, err := run(t, append(tc.args, "--format", "json")...)
			if tc.expectedErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)

			var result searchOutput
			assert.NoError(t, json.Unmarshal([]byte(out), &result))

			var pks []string
			for _, row := range result.Resources {
				pks = append(pks, row.PK)
			}
			assert.Equal(t, tc.expectedPKs, pks)
		})
	}
}

func TestSearchCommandQueriesOnce(t *testing.T) {
	setMockEnv(t)

	var apps []*service.App
	original := appFactory
	appFactory = func(ctx context.Context, location model.Location) *service.App {
		app := original(ctx, location)
		apps = append(apps, app)
		return app
	}
	t.Cleanup(func() { appFactory = original })

	out, err := run(t, "search", "flood", "-l", "/?page=3", "--format", "json")
	require.NoError(t, err)
	require.Len(t, apps, 1)

	searcher, ok := apps[0].Backend.Searcher.(*mock.MockResourceSearcher)
	require.True(t, ok)
	assert.Equal(t, 1, searcher.Calls("QueryResources"))

	var result searchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "/?q=flood", result.Location)
	assert.Equal(t, 1, result.Page)
}

func TestSearchLocation(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		params   model.SearchParams
		expected string
	}{
		{name: "no request keeps the location", raw: "/?q=road&page=2", expected: "/?q=road&page=2"},
		{name: "request overrides text", raw: "/?q=road", params: model.SearchParams{"q": {"flood"}}, expected: "/?q=flood"},
		{name: "page is dropped", raw: "/?q=road&page=4", params: model.SearchParams{"sort": {"-date"}}, expected: "/?q=road&sort=-date"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			location, err := searchLocation(tc.raw, catalogsvc.SearchRequest{Params: tc.params})
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, location)
		})
	}
}

func TestSearchCommandPages(t *testing.T) {
	setMockEnv(t)
	t.Setenv("CATALOG_PAGE_SIZE", "3")

	out, err := run(t, "search", "--pages", "2", "--processes")

	assert.NoError(t, err)
	assert.Contains(t, out, "6 of 7 resources, page 2, more available")
	assert.Contains(t, out, "exec-2")
}

func TestFacetsCommand(t *testing.T) {
	setMockEnv(t)

	out, err := run(t, "facets", "-l", "/?filter{keywords.slug.in}=hydrology", "--expand", "keyword", "--format", "json")

	assert.NoError(t, err)
	var result facetsOutput
	assert.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Facets, 3)
	assert.Equal(t, []string{"keyword"}, result.Expanded)
	assert.Len(t, result.Filters, 1)
	assert.Equal(t, "Hydrology", result.Filters[0].Name)
}

func TestFacetsCommandItems(t *testing.T) {
	setMockEnv(t)

	out, err := run(t, "facets", "--items", "owner", "--size", "1")

	assert.NoError(t, err)
	assert.Contains(t, out, "admin")
	assert.Contains(t, out, "more available")
}

func TestShowCommand(t *testing.T) {
	setMockEnv(t)

	out, err := run(t, "show", "10", "--type", "map")
	assert.NoError(t, err)
	assert.Equal(t, "map/10 Road Network\n", out)

	_, err = run(t, "show", "999")
	assert.Error(t, err)
}

func TestSyncCommand(t *testing.T) {
	setMockEnv(t)

	out, err := run(t, "sync", "30", "--type", "geostory")

	assert.NoError(t, err)
	assert.Contains(t, out, "Road Network")
	assert.Contains(t, out, "Survey Report")
	assert.True(t, strings.HasSuffix(out, "[success] Sync completed: 2 resources synchronized\n"))
}

func TestCopyAndDeleteCommands(t *testing.T) {
	setMockEnv(t)

	out, err := run(t, "copy", "1", "--type", "dataset")
	assert.NoError(t, err)
	assert.Contains(t, out, "mock-exec-1")

	out, err = run(t, "delete", "1")
	assert.NoError(t, err)
	assert.Equal(t, "deleted 1\n", out)

	_, err = run(t, "delete", "999")
	assert.Error(t, err)
}
