// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/linuxfoundation/lfx-v2-geocatalog/cmd/service"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/middleware"
	catalogsvc "github.com/linuxfoundation/lfx-v2-geocatalog/internal/service"
	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/constants"

	"github.com/spf13/cobra"
)

// appFactory builds the wired client; tests wrap it to reach the backend
var appFactory = service.NewApp

type rootOptions struct {
	location string
	format   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "geocatalog",
		Short:         "Browse and maintain a GeoNode resource catalogue",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.HiddenDefaultCmd = true
	root.PersistentFlags().StringVarP(&opts.location, "location", "l", "/", "catalogue location, e.g. /?q=roads&f=dataset")
	root.PersistentFlags().StringVar(&opts.format, "format", formatTable, "output format: table or json")

	root.AddCommand(
		newSearchCmd(opts),
		newFacetsCmd(opts),
		newShowCmd(opts),
		newSyncCmd(opts),
		newCopyCmd(opts),
		newDeleteCmd(opts),
	)
	return root
}

// withApp runs fn against a client opened at the --location flag
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, app *service.App) error) error {
	if opts.format != formatTable && opts.format != formatJSON {
		return fmt.Errorf("unsupported format %q", opts.format)
	}

	location, err := model.ParseLocation(opts.location)
	if err != nil {
		return fmt.Errorf("invalid location %q: %w", opts.location, err)
	}

	ctx := middleware.WithRequestID(cmd.Context(), "")
	app := appFactory(ctx, location)
	defer app.Close(ctx)

	return fn(ctx, app)
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		params    []string
		custom    []string
		sort      string
		pages     int
		processes bool
	)

	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "List resources matching the location and the given criteria",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := searchRequest(args, params, custom, sort)
			if err != nil {
				return err
			}
			location, err := searchLocation(opts.location, request)
			if err != nil {
				return err
			}
			searchOpts := *opts
			searchOpts.location = location

			return withApp(cmd, &searchOpts, func(ctx context.Context, app *service.App) error {
				if err := app.Catalog.Start(ctx); err != nil {
					return err
				}
				for i := 1; i < pages; i++ {
					if err := app.Catalog.LoadNextPage(ctx); err != nil {
						return err
					}
				}

				snapshot := app.Catalog.Snapshot()
				if snapshot.Search.Error {
					return fmt.Errorf("resources could not be loaded")
				}
				return printSearch(cmd.OutOrStdout(), opts.format, snapshot, processes)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "query param as key=value, repeatable")
	cmd.Flags().StringArrayVarP(&custom, "filter", "f", nil, "custom filter id, repeatable")
	cmd.Flags().StringVar(&sort, "sort", "", "sort key, e.g. -date")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	cmd.Flags().BoolVar(&processes, "processes", false, "also list the watched processes")
	return cmd
}

// searchRequest turns the search flags into a request overlaying the location
func searchRequest(args, params, custom []string, sort string) (catalogsvc.SearchRequest, error) {
	query := model.SearchParams{}
	if len(args) == 1 {
		query.Set(constants.TextQueryKey, args[0])
	}
	for _, param := range params {
		key, value, ok := strings.Cut(param, "=")
		if !ok || key == "" {
			return catalogsvc.SearchRequest{}, fmt.Errorf("invalid param %q, expected key=value", param)
		}
		query[key] = append(query[key], value)
	}
	if len(custom) > 0 {
		query.Set(constants.CustomFilterQueryKey, custom...)
	}
	if sort != "" {
		query.Set(constants.SortQueryKey, sort)
	}
	return catalogsvc.SearchRequest{Params: query}, nil
}

// searchLocation overlays the request on the starting location, so the
// client opens directly on the searched listing
func searchLocation(raw string, request catalogsvc.SearchRequest) (string, error) {
	if len(request.Params) == 0 {
		return raw, nil
	}

	location, err := model.ParseLocation(raw)
	if err != nil {
		return "", fmt.Errorf("invalid location %q: %w", raw, err)
	}
	location.Query = location.Query.Without(constants.PageQueryKey).Merge(request.Params).Canonical()
	return location.String(), nil
}

func newFacetsCmd(opts *rootOptions) *cobra.Command {
	var (
		expand []string
		items  string
		page   int
		size   int
		text   string
	)

	cmd := &cobra.Command{
		Use:   "facets",
		Short: "Show the facets and the applied filters for the location",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *service.App) error {
				if err := app.Catalog.Start(ctx); err != nil {
					return err
				}
				for _, name := range expand {
					if err := app.Catalog.SetFacetExpanded(ctx, name, true); err != nil {
						return err
					}
				}

				if items != "" {
					facetPage, err := app.Catalog.LoadFacetItems(ctx, items, model.FacetItemsQuery{
						Page:     page,
						PageSize: size,
						Text:     text,
					})
					if err != nil {
						return err
					}
					return printFacetItems(cmd.OutOrStdout(), opts.format, facetPage)
				}
				return printFacets(cmd.OutOrStdout(), opts.format, app.Catalog.Snapshot())
			})
		},
	}

	cmd.Flags().StringArrayVar(&expand, "expand", nil, "accordion facet to expand, repeatable")
	cmd.Flags().StringVar(&items, "items", "", "list the items of this facet")
	cmd.Flags().IntVar(&page, "page", 0, "facet items page, starting at 0")
	cmd.Flags().IntVar(&size, "size", constants.DefaultFacetPageSize, "facet items page size")
	cmd.Flags().StringVar(&text, "text", "", "facet items text filter")
	return cmd
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var resourceType string

	cmd := &cobra.Command{
		Use:   "show <pk>",
		Short: "Show one resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *service.App) error {
				if err := app.Catalog.LoadResource(ctx, args[0], resourceType); err != nil {
					return err
				}
				return printDetail(cmd.OutOrStdout(), opts.format, app.Catalog.Snapshot().Detail)
			})
		},
	}

	cmd.Flags().StringVarP(&resourceType, "type", "t", "", "resource type: dataset, map, document, geostory, dashboard")
	return cmd
}

func newSyncCmd(opts *rootOptions) *cobra.Command {
	var resourceType string

	cmd := &cobra.Command{
		Use:   "sync <pk>",
		Short: "Refresh the maps and documents embedded in a geostory or a dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *service.App) error {
				parent, err := app.Backend.Searcher.GetResource(ctx, args[0], resourceType)
				if err != nil {
					return err
				}
				data, _ := parent.Data["data"].(map[string]any)

				report, err := app.Catalog.SyncEmbedded(ctx, parent.ResourceType, data)
				if err != nil {
					return err
				}
				return printSync(cmd.OutOrStdout(), opts.format, report)
			})
		},
	}

	cmd.Flags().StringVarP(&resourceType, "type", "t", model.ResourceTypeGeoStory, "parent type: geostory or dashboard")
	return cmd
}

func newCopyCmd(opts *rootOptions) *cobra.Command {
	var resourceType string

	cmd := &cobra.Command{
		Use:   "copy <pk>",
		Short: "Start a copy of a resource and watch the process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *service.App) error {
				watch, err := app.Catalog.CopyResource(ctx, args[0], resourceType)
				if err != nil {
					return err
				}
				return printProcesses(cmd.OutOrStdout(), opts.format, []model.ProcessWatch{*watch})
			})
		},
	}

	cmd.Flags().StringVarP(&resourceType, "type", "t", "", "resource type")
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <pk>",
		Short: "Delete a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *service.App) error {
				if err := app.Catalog.DeleteResource(ctx, args[0]); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return err
			})
		},
	}
}
