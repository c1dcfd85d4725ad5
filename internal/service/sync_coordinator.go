// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/errors"

	"dario.cat/mergo"
	"golang.org/x/sync/errgroup"
)

// geostory resources sourced from the catalogue carry this sourceId
const geonodeSourceID = "geonode"

// StatusFunc observes the sync state machine.
type StatusFunc func(model.SyncStatus)

// mergeFunc deep merges src into dst, overriding existing keys.
type mergeFunc func(dst, src any, opts ...func(*mergo.Config)) error

// SyncCoordinator refreshes the resources embedded in a geostory or a
// dashboard from the catalogue.
type SyncCoordinator struct {
	searcher port.ResourceSearcher
	merge    mergeFunc
}

// embedded is one occurrence of a catalogue resource inside the parent.
type embedded struct {
	ref model.EmbeddedRef
	// entry is the parent node holding the reference, mutated on reconcile
	entry map[string]any
}

// SyncEmbedded runs a sync without observing its status.
func (c *SyncCoordinator) SyncEmbedded(ctx context.Context, parentType string, parentData map[string]any) (model.SyncReport, error) {
	return c.SyncEmbeddedWithStatus(ctx, parentType, parentData, nil)
}

// SyncEmbeddedWithStatus extracts the embedded maps and documents, fetches
// them in two concurrent batches, reconciles the parent and builds the
// aggregate notification. parentData is not modified; the reconciled copy
// is returned in the report. The status always ends in SyncNotified.
func (c *SyncCoordinator) SyncEmbeddedWithStatus(ctx context.Context, parentType string, parentData map[string]any, onStatus StatusFunc) (model.SyncReport, error) {
	status := func(s model.SyncStatus) {
		if onStatus != nil {
			onStatus(s)
		}
	}
	status(model.SyncSaving)
	defer status(model.SyncNotified)

	data := model.CloneMap(parentData)
	if data == nil {
		data = map[string]any{}
	}

	var occurrences []embedded
	switch parentType {
	case model.ResourceTypeGeoStory:
		occurrences = geostoryRefs(data)
	case model.ResourceTypeDashboard:
		occurrences = dashboardRefs(data)
	default:
		return model.SyncReport{}, errors.NewValidation(fmt.Sprintf("resource type %q has no embedded resources", parentType))
	}

	slog.DebugContext(ctx, "syncing embedded resources",
		"parent_type", parentType,
		"references", len(occurrences),
	)

	fetched, err := c.fetch(ctx, occurrences)
	if err != nil {
		return model.SyncReport{}, err
	}

	status(model.SyncReconciling)

	results := classify(occurrences, fetched)
	report := model.SyncReport{Results: results, Data: data}

	for _, occurrence := range occurrences {
		resource, ok := fetched[occurrence.ref]
		if !ok {
			continue
		}
		switch parentType {
		case model.ResourceTypeGeoStory:
			directive, err := c.reconcileGeostory(occurrence, resource)
			if err != nil {
				return model.SyncReport{}, err
			}
			report.Directives = append(report.Directives, directive)
		case model.ResourceTypeDashboard:
			if err := c.reconcileDashboard(occurrence, resource); err != nil {
				return model.SyncReport{}, err
			}
		}
	}

	report.Notification = Summarize(results)

	slog.DebugContext(ctx, "embedded resources synced",
		"parent_type", parentType,
		"level", report.Notification.Level,
	)
	return report, nil
}

// fetch runs one batch per resource type. A failed batch degrades to no
// results for that type.
func (c *SyncCoordinator) fetch(ctx context.Context, occurrences []embedded) (map[model.EmbeddedRef]model.Resource, error) {
	pks := map[string][]string{
		model.ResourceTypeMap:      nil,
		model.ResourceTypeDocument: nil,
	}
	for _, occurrence := range occurrences {
		ref := occurrence.ref
		if !slices.Contains(pks[ref.ResourceType], ref.PK) {
			pks[ref.ResourceType] = append(pks[ref.ResourceType], ref.PK)
		}
	}

	batches := make([][]model.Resource, 2)
	g, gctx := errgroup.WithContext(ctx)
	for i, resourceType := range []string{model.ResourceTypeMap, model.ResourceTypeDocument} {
		if len(pks[resourceType]) == 0 {
			continue
		}
		g.Go(func() error {
			resources, err := c.searcher.GetResourcesByPK(gctx, resourceType, pks[resourceType])
			if err != nil {
				slog.With("error", err).WarnContext(gctx, "embedded batch lookup failed",
					"resource_type", resourceType,
					"pks", pks[resourceType],
				)
				return nil
			}
			batches[i] = resources
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fetched := map[model.EmbeddedRef]model.Resource{}
	for i, resourceType := range []string{model.ResourceTypeMap, model.ResourceTypeDocument} {
		for _, resource := range batches[i] {
			fetched[model.EmbeddedRef{PK: resource.PK, ResourceType: resourceType}] = resource
		}
	}
	return fetched, nil
}

// classify yields one result per distinct reference, in document order.
func classify(occurrences []embedded, fetched map[model.EmbeddedRef]model.Resource) []model.SyncResult {
	var results []model.SyncResult
	seen := map[model.EmbeddedRef]bool{}
	for _, occurrence := range occurrences {
		ref := occurrence.ref
		if seen[ref] {
			continue
		}
		seen[ref] = true

		resource, ok := fetched[ref]
		if !ok {
			results = append(results, model.SyncResult{
				Status:       model.SyncError,
				Title:        ref.String(),
				PK:           ref.PK,
				ResourceType: ref.ResourceType,
			})
			continue
		}
		clone := resource.Clone()
		results = append(results, model.SyncResult{
			Status:       model.SyncSuccess,
			Title:        resource.Title,
			PK:           ref.PK,
			ResourceType: ref.ResourceType,
			Resource:     &clone,
		})
	}
	return results
}

// Summarize builds the aggregate notification: success when nothing
// failed, error when nothing succeeded, warning otherwise.
func Summarize(results []model.SyncResult) model.Notification {
	var failed []string
	for _, result := range results {
		if result.Status == model.SyncError {
			failed = append(failed, result.Title)
		}
	}

	switch {
	case len(failed) == 0:
		return model.Notification{
			Level:   model.NotificationSuccess,
			Title:   "Sync completed",
			Message: fmt.Sprintf("%d resources synchronized", len(results)),
		}
	case len(failed) == len(results):
		return model.Notification{
			Level:   model.NotificationError,
			Title:   "Sync failed",
			Message: "Failed: " + strings.Join(failed, ", "),
		}
	default:
		return model.Notification{
			Level:   model.NotificationWarning,
			Title:   "Sync partially completed",
			Message: "Failed: " + strings.Join(failed, ", "),
		}
	}
}

// geostoryRefs lists the catalogue resources of a geostory.
func geostoryRefs(data map[string]any) []embedded {
	var out []embedded
	for _, entry := range objects(data["resources"]) {
		body, _ := entry["data"].(map[string]any)
		if body == nil || model.Stringify(body["sourceId"]) != geonodeSourceID {
			continue
		}
		pk := model.Stringify(body["id"])
		resourceType := geostoryResourceType(model.Stringify(entry["type"]))
		if pk == "" || resourceType == "" {
			continue
		}
		out = append(out, embedded{
			ref:   model.EmbeddedRef{PK: pk, ResourceType: resourceType},
			entry: entry,
		})
	}
	return out
}

func geostoryResourceType(mediaType string) string {
	switch mediaType {
	case "map":
		return model.ResourceTypeMap
	case "image", "video", "file":
		return model.ResourceTypeDocument
	default:
		return ""
	}
}

// dashboardRefs lists the maps of every dashboard widget.
func dashboardRefs(data map[string]any) []embedded {
	var out []embedded
	for _, widget := range objects(data["widgets"]) {
		maps := objects(widget["maps"])
		if single, ok := widget["map"].(map[string]any); ok {
			maps = append(maps, single)
		}
		for _, entry := range maps {
			params, _ := entry["extraParams"].(map[string]any)
			pk := model.Stringify(params["pk"])
			if pk == "" {
				continue
			}
			out = append(out, embedded{
				ref:   model.EmbeddedRef{PK: pk, ResourceType: model.ResourceTypeMap},
				entry: entry,
			})
		}
	}
	return out
}

// reconcileGeostory refreshes the resource entry and returns its replace
// directive.
func (c *SyncCoordinator) reconcileGeostory(occurrence embedded, resource model.Resource) (model.ReplaceDirective, error) {
	body, _ := occurrence.entry["data"].(map[string]any)
	if err := c.merge(&body, embedData(resource), mergo.WithOverride); err != nil {
		return model.ReplaceDirective{}, fmt.Errorf("merge %s: %w", occurrence.ref, err)
	}
	occurrence.entry["data"] = body

	return model.ReplaceDirective{
		ResourceID:   model.Stringify(occurrence.entry["id"]),
		ResourceType: model.Stringify(occurrence.entry["type"]),
		Data:         model.CloneMap(body),
	}, nil
}

// embedData is the part of a catalogue record a geostory keeps.
func embedData(resource model.Resource) map[string]any {
	fresh := map[string]any{"title": resource.Title}
	for key, field := range map[string]string{
		"thumbnail":   "thumbnail_url",
		"src":         "href",
		"description": "abstract",
	} {
		if value, ok := resource.Data[field]; ok {
			fresh[key] = value
		}
	}
	if body, ok := resource.Data["data"].(map[string]any); ok {
		if mapConfig, ok := body["map"].(map[string]any); ok {
			fresh["map"] = model.CloneMap(mapConfig)
		}
	}
	return fresh
}

// reconcileDashboard overlays the stored map configuration on the widget
// map entry. Fields absent from the stored map are kept.
func (c *SyncCoordinator) reconcileDashboard(occurrence embedded, resource model.Resource) error {
	body, _ := resource.Data["data"].(map[string]any)
	mapConfig, _ := body["map"].(map[string]any)
	if len(mapConfig) == 0 {
		return nil
	}
	if err := c.merge(&occurrence.entry, model.CloneMap(mapConfig), mergo.WithOverride); err != nil {
		return fmt.Errorf("merge %s: %w", occurrence.ref, err)
	}
	return nil
}

// objects keeps the JSON objects of a decoded array.
func objects(v any) []map[string]any {
	items, _ := v.([]any)
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if object, ok := item.(map[string]any); ok {
			out = append(out, object)
		}
	}
	return out
}

// NewSyncCoordinator creates a new SyncCoordinator
func NewSyncCoordinator(searcher port.ResourceSearcher) *SyncCoordinator {
	return &SyncCoordinator{searcher: searcher, merge: mergo.Merge}
}
