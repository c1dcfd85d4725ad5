// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/service"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/state"
	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/errors"
)

// Services groups the catalogue services the orchestrator composes.
type Services struct {
	Query   *service.QueryStateManager
	Fetcher *service.ResourceFetcher
	Facets  *service.FacetResolver
	Details *service.ResourceDetailLoader
	Sync    *service.SyncCoordinator
}

// Ports groups the outer dependencies of the orchestrator.
type Ports struct {
	History     port.History
	Manager     port.ResourceManager
	Publisher   port.EventPublisher
	Preferences port.PreferenceStore
}

// Catalog drives the catalogue client: it turns user intents and location
// changes into service calls and applies their outcome to the store.
// Search, facet and detail requests are switch-latest streams.
type Catalog struct {
	store    *state.Store
	services Services
	ports    Ports

	preferredUsername string

	search state.Latest
	facets state.Latest
	detail state.Latest
}

// Start applies the current location: it restores the expanded facets,
// loads the listing and the resource named by the location, if any.
func (c *Catalog) Start(ctx context.Context) error {
	if c.ports.Preferences != nil {
		expanded, err := c.ports.Preferences.ExpandedFacets(ctx)
		if err != nil {
			slog.With("error", err).WarnContext(ctx, "expanded facets not restored")
		}
		c.dispatch(ctx, state.FacetsExpanded{Names: expanded})
	}

	location := c.ports.History.Location()
	if ref, ok := location.Detail(); ok {
		if err := c.LoadResource(ctx, ref.PK, ref.ResourceType); err != nil {
			slog.With("error", err).WarnContext(ctx, "initial resource not loaded", "pk", ref.PK)
		}
	}

	return c.OnLocationChange(ctx, model.LocationChange{Location: location, Action: model.ActionReplace})
}

// Snapshot returns a copy of the client state.
func (c *Catalog) Snapshot() state.State {
	return c.store.Snapshot()
}

// SearchResources applies a search request: it navigates when the location
// changes, requests again when only the listing is stale.
func (c *Catalog) SearchResources(ctx context.Context, req service.SearchRequest) error {
	snapshot := c.store.Snapshot()
	decision := c.services.Query.DecideSearch(snapshot.Location, snapshot.Search.Params, req)

	slog.DebugContext(ctx, "search decided",
		"decision", decision.Kind.String(),
		"location", decision.Location.String(),
	)

	switch decision.Kind {
	case service.DecisionNavigate:
		return c.ports.History.Push(ctx, decision.Location)
	case service.DecisionRequest:
		return c.fetch(ctx, decision.Params, 1, true)
	default:
		return nil
	}
}

// OnLocationChange reacts to a history entry. It is the history listener.
func (c *Catalog) OnLocationChange(ctx context.Context, change model.LocationChange) error {
	snapshot := c.store.Snapshot()
	previous := service.PreviousRequest{
		Location:  snapshot.Location,
		Params:    snapshot.Search.Params,
		Page:      snapshot.Search.Page.Page,
		PageSize:  snapshot.Search.Page.PageSize,
		Loaded:    len(snapshot.Search.Resources),
		Requested: snapshot.Search.Requested,
	}

	c.dispatch(ctx, state.LocationChanged{Location: change.Location})

	previousDetail := previous.Location.Query.Get(constants.DetailQueryKey)
	if detail := change.Location.Query.Get(constants.DetailQueryKey); detail != previousDetail {
		ref, _ := model.ParseDetailRef(detail)
		if err := c.LoadResource(ctx, ref.PK, ref.ResourceType); err != nil {
			slog.With("error", err).WarnContext(ctx, "resource detail not loaded", "detail", detail)
		}
	}

	plan := c.services.Query.PlanLocationChange(change, previous)
	if !plan.Fetch {
		slog.DebugContext(ctx, "location change skipped",
			"reason", plan.Reason,
			"action", change.Action,
			"location", change.Location.String(),
		)
		return nil
	}

	return c.fetch(ctx, plan.Params, plan.Page, plan.Reset)
}

// LoadNextPage moves to the page after the current one.
func (c *Catalog) LoadNextPage(ctx context.Context) error {
	snapshot := c.store.Snapshot()
	if snapshot.Search.Loading || !snapshot.Search.Page.IsNextPageAvailable {
		return nil
	}

	location := snapshot.Location.Clone()
	if location.Query == nil {
		location.Query = model.SearchParams{}
	}
	location.Query.Set(constants.PageQueryKey, strconv.Itoa(snapshot.Search.Page.Page+1))

	return c.ports.History.Push(ctx, location)
}

// fetch runs one listing request on the search stream. Results of a
// superseded request never reach the state.
func (c *Catalog) fetch(parent context.Context, params model.SearchParams, page int, reset bool) error {
	ctx, ticket := c.search.Begin(parent)
	defer c.search.Finish(ticket)

	pageSize := c.services.Query.PageSize()
	c.dispatch(parent, state.Guard(ticket, state.SearchStarted{Params: params, Page: page, PageSize: pageSize}))

	result, err := c.services.Fetcher.Fetch(ctx, service.FetchRequest{
		Params:            params,
		Page:              page,
		PageSize:          pageSize,
		PreferredUsername: c.preferredUsername,
	})

	applied := c.dispatch(parent, state.Guard(ticket, state.ResourcesLoaded{
		Resources:           result.Resources,
		Total:               result.Total,
		IsNextPageAvailable: result.IsNextPageAvailable,
		Error:               result.Error,
		Reset:               reset,
	}))
	if !applied {
		slog.DebugContext(parent, "superseded search discarded", "params", params.Encode(), "page", page)
		return nil
	}
	if err != nil {
		return err
	}

	if len(result.Processes) > 0 {
		c.dispatch(parent, state.ProcessesWatched{Processes: result.Processes})
		for _, watch := range result.Processes {
			c.publishWatch(parent, watch)
		}
	}

	if page == 1 {
		if err := c.ResolveFacets(parent, params); err != nil {
			slog.With("error", err).WarnContext(parent, "facets not resolved")
		}
	}
	return nil
}

// ResolveFacets refreshes the facet catalogue and the filter registry for
// query.
func (c *Catalog) ResolveFacets(parent context.Context, query model.SearchParams) error {
	ctx, ticket := c.facets.Begin(parent)
	defer c.facets.Finish(ticket)

	c.dispatch(parent, state.Guard(ticket, state.FacetsLoading{}))

	snapshot := c.store.Snapshot()
	result, err := c.services.Facets.Resolve(ctx, service.ResolveRequest{
		Query:    query,
		Previous: snapshot.Facets.Filters,
		Expanded: snapshot.Facets.Expanded,
	})
	if err != nil {
		if !ticket.Current() {
			return nil
		}
		c.dispatch(parent, state.Guard(ticket, state.FacetsFailed{}))
		return err
	}

	c.dispatch(parent, state.Guard(ticket, state.FacetsResolved{Facets: result.Facets, Filters: result.Filters}))
	return nil
}

// SetFacetExpanded opens or closes an accordion facet, persists the choice
// and resolves the facets again.
func (c *Catalog) SetFacetExpanded(ctx context.Context, name string, expanded bool) error {
	snapshot := c.store.Snapshot()

	names := slices.DeleteFunc(slices.Clone(snapshot.Facets.Expanded), func(n string) bool { return n == name })
	if expanded {
		names = append(names, name)
	}
	slices.Sort(names)

	if c.ports.Preferences != nil {
		if err := c.ports.Preferences.SetExpandedFacets(ctx, names); err != nil {
			slog.With("error", err).WarnContext(ctx, "expanded facets not persisted")
		}
	}
	c.dispatch(ctx, state.FacetsExpanded{Names: names})

	return c.ResolveFacets(ctx, snapshot.Search.Params)
}

// LoadFacetItems pages through the items of a resolved facet.
func (c *Catalog) LoadFacetItems(ctx context.Context, name string, query model.FacetItemsQuery) (model.FacetPage, error) {
	snapshot := c.store.Snapshot()
	for _, facet := range snapshot.Facets.Facets {
		if facet.Name == name {
			if query.Query == nil {
				query.Query = snapshot.Search.Params
			}
			return c.services.Facets.LoadFacetItems(ctx, facet, query)
		}
	}
	return model.FacetPage{}, errors.NewNotFound(fmt.Sprintf("facet %q not found", name))
}

// ShowResource opens the detail of a resource by navigating to it. An
// empty pk closes the detail.
func (c *Catalog) ShowResource(ctx context.Context, pk, resourceType string) error {
	location := c.store.Snapshot().Location.Clone()
	if location.Query == nil {
		location.Query = model.SearchParams{}
	}

	if pk == "" {
		delete(location.Query, constants.DetailQueryKey)
	} else {
		location.Query.Set(constants.DetailQueryKey, model.DetailRef{PK: pk, ResourceType: resourceType}.String())
	}
	return c.ports.History.Push(ctx, location)
}

// LoadResource loads the detail panel on the detail stream.
func (c *Catalog) LoadResource(parent context.Context, pk, resourceType string) error {
	ctx, ticket := c.detail.Begin(parent)
	defer c.detail.Finish(ticket)

	loaded := c.store.Snapshot().Search.Resources
	err := c.services.Details.Load(ctx, pk, resourceType, loaded, func(detail model.Detail) {
		c.dispatch(parent, state.Guard(ticket, state.DetailUpdated{Detail: detail}))
	})
	if err != nil && !ticket.Current() {
		return nil
	}
	return err
}

// SyncEmbedded refreshes the resources embedded in a geostory or a
// dashboard and notifies the outcome.
func (c *Catalog) SyncEmbedded(ctx context.Context, parentType string, parentData map[string]any) (model.SyncReport, error) {
	report, err := c.services.Sync.SyncEmbeddedWithStatus(ctx, parentType, parentData, func(status model.SyncStatus) {
		c.dispatch(ctx, state.SyncStatusChanged{Status: status})
	})
	if err != nil {
		c.notify(ctx, model.Notification{
			Level:   model.NotificationError,
			Title:   "Sync failed",
			Message: err.Error(),
		})
		return model.SyncReport{}, err
	}

	c.dispatch(ctx, state.SyncCompleted{Report: report})
	c.notify(ctx, report.Notification)
	return report, nil
}

// CopyResource starts a backend copy and tracks its process.
func (c *Catalog) CopyResource(ctx context.Context, pk, resourceType string) (*model.ProcessWatch, error) {
	watch, err := c.ports.Manager.CopyResource(ctx, pk, resourceType)
	if err != nil {
		c.notify(ctx, model.Notification{
			Level:   model.NotificationError,
			Title:   "Copy failed",
			Message: err.Error(),
		})
		return nil, err
	}

	c.dispatch(ctx, state.ProcessesWatched{Processes: []model.ProcessWatch{*watch}})
	c.publishWatch(ctx, *watch)
	c.notify(ctx, model.Notification{
		Level:   model.NotificationInfo,
		Title:   "Copy started",
		Message: fmt.Sprintf("%s/%s is being copied", resourceType, pk),
	})
	return watch, nil
}

// DeleteResource removes a resource from the backend and the listing.
func (c *Catalog) DeleteResource(ctx context.Context, pk string) error {
	if err := c.ports.Manager.DeleteResource(ctx, pk); err != nil {
		c.notify(ctx, model.Notification{
			Level:   model.NotificationError,
			Title:   "Delete failed",
			Message: err.Error(),
		})
		return err
	}

	c.dispatch(ctx, state.ResourceRemoved{PK: pk})
	c.notify(ctx, model.Notification{
		Level:   model.NotificationSuccess,
		Title:   "Resource deleted",
		Message: fmt.Sprintf("resource %s deleted", pk),
	})
	return nil
}

// Stop cancels every request in flight.
func (c *Catalog) Stop() {
	c.search.Stop()
	c.facets.Stop()
	c.detail.Stop()
}

// dispatch applies action and reports whether the store took it.
func (c *Catalog) dispatch(ctx context.Context, action state.Action) bool {
	applied, err := c.store.Dispatch(ctx, action)
	if err != nil {
		slog.With("error", err).WarnContext(ctx, "action not dispatched", "action", action.Type())
		return false
	}
	return applied
}

func (c *Catalog) notify(ctx context.Context, notification model.Notification) {
	c.dispatch(ctx, state.NotificationPushed{Notification: notification})
	if c.ports.Publisher == nil {
		return
	}
	if err := c.ports.Publisher.PublishNotification(ctx, notification); err != nil {
		slog.With("error", err).WarnContext(ctx, "notification not published", "title", notification.Title)
	}
}

func (c *Catalog) publishWatch(ctx context.Context, watch model.ProcessWatch) {
	if c.ports.Publisher == nil {
		return
	}
	if err := c.ports.Publisher.PublishProcessWatch(ctx, watch); err != nil {
		slog.With("error", err).WarnContext(ctx, "process watch not published", "execution_id", watch.ExecutionID)
	}
}

// NewCatalog creates the orchestrator. The caller runs the store loop and
// registers OnLocationChange as the history listener.
func NewCatalog(store *state.Store, services Services, ports Ports, preferredUsername string) *Catalog {
	return &Catalog{
		store:             store,
		services:          services,
		ports:             ports,
		preferredUsername: preferredUsername,
	}
}
