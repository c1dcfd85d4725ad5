// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/port"
	catalogsvc "github.com/linuxfoundation/lfx-v2-geocatalog/internal/service"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/state"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/usecase"
)

// App is a wired catalogue client with its store loop running
type App struct {
	Catalog *usecase.Catalog
	History *state.MemoryHistory
	Backend Backend

	publisher   port.EventPublisher
	preferences port.PreferenceStore
	cancel      context.CancelFunc
	done        chan struct{}
}

// NewApp wires the catalogue client at location from the environment
func NewApp(ctx context.Context, location model.Location) *App {
	backend := BackendImpl(ctx)
	publisher := EventPublisherImpl(ctx)
	preferences := PreferenceStoreImpl(ctx)
	filters := FilterTableImpl(ctx)
	config := CatalogConfigImpl(ctx)

	store := state.NewStore(state.Initial(location, config.PageSize))
	storeCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		store.Run(storeCtx)
	}()

	history := state.NewMemoryHistory(location)
	catalog := usecase.NewCatalog(store,
		usecase.Services{
			Query: catalogsvc.NewQueryStateManager(catalogsvc.QueryStateConfig{
				Paginated:    config.Paginated,
				PageSize:     config.PageSize,
				ViewerRoutes: config.ViewerRoutes,
			}),
			Fetcher: catalogsvc.NewResourceFetcher(backend.Searcher, filters, config.DefaultQuery),
			Facets:  catalogsvc.NewFacetResolver(backend.Facets),
			Details: catalogsvc.NewResourceDetailLoader(backend.Searcher),
			Sync:    catalogsvc.NewSyncCoordinator(backend.Searcher),
		},
		usecase.Ports{
			History:     history,
			Manager:     backend.Manager,
			Publisher:   publisher,
			Preferences: preferences,
		},
		config.PreferredUsername,
	)
	history.Listen(catalog.OnLocationChange)

	return &App{
		Catalog:     catalog,
		History:     history,
		Backend:     backend,
		publisher:   publisher,
		preferences: preferences,
		cancel:      cancel,
		done:        done,
	}
}

// Close stops the store loop and releases the outer connections
func (a *App) Close(ctx context.Context) {
	a.Catalog.Stop()
	a.cancel()
	<-a.done

	if err := a.publisher.Close(); err != nil {
		slog.With("error", err).WarnContext(ctx, "event publisher close failed")
	}
	if closer, ok := a.preferences.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			slog.With("error", err).WarnContext(ctx, "preference store close failed")
		}
	}
}
