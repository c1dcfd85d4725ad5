// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/infrastructure/filtertable"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/infrastructure/geonode"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/infrastructure/logevents"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/infrastructure/nats"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/infrastructure/prefs"
	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/constants"
)

// Backend bundles the catalogue backend ports
type Backend struct {
	Searcher port.ResourceSearcher
	Manager  port.ResourceManager
	Facets   port.FacetProvider
}

// CatalogConfig is the client behavior read from the environment
type CatalogConfig struct {
	PageSize          int
	Paginated         bool
	PreferredUsername string
	ViewerRoutes      []string
	// DefaultQuery is merged under every listing request
	DefaultQuery model.SearchParams
}

// BackendImpl injects the catalogue backend implementation
func BackendImpl(ctx context.Context) Backend {

	// Backend implementation configuration
	backendSource := os.Getenv("GEONODE_SOURCE")
	if backendSource == "" {
		backendSource = "geonode"
	}

	switch backendSource {
	case "mock":
		slog.InfoContext(ctx, "initializing mock catalogue backend")
		searcher := mock.NewMockResourceSearcher()
		return Backend{
			Searcher: searcher,
			Manager:  searcher,
			Facets:   mock.NewMockFacetProvider(),
		}

	case "geonode":
		geonodeURL := os.Getenv("GEONODE_URL")
		if geonodeURL == "" {
			geonodeURL = "http://localhost:8000"
		}

		geonodeMaxRetries := os.Getenv("GEONODE_MAX_RETRIES")
		geonodeMaxRetriesInt := 0 // list and detail failures are surfaced, not retried
		if geonodeMaxRetries != "" {
			var err error
			geonodeMaxRetriesInt, err = strconv.Atoi(geonodeMaxRetries)
			if err != nil {
				log.Fatalf("invalid GeoNode max retries value %s: %v", geonodeMaxRetries, err)
			}
		}

		geonodeConfig, err := geonode.NewConfig(geonodeURL,
			os.Getenv("GEONODE_API_TOKEN"),
			os.Getenv("GEONODE_TIMEOUT"),
			geonodeMaxRetriesInt,
			os.Getenv("GEONODE_RETRY_DELAY"),
		)
		if err != nil {
			log.Fatalf("failed to create GeoNode configuration: %v", err)
		}

		slog.InfoContext(ctx, "initializing GeoNode catalogue backend",
			"base_url", geonodeConfig.BaseURL,
			"timeout", geonodeConfig.Timeout,
			"max_retries", geonodeConfig.MaxRetries,
		)

		searcher, err := geonode.NewSearcher(ctx, geonodeConfig)
		if err != nil {
			log.Fatalf("failed to initialize GeoNode searcher: %v", err)
		}
		return Backend{
			Searcher: searcher,
			Manager:  searcher,
			Facets:   searcher,
		}

	default:
		log.Fatalf("unsupported catalogue backend implementation: %s", backendSource)
	}

	return Backend{}
}

// EventPublisherImpl injects the event publisher implementation
func EventPublisherImpl(ctx context.Context) port.EventPublisher {

	var eventPublisher port.EventPublisher

	// Event publisher implementation configuration
	eventsSource := os.Getenv("EVENTS_SOURCE")
	if eventsSource == "" {
		eventsSource = "log"
	}

	switch eventsSource {
	case "mock":
		slog.InfoContext(ctx, "initializing mock event publisher")
		eventPublisher = mock.NewMockEventPublisher()

	case "log":
		slog.InfoContext(ctx, "initializing log event publisher")
		eventPublisher = logevents.NewPublisher(slog.Default())

	case "nats":
		natsURL := os.Getenv("NATS_URL")
		if natsURL == "" {
			natsURL = "nats://localhost:4222"
		}

		natsTimeout := os.Getenv("NATS_TIMEOUT")
		if natsTimeout == "" {
			natsTimeout = "10s"
		}
		natsTimeoutDuration, err := time.ParseDuration(natsTimeout)
		if err != nil {
			log.Fatalf("invalid NATS timeout duration: %v", err)
		}

		natsMaxReconnect := os.Getenv("NATS_MAX_RECONNECT")
		if natsMaxReconnect == "" {
			natsMaxReconnect = "3"
		}
		natsMaxReconnectInt, err := strconv.Atoi(natsMaxReconnect)
		if err != nil {
			log.Fatalf("invalid NATS max reconnect value %s: %v", natsMaxReconnect, err)
		}

		natsReconnectWait := os.Getenv("NATS_RECONNECT_WAIT")
		if natsReconnectWait == "" {
			natsReconnectWait = "2s"
		}
		natsReconnectWaitDuration, err := time.ParseDuration(natsReconnectWait)
		if err != nil {
			log.Fatalf("invalid NATS reconnect wait duration %s : %v", natsReconnectWait, err)
		}

		natsSubjectPrefix := os.Getenv("NATS_SUBJECT_PREFIX")
		if natsSubjectPrefix == "" {
			natsSubjectPrefix = constants.DefaultSubjectPrefix
		}

		slog.InfoContext(ctx, "initializing NATS event publisher", "subject_prefix", natsSubjectPrefix)
		natsConfig := nats.Config{
			URL:           natsURL,
			Timeout:       natsTimeoutDuration,
			MaxReconnect:  natsMaxReconnectInt,
			ReconnectWait: natsReconnectWaitDuration,
			SubjectPrefix: natsSubjectPrefix,
		}

		eventPublisher, err = nats.NewEventPublisher(ctx, natsConfig)
		if err != nil {
			log.Fatalf("failed to initialize NATS event publisher: %v", err)
		}

	default:
		log.Fatalf("unsupported event publisher implementation: %s", eventsSource)
	}

	return eventPublisher
}

// PreferenceStoreImpl injects the client preference store implementation
func PreferenceStoreImpl(ctx context.Context) port.PreferenceStore {

	var (
		preferenceStore port.PreferenceStore
		err             error
	)

	prefsSource := os.Getenv("PREFS_SOURCE")
	if prefsSource == "" {
		prefsSource = "file"
	}

	switch prefsSource {
	case "mock":
		slog.InfoContext(ctx, "initializing mock preference store")
		preferenceStore = mock.NewMockPreferenceStore()

	case "file":
		prefsPath := os.Getenv("PREFS_PATH")
		if prefsPath == "" {
			prefsPath = prefs.DefaultPath()
		}

		slog.InfoContext(ctx, "initializing file preference store", "path", prefsPath)
		preferenceStore, err = prefs.NewFileStore(prefsPath)
		if err != nil {
			log.Fatalf("failed to initialize file preference store: %v", err)
		}

	case "redis":
		redisAddr := os.Getenv("REDIS_ADDR")
		if redisAddr == "" {
			redisAddr = "localhost:6379"
		}

		slog.InfoContext(ctx, "initializing redis preference store", "addr", redisAddr)
		preferenceStore, err = prefs.NewRedisStore(ctx, redisAddr, os.Getenv("REDIS_KEY_PREFIX"))
		if err != nil {
			log.Fatalf("failed to initialize redis preference store: %v", err)
		}

	default:
		log.Fatalf("unsupported preference store implementation: %s", prefsSource)
	}

	return preferenceStore
}

// FilterTableImpl loads the custom filter table, falling back to the
// embedded defaults
func FilterTableImpl(ctx context.Context) model.CustomFilterTable {
	filtersFile := os.Getenv("CATALOG_FILTERS_FILE")
	if filtersFile == "" {
		return filtertable.Default()
	}

	table, err := filtertable.Load(filtersFile)
	if err != nil {
		log.Fatalf("failed to load custom filters from %s: %v", filtersFile, err)
	}
	slog.InfoContext(ctx, "custom filters loaded", "path", filtersFile, "filters", len(table.Filters()))
	return table
}

// CatalogConfigImpl reads the client behavior settings
func CatalogConfigImpl(ctx context.Context) CatalogConfig {
	config := CatalogConfig{
		PageSize:          constants.DefaultPageSize,
		PreferredUsername: os.Getenv("CATALOG_PREFERRED_USERNAME"),
		DefaultQuery:      model.ParseQuery(os.Getenv("CATALOG_DEFAULT_QUERY")),
	}

	if pageSize := os.Getenv("CATALOG_PAGE_SIZE"); pageSize != "" {
		pageSizeInt, err := strconv.Atoi(pageSize)
		if err != nil || pageSizeInt <= 0 {
			log.Fatalf("invalid catalog page size %s", pageSize)
		}
		config.PageSize = pageSizeInt
	}

	if pagination := os.Getenv("CATALOG_PAGINATION"); pagination != "" {
		paginated, err := strconv.ParseBool(pagination)
		if err != nil {
			log.Fatalf("invalid catalog pagination value %s: %v", pagination, err)
		}
		config.Paginated = paginated
	}

	if routes := os.Getenv("CATALOG_VIEWER_ROUTES"); routes != "" {
		config.ViewerRoutes = append(config.ViewerRoutes, constants.DefaultViewerRoutes...)
		for _, route := range strings.Split(routes, ",") {
			if route = strings.TrimSpace(route); route != "" {
				config.ViewerRoutes = append(config.ViewerRoutes, route)
			}
		}
	}

	slog.DebugContext(ctx, "catalog configuration",
		"page_size", config.PageSize,
		"paginated", config.Paginated,
		"viewer_routes", len(config.ViewerRoutes),
	)
	return config
}
