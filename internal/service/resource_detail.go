// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/port"
)

// DetailEmitter receives every detail state in order.
type DetailEmitter func(model.Detail)

// ResourceDetailLoader loads the resource shown in the detail panel
type ResourceDetailLoader struct {
	searcher port.ResourceSearcher
}

// Load emits a cleared detail when pk is empty. Otherwise it emits a
// loading state, carrying the matching resource from loaded as a preview,
// then the authoritative record or the error message. The request is never
// retried.
func (l *ResourceDetailLoader) Load(ctx context.Context, pk, resourceType string, loaded []model.Resource, emit DetailEmitter) error {
	if pk == "" {
		emit(model.Detail{})
		return nil
	}

	pending := model.Detail{Loading: true}
	for _, resource := range loaded {
		if resource.Matches(pk, resourceType) {
			preview := resource.Clone()
			pending = model.Detail{Resource: &preview, IsPreview: true, Loading: true}
			break
		}
	}
	emit(pending)

	slog.DebugContext(ctx, "loading resource detail", "pk", pk, "resource_type", resourceType)

	resource, err := l.searcher.GetResource(ctx, pk, resourceType)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.With("error", err).ErrorContext(ctx, "resource detail failed", "pk", pk)
		emit(model.Detail{Error: err.Error()})
		return fmt.Errorf("get resource %s: %w", pk, err)
	}

	emit(model.Detail{Resource: resource})
	return nil
}

// NewResourceDetailLoader creates a new ResourceDetailLoader
func NewResourceDetailLoader(searcher port.ResourceSearcher) *ResourceDetailLoader {
	return &ResourceDetailLoader{searcher: searcher}
}
