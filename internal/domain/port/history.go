// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
)

// History is the location stack the catalogue navigates through. Push and
// Replace notify the history's listener with the resulting LocationChange.
type History interface {
	Location() model.Location
	Push(ctx context.Context, location model.Location) error
	Replace(ctx context.Context, location model.Location) error
}
