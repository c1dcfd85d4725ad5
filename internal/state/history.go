// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package state

import (
	"context"
	"errors"
	"sync"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/port"
)

// ErrNoEntry is returned when Back or Forward run out of history.
var ErrNoEntry = errors.New("no history entry")

// Listener receives every location change.
type Listener func(ctx context.Context, change model.LocationChange) error

// MemoryHistory is an in-memory location stack.
type MemoryHistory struct {
	mu       sync.Mutex
	entries  []model.Location
	index    int
	listener Listener
}

var _ port.History = (*MemoryHistory)(nil)

// NewMemoryHistory starts the stack at initial.
func NewMemoryHistory(initial model.Location) *MemoryHistory {
	return &MemoryHistory{entries: []model.Location{initial.Clone()}}
}

// Listen sets the location change listener.
func (h *MemoryHistory) Listen(listener Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listener = listener
}

// Location returns the current entry.
func (h *MemoryHistory) Location() model.Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index].Clone()
}

// Push adds an entry, dropping the forward stack.
func (h *MemoryHistory) Push(ctx context.Context, location model.Location) error {
	h.mu.Lock()
	h.entries = append(h.entries[:h.index+1], location.Clone())
	h.index = len(h.entries) - 1
	h.mu.Unlock()

	return h.notify(ctx, location, model.ActionPush)
}

// Replace swaps the current entry.
func (h *MemoryHistory) Replace(ctx context.Context, location model.Location) error {
	h.mu.Lock()
	h.entries[h.index] = location.Clone()
	h.mu.Unlock()

	return h.notify(ctx, location, model.ActionReplace)
}

// Back moves to the previous entry.
func (h *MemoryHistory) Back(ctx context.Context) error {
	return h.move(ctx, -1)
}

// Forward moves to the next entry.
func (h *MemoryHistory) Forward(ctx context.Context) error {
	return h.move(ctx, 1)
}

func (h *MemoryHistory) move(ctx context.Context, delta int) error {
	h.mu.Lock()
	next := h.index + delta
	if next < 0 || next >= len(h.entries) {
		h.mu.Unlock()
		return ErrNoEntry
	}
	h.index = next
	location := h.entries[next].Clone()
	h.mu.Unlock()

	return h.notify(ctx, location, model.ActionPop)
}

func (h *MemoryHistory) notify(ctx context.Context, location model.Location, action model.HistoryAction) error {
	h.mu.Lock()
	listener := h.listener
	h.mu.Unlock()

	if listener == nil {
		return nil
	}
	return listener(ctx, model.LocationChange{Location: location.Clone(), Action: action})
}
