// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package state

import (
	"context"
	"sync"
	"sync/atomic"
)

// Latest keeps only the most recent request of a stream alive. Starting a
// request cancels the previous one and bumps the stream generation.
type Latest struct {
	mu         sync.Mutex
	generation atomic.Uint64
	cancel     context.CancelFunc
}

// Ticket identifies one request of a stream.
type Ticket struct {
	latest     *Latest
	generation uint64
}

// Begin starts a new request, superseding the one in flight.
func (l *Latest) Begin(ctx context.Context) (context.Context, Ticket) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
	}
	generation := l.generation.Add(1)
	ctx, l.cancel = context.WithCancel(ctx)

	return ctx, Ticket{latest: l, generation: generation}
}

// Finish releases the request context once t's results are applied. It is a
// no-op for superseded tickets.
func (l *Latest) Finish(t Ticket) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t.Current() && l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// Stop cancels the request in flight and invalidates every ticket.
func (l *Latest) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.generation.Add(1)
}

// Current reports whether t is still the latest request of its stream.
func (t Ticket) Current() bool {
	return t.latest != nil && t.latest.generation.Load() == t.generation
}

// Guard wraps an action so it is dropped when t has been superseded by the
// time the store applies it.
func Guard(t Ticket, action Action) Action {
	return guarded{ticket: t, action: action}
}

type guarded struct {
	ticket Ticket
	action Action
}

func (g guarded) Type() string { return g.action.Type() }

func (g guarded) Reduce(s *State) {
	g.action.Reduce(s)
}

// stale reports whether the action carries a superseded ticket.
func stale(action Action) bool {
	g, ok := action.(guarded)
	return ok && !g.ticket.Current()
}
