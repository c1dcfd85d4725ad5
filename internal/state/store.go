// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package state

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrStopped is returned by Dispatch once the store loop has exited.
var ErrStopped = errors.New("store stopped")

type envelope struct {
	action  Action
	applied chan bool
}

// Store owns the State. Actions are applied one at a time by Run; readers
// get deep copies through Snapshot.
type Store struct {
	actions chan envelope
	done    chan struct{}

	mu    sync.RWMutex
	state State

	subMu       sync.Mutex
	subscribers []func(Action, State)
}

// NewStore creates a store; call Run to start applying actions.
func NewStore(initial State) *Store {
	return &Store{
		actions: make(chan envelope),
		done:    make(chan struct{}),
		state:   initial,
	}
}

// Run applies actions until ctx is done.
func (s *Store) Run(ctx context.Context) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		case env := <-s.actions:
			env.applied <- s.apply(ctx, env.action)
		}
	}
}

func (s *Store) apply(ctx context.Context, action Action) bool {
	if stale(action) {
		slog.DebugContext(ctx, "discarding stale action", "action", action.Type())
		return false
	}

	s.mu.Lock()
	action.Reduce(&s.state)
	snapshot := s.state.Clone()
	s.mu.Unlock()

	slog.DebugContext(ctx, "action applied", "action", action.Type())

	s.subMu.Lock()
	subscribers := append([]func(Action, State){}, s.subscribers...)
	s.subMu.Unlock()
	for _, fn := range subscribers {
		fn(action, snapshot)
	}
	return true
}

// Dispatch hands action to the loop and waits until it is applied. It
// reports whether the action changed the state; guarded actions whose
// ticket was superseded are dropped.
func (s *Store) Dispatch(ctx context.Context, action Action) (bool, error) {
	env := envelope{action: action, applied: make(chan bool, 1)}

	select {
	case s.actions <- env:
	case <-s.done:
		return false, ErrStopped
	case <-ctx.Done():
		return false, ctx.Err()
	}

	// once accepted the loop always answers
	return <-env.applied, nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Subscribe registers fn to run after every applied action, on the loop.
// fn must not call Dispatch.
func (s *Store) Subscribe(fn func(Action, State)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}
