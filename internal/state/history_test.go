// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package state

import (
	"context"
	"testing"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	"github.com/stretchr/testify/assert"
)

func TestMemoryHistory(t *testing.T) {
	assertion := assert.New(t)
	ctx := context.Background()

	history := NewMemoryHistory(model.Location{Pathname: "/"})

	var changes []model.LocationChange
	history.Listen(func(ctx context.Context, change model.LocationChange) error {
		changes = append(changes, change)
		return nil
	})

	page2 := model.Location{Pathname: "/", Query: model.SearchParams{"page": {"2"}}}
	detail := model.Location{Pathname: "/map/10"}

	assertion.NoError(history.Push(ctx, page2))
	assertion.NoError(history.Push(ctx, detail))
	assertion.NoError(history.Back(ctx))
	assertion.Equal(page2, history.Location())

	assertion.NoError(history.Forward(ctx))
	assertion.ErrorIs(history.Forward(ctx), ErrNoEntry)

	assertion.NoError(history.Back(ctx))
	assertion.NoError(history.Replace(ctx, model.Location{Pathname: "/", Query: model.SearchParams{"page": {"3"}}}))
	assertion.Equal("3", history.Location().Query.Get("page"))

	var actions []model.HistoryAction
	for _, c := range changes {
		actions = append(actions, c.Action)
	}
	assertion.Equal([]model.HistoryAction{
		model.ActionPush, model.ActionPush, model.ActionPop, model.ActionPop, model.ActionPop, model.ActionReplace,
	}, actions)
}

func TestMemoryHistoryPushDropsForwardEntries(t *testing.T) {
	ctx := context.Background()
	history := NewMemoryHistory(model.Location{Pathname: "/"})

	_ = history.Push(ctx, model.Location{Pathname: "/a"})
	_ = history.Back(ctx)
	_ = history.Push(ctx, model.Location{Pathname: "/b"})

	assert.ErrorIs(t, history.Forward(ctx), ErrNoEntry)
	assert.Equal(t, "/b", history.Location().Pathname)
}
