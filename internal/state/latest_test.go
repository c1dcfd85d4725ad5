// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatest(t *testing.T) {
	assertion := assert.New(t)

	var stream Latest
	firstCtx, first := stream.Begin(context.Background())
	assertion.True(first.Current())

	secondCtx, second := stream.Begin(context.Background())
	assertion.False(first.Current())
	assertion.True(second.Current())
	assertion.ErrorIs(firstCtx.Err(), context.Canceled, "superseded request is cancelled")
	assertion.NoError(secondCtx.Err())

	stream.Finish(first)
	assertion.NoError(secondCtx.Err(), "finishing a stale ticket leaves the current request alone")

	stream.Finish(second)
	assertion.ErrorIs(secondCtx.Err(), context.Canceled)
	assertion.True(second.Current())

	stream.Stop()
	assertion.False(second.Current())

	assertion.False(Ticket{}.Current())
}
