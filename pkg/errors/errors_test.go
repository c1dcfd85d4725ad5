// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "validation without cause", err: NewValidation("invalid page"), expected: "invalid page"},
		{name: "validation with cause", err: NewValidation("invalid page", cause), expected: "invalid page: boom"},
		{name: "not found", err: NewNotFound("resource not found", cause), expected: "resource not found: boom"},
		{name: "unexpected", err: NewUnexpected("decode failed", cause), expected: "decode failed: boom"},
		{name: "service unavailable", err: NewServiceUnavailable("backend down"), expected: "backend down"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestErrorsUnwrap(t *testing.T) {
	assertion := assert.New(t)

	err := NewServiceUnavailable("backend down", context.DeadlineExceeded)
	assertion.ErrorIs(err, context.DeadlineExceeded)

	var notFound NotFound
	wrapped := errors.Join(errors.New("outer"), NewNotFound("missing"))
	assertion.True(errors.As(wrapped, &notFound))
}
