// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLocation(t *testing.T) {
	assertion := assert.New(t)

	location, err := ParseLocation("/catalogue/?q=roads&page=2&d=12;map")
	assertion.NoError(err)
	assertion.Equal("/catalogue/", location.Pathname)
	assertion.Equal("roads", location.Query.Get("q"))
	assertion.Equal("2", location.Query.Get("page"))

	detail, ok := location.Detail()
	assertion.True(ok)
	assertion.Equal(DetailRef{PK: "12", ResourceType: "map"}, detail)
	assertion.Equal("12;map", detail.String())

	empty, err := ParseLocation("")
	assertion.NoError(err)
	assertion.Equal("/", empty.Pathname)
	assertion.Equal("/", empty.String())
}

func TestParseDetailRef(t *testing.T) {
	tests := []struct {
		input    string
		expected DetailRef
		ok       bool
	}{
		{input: "5;dataset", expected: DetailRef{PK: "5", ResourceType: "dataset"}, ok: true},
		{input: "5", expected: DetailRef{PK: "5"}, ok: true},
		{input: ";map", ok: false},
		{input: "", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			ref, ok := ParseDetailRef(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, ref)
		})
	}
}

func TestLocationSearchIsSorted(t *testing.T) {
	location := Location{Pathname: "/", Query: SearchParams{"sort": {"-date"}, "q": {"a b"}}}
	assert.Equal(t, "/?q=a+b&sort=-date", location.String())
}
