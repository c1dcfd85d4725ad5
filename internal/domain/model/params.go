// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"net/url"
	"slices"
	"strings"
)

// SearchParams is the set of query parameters driving a catalogue search.
// Keys are URL query keys; every value is a list, a scalar being a list of one.
type SearchParams map[string][]string

// ParseQuery decodes a raw query string. Unlike url.ParseQuery it keeps
// literal semicolons inside values, as in d=12;map. Malformed pairs are skipped.
func ParseQuery(raw string) SearchParams {
	params := SearchParams{}
	for _, pair := range strings.Split(strings.TrimPrefix(raw, "?"), "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil || key == "" {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			continue
		}
		params[key] = append(params[key], value)
	}
	return params
}

// Get returns the first value for key.
func (p SearchParams) Get(key string) string {
	if values := p[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// Has reports whether key has at least one value.
func (p SearchParams) Has(key string) bool {
	return len(p[key]) > 0
}

// Set replaces the values of key.
func (p SearchParams) Set(key string, values ...string) {
	p[key] = values
}

// Clone returns a deep copy.
func (p SearchParams) Clone() SearchParams {
	if p == nil {
		return nil
	}
	out := make(SearchParams, len(p))
	for k, v := range p {
		out[k] = slices.Clone(v)
	}
	return out
}

// Without returns a copy without the given keys.
func (p SearchParams) Without(keys ...string) SearchParams {
	out := p.Clone()
	if out == nil {
		out = SearchParams{}
	}
	for _, key := range keys {
		delete(out, key)
	}
	return out
}

// Canonical drops empty keys and empty values, plus the excluded keys.
// It is idempotent.
func (p SearchParams) Canonical(exclude ...string) SearchParams {
	out := SearchParams{}
	for key, values := range p {
		if key == "" || slices.Contains(exclude, key) {
			continue
		}
		kept := make([]string, 0, len(values))
		for _, v := range values {
			if v != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) > 0 {
			out[key] = kept
		}
	}
	return out
}

// Equal compares keys and value lists; value order matters.
func (p SearchParams) Equal(other SearchParams) bool {
	if len(p) != len(other) {
		return false
	}
	for key, values := range p {
		otherValues, ok := other[key]
		if !ok || !slices.Equal(values, otherValues) {
			return false
		}
	}
	return true
}

// Encode serializes the params with keys sorted, suitable for comparison.
func (p SearchParams) Encode() string {
	return url.Values(p).Encode()
}

// Merge returns p overlaid with other. Keys present in other replace those
// in p; a key mapped to an empty list is removed.
func (p SearchParams) Merge(other SearchParams) SearchParams {
	out := p.Clone()
	if out == nil {
		out = SearchParams{}
	}
	for key, values := range other {
		if len(values) == 0 || (len(values) == 1 && values[0] == "") {
			delete(out, key)
			continue
		}
		out[key] = slices.Clone(values)
	}
	return out
}

// Union appends the values of other to p for every key, skipping duplicates.
func (p SearchParams) Union(other SearchParams) SearchParams {
	out := p.Clone()
	if out == nil {
		out = SearchParams{}
	}
	for key, values := range other {
		for _, v := range values {
			if !slices.Contains(out[key], v) {
				out[key] = append(out[key], v)
			}
		}
	}
	return out
}

// Filters returns the structured filters among the params, sorted by key.
func (p SearchParams) Filters() []Filter {
	var filters []Filter
	for key, values := range p {
		if filterKey, ok := ParseFilterKey(key); ok {
			filters = append(filters, Filter{Key: filterKey, Values: slices.Clone(values)})
		}
	}
	slices.SortFunc(filters, func(a, b Filter) int {
		return strings.Compare(a.Key.String(), b.Key.String())
	})
	return filters
}
