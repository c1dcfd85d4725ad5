// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import "strings"

const (
	filterPrefix = "filter{"
	filterSuffix = "}"
)

// Filter operators understood by the backend.
const (
	OperatorEqual    = ""
	OperatorIn       = "in"
	OperatorContains = "icontains"
	OperatorGreater  = "gte"
	OperatorLess     = "lte"
)

// FilterKey names a structured filter: a dotted field path and an optional
// operator. It is rendered as filter{field.op} only on the wire.
type FilterKey struct {
	Field    string
	Operator string
}

// Filter is a structured filter with its values.
type Filter struct {
	Key    FilterKey
	Values []string
}

var knownOperators = map[string]bool{
	OperatorIn:       true,
	OperatorContains: true,
	OperatorGreater:  true,
	OperatorLess:     true,
	"gt":             true,
	"lt":             true,
	"exact":          true,
	"iexact":         true,
	"isnull":         true,
}

// ParseFilterKey parses "filter{field.op}". Bare "filter{field}" yields an
// equality filter.
func ParseFilterKey(s string) (FilterKey, bool) {
	if !strings.HasPrefix(s, filterPrefix) || !strings.HasSuffix(s, filterSuffix) {
		return FilterKey{}, false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, filterPrefix), filterSuffix)
	if inner == "" {
		return FilterKey{}, false
	}

	if idx := strings.LastIndex(inner, "."); idx > 0 {
		if op := inner[idx+1:]; knownOperators[op] {
			return FilterKey{Field: inner[:idx], Operator: op}, true
		}
	}
	return FilterKey{Field: inner}, true
}

// String renders the wire form.
func (k FilterKey) String() string {
	if k.Operator == OperatorEqual {
		return filterPrefix + k.Field + filterSuffix
	}
	return filterPrefix + k.Field + "." + k.Operator + filterSuffix
}

// NewInFilter is the common "field in values" filter.
func NewInFilter(field string, values ...string) Filter {
	return Filter{Key: FilterKey{Field: field, Operator: OperatorIn}, Values: values}
}
