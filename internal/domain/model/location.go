// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"net/url"
	"strings"

	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/constants"
)

// HistoryAction is how a location was reached.
type HistoryAction string

// History actions.
const (
	ActionPush    HistoryAction = "PUSH"
	ActionPop     HistoryAction = "POP"
	ActionReplace HistoryAction = "REPLACE"
)

// Location is the addressable catalogue state: a pathname and its query.
type Location struct {
	Pathname string
	Query    SearchParams
}

// LocationChange is emitted by the history on every navigation.
type LocationChange struct {
	Location Location
	Action   HistoryAction
}

// ParseLocation splits "/path?query" into a Location.
func ParseLocation(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, err
	}
	pathname := u.Path
	if pathname == "" {
		pathname = "/"
	}
	return Location{Pathname: pathname, Query: ParseQuery(u.RawQuery)}, nil
}

// Search returns the encoded query, with a leading "?" when not empty.
func (l Location) Search() string {
	if encoded := l.Query.Encode(); encoded != "" {
		return "?" + encoded
	}
	return ""
}

// String renders pathname and query.
func (l Location) String() string {
	return l.Pathname + l.Search()
}

// Clone returns a deep copy.
func (l Location) Clone() Location {
	return Location{Pathname: l.Pathname, Query: l.Query.Clone()}
}

// DetailRef identifies the resource open in the detail panel.
type DetailRef struct {
	PK           string
	ResourceType string
}

// ParseDetailRef decodes the "{pk};{resourceType}" detail query value.
func ParseDetailRef(value string) (DetailRef, bool) {
	if value == "" {
		return DetailRef{}, false
	}
	pk, resourceType, _ := strings.Cut(value, constants.DetailSeparator)
	if pk == "" {
		return DetailRef{}, false
	}
	return DetailRef{PK: pk, ResourceType: resourceType}, true
}

// String encodes the ref for the detail query value.
func (d DetailRef) String() string {
	if d.ResourceType == "" {
		return d.PK
	}
	return d.PK + constants.DetailSeparator + d.ResourceType
}

// Detail returns the detail ref carried by the location, if any.
func (l Location) Detail() (DetailRef, bool) {
	return ParseDetailRef(l.Query.Get(constants.DetailQueryKey))
}
