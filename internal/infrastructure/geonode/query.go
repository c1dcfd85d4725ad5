// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package geonode

import (
	"net/url"
	"strconv"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/constants"
)

const (
	wireSearch       = "search"
	wireSearchFields = "search_fields[]"
	wireSort         = "sort[]"
	wirePage         = "page"
	wirePageSize     = "page_size"
)

// clientOnlyKeys never reach the backend.
var clientOnlyKeys = map[string]bool{
	constants.DetailQueryKey:       true,
	constants.CustomFilterQueryKey: true,
	constants.PageQueryKey:         true,
	wirePageSize:                   true,
}

// encodeParams maps catalogue params to the GeoNode query dialect: q becomes
// a full text search over the default fields, sort becomes sort[], and
// structured filters are rendered from their typed keys.
func encodeParams(params model.SearchParams) url.Values {
	values := url.Values{}

	for _, filter := range params.Filters() {
		key := filter.Key.String()
		for _, v := range filter.Values {
			values.Add(key, v)
		}
	}

	for key, vs := range params {
		if clientOnlyKeys[key] {
			continue
		}
		if _, ok := model.ParseFilterKey(key); ok {
			continue
		}
		switch key {
		case constants.TextQueryKey:
			if text := params.Get(key); text != "" {
				values.Set(wireSearch, text)
				for _, field := range constants.DefaultSearchFields {
					values.Add(wireSearchFields, field)
				}
			}
		case constants.SortQueryKey:
			for _, v := range vs {
				values.Add(wireSort, v)
			}
		default:
			for _, v := range vs {
				values.Add(key, v)
			}
		}
	}

	return values
}

// encodeResourceQuery adds paging to the encoded params.
func encodeResourceQuery(query model.ResourceQuery) url.Values {
	values := encodeParams(query.Params)
	if query.Page > 0 {
		values.Set(wirePage, strconv.Itoa(query.Page))
	}
	if query.PageSize > 0 {
		values.Set(wirePageSize, strconv.Itoa(query.PageSize))
	}
	return values
}

// encodeFacetItemsQuery encodes a facet topics lookup.
func encodeFacetItemsQuery(query model.FacetItemsQuery) url.Values {
	values := encodeParams(query.Query)
	values.Set(wirePage, strconv.Itoa(query.Page))
	if query.PageSize > 0 {
		values.Set(wirePageSize, strconv.Itoa(query.PageSize))
	}
	if query.Text != "" {
		values.Set("topic_contains", query.Text)
	}
	for _, key := range query.Keys {
		values.Add("key", key)
	}
	return values
}
