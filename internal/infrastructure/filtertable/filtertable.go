// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package filtertable loads the custom filter aliases selectable with f=.
package filtertable

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaults []byte

type document struct {
	Filters []entry `yaml:"filters"`
}

type entry struct {
	ID    string         `yaml:"id"`
	Label string         `yaml:"label"`
	Query map[string]any `yaml:"query"`
}

// Default returns the built-in aliases.
func Default() model.CustomFilterTable {
	table, err := Parse(defaults)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in filter table: %v", err))
	}
	return table
}

// Load reads a table from path; an empty path returns the built-in table.
func Load(path string) (model.CustomFilterTable, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.CustomFilterTable{}, fmt.Errorf("read filter table: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML table. Query values may be scalars or lists.
func Parse(data []byte) (model.CustomFilterTable, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.CustomFilterTable{}, fmt.Errorf("parse filter table: %w", err)
	}

	filters := make([]model.CustomFilter, 0, len(doc.Filters))
	for i, e := range doc.Filters {
		if e.ID == "" {
			return model.CustomFilterTable{}, fmt.Errorf("filter #%d has no id", i+1)
		}
		query := model.SearchParams{}
		for key, raw := range e.Query {
			values, err := toStrings(raw)
			if err != nil {
				return model.CustomFilterTable{}, fmt.Errorf("filter %q key %q: %w", e.ID, key, err)
			}
			query[key] = values
		}
		filters = append(filters, model.CustomFilter{ID: e.ID, Label: e.Label, Query: query.Canonical()})
	}
	return model.NewCustomFilterTable(filters...), nil
}

func toStrings(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, err := scalar(item)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	default:
		s, err := scalar(v)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
}

func scalar(v any) (string, error) {
	switch v.(type) {
	case string, int, int64, float64, bool:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("unsupported value %v", v)
	}
}
