// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"encoding/json"
	"strconv"
)

// Resource represents a catalogue entry (dataset, map, document, geoapp).
// Data keeps the backend record untouched; the typed fields are read from it.
type Resource struct {
	// PK is the primary key, always rendered as a string
	PK string
	// ResourceType is the backend resource_type (dataset, map, document, geostory, dashboard)
	ResourceType string
	// Title as returned by the backend
	Title string
	// Data is the full backend record
	Data map[string]any
}

// Execution is an asynchronous backend process attached to a resource.
type Execution struct {
	ID        string
	User      string
	Status    string
	FuncName  string
	StatusURL string
}

// Running reports whether the backend still works on the execution.
func (e Execution) Running() bool {
	return e.Status == ExecutionStatusReady || e.Status == ExecutionStatusRunning
}

// Execution states reported by the backend.
const (
	ExecutionStatusReady    = "ready"
	ExecutionStatusRunning  = "running"
	ExecutionStatusFinished = "finished"
	ExecutionStatusFailed   = "failed"
)

// NewResource builds a Resource from a decoded backend record.
func NewResource(data map[string]any) Resource {
	if data == nil {
		data = map[string]any{}
	}
	return Resource{
		PK:           Stringify(data["pk"]),
		ResourceType: Stringify(data["resource_type"]),
		Title:        Stringify(data["title"]),
		Data:         data,
	}
}

// Executions returns the processes listed on the record.
func (r Resource) Executions() []Execution {
	raw, ok := r.Data["executions"].([]any)
	if !ok {
		return nil
	}

	executions := make([]Execution, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		executions = append(executions, Execution{
			ID:        Stringify(entry["exec_id"]),
			User:      Stringify(entry["user"]),
			Status:    Stringify(entry["status"]),
			FuncName:  Stringify(entry["func_name"]),
			StatusURL: Stringify(entry["link"]),
		})
	}
	return executions
}

// Matches reports whether r is the resource identified by pk and resourceType.
// An empty resourceType matches any type.
func (r Resource) Matches(pk, resourceType string) bool {
	if r.PK != pk {
		return false
	}
	return resourceType == "" || r.ResourceType == resourceType
}

// Clone returns a deep copy, so callers can hand out snapshots safely.
func (r Resource) Clone() Resource {
	r.Data = CloneMap(r.Data)
	return r
}

// UnmarshalJSON decodes a backend record.
func (r *Resource) UnmarshalJSON(b []byte) error {
	var data map[string]any
	if err := json.Unmarshal(b, &data); err != nil {
		return err
	}
	*r = NewResource(data)
	return nil
}

// MarshalJSON encodes the untouched backend record.
func (r Resource) MarshalJSON() ([]byte, error) {
	if r.Data == nil {
		return json.Marshal(map[string]any{"pk": r.PK, "resource_type": r.ResourceType, "title": r.Title})
	}
	return json.Marshal(r.Data)
}

// Stringify renders scalar JSON values as strings. Backend pks are numbers
// in most payloads and strings in a few.
func Stringify(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case json.Number:
		return value.String()
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case bool:
		return strconv.FormatBool(value)
	default:
		return ""
	}
}

// CloneMap deep copies decoded JSON.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		return CloneMap(value)
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}
