// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourceUnmarshal(t *testing.T) {
	assertion := assert.New(t)

	var resource Resource
	err := json.Unmarshal([]byte(`{
		"pk": 12,
		"resource_type": "map",
		"title": "Roads",
		"executions": [
			{"exec_id": "e1", "user": "admin", "status": "running", "func_name": "copy", "link": "http://x/executionrequest/e1"},
			{"exec_id": "e2", "user": "admin", "status": "finished", "func_name": "copy"}
		]
	}`), &resource)

	assertion.NoError(err)
	assertion.Equal("12", resource.PK)
	assertion.Equal("map", resource.ResourceType)
	assertion.Equal("Roads", resource.Title)

	executions := resource.Executions()
	assertion.Len(executions, 2)
	assertion.True(executions[0].Running())
	assertion.False(executions[1].Running())
	assertion.Equal("http://x/executionrequest/e1", executions[0].StatusURL)
}

func TestResourceCloneIsDeep(t *testing.T) {
	original := NewResource(map[string]any{
		"pk":   "1",
		"data": map[string]any{"map": map[string]any{"zoom": 3.0}},
		"tags": []any{"a"},
	})

	clone := original.Clone()
	clone.Data["data"].(map[string]any)["map"].(map[string]any)["zoom"] = 9.0
	clone.Data["tags"].([]any)[0] = "b"

	assert.Equal(t, 3.0, original.Data["data"].(map[string]any)["map"].(map[string]any)["zoom"])
	assert.Equal(t, "a", original.Data["tags"].([]any)[0])
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "12", Stringify(float64(12)))
	assert.Equal(t, "1.5", Stringify(1.5))
	assert.Equal(t, "7", Stringify(json.Number("7")))
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "", Stringify([]any{}))
}
