// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// PageState tracks pagination of the resource list.
type PageState struct {
	Page                int
	PageSize            int
	Total               int
	IsNextPageAvailable bool
}

// ResourcePage is one normalized listing response.
type ResourcePage struct {
	Resources           []Resource
	Total               int
	IsNextPageAvailable bool
}

// ProcessWatch asks the async process tracker to follow an execution.
type ProcessWatch struct {
	ResourcePK   string `json:"resource_pk"`
	ResourceType string `json:"resource_type"`
	ProcessType  string `json:"process_type"`
	ExecutionID  string `json:"execution_id"`
	StatusURL    string `json:"status_url,omitempty"`
}

// ResourceQuery is a listing request as sent to the catalogue backend.
type ResourceQuery struct {
	Params   SearchParams
	Page     int
	PageSize int
}
