// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/state"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

type resourceRow struct {
	PK           string `json:"pk"`
	ResourceType string `json:"resource_type"`
	Title        string `json:"title"`
}

type searchOutput struct {
	Location            string               `json:"location"`
	Page                int                  `json:"page"`
	Total               int                  `json:"total"`
	IsNextPageAvailable bool                 `json:"is_next_page_available"`
	Resources           []resourceRow        `json:"resources"`
	Processes           []model.ProcessWatch `json:"processes,omitempty"`
}

type facetRow struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Type      string `json:"type"`
	FilterKey string `json:"filter_key"`
}

type facetsOutput struct {
	Facets   []facetRow        `json:"facets"`
	Expanded []string          `json:"expanded,omitempty"`
	Filters  []model.FacetItem `json:"filters"`
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printSearch(w io.Writer, format string, snapshot state.State, processes bool) error {
	out := searchOutput{
		Location:            snapshot.Location.String(),
		Page:                snapshot.Search.Page.Page,
		Total:               snapshot.Search.Page.Total,
		IsNextPageAvailable: snapshot.Search.Page.IsNextPageAvailable,
		Resources:           make([]resourceRow, 0, len(snapshot.Search.Resources)),
	}
	for _, resource := range snapshot.Search.Resources {
		out.Resources = append(out.Resources, resourceRow{PK: resource.PK, ResourceType: resource.ResourceType, Title: resource.Title})
	}
	if processes {
		out.Processes = snapshot.Search.Processes
	}

	if format == formatJSON {
		return writeJSON(w, out)
	}

	fmt.Fprintf(w, "%-8s %-10s %s\n", "PK", "TYPE", "TITLE")
	for _, row := range out.Resources {
		fmt.Fprintf(w, "%-8s %-10s %s\n", row.PK, row.ResourceType, row.Title)
	}
	fmt.Fprintf(w, "\n%d of %d resources, page %d", len(out.Resources), out.Total, out.Page)
	if out.IsNextPageAvailable {
		fmt.Fprint(w, ", more available")
	}
	fmt.Fprintln(w)

	if processes && len(out.Processes) > 0 {
		fmt.Fprintln(w)
		return printProcesses(w, format, out.Processes)
	}
	return nil
}

func printFacets(w io.Writer, format string, snapshot state.State) error {
	out := facetsOutput{
		Facets:   make([]facetRow, 0, len(snapshot.Facets.Facets)),
		Expanded: snapshot.Facets.Expanded,
		Filters:  snapshot.Facets.Filters.Items(),
	}
	for _, facet := range snapshot.Facets.Facets {
		out.Facets = append(out.Facets, facetRow{Name: facet.Name, Label: facet.Label, Type: facet.Type, FilterKey: facet.FilterKey})
	}

	if format == formatJSON {
		return writeJSON(w, out)
	}

	fmt.Fprintf(w, "%-14s %-10s %s\n", "FACET", "TYPE", "FILTER")
	for _, row := range out.Facets {
		fmt.Fprintf(w, "%-14s %-10s %s\n", row.Name, row.Type, row.FilterKey)
	}
	if len(out.Filters) > 0 {
		fmt.Fprintf(w, "\n%-14s %-24s %s\n", "FACET", "FILTER", "COUNT")
		for _, item := range out.Filters {
			fmt.Fprintf(w, "%-14s %-24s %d\n", item.FacetName, item.Name, item.Count)
		}
	}
	return nil
}

func printFacetItems(w io.Writer, format string, page model.FacetPage) error {
	if format == formatJSON {
		return writeJSON(w, page)
	}

	fmt.Fprintf(w, "%-24s %-24s %s\n", "ITEM", "VALUE", "COUNT")
	for _, item := range page.Items {
		fmt.Fprintf(w, "%-24s %-24s %d\n", item.Name, item.FilterValue, item.Count)
	}
	fmt.Fprintf(w, "\npage %d, %d items", page.Page, page.Total)
	if page.IsNextPageAvailable {
		fmt.Fprint(w, ", more available")
	}
	fmt.Fprintln(w)
	return nil
}

func printDetail(w io.Writer, format string, detail model.Detail) error {
	if detail.Error != "" {
		return fmt.Errorf("resource could not be loaded: %s", detail.Error)
	}
	if detail.Resource == nil {
		return fmt.Errorf("no resource loaded")
	}

	if format == formatJSON {
		return writeJSON(w, detail.Resource)
	}
	fmt.Fprintf(w, "%s/%s %s\n", detail.Resource.ResourceType, detail.Resource.PK, detail.Resource.Title)
	if abstract := model.Stringify(detail.Resource.Data["abstract"]); abstract != "" {
		fmt.Fprintf(w, "\n%s\n", abstract)
	}
	return nil
}

func printSync(w io.Writer, format string, report model.SyncReport) error {
	if format == formatJSON {
		return writeJSON(w, report)
	}

	for _, result := range report.Results {
		fmt.Fprintf(w, "%-8s %-10s %-8s %s\n", result.Status, result.ResourceType, result.PK, result.Title)
	}
	fmt.Fprintf(w, "\n[%s] %s: %s\n", report.Notification.Level, report.Notification.Title, report.Notification.Message)
	return nil
}

func printProcesses(w io.Writer, format string, watches []model.ProcessWatch) error {
	if format == formatJSON {
		return writeJSON(w, watches)
	}

	fmt.Fprintf(w, "%-8s %-10s %-10s %s\n", "PK", "TYPE", "PROCESS", "EXECUTION")
	for _, watch := range watches {
		fmt.Fprintf(w, "%-8s %-10s %-10s %s\n", watch.ResourcePK, watch.ResourceType, watch.ProcessType, watch.ExecutionID)
	}
	return nil
}
