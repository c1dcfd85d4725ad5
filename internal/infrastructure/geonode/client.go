// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package geonode

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-geocatalog/pkg/httpclient"
)

// Client represents a GeoNode REST API v2 client
type Client struct {
	config     Config
	httpClient *httpclient.Client
}

// apiURL builds {BaseURL}/api/v2/{parts...}/ with the given query.
func (c *Client) apiURL(query url.Values, parts ...string) (string, error) {
	u, err := url.Parse(c.config.BaseURL + constants.APIPath)
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}
	u = u.JoinPath(parts...)
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// ListResources calls GET /api/v2/resources
func (c *Client) ListResources(ctx context.Context, query url.Values) (*ResourcesResponse, error) {
	u, err := c.apiURL(query, resourcesEndpoint.Collection)
	if err != nil {
		return nil, err
	}

	var response ResourcesResponse
	if err := c.makeRequest(ctx, http.MethodGet, u, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// ListCollection calls GET /api/v2/{collection}, whose records are wrapped
// under the collection name.
func (c *Client) ListCollection(ctx context.Context, collection string, query url.Values) ([]json.RawMessage, error) {
	u, err := c.apiURL(query, collection)
	if err != nil {
		return nil, err
	}

	var envelope map[string]json.RawMessage
	if err := c.makeRequest(ctx, http.MethodGet, u, nil, &envelope); err != nil {
		return nil, err
	}

	raw, ok := envelope[collection]
	if !ok {
		return nil, errors.NewUnexpected(fmt.Sprintf("response has no %q list", collection))
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, errors.NewUnexpected("failed to decode response", err)
	}
	return records, nil
}

// GetRecord calls GET /api/v2/{collection}/{pk} and unwraps the envelope.
func (c *Client) GetRecord(ctx context.Context, e endpoint, pk string) (json.RawMessage, error) {
	u, err := c.apiURL(nil, e.Collection, pk)
	if err != nil {
		return nil, err
	}

	var envelope map[string]json.RawMessage
	if err := c.makeRequest(ctx, http.MethodGet, u, nil, &envelope); err != nil {
		return nil, err
	}

	raw, ok := envelope[e.Envelope]
	if !ok {
		return nil, errors.NewUnexpected(fmt.Sprintf("response has no %q record", e.Envelope))
	}
	return raw, nil
}

// ListFacets calls GET /api/v2/facets
func (c *Client) ListFacets(ctx context.Context, query url.Values) (*FacetsResponse, error) {
	u, err := c.apiURL(query, "facets")
	if err != nil {
		return nil, err
	}

	var response FacetsResponse
	if err := c.makeRequest(ctx, http.MethodGet, u, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetFacet calls GET /api/v2/facets/{name}
func (c *Client) GetFacet(ctx context.Context, name string, query url.Values) (*FacetItemsResponse, error) {
	u, err := c.apiURL(query, "facets", name)
	if err != nil {
		return nil, err
	}

	var response FacetItemsResponse
	if err := c.makeRequest(ctx, http.MethodGet, u, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// CopyResource calls PUT /api/v2/resources/{pk}/copy
func (c *Client) CopyResource(ctx context.Context, pk string) (*CopyResponse, error) {
	u, err := c.apiURL(nil, resourcesEndpoint.Collection, pk, "copy")
	if err != nil {
		return nil, err
	}

	var response CopyResponse
	if err := c.makeRequest(ctx, http.MethodPut, u, []byte("{}"), &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// DeleteResource calls DELETE /api/v2/resources/{pk}
func (c *Client) DeleteResource(ctx context.Context, pk string) error {
	u, err := c.apiURL(nil, resourcesEndpoint.Collection, pk)
	if err != nil {
		return err
	}
	return c.makeRequest(ctx, http.MethodDelete, u, nil, nil)
}

// makeRequest performs the HTTP request to GeoNode using the generic HTTP
// client and maps failures to typed errors. A nil model skips decoding.
func (c *Client) makeRequest(ctx context.Context, method, url string, body []byte, model any) error {
	headers := map[string]string{}
	if c.config.APIToken != "" {
		headers["Authorization"] = fmt.Sprintf("Bearer %s", c.config.APIToken)
	}
	if body != nil {
		headers["Content-Type"] = "application/json"
	}

	resp, err := c.httpClient.Request(ctx, method, url, body, headers)
	if err != nil {
		var statusErr *httpclient.StatusError
		if stderrors.As(err, &statusErr) {
			switch {
			case statusErr.StatusCode == http.StatusNotFound:
				return errors.NewNotFound("resource not found", err)
			case statusErr.StatusCode == http.StatusBadRequest, statusErr.StatusCode == http.StatusUnprocessableEntity:
				return errors.NewValidation("invalid request", err)
			case statusErr.StatusCode >= http.StatusInternalServerError:
				return errors.NewServiceUnavailable("GeoNode API unavailable", err)
			default:
				return errors.NewUnexpected("unexpected status "+strconv.Itoa(statusErr.StatusCode), err)
			}
		}
		return errors.NewServiceUnavailable("request failed", err)
	}

	if model == nil || len(resp.Body) == 0 {
		return nil
	}

	if err := json.Unmarshal(resp.Body, model); err != nil {
		return errors.NewUnexpected("failed to decode response", err)
	}

	return nil
}

// IsReady checks if the GeoNode API is reachable
func (c *Client) IsReady(ctx context.Context) error {
	u, err := c.apiURL(url.Values{"page_size": {"1"}}, resourcesEndpoint.Collection)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Request(ctx, http.MethodGet, u, nil, nil)
	if err != nil {
		return errors.NewServiceUnavailable("GeoNode API is not reachable", err)
	}

	if resp.StatusCode != http.StatusOK {
		return errors.NewServiceUnavailable("GeoNode API is not reachable", fmt.Errorf("status code: %d", resp.StatusCode))
	}

	return nil
}

// NewClient creates a new GeoNode API client
func NewClient(config Config) *Client {
	httpConfig := httpclient.DefaultConfig()
	httpConfig.Timeout = config.Timeout
	httpConfig.MaxRetries = config.MaxRetries
	httpConfig.RetryDelay = config.RetryDelay
	httpConfig.Transport = middleware.RequestIDTransport(nil)

	return &Client{
		config:     config,
		httpClient: httpclient.NewClient(httpConfig),
	}
}
