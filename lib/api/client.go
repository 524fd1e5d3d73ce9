// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

// Package api provides a typed HTTP client for the BlocStage REST API.
// Every user-visible operation of the terminal client — authentication,
// event authoring, ticket claims — goes through this package.
//
// The client mirrors the server's wire format with its own response
// types so that rendering code never touches raw JSON. All methods
// take a context and translate non-2xx responses into *StatusError,
// which callers classify with IsAuthInvalid, IsMethodMismatch, and
// IsConflict.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/blocstage/stagehand/lib/netutil"
)

// TokenSource supplies the bearer token for authenticated requests.
// An empty string means the request goes out unauthenticated.
type TokenSource func() string

// Client is a typed HTTP client for the BlocStage API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
}

// New creates a Client for the given base URL. The token source may be
// nil for a client that only performs unauthenticated operations.
func New(baseURL string, timeout time.Duration, token TokenSource) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		token:      token,
	}
}

// BaseURL returns the API base URL this client was configured with.
func (client *Client) BaseURL() string {
	return client.baseURL
}

// get makes a GET request to the API.
func (client *Client) get(ctx context.Context, path string) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	client.authorize(request)
	return client.httpClient.Do(request)
}

// send makes a request with the given method and a JSON body.
func (client *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}
	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	client.authorize(request)
	return client.httpClient.Do(request)
}

func (client *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	return client.send(ctx, http.MethodPost, path, body)
}

func (client *Client) authorize(request *http.Request) {
	if token := client.token(); token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
}

// statusError builds a *StatusError from a non-2xx response,
// consuming the body.
func statusError(response *http.Response) *StatusError {
	return &StatusError{
		Code:    response.StatusCode,
		Message: netutil.ErrorMessage(response.Body),
	}
}
