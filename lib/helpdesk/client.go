// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package helpdesk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/fixflow-project/fixflow/lib/clock"
	"github.com/fixflow-project/fixflow/lib/netutil"
)

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the root URL of the fix-flow-api deployment, e.g.
	// "https://helpdesk.example.com/fix-flow-api". Required.
	BaseURL string

	// Token is the bearer token from a previous sign-in. Optional:
	// a tokenless client can only call SignIn and SignUp.
	Token string

	// HTTPClient is used for all HTTP requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Clock provides time operations for request duration logging.
	// Defaults to clock.Real(). Inject clock.Fake() in tests.
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Client is a typed fix-flow-api REST client. All methods issue
// exactly one HTTP round-trip; there are no retries and no caching.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	clock      clock.Clock
	logger     *slog.Logger
}

// NewClient creates a client from the given configuration. Returns an
// error if BaseURL is missing or unparseable.
func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("helpdesk: BaseURL is required")
	}
	parsed, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("helpdesk: invalid BaseURL %q: %w", config.BaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("helpdesk: BaseURL must be http or https (got %q)", config.BaseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		token:      config.Token,
		httpClient: httpClient,
		clock:      clk,
		logger:     logger,
	}, nil
}

// WithToken returns a copy of the client that authenticates with the
// given bearer token. The receiver is unchanged.
func (client *Client) WithToken(token string) *Client {
	authed := *client
	authed.token = token
	return &authed
}

// do executes one API request. The path is relative to the base URL
// and may carry a query string (e.g. "/main/requests/3/status?status=Closed").
// When requestBody is non-nil it is JSON-encoded. When authenticated
// is true the bearer token is attached; a missing token fails locally
// with ErrNotSignedIn before any request is issued.
//
// Returns the open response; the caller owns the body. Non-2xx
// responses are drained and become *APIError.
func (client *Client) do(ctx context.Context, method, path string, requestBody any, authenticated bool) (*http.Response, error) {
	if authenticated && client.token == "" {
		return nil, ErrNotSignedIn
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("helpdesk: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	requestURL := client.baseURL + path
	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("helpdesk: creating request: %w", err)
	}
	if authenticated {
		request.Header.Set("Authorization", "Bearer "+client.token)
	}
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	started := client.clock.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("helpdesk: %s %s: %w", method, path, err)
	}
	client.logger.Debug("api call",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"elapsed", client.clock.Now().Sub(started),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		defer response.Body.Close()
		body, err := netutil.ReadResponse(response.Body)
		if err != nil {
			return nil, fmt.Errorf("helpdesk: reading response body: %w", err)
		}
		return nil, parseAPIError(response.StatusCode, body)
	}
	return response, nil
}

// get issues an authenticated GET and decodes the JSON response into
// result.
func (client *Client) get(ctx context.Context, path string, result any) error {
	response, err := client.do(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if err := netutil.DecodeResponse(response.Body, result); err != nil {
		return fmt.Errorf("helpdesk: decoding %s response: %w", path, err)
	}
	return nil
}

// post issues an authenticated POST. Pass nil result for endpoints
// that return no body.
func (client *Client) post(ctx context.Context, path string, requestBody any, result any) error {
	response, err := client.do(ctx, http.MethodPost, path, requestBody, true)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if result == nil {
		return nil
	}
	if err := netutil.DecodeResponse(response.Body, result); err != nil {
		return fmt.Errorf("helpdesk: decoding %s response: %w", path, err)
	}
	return nil
}

// patch issues an authenticated PATCH discarding any response body.
func (client *Client) patch(ctx context.Context, path string) error {
	response, err := client.do(ctx, http.MethodPatch, path, nil, true)
	if err != nil {
		return err
	}
	return response.Body.Close()
}
