/**
 * @description
 * This package provides a typed client for the Monzo banking API.
 * It encapsulates authenticated HTTP requests against the resource endpoints,
 * form encoding of request bodies, and decoding of the JSON responses.
 *
 * The client is bound to a single access token for its lifetime. It never
 * refreshes the token, retries, or queues requests; callers that need any of
 * that wrap the client. A Client is safe for concurrent use.
 *
 * @dependencies
 * - net/http, net/url, encoding/json, log/slog: Standard Go libraries.
 */
package monzo

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
	"time"
)

const (
	// DefaultBaseURL is the production API host.
	DefaultBaseURL = "https://api.monzo.com"
	// DefaultAuthURL is the page users are sent to when authorising a client.
	DefaultAuthURL = "https://auth.monzo.com/"

	formContentType = "application/x-www-form-urlencoded"
)

// Option configures a Client or AuthorizationClient.
type Option func(*options)

type options struct {
	baseURL    string
	authURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// WithBaseURL overrides the API host, e.g. for tests.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithAuthURL overrides the authorization page used by BuildAuthorizeURL.
func WithAuthURL(authURL string) Option {
	return func(o *options) { o.authURL = authURL }
}

// WithHTTPClient sets the underlying HTTP client. Connection management,
// TLS, proxies and timeouts all belong to it.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) { o.httpClient = httpClient }
}

// WithLogger sets a logger for debug-level request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func newOptions(opts []Option) options {
	o := options{
		baseURL:    DefaultBaseURL,
		authURL:    DefaultAuthURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.baseURL = strings.TrimRight(strings.TrimSpace(o.baseURL), "/")
	return o
}

// Client is a client for the Monzo resource API.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a new API client bound to accessToken.
func NewClient(accessToken string, opts ...Option) *Client {
	o := newOptions(opts)
	return &Client{
		baseURL:     o.baseURL,
		accessToken: accessToken,
		httpClient:  o.httpClient,
		logger:      o.logger,
	}
}

// get issues a GET for requestURI (path plus literal query) and decodes into out.
func (c *Client) get(ctx context.Context, op, requestURI string, out interface{}) error {
	return c.do(ctx, op, http.MethodGet, requestURI, nil, out)
}

// do executes one authenticated request. form is sent as the request body
// when non-nil; out may be nil for operations without a typed response.
func (c *Client) do(ctx context.Context, op, method, requestURI string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+requestURI, body)
	if err != nil {
		return fmt.Errorf("monzo: %s: failed to create request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", formContentType)
	}

	status, respBody, err := roundTrip(c.httpClient, req, op)
	c.logger.DebugContext(ctx, "monzo api call", "op", op, "method", method, "path", req.URL.Path, "status", status)
	if err != nil {
		return err
	}

	if status < 200 || status >= 300 {
		return newAPIError(op, status, respBody)
	}

	return decodeBody(op, respBody, out)
}

// roundTrip sends req and reads the full response body.
func roundTrip(httpClient *http.Client, req *http.Request, op string) (int, []byte, error) {
	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &TransportError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	return resp.StatusCode, respBody, nil
}

func decodeBody(op string, body []byte, out interface{}) error {
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return &DecodeError{Op: op, Body: body, Err: io.ErrUnexpectedEOF}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{Op: op, Body: body, Err: err}
	}
	return nil
}
