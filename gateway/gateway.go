// Package gateway is the uniform request wrapper mediating all calls to the
// remote rental backend. It injects the bearer header, enforces the
// per-request wall-clock budget, and normalizes every failure into an Error
// carrying {status, message} so callers can pattern-match instead of
// inspecting transports.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// fallbackMessage is shown when a backend error body carries no message
	fallbackMessage = "Something went wrong. Please try again."
	// networkMessage is the fixed message for transport-level failures
	networkMessage = "Network error. Please check your connection."

	defaultTimeout = 12 * time.Second
)

// NoContent marks a 204 response: the operation succeeded but there is no
// body to parse.
var NoContent = json.RawMessage("null")

// TokenSource supplies the current bearer token for a request, or "" when
// unauthenticated. It receives the request context so callers serving many
// principals at once can resolve the right token per request.
type TokenSource func(ctx context.Context) string

// StaticToken is a TokenSource that always returns the same token.
func StaticToken(token string) TokenSource {
	return func(context.Context) string { return token }
}

// Client issues requests against the backend REST surface.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	tokenSource TokenSource
	timeout     time.Duration
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (primarily for testing).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the wall-clock budget for a single call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithTokenSource sets where the bearer token for authenticated calls comes
// from (normally the session store).
func WithTokenSource(source TokenSource) Option {
	return func(c *Client) {
		c.tokenSource = source
	}
}

// New creates a gateway client for the backend at baseURL (including any API
// prefix, e.g. "https://api.example.com/api").
func New(baseURL string, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[gateway New] baseURL is required")
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Do issues one request and returns the raw response body on HTTP success.
// A 204 resolves to NoContent. An HTTP failure returns an *Error with the
// response status and the server-supplied message (or a generic fallback).
// A transport failure - no HTTP response at all, including the timeout
// firing - returns an *Error with Status 0 and a fixed network message.
func (c *Client) Do(ctx context.Context, method, path string, body any, authenticated bool) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "[gateway Do] marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "[gateway Do] build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated && c.tokenSource != nil {
		if token := c.tokenSource(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Status: 0, Message: networkMessage}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return NoContent, nil
	}

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Status: 0, Message: networkMessage}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if len(responseBody) == 0 {
			return NoContent, nil
		}
		return json.RawMessage(responseBody), nil
	}

	return nil, &Error{Status: resp.StatusCode, Message: errorMessage(responseBody)}
}

// errorMessage pulls the backend's message field out of an error body,
// falling back to a generic phrase when absent or unparsable.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Message == "" {
		return fallbackMessage
	}
	return payload.Message
}
