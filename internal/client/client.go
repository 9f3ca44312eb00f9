package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout bounds every request including the transparent retry
const DefaultTimeout = 30 * time.Second

// authRetryBudget is how many times a request is replayed after a
// successful token refresh. One: a second 401 means the new access token
// is not accepted either, and retrying further cannot help.
const authRetryBudget = 1

// Client is an authenticated HTTP client for the cleaning API.
// A 401 response triggers at most one token refresh and one replay of the
// original request; concurrent requests share a single refresh.
type Client struct {
	baseURL string
	http    *http.Client
	store   TokenStore

	// refreshMu makes the refresh single-flight
	refreshMu sync.Mutex

	// onUnauthenticated fires when the session cannot be recovered,
	// after the stored tokens have been cleared
	onUnauthenticated func()
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithTimeout overrides the default request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

// WithOnUnauthenticated registers a callback invoked once per lost session
func WithOnUnauthenticated(fn func()) Option {
	return func(c *Client) {
		c.onUnauthenticated = fn
	}
}

// New creates a client for the given server base URL
func New(baseURL string, store TokenStore, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		store:   store,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Store returns the client's token store
func (c *Client) Store() TokenStore {
	return c.store
}

// do executes one request against the API. The body must be replayable,
// so it is passed as bytes. retries is the remaining auth retry budget.
func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte, retries int) (*http.Response, error) {
	access := c.store.Access()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && retries > 0 {
		resp.Body.Close()

		if err := c.refreshAccess(ctx, access); err != nil {
			return nil, err
		}

		replay, err := c.do(ctx, method, path, contentType, body, retries-1)
		if err != nil {
			return nil, err
		}
		if replay.StatusCode == http.StatusUnauthorized {
			// The freshly minted access token was rejected too, so the
			// session cannot be recovered
			replay.Body.Close()
			return nil, c.sessionExpired()
		}
		return replay, nil
	}

	return resp, nil
}

// refreshAccess exchanges the refresh token for a new access token.
// Single-flight: when several requests hit 401 at once, the first one
// refreshes and the rest reuse its result.
func (c *Client) refreshAccess(ctx context.Context, staleAccess string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	// Someone else already refreshed while we waited for the lock
	if current := c.store.Access(); current != "" && current != staleAccess {
		return nil
	}

	refresh := c.store.Refresh()
	if refresh == "" {
		return c.sessionExpired()
	}

	payload, err := json.Marshal(map[string]string{"refresh": refresh})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/refresh/", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// A refresh that cannot complete ends the session the same way a
		// rejected one does
		return fmt.Errorf("%w: %v", c.sessionExpired(), err)
	}
	defer resp.Body.Close()

	// Any refresh failure is terminal, the session is over
	if resp.StatusCode != http.StatusOK {
		return c.sessionExpired()
	}

	var result struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	if result.Access == "" {
		return c.sessionExpired()
	}

	return c.store.SetAccess(result.Access)
}

// sessionExpired clears the stored session and signals the owner
func (c *Client) sessionExpired() error {
	_ = c.store.Clear()
	if c.onUnauthenticated != nil {
		c.onUnauthenticated()
	}
	return ErrUnauthenticated
}

// getJSON performs an authenticated GET and decodes the JSON response
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, "", nil, authRetryBudget)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out)
}

// postJSON performs an authenticated POST with a JSON body
func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodPost, path, "application/json", body, authRetryBudget)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out)
}

// patchJSON performs an authenticated PATCH with a JSON body
func (c *Client) patchJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodPatch, path, "application/json", body, authRetryBudget)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out)
}

// deleteJSON performs an authenticated DELETE
func (c *Client) deleteJSON(ctx context.Context, path string) error {
	resp, err := c.do(ctx, http.MethodDelete, path, "", nil, authRetryBudget)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil)
}

// postMultipart performs an authenticated POST with an encoded multipart body
func (c *Client) postMultipart(ctx context.Context, path, contentType string, body []byte, out interface{}) error {
	resp, err := c.do(ctx, http.MethodPost, path, contentType, body, authRetryBudget)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out)
}

// decodeJSON consumes the response, turning error statuses into *APIError
func decodeJSON(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return responseError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// responseError builds an *APIError from an error response, reading the
// {"detail": ...} body when present
func responseError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil {
		apiErr.Detail = body.Detail
	}
	return apiErr
}
