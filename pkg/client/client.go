// pkg/client/client.go
//
// Package client is a Go client for the allergy-alert HTTP API. Every
// call resolves to a tagged Result instead of returning a Go error, so
// callers branch on Success rather than wrapping each call in error
// handling. Transport failures, timeouts and non-2xx statuses are
// classified into ErrorKind buckets.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds each call when the caller supplies no timeout.
const DefaultTimeout = 30 * time.Second

// OwnerHeader identifies the profile owner on every request.
const OwnerHeader = "X-Owner-ID"

// ErrorKind buckets every possible call failure.
type ErrorKind string

const (
	// KindNetwork covers DNS, connection and response-read failures.
	KindNetwork ErrorKind = "network"
	// KindTimeout covers deadline expiry, either the call timeout or the
	// caller's context.
	KindTimeout ErrorKind = "timeout"
	// KindHTTPStatus covers responses with a non-2xx status code.
	KindHTTPStatus ErrorKind = "http_status"
)

// CallError describes a failed call. Code is only set for
// KindHTTPStatus, where it carries the response status.
type CallError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Code    int       `json:"code,omitempty"`
}

// Result is the outcome of one API call. Exactly one of Data and Error
// is meaningful: Data when Success is true, Error otherwise.
type Result[T any] struct {
	Success bool       `json:"success"`
	Data    T          `json:"data,omitempty"`
	Error   *CallError `json:"error,omitempty"`
}

func ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func fail[T any](kind ErrorKind, message string, code int) Result[T] {
	return Result[T]{Success: false, Error: &CallError{Kind: kind, Message: message, Code: code}}
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient swaps the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// Client talks to one allergy-alert server on behalf of one owner.
type Client struct {
	baseURL string
	ownerID string
	timeout time.Duration
	http    *http.Client
}

func New(baseURL, ownerID string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		ownerID: ownerID,
		timeout: DefaultTimeout,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmitProfile stores the owner's allergy profile.
func (c *Client) SubmitProfile(ctx context.Context, sub ProfileSubmission) Result[Profile] {
	return call[Profile](ctx, c, http.MethodPut, "/api/v1/profile", sub)
}

// GetProfile fetches the owner's stored profile.
func (c *Client) GetProfile(ctx context.Context) Result[Profile] {
	return call[Profile](ctx, c, http.MethodGet, "/api/v1/profile", nil)
}

// ClearProfile deletes the owner's stored profile.
func (c *Client) ClearProfile(ctx context.Context) Result[struct{}] {
	return call[struct{}](ctx, c, http.MethodDelete, "/api/v1/profile", nil)
}

// Lookup runs a restaurant safety lookup.
func (c *Client) Lookup(ctx context.Context, req LookupRequest) Result[LookupResult] {
	return call[LookupResult](ctx, c, http.MethodPost, "/api/v1/lookup", req)
}

// FetchHistory returns the owner's most recent lookups.
func (c *Client) FetchHistory(ctx context.Context, limit int) Result[HistoryPage] {
	path := "/api/v1/history"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	return call[HistoryPage](ctx, c, http.MethodGet, path, nil)
}

// call performs one request and classifies every failure mode into a
// Result. It never panics and never returns a Go error.
func call[T any](ctx context.Context, c *Client, method, path string, body interface{}) Result[T] {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fail[T](KindNetwork, fmt.Sprintf("encode request body: %v", err), 0)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fail[T](KindNetwork, fmt.Sprintf("build request: %v", err), 0)
	}
	req.Header.Set(OwnerHeader, c.ownerID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fail[T](KindTimeout, fmt.Sprintf("request timed out after %s", c.timeout), 0)
		}
		return fail[T](KindNetwork, fmt.Sprintf("request failed: %v", err), 0)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail[T](KindNetwork, fmt.Sprintf("read response body: %v", err), 0)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail[T](KindHTTPStatus, statusMessage(resp.StatusCode, payload), resp.StatusCode)
	}

	var data T
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &data); err != nil {
			return fail[T](KindNetwork, fmt.Sprintf("decode response body: %v", err), 0)
		}
	}
	return ok(data)
}

// statusMessage prefers the server's error message when the body is the
// standard error shape.
func statusMessage(status int, payload []byte) string {
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err == nil && body.Message != "" {
		if body.Code != "" {
			return fmt.Sprintf("%s: %s", body.Code, body.Message)
		}
		return body.Message
	}
	return fmt.Sprintf("unexpected status %d", status)
}
