// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the stateless HTTP client for the news assistant
// backend. It covers session creation, history retrieval, session clearing,
// and the request/response chat fallback used when the push channel is down.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Configuration constants for the backend API.
const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for
	// transient errors.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// MaxResponseSize is the maximum allowed response body size.
	// Response size limit prevents memory exhaustion on a misbehaving server.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB
)

// sharedHTTPClient is the pooled HTTP client for all backend requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
	Timeout: DefaultTimeout,
}

// Error variables for common backend errors.
var (
	// ErrSessionNotFound indicates the backend no longer knows the session.
	ErrSessionNotFound = errors.New("session not found")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrServerUnavailable indicates the backend could not be reached or
	// kept failing after the retry budget was spent.
	ErrServerUnavailable = errors.New("server unavailable")
)

// APIError represents an error response from the backend.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// Source mirrors the citation shape in backend payloads.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// HistoryEntry is one message in a session's server-side history.
type HistoryEntry struct {
	Role      string   `json:"role"`
	Content   string   `json:"content"`
	Sources   []Source `json:"sources,omitempty"`
	Timestamp int64    `json:"timestamp"`
}

// ChatReply is the response body of the fallback chat call.
type ChatReply struct {
	Response string   `json:"response"`
	Sources  []Source `json:"sources"`
}

// sessionResponse is the response body of session creation.
type sessionResponse struct {
	SessionID string `json:"sessionId"`
}

// historyResponse is the response body of the history call.
type historyResponse struct {
	History []HistoryEntry `json:"history"`
}

// chatRequest is the request body of the fallback chat call.
type chatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// apiErrorResponse is the backend's error body shape.
type apiErrorResponse struct {
	Error string `json:"error"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the news assistant backend over plain HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: sharedHTTPClient,
		maxRetries: DefaultMaxRetries,
	}
}

// WithTimeout sets the request timeout. This detaches the client from the
// shared pooled transport's default timeout without altering the pool.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	clone := *sharedHTTPClient
	clone.Timeout = timeout
	c.httpClient = &clone
	return c
}

// WithMaxRetries sets the retry budget for transient errors.
func (c *Client) WithMaxRetries(maxRetries int) *Client {
	if maxRetries < 0 {
		maxRetries = 0
	}
	c.maxRetries = maxRetries
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// SESSION OPERATIONS
// =============================================================================

// CreateSession asks the backend for a fresh session and returns its id.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	var out sessionResponse
	if err := c.doJSON(ctx, http.MethodPost, "/sessions", nil, &out); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	if out.SessionID == "" {
		return "", errors.New("create session: backend returned empty session id")
	}
	return out.SessionID, nil
}

// History fetches the stored message history for a session, in server order.
func (c *Client) History(ctx context.Context, sessionID string) ([]HistoryEntry, error) {
	var out historyResponse
	path := "/sessions/" + sessionID + "/history"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return out.History, nil
}

// ClearSession deletes the session's server-side state (fallback reset path).
func (c *Client) ClearSession(ctx context.Context, sessionID string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/sessions/"+sessionID, nil, nil); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// SendMessage performs the synchronous request/response chat call. It is the
// fallback when no push channel is connected; the reply arrives in the
// response body rather than as a channel event.
func (c *Client) SendMessage(ctx context.Context, sessionID, text string) (*ChatReply, error) {
	body := chatRequest{SessionID: sessionID, Message: text}
	var out ChatReply
	if err := c.doJSON(ctx, http.MethodPost, "/chat", body, &out); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return &out, nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// doJSON performs a request with retry and decodes the JSON response into out
// (out may be nil for calls whose body is irrelevant).
func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	resp, err := c.doWithRetry(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// doWithRetry performs an HTTP request with exponential backoff on transient
// failures (connection errors and 5xx). Non-transient statuses are returned
// to the caller for error mapping. Delays: 500ms, 1s, 2s.
func (c *Client) doWithRetry(ctx context.Context, method, url string, payload []byte) (*http.Response, error) {
	attempts := c.maxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "newsdesk/1.0")

		resp, err := c.httpClient.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		lastErr = err
		if resp != nil {
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp.Body.Close()
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryBaseDelay << attempt):
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrServerUnavailable, lastErr)
}

// decodeAPIError maps a non-2xx response onto the error taxonomy.
func decodeAPIError(status int, body []byte) error {
	message := ""
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil {
		message = apiErr.Error
	}

	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrSessionNotFound, message)
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	return &APIError{Status: status, Message: message}
}
