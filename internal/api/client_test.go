// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sessions", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"sessionId": "sess-42"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	id, err := client.CreateSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sess-42", id)
}

func TestCreateSessionEmptyID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	_, err := NewClient(server.URL).CreateSession(context.Background())
	assert.Error(t, err)
}

func TestHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/sessions/sess-42/history", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"history": []map[string]interface{}{
				{"role": "user", "content": "hello", "timestamp": 1700000000000},
				{"role": "bot", "content": "hi there", "sources": []map[string]string{
					{"title": "Wire", "url": "https://example.com/wire"},
				}, "timestamp": 1700000001000},
			},
		})
	}))
	defer server.Close()

	history, err := NewClient(server.URL).History(context.Background(), "sess-42")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "hello", history[0].Content)
	assert.Equal(t, "hi there", history[1].Content)
	require.Len(t, history[1].Sources, 1)
	assert.Equal(t, "Wire", history[1].Sources[0].Title)
}

func TestHistorySessionNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "unknown session"})
	}))
	defer server.Close()

	_, err := NewClient(server.URL).History(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sess-42", req["sessionId"])
		assert.Equal(t, "what happened today", req["message"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"response": "Top story: ...",
			"sources":  []map[string]string{{"title": "AP", "url": "https://example.com/ap"}},
		})
	}))
	defer server.Close()

	reply, err := NewClient(server.URL).SendMessage(context.Background(), "sess-42", "what happened today")
	require.NoError(t, err)
	assert.Equal(t, "Top story: ...", reply.Response)
	require.Len(t, reply.Sources, 1)
	assert.Equal(t, "AP", reply.Sources[0].Title)
}

func TestClearSession(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	require.NoError(t, NewClient(server.URL).ClearSession(context.Background(), "sess-42"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/sessions/sess-42", gotPath)
}

func TestRetriesOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"sessionId": "sess-42"})
	}))
	defer server.Close()

	id, err := NewClient(server.URL).CreateSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sess-42", id)
	assert.Equal(t, 3, attempts)
}

func TestRetryBudgetExhausted(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).WithMaxRetries(2).CreateSession(context.Background())
	assert.ErrorIs(t, err, ErrServerUnavailable)
	assert.Equal(t, 2, attempts)
}

func TestNoRetryOnClientError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "empty message"})
	}))
	defer server.Close()

	_, err := NewClient(server.URL).SendMessage(context.Background(), "sess-42", "")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "empty message", apiErr.Message)
	assert.Equal(t, 1, attempts)
}

func TestRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).SendMessage(context.Background(), "sess-42", "hi")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestContextCancellationStopsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(server.URL).CreateSession(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTrimsTrailingSlash(t *testing.T) {
	client := NewClient("http://localhost:5000/")
	assert.Equal(t, "http://localhost:5000", client.BaseURL())
}
