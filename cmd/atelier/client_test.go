// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClient_Generate verifies request shape, bearer header, and response
// decoding.
func TestClient_Generate(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/components/generate", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a login card", body["prompt"])
		assert.Equal(t, "sess-1", body["session_id"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"session_id":        "sess-1",
			"component_name":    "LoginCardComponent",
			"validation_passed": true,
		})
	}))
	defer server.Close()

	client := newArchitectClient(server.URL, "tok-123")
	resp, err := client.Generate(context.Background(), "sess-1", "a login card")

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "LoginCardComponent", resp.ComponentName)
	assert.True(t, resp.ValidationPassed)
}

// TestClient_ErrorBodySurfaced verifies the server's error message reaches
// the caller.
func TestClient_ErrorBodySurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "prompt must not be blank"})
	}))
	defer server.Close()

	client := newArchitectClient(server.URL, "")
	_, err := client.Generate(context.Background(), "", "   ")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt must not be blank")
	assert.Contains(t, err.Error(), "400")
}

func TestClient_SessionEndpoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/sessions/new":
			_ = json.NewEncoder(w).Encode(map[string]string{"session_id": "fresh-id"})
		case "/v1/sessions":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"sessions": []map[string]any{{"session_id": "s1", "turns": 2}},
				"count":    1,
			})
		case "/v1/sessions/s1/history":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"session_id": "s1",
				"chat_log":   []map[string]string{{"role": "user", "content": "a card"}},
			})
		case "/v1/sessions/s1":
			require.Equal(t, http.MethodDelete, r.Method)
			_ = json.NewEncoder(w).Encode(map[string]string{"session_id": "replacement"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := newArchitectClient(server.URL, "")
	ctx := context.Background()

	id, err := client.NewSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fresh-id", id)

	infos, err := client.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "s1", infos[0].SessionID)
	assert.Equal(t, 2, infos[0].Turns)

	entries, err := client.SessionHistory(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "user", entries[0].Role)

	assert.NoError(t, client.DeleteSession(ctx, "s1"))
}

func TestClient_Preview(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/components/s1/preview", r.URL.Path)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<!DOCTYPE html><html></html>"))
	}))
	defer server.Close()

	client := newArchitectClient(server.URL, "")
	html, err := client.Preview(context.Background(), "s1")

	require.NoError(t, err)
	assert.Contains(t, html, "<!DOCTYPE html>")
}

func TestClient_TrailingSlashNormalized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newArchitectClient(server.URL+"/", "")
	assert.NoError(t, client.Health(context.Background()))
}
