// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/Atelier/services/architect/datatypes"
	"github.com/AleutianAI/Atelier/services/architect/design"
	"github.com/AleutianAI/Atelier/services/architect/preview"
	"github.com/AleutianAI/Atelier/services/architect/store"
)

func newSessionRouter(t *testing.T) (*gin.Engine, store.SessionStore) {
	t.Helper()
	sessions, err := store.Open(store.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sessions.Close() })

	rules, err := design.NewRuleSet()
	require.NoError(t, err)

	router := gin.New()
	router.GET("/v1/sessions", ListSessions(sessions))
	router.GET("/v1/sessions/new", NewSession(sessions))
	router.GET("/v1/sessions/:sessionId/history", GetSessionHistory(sessions))
	router.DELETE("/v1/sessions/:sessionId", ResetSession(sessions))
	router.GET("/v1/components/:sessionId/preview", HandlePreview(sessions, preview.NewBuilder(rules)))
	router.GET("/health", HealthCheck)
	return router, sessions
}

func doRequest(t *testing.T, router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestNewSessionAndList(t *testing.T) {
	router, _ := newSessionRouter(t)

	created := doRequest(t, router, http.MethodGet, "/v1/sessions/new")
	require.Equal(t, http.StatusOK, created.Code)
	var newResp struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &newResp))
	assert.NotEmpty(t, newResp.SessionID)

	listed := doRequest(t, router, http.MethodGet, "/v1/sessions")
	require.Equal(t, http.StatusOK, listed.Code)
	var listResp struct {
		Sessions []datatypes.SessionInfo `json:"sessions"`
		Count    int                     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(listed.Body.Bytes(), &listResp))
	assert.Equal(t, 1, listResp.Count)
	assert.Equal(t, newResp.SessionID, listResp.Sessions[0].SessionID)
}

func TestGetSessionHistory(t *testing.T) {
	router, sessions := newSessionRouter(t)
	session, err := sessions.Create()
	require.NoError(t, err)
	session.AppendUserTurn("a hero banner")
	session.AppendAssistantTurn("HeroComponent", "Built 'HeroComponent'")
	require.NoError(t, sessions.Save(session))

	rec := doRequest(t, router, http.MethodGet, "/v1/sessions/"+session.SessionID+"/history")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		SessionID string                `json:"session_id"`
		ChatLog   []datatypes.ChatEntry `json:"chat_log"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, session.SessionID, resp.SessionID)
	require.Len(t, resp.ChatLog, 2)
	assert.Equal(t, "user", resp.ChatLog[0].Role)
}

func TestGetSessionHistory_NotFound(t *testing.T) {
	router, _ := newSessionRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/sessions/unknown/history")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResetSession(t *testing.T) {
	router, sessions := newSessionRouter(t)
	session, err := sessions.Create()
	require.NoError(t, err)

	rec := doRequest(t, router, http.MethodDelete, "/v1/sessions/"+session.SessionID)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEqual(t, session.SessionID, resp.SessionID)

	_, err = sessions.Get(session.SessionID)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestHandlePreview(t *testing.T) {
	router, sessions := newSessionRouter(t)
	session, err := sessions.Create()
	require.NoError(t, err)
	session.LastComponent = &datatypes.Candidate{
		Name:     "HeroComponent",
		Template: "<header><h1>{{ title }}</h1></header>",
		Styles:   ".hero { color: #6366f1; }",
	}
	require.NoError(t, sessions.Save(session))

	rec := doRequest(t, router, http.MethodGet, "/v1/components/"+session.SessionID+"/preview")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "HeroComponent")
	assert.Contains(t, rec.Body.String(), "<!DOCTYPE html>")
}

func TestHandlePreview_NoComponentYet(t *testing.T) {
	router, sessions := newSessionRouter(t)
	session, err := sessions.Create()
	require.NoError(t, err)

	rec := doRequest(t, router, http.MethodGet, "/v1/components/"+session.SessionID+"/preview")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlePreview_UnknownSession(t *testing.T) {
	router, _ := newSessionRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/components/unknown/preview")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	router, _ := newSessionRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/health")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
