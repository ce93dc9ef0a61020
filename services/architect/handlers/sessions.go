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
	"errors"
	"log/slog"
	"net/http"

	"github.com/AleutianAI/Atelier/services/architect/store"
	"github.com/gin-gonic/gin"
)

// ListSessions returns summary rows for every stored session.
func ListSessions(sessions store.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		infos, err := sessions.List()
		if err != nil {
			slog.Error("Failed to list sessions", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session store unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessions": infos, "count": len(infos)})
	}
}

// NewSession creates a brand-new empty session.
func NewSession(sessions store.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := sessions.Create()
		if err != nil {
			slog.Error("Failed to create session", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session store unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"session_id": session.SessionID})
	}
}

// GetSessionHistory returns the chat log of one session.
func GetSessionHistory(sessions store.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("sessionId")
		session, err := sessions.Get(id)
		if errors.Is(err, store.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		if err != nil {
			slog.Error("Failed to load session", "session_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session store unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"session_id": session.SessionID,
			"chat_log":   session.ChatLog,
		})
	}
}

// ResetSession wipes a session and returns a fresh session id.
func ResetSession(sessions store.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("sessionId")
		newID, err := sessions.Reset(id)
		if err != nil {
			slog.Error("Failed to reset session", "session_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session store unavailable"})
			return
		}
		slog.Info("Session reset", "old_session_id", id, "new_session_id", newID)
		c.JSON(http.StatusOK, gin.H{"session_id": newID})
	}
}
