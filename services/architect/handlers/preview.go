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
	"net/http"

	"github.com/AleutianAI/Atelier/services/architect/preview"
	"github.com/AleutianAI/Atelier/services/architect/store"
	"github.com/gin-gonic/gin"
)

// HandlePreview renders the latest component of a session as a standalone
// HTML page.
func HandlePreview(sessions store.SessionStore, builder *preview.Builder) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("sessionId")
		session, err := sessions.Get(id)
		if errors.Is(err, store.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session store unavailable"})
			return
		}
		if session.LastComponent == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no component in this session yet"})
			return
		}

		html := builder.Build(*session.LastComponent)
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
	}
}
