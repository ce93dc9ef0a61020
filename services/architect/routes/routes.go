// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/AleutianAI/Atelier/services/architect/handlers"
	"github.com/AleutianAI/Atelier/services/architect/middleware"
	"github.com/AleutianAI/Atelier/services/architect/pipeline"
	"github.com/AleutianAI/Atelier/services/architect/preview"
	"github.com/AleutianAI/Atelier/services/architect/store"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes registers every endpoint of the architect service.
func SetupRoutes(router *gin.Engine, sessions store.SessionStore, ctrl *pipeline.Controller,
	previews *preview.Builder, authToken string) {

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	v1.Use(middleware.AuthMiddleware(authToken))
	{
		components := v1.Group("/components")
		{
			components.POST("/generate", handlers.HandleGenerate(sessions, ctrl))
			components.GET("/ws", handlers.HandleGenerateWebSocket(sessions, ctrl))
			components.GET("/:sessionId/preview", handlers.HandlePreview(sessions, previews))
		}

		// Session administration routes
		sessionGroup := v1.Group("/sessions")
		{
			sessionGroup.GET("", handlers.ListSessions(sessions))
			sessionGroup.GET("/new", handlers.NewSession(sessions))
			sessionGroup.GET("/:sessionId/history", handlers.GetSessionHistory(sessions))
			sessionGroup.DELETE("/:sessionId", handlers.ResetSession(sessions))
		}
	}
}
