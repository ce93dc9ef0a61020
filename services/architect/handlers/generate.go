// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers provides the gin HTTP handlers for the architect service.
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/AleutianAI/Atelier/services/architect/datatypes"
	"github.com/AleutianAI/Atelier/services/architect/pipeline"
	"github.com/AleutianAI/Atelier/services/architect/store"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var generateTracer = otel.Tracer("atelier.architect.handlers")

// HandleGenerate runs one generation turn: it loads (or creates) the session,
// feeds the pipeline the conversation context, and persists the outcome back
// into session memory.
func HandleGenerate(sessions store.SessionStore, ctrl *pipeline.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := generateTracer.Start(c.Request.Context(), "HandleGenerate")
		defer span.End()

		var req datatypes.GenerateRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to parse the generate request", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		session, err := sessions.GetOrCreate(req.SessionID)
		if err != nil {
			span.RecordError(err)
			slog.Error("Failed to load session", "session_id", req.SessionID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session store unavailable"})
			return
		}

		// Snapshot the context BEFORE recording the new user turn: the
		// pipeline receives the prompt separately, not as a history message.
		history := session.AgentHistory()
		session.AppendUserTurn(req.Prompt)
		if err := sessions.Save(session); err != nil {
			slog.Error("Failed to persist user turn", "session_id", session.SessionID, "error", err)
		}

		result, err := ctrl.Run(ctx, datatypes.ComponentRequest{
			Prompt:    req.Prompt,
			SessionID: session.SessionID,
			History:   history,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		run := result.Run
		if run.Final == nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "no component was generated",
				"history": run.History,
			})
			return
		}

		summary := buildSummary(req.Prompt, run.Final.Name, run.ValidationPassed())
		session.LastComponent = run.Final
		session.AppendAssistantTurn(run.Final.Name, summary)
		if err := sessions.Save(session); err != nil {
			slog.Error("Failed to persist assistant turn", "session_id", session.SessionID, "error", err)
		}

		c.JSON(http.StatusOK, buildGenerateResponse(session, run, result.Location, summary))
	}
}

// buildSummary produces the one-line turn summary kept in the chat log.
func buildSummary(prompt, componentName string, passed bool) string {
	status := "passed"
	if !passed {
		status = "completed with warnings"
	}
	return fmt.Sprintf("Built '%s' for '%s' — validation %s.", componentName, prompt, status)
}

func buildGenerateResponse(session *datatypes.Session, run *datatypes.PipelineRun,
	location, summary string) datatypes.GenerateResponse {

	return datatypes.GenerateResponse{
		SessionID:        session.SessionID,
		ComponentName:    run.Final.Name,
		TypeScriptCode:   run.Final.TypeScript,
		HTMLTemplate:     run.Final.Template,
		SCSSStyles:       run.Final.Styles,
		Summary:          summary,
		ValidationPassed: run.ValidationPassed(),
		Location:         location,
		History:          run.History,
		ChatLog:          session.ChatLog,
	}
}
