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
	"log/slog"
	"net/http"
	"strings"

	"github.com/AleutianAI/Atelier/services/architect/datatypes"
	"github.com/AleutianAI/Atelier/services/architect/pipeline"
	"github.com/AleutianAI/Atelier/services/architect/store"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WSRequest is one client message on the generation websocket.
type WSRequest struct {
	Prompt string `json:"prompt"`
	Action string `json:"action,omitempty"` // "reset"
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024 * 1024,
	WriteBufferSize: 1024 * 1024,
}

func sendJSON(ws *websocket.Conn, v interface{}) error {
	err := ws.WriteJSON(v)
	if err != nil {
		slog.Warn("Failed to write WebSocket JSON", "error", err)
	}
	return err
}

// HandleGenerateWebSocket serves interactive clients: each prompt runs the
// full pipeline while per-attempt progress events stream back live, followed
// by the final result.
func HandleGenerateWebSocket(sessions store.SessionStore, ctrl *pipeline.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("failed to upgrade the websocket", "error", err)
			return
		}
		defer ws.Close()

		session, err := sessions.Create()
		if err != nil {
			slog.Error("Failed to create websocket session", "error", err)
			return
		}
		slog.Info("Websocket client connected", "session_id", session.SessionID)

		if err := sendJSON(ws, map[string]interface{}{
			"action":     "session_created",
			"session_id": session.SessionID,
		}); err != nil {
			return
		}

		for {
			var req WSRequest
			if err := ws.ReadJSON(&req); err != nil {
				slog.Info("Websocket client disconnected", "error", err.Error())
				return
			}

			if req.Action == "reset" {
				newID, err := sessions.Reset(session.SessionID)
				if err != nil {
					_ = sendJSON(ws, map[string]interface{}{"error": "session store unavailable"})
					continue
				}
				session, err = sessions.Get(newID)
				if err != nil {
					_ = sendJSON(ws, map[string]interface{}{"error": "session store unavailable"})
					return
				}
				_ = sendJSON(ws, map[string]interface{}{
					"action":     "session_created",
					"session_id": session.SessionID,
				})
				continue
			}

			if strings.TrimSpace(req.Prompt) == "" {
				_ = sendJSON(ws, map[string]interface{}{"error": "prompt must not be empty"})
				continue
			}

			history := session.AgentHistory()
			session.AppendUserTurn(req.Prompt)
			_ = sessions.Save(session)

			sink := pipeline.EventSinkFunc(func(event pipeline.Event) {
				_ = sendJSON(ws, event)
			})
			result, err := ctrl.RunWithSink(c.Request.Context(), datatypes.ComponentRequest{
				Prompt:    req.Prompt,
				SessionID: session.SessionID,
				History:   history,
			}, sink)
			if err != nil {
				_ = sendJSON(ws, map[string]interface{}{"error": err.Error()})
				continue
			}

			run := result.Run
			if run.Final == nil {
				_ = sendJSON(ws, map[string]interface{}{
					"error":   "no component was generated",
					"history": run.History,
				})
				continue
			}

			summary := buildSummary(req.Prompt, run.Final.Name, run.ValidationPassed())
			session.LastComponent = run.Final
			session.AppendAssistantTurn(run.Final.Name, summary)
			_ = sessions.Save(session)

			if err := sendJSON(ws, buildGenerateResponse(session, run, result.Location, summary)); err != nil {
				return
			}
		}
	}
}
