// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"fmt"
	"time"
)

// Message is one chat turn passed to the generator model.
type Message struct {
	Role    string `json:"role"` // "system" | "user" | "assistant"
	Content string `json:"content"`
}

// ChatEntry is one rendered chat-panel line kept in the session log.
// Summary is set on assistant entries only.
type ChatEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Summary string `json:"summary,omitempty"`
}

// Session holds the multi-turn memory for one user: the conversation history
// fed back to the generator, the last finalized candidate (edit context for
// follow-up prompts), and the chat log surfaced to clients.
type Session struct {
	SessionID     string      `json:"session_id"`
	History       []Message   `json:"conversation_history"`
	LastComponent *Candidate  `json:"last_component,omitempty"`
	ChatLog       []ChatEntry `json:"chat_log"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// NewSession creates an empty session with the given id.
func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{SessionID: id, CreatedAt: now, UpdatedAt: now}
}

// AgentHistory returns the history slice handed to the generator for the next
// turn: the stored conversation plus, when a previous component exists, one
// assistant message carrying its source so follow-up prompts edit rather than
// restart from scratch.
func (s *Session) AgentHistory() []Message {
	history := make([]Message, len(s.History))
	copy(history, s.History)
	if s.LastComponent != nil {
		prev := s.LastComponent
		history = append(history, Message{
			Role: "assistant",
			Content: fmt.Sprintf(
				"Previously generated component '%s':\nTypeScript:\n%s\n\nHTML:\n%s",
				prev.Name, prev.TypeScript, prev.Template),
		})
	}
	return history
}

// AppendUserTurn records the incoming prompt in both the model-facing history
// and the client-facing chat log.
func (s *Session) AppendUserTurn(prompt string) {
	s.History = append(s.History, Message{Role: "user", Content: prompt})
	s.ChatLog = append(s.ChatLog, ChatEntry{Role: "user", Content: prompt})
	s.UpdatedAt = time.Now().UTC()
}

// AppendAssistantTurn records the turn's outcome after finalization.
func (s *Session) AppendAssistantTurn(componentName, summary string) {
	msg := fmt.Sprintf("Generated component '%s' successfully.", componentName)
	s.History = append(s.History, Message{Role: "assistant", Content: msg})
	s.ChatLog = append(s.ChatLog, ChatEntry{Role: "assistant", Content: msg, Summary: summary})
	s.UpdatedAt = time.Now().UTC()
}

// SessionInfo is the listing row returned by the session admin endpoints.
type SessionInfo struct {
	SessionID string    `json:"session_id"`
	Turns     int       `json:"turns"`
	UpdatedAt time.Time `json:"updated_at"`
}
