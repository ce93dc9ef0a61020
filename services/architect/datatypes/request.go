// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// This file contains the pipeline input type plus the HTTP request/response
// types for the component generation endpoints.
package datatypes

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Limits
// =============================================================================

const (
	// MaxPromptBytes caps a single user prompt. Checked in bytes, not runes,
	// to bound memory regardless of encoding.
	MaxPromptBytes = 16 * 1024 // 16KB

	// MaxHistoryMessages caps the conversation history carried per request.
	MaxHistoryMessages = 100
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// requestValidate is the validator instance for architect datatypes.
var requestValidate *validator.Validate

func init() {
	requestValidate = validator.New()
	_ = requestValidate.RegisterValidation("promptbytes", validatePromptBytes)
}

func validatePromptBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxPromptBytes
}

// =============================================================================
// Pipeline Input
// =============================================================================

// ComponentRequest is the immutable input for one generation attempt.
//
// The first attempt carries an empty ErrorContext. A retry is represented by
// a NEW ComponentRequest (built via NextAttempt) carrying the latest round's
// violations and the candidate to correct; the original request is never
// mutated once handed to the generator.
type ComponentRequest struct {
	// Prompt is the natural-language component description. Must be non-empty.
	Prompt string `json:"prompt"`

	// SessionID identifies the chat session this turn belongs to.
	SessionID string `json:"session_id"`

	// History is the prior conversation, oldest first, excluding the current
	// user turn (that arrives as Prompt).
	History []Message `json:"history,omitempty"`

	// Prior is the candidate to edit: the previous turn's component on a
	// multi-turn edit, or the failed candidate on a corrective retry.
	Prior *Candidate `json:"prior,omitempty"`

	// ErrorContext holds the violations of the most recent failed round only.
	ErrorContext []Violation `json:"error_context,omitempty"`
}

// Validate rejects caller-supplied-input errors before the state machine
// starts. This is the only fatal error class in the pipeline.
func (r ComponentRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return fmt.Errorf("prompt must not be empty")
	}
	if len(r.Prompt) > MaxPromptBytes {
		return fmt.Errorf("prompt exceeds %d bytes", MaxPromptBytes)
	}
	if len(r.History) > MaxHistoryMessages {
		return fmt.Errorf("history exceeds %d messages", MaxHistoryMessages)
	}
	return nil
}

// NextAttempt builds the request for a corrective retry: same prompt and
// history, the failed candidate as edit context, and exactly the violations
// of the round that just failed.
func (r ComponentRequest) NextAttempt(prior *Candidate, violations []Violation) ComponentRequest {
	return ComponentRequest{
		Prompt:       r.Prompt,
		SessionID:    r.SessionID,
		History:      r.History,
		Prior:        prior,
		ErrorContext: violations,
	}
}

// =============================================================================
// HTTP Request / Response Types
// =============================================================================

// GenerateRequest is the POST /v1/components/generate body.
type GenerateRequest struct {
	// SessionID is optional; an unknown or empty id creates a new session.
	SessionID string `json:"session_id"`

	// Prompt is required and capped at MaxPromptBytes.
	Prompt string `json:"prompt" validate:"required,promptbytes"`
}

// Validate applies the shared validator to the request body.
func (g *GenerateRequest) Validate() error {
	if err := requestValidate.Struct(g); err != nil {
		return fmt.Errorf("invalid generate request: %w", err)
	}
	if strings.TrimSpace(g.Prompt) == "" {
		return fmt.Errorf("invalid generate request: prompt must not be blank")
	}
	return nil
}

// GenerateResponse is the observable result of one pipeline run, returned to
// the HTTP caller and streamed as the final websocket event.
type GenerateResponse struct {
	SessionID        string             `json:"session_id"`
	ComponentName    string             `json:"component_name"`
	TypeScriptCode   string             `json:"typescript_code"`
	HTMLTemplate     string             `json:"html_template"`
	SCSSStyles       string             `json:"scss_styles"`
	Summary          string             `json:"summary"`
	ValidationPassed bool               `json:"validation_passed"`
	Location         string             `json:"location,omitempty"`
	History          []ValidationResult `json:"history"`
	ChatLog          []ChatEntry        `json:"chat_log"`
}
