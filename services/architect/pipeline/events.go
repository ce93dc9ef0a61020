// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package pipeline

import "github.com/AleutianAI/Atelier/services/architect/datatypes"

// EventType identifies a pipeline progress event.
type EventType string

const (
	// EventAttemptStarted fires before each generator call.
	EventAttemptStarted EventType = "attempt_started"

	// EventValidationCompleted fires after each attempt's final validation
	// round, carrying the stage, verdict, and violations.
	EventValidationCompleted EventType = "validation_completed"

	// EventRunFinalized fires once per run with the terminal state.
	EventRunFinalized EventType = "run_finalized"
)

// Event is one progress notification emitted while a run executes. Streamed
// to websocket clients so the UI can show per-attempt progress live.
type Event struct {
	Type       EventType             `json:"type"`
	RunID      string                `json:"run_id"`
	SessionID  string                `json:"session_id"`
	Attempt    int                   `json:"attempt"`
	Stage      datatypes.Stage       `json:"stage,omitempty"`
	Passed     bool                  `json:"passed,omitempty"`
	Violations []datatypes.Violation `json:"violations,omitempty"`
	State      datatypes.RunState    `json:"state,omitempty"`
}

// EventSink receives progress events. Implementations must be fast or buffer
// internally; the controller emits synchronously between pipeline steps.
type EventSink interface {
	Emit(event Event)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(Event)

// Emit implements EventSink.
func (f EventSinkFunc) Emit(event Event) { f(event) }
