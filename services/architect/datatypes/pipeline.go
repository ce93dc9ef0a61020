// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides data structures for the architect service.
//
// This file contains the pipeline state machine types. A PipelineRun is the
// single mutable object of one generation run; everything else produced during
// the run (ComponentRequest, Candidate, ValidationResult) is immutable once
// created and superseded rather than modified on retry.
package datatypes

import (
	"errors"
	"time"
)

// =============================================================================
// Run States
// =============================================================================

// RunState represents a state in the generation pipeline state machine.
//
// A run starts in RunPending and transitions exactly once to one of the two
// terminal states. There is no error terminal state: every in-loop failure is
// absorbed into RunDoneWithWarnings.
type RunState string

const (
	// RunPending is the non-terminal state while attempts are in flight.
	RunPending RunState = "pending"

	// RunDone indicates the final candidate passed both validation stages.
	RunDone RunState = "done"

	// RunDoneWithWarnings indicates the retry ceiling was exhausted and the
	// last produced candidate was finalized best-effort.
	RunDoneWithWarnings RunState = "done_with_warnings"
)

// String returns the state as a string (e.g. "pending", "done").
func (s RunState) String() string {
	return string(s)
}

// IsTerminal returns true for RunDone and RunDoneWithWarnings.
func (s RunState) IsTerminal() bool {
	return s == RunDone || s == RunDoneWithWarnings
}

// =============================================================================
// Validation Stages and Error Kinds
// =============================================================================

// Stage tags which layer of the pipeline produced a ValidationResult.
type Stage string

const (
	// StageGeneration marks an attempt whose model call produced no usable
	// candidate. Recorded so that history length always equals attempt count.
	StageGeneration Stage = "generation"

	// StageRule is the deterministic, non-model validation layer.
	StageRule Stage = "rule"

	// StageCritic is the model-based semantic validation layer.
	StageCritic Stage = "critic"
)

// ErrorKind classifies a single violation inside a ValidationResult.
type ErrorKind string

const (
	// KindGenerationFailure means the generator model call did not return
	// usable structured output (transport error, malformed payload).
	KindGenerationFailure ErrorKind = "generation_failure"

	// KindRuleViolation is a deterministic policy breach (color, marker,
	// brace or tag balance).
	KindRuleViolation ErrorKind = "rule_violation"

	// KindCriticFlagged is a semantic issue reported by the critic model.
	KindCriticFlagged ErrorKind = "critic_flagged"

	// KindCriticUnavailable means the critic call itself failed. Non-fatal:
	// the stage is downgraded to an implicit pass.
	KindCriticUnavailable ErrorKind = "critic_unavailable"
)

// Violation is one reported problem: what kind it is and a human-readable
// message suitable for injection into a corrective generator prompt.
type Violation struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// ValidationResult is the outcome of one validation round for one attempt.
//
// Invariant: when Stage is StageRule and Passed is false, the critic stage is
// never invoked for that attempt (the controller short-circuits).
type ValidationResult struct {
	Stage      Stage       `json:"stage"`
	Passed     bool        `json:"passed"`
	Violations []Violation `json:"violations,omitempty"`
}

// Messages returns the violation messages in report order.
func (v ValidationResult) Messages() []string {
	out := make([]string, 0, len(v.Violations))
	for _, viol := range v.Violations {
		out = append(out, viol.Message)
	}
	return out
}

// =============================================================================
// PipelineRun
// =============================================================================

var (
	// ErrRunTerminal is returned when mutating a run that already reached a
	// terminal state. This is a programming error, not a runtime condition.
	ErrRunTerminal = errors.New("pipeline run is already terminal")

	// ErrRunNotTerminal is returned when the finalizer is handed a run that
	// has not been driven to a terminal state.
	ErrRunNotTerminal = errors.New("pipeline run is not terminal")

	// ErrAttemptsExhausted is returned when recording an attempt beyond
	// ceiling+1 total attempts.
	ErrAttemptsExhausted = errors.New("attempt count would exceed retry ceiling")
)

// PipelineRun is the state-machine instance for one generation request.
//
// Only the retry controller mutates a run, and only on its own goroutine;
// runs for distinct sessions never share state. The zero value is not usable,
// use NewPipelineRun.
type PipelineRun struct {
	ID           string             `json:"id"`
	SessionID    string             `json:"session_id"`
	RetryCeiling int                `json:"retry_ceiling"`
	State        RunState           `json:"state"`
	History      []ValidationResult `json:"history"`
	Final        *Candidate         `json:"final,omitempty"`
	StartedAt    time.Time          `json:"started_at"`
	FinishedAt   time.Time          `json:"finished_at,omitzero"`
}

// NewPipelineRun creates a pending run with the given retry ceiling.
// A ceiling of N allows N corrective regenerations, i.e. N+1 total attempts.
func NewPipelineRun(id, sessionID string, retryCeiling int) *PipelineRun {
	return &PipelineRun{
		ID:           id,
		SessionID:    sessionID,
		RetryCeiling: retryCeiling,
		State:        RunPending,
		StartedAt:    time.Now().UTC(),
	}
}

// Attempts returns the number of completed attempts. History length equals
// attempt count by construction.
func (r *PipelineRun) Attempts() int {
	return len(r.History)
}

// RecordAttempt appends the final ValidationResult of one attempt.
func (r *PipelineRun) RecordAttempt(result ValidationResult) error {
	if r.State.IsTerminal() {
		return ErrRunTerminal
	}
	if len(r.History) >= r.RetryCeiling+1 {
		return ErrAttemptsExhausted
	}
	r.History = append(r.History, result)
	return nil
}

// Finalize transitions the run to a terminal state exactly once and pins the
// chosen candidate.
func (r *PipelineRun) Finalize(final *Candidate, state RunState) error {
	if r.State.IsTerminal() {
		return ErrRunTerminal
	}
	if !state.IsTerminal() {
		return ErrRunNotTerminal
	}
	r.State = state
	r.Final = final
	r.FinishedAt = time.Now().UTC()
	return nil
}

// LatestViolations returns the violations of the most recent attempt only.
// Corrective prompts carry exactly the latest round, never a mix of rounds.
func (r *PipelineRun) LatestViolations() []Violation {
	if len(r.History) == 0 {
		return nil
	}
	return r.History[len(r.History)-1].Violations
}

// Warnings flattens every violation across all attempts, in attempt order.
// Used to surface diagnostics upstream after finalization.
func (r *PipelineRun) Warnings() []Violation {
	var out []Violation
	for _, res := range r.History {
		out = append(out, res.Violations...)
	}
	return out
}

// ValidationPassed reports whether the run finished clean.
func (r *PipelineRun) ValidationPassed() bool {
	return r.State == RunDone
}
