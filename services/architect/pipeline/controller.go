// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package pipeline implements the generation-validation-correction state
// machine that turns a natural-language component description into a
// validated, styled component.
//
// One run is a strictly sequential chain of at most MaxRetries+1 generation
// attempts. Each attempt flows
//
//	generator → rule validator → (pass → critic validator | fail → retry)
//
// and the controller decides after every round whether to re-invoke the
// generator with the latest round's violations injected, or to finalize.
// Runs for distinct sessions share only the read-only design policy and may
// execute concurrently; nothing inside a run is shared or locked.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/AleutianAI/Atelier/services/architect/datatypes"
	"github.com/google/uuid"
)

// MaxRetries is the retry ceiling: the maximum number of corrective
// regenerations after the initial attempt, so a run performs at most
// MaxRetries+1 generation attempts in total.
const MaxRetries = 2

// DefaultCallTimeout bounds each individual model call. A timeout is treated
// like any other model failure for that stage, never as a run-level abort.
const DefaultCallTimeout = 2 * time.Minute

// Config tunes a Controller. The zero value is completed with defaults.
type Config struct {
	RetryCeiling int
	CallTimeout  time.Duration
}

func (c Config) withDefaults() Config {
	if c.RetryCeiling <= 0 {
		c.RetryCeiling = MaxRetries
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = DefaultCallTimeout
	}
	return c
}

// Result is the observable outcome of one pipeline run.
type Result struct {
	Run *datatypes.PipelineRun

	// Location is where the workspace persisted the final candidate; empty
	// when nothing was produced.
	Location string
}

// Controller orchestrates the retry loop. It owns the only mutable state of
// a run (the PipelineRun) and drives the generator, the two validators, and
// the finalizer.
type Controller struct {
	cfg       Config
	generator *Generator
	rules     *RuleValidator
	critic    *Critic
	finalizer *Finalizer
}

// NewController assembles the state machine from its collaborators.
func NewController(cfg Config, gen *Generator, rules *RuleValidator, critic *Critic, fin *Finalizer) *Controller {
	return &Controller{
		cfg:       cfg.withDefaults(),
		generator: gen,
		rules:     rules,
		critic:    critic,
		finalizer: fin,
	}
}

// Run executes one full pipeline run without progress events.
func (c *Controller) Run(ctx context.Context, req datatypes.ComponentRequest) (*Result, error) {
	return c.RunWithSink(ctx, req, nil)
}

// RunWithSink executes one full pipeline run, emitting progress events to the
// sink when it is non-nil.
//
// Only a caller-supplied-input error (empty prompt, oversized payload) is
// returned as an error, and only before the state machine starts. Every
// in-loop condition is absorbed into the run's history and terminal state.
func (c *Controller) RunWithSink(ctx context.Context, req datatypes.ComponentRequest, sink EventSink) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	run := datatypes.NewPipelineRun(uuid.New().String(), req.SessionID, c.cfg.RetryCeiling)
	slog.Info("Pipeline run started", "run_id", run.ID, "session_id", req.SessionID,
		"retry_ceiling", run.RetryCeiling)

	current := req
	var last *datatypes.Candidate

	for {
		attempt := run.Attempts()
		c.emit(sink, Event{
			Type: EventAttemptStarted, RunID: run.ID, SessionID: run.SessionID, Attempt: attempt,
		})
		attemptsTotal.Inc()

		candidate, result := c.runAttempt(ctx, current, attempt)
		if candidate != nil {
			last = candidate
		}

		if err := run.RecordAttempt(result); err != nil {
			// Unreachable by construction of the loop below; fail loud.
			panic("pipeline: " + err.Error())
		}
		if !result.Passed {
			validationFailuresTotal.WithLabelValues(string(result.Stage)).Inc()
		}
		c.emit(sink, Event{
			Type: EventValidationCompleted, RunID: run.ID, SessionID: run.SessionID,
			Attempt: attempt, Stage: result.Stage, Passed: result.Passed,
			Violations: result.Violations,
		})

		if result.Passed {
			slog.Info("Validation passed, finalizing", "run_id", run.ID, "attempt", attempt+1)
			c.finalize(run, last, datatypes.RunDone)
			break
		}

		if run.Attempts() > run.RetryCeiling {
			slog.Warn("Max retries reached, finalizing with errors",
				"run_id", run.ID, "attempts", run.Attempts(),
				"violations", len(result.Violations))
			c.finalize(run, last, datatypes.RunDoneWithWarnings)
			break
		}

		slog.Info("Retrying with corrective context", "run_id", run.ID,
			"attempt", run.Attempts(), "of", run.RetryCeiling,
			"violations", len(result.Violations))
		// The next request carries exactly this round's violations plus the
		// failed candidate as edit context; earlier rounds are not replayed.
		current = current.NextAttempt(last, result.Violations)
	}

	runDurationSeconds.Observe(run.FinishedAt.Sub(run.StartedAt).Seconds())
	runsTotal.WithLabelValues(run.State.String()).Inc()
	c.emit(sink, Event{
		Type: EventRunFinalized, RunID: run.ID, SessionID: run.SessionID,
		Attempt: run.Attempts() - 1, State: run.State,
	})

	location, err := c.finalizer.Persist(run)
	if err != nil {
		// Persistence is delegated; a write failure degrades the result but
		// never un-finalizes a completed run.
		slog.Error("Failed to persist finalized component", "run_id", run.ID, "error", err)
	}
	return &Result{Run: run, Location: location}, nil
}

// runAttempt performs one generation attempt plus its validation round(s) and
// returns the candidate (nil on generation failure) and the attempt's final
// ValidationResult.
func (c *Controller) runAttempt(ctx context.Context, req datatypes.ComponentRequest, attempt int) (*datatypes.Candidate, datatypes.ValidationResult) {
	genCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	candidate, err := c.generator.Generate(genCtx, req, attempt)
	cancel()
	if err != nil {
		slog.Warn("Generation attempt produced no usable candidate",
			"attempt", attempt+1, "error", err)
		return nil, datatypes.ValidationResult{
			Stage:  datatypes.StageGeneration,
			Passed: false,
			Violations: []datatypes.Violation{{
				Kind:    datatypes.KindGenerationFailure,
				Message: err.Error(),
			}},
		}
	}

	result := c.rules.Validate(*candidate)
	if !result.Passed {
		// Deterministic failures short-circuit: no second model call for an
		// attempt the rule layer already rejected.
		return candidate, result
	}

	criticCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	criticResult, criticErr := c.critic.Review(criticCtx, *candidate)
	cancel()
	if criticErr != nil {
		// Semantic review is best-effort: a critic outage downgrades to an
		// implicit pass and does not consume a retry.
		slog.Warn("Critic call failed (non-fatal), treating stage as passed",
			"attempt", attempt+1, "error", criticErr)
		criticOutagesTotal.Inc()
		return candidate, datatypes.ValidationResult{
			Stage:  datatypes.StageCritic,
			Passed: true,
			Violations: []datatypes.Violation{{
				Kind:    datatypes.KindCriticUnavailable,
				Message: criticErr.Error(),
			}},
		}
	}
	return candidate, criticResult
}

// finalize applies the terminal transition. A failure here means the state
// machine itself is broken, so it fails loud rather than limping on.
func (c *Controller) finalize(run *datatypes.PipelineRun, final *datatypes.Candidate, state datatypes.RunState) {
	if err := run.Finalize(final, state); err != nil {
		panic("pipeline: " + err.Error())
	}
}

func (c *Controller) emit(sink EventSink, event Event) {
	if sink != nil {
		sink.Emit(event)
	}
}
