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

import (
	"fmt"
	"log/slog"

	"github.com/AleutianAI/Atelier/services/architect/datatypes"
)

// Workspace is the persistence collaborator: it writes a candidate's three
// artifacts somewhere durable and reports the location. The pipeline does not
// interpret the location beyond surfacing it to the caller.
type Workspace interface {
	Write(componentName string, c datatypes.Candidate) (string, error)
}

// Finalizer hands the chosen candidate of a terminal run to the workspace.
// It performs no validation logic of its own.
type Finalizer struct {
	workspace Workspace
}

// NewFinalizer wires the finalizer to a persistence collaborator.
func NewFinalizer(workspace Workspace) *Finalizer {
	return &Finalizer{workspace: workspace}
}

// Persist writes the run's final candidate and returns its location.
//
// Calling Persist on a non-terminal run is a programming error and returns
// datatypes.ErrRunNotTerminal. A run that produced no candidate at all (every
// generation attempt failed) persists nothing and returns an empty location.
func (f *Finalizer) Persist(run *datatypes.PipelineRun) (string, error) {
	if !run.State.IsTerminal() {
		return "", datatypes.ErrRunNotTerminal
	}
	if run.Final == nil {
		slog.Warn("Run finalized without any candidate, nothing to persist", "run_id", run.ID)
		return "", nil
	}

	location, err := f.workspace.Write(run.Final.Name, *run.Final)
	if err != nil {
		return "", fmt.Errorf("failed to persist component %q: %w", run.Final.Name, err)
	}

	if !run.ValidationPassed() {
		slog.Warn("Component written with remaining errors (max retries exhausted)",
			"run_id", run.ID, "component", run.Final.Name, "location", location)
	} else {
		slog.Info("Component persisted", "run_id", run.ID, "component", run.Final.Name,
			"location", location)
	}
	return location, nil
}
