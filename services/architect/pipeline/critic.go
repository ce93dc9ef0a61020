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
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AleutianAI/Atelier/services/architect/datatypes"
	"github.com/AleutianAI/Atelier/services/architect/design"
	"github.com/AleutianAI/Atelier/services/llm"
)

// Critic is the model-based semantic validation layer. It runs only after
// the rule validator passes, and it is advisory: the controller downgrades a
// failed critic CALL (not a failed verdict) to an implicit pass.
type Critic struct {
	client llm.LLMClient
	rules  *design.RuleSet
	params llm.GenerationParams
}

// NewCritic wires the critic to a model backend and the design policy.
func NewCritic(client llm.LLMClient, rules *design.RuleSet) *Critic {
	temp := float32(0.0)
	return &Critic{
		client: client,
		rules:  rules,
		params: llm.GenerationParams{Temperature: &temp},
	}
}

// criticVerdict mirrors the critic's JSON contract.
type criticVerdict struct {
	Passed bool     `json:"passed"`
	Errors []string `json:"errors"`
}

// Review issues the single critic call for a candidate. A non-nil error
// means the critic was unavailable (transport failure or unparseable
// verdict), never that the candidate failed review.
func (cr *Critic) Review(ctx context.Context, c datatypes.Candidate) (datatypes.ValidationResult, error) {
	slog.Info("Running critic review", "component", c.Name, "attempt", c.Attempt)

	raw, err := cr.client.Generate(ctx, buildCriticPrompt(cr.rules, c), cr.params)
	if err != nil {
		return datatypes.ValidationResult{}, fmt.Errorf("critic model call failed: %w", err)
	}

	verdict, err := parseCriticVerdict(raw)
	if err != nil {
		return datatypes.ValidationResult{}, err
	}

	result := datatypes.ValidationResult{
		Stage:  datatypes.StageCritic,
		Passed: verdict.Passed,
	}
	for _, msg := range verdict.Errors {
		result.Violations = append(result.Violations, datatypes.Violation{
			Kind:    datatypes.KindCriticFlagged,
			Message: msg,
		})
	}
	// A "failed" verdict with no stated issues is unusable as corrective
	// feedback; give the generator something actionable.
	if !result.Passed && len(result.Violations) == 0 {
		result.Violations = append(result.Violations, datatypes.Violation{
			Kind:    datatypes.KindCriticFlagged,
			Message: "Critic rejected the component without specific issues; review design-token usage and structure",
		})
	}
	return result, nil
}

// parseCriticVerdict tolerates the fence-wrapped JSON some models emit.
func parseCriticVerdict(raw string) (criticVerdict, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		parts := strings.Split(text, "```")
		if len(parts) > 1 {
			text = parts[1]
		}
		text = strings.TrimPrefix(text, "json")
	}
	text = strings.TrimSpace(text)

	var verdict criticVerdict
	if err := json.Unmarshal([]byte(text), &verdict); err != nil {
		return criticVerdict{}, fmt.Errorf("critic verdict was not valid JSON: %w", err)
	}
	return verdict, nil
}
