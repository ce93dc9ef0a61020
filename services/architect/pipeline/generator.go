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
	"regexp"
	"strings"

	"github.com/AleutianAI/Atelier/services/architect/datatypes"
	"github.com/AleutianAI/Atelier/services/architect/design"
	"github.com/AleutianAI/Atelier/services/llm"
)

// Generator turns one ComponentRequest into one Candidate via a single model
// call. It performs no validation and no disk writes; a call that yields no
// usable structured output is returned as an error for the controller to
// classify as a generation failure.
type Generator struct {
	client llm.LLMClient
	rules  *design.RuleSet
	params llm.GenerationParams
}

// NewGenerator wires a generator to a model backend and the design policy.
func NewGenerator(client llm.LLMClient, rules *design.RuleSet) *Generator {
	temp := float32(0.2)
	return &Generator{
		client: client,
		rules:  rules,
		params: llm.GenerationParams{Temperature: &temp},
	}
}

// Generate issues the model call for the given attempt and parses the result
// into an immutable Candidate.
func (g *Generator) Generate(ctx context.Context, req datatypes.ComponentRequest, attempt int) (*datatypes.Candidate, error) {
	slog.Info("Calling generator model", "session_id", req.SessionID, "attempt", attempt+1)

	messages := buildGeneratorMessages(g.rules, req)
	raw, err := g.client.Chat(ctx, messages, g.params)
	if err != nil {
		return nil, fmt.Errorf("generator model call failed: %w", err)
	}

	payload, err := parseCandidatePayload(raw)
	if err != nil {
		// The message doubles as the corrective instruction injected into
		// the retry prompt, so it spells out the expected shape.
		return nil, fmt.Errorf(
			"%v. Respond with ONLY a JSON object with keys: component_name, typescript_code, html_template, scss_styles", err)
	}

	name := payload.ComponentName
	if name == "" {
		name = fallbackName(req.Prompt)
	}

	return &datatypes.Candidate{
		Name:       name,
		TypeScript: payload.TypeScriptCode,
		Template:   payload.HTMLTemplate,
		Styles:     payload.SCSSStyles,
		Attempt:    attempt,
	}, nil
}

// =============================================================================
// Model Output Parsing
// =============================================================================

// candidatePayload mirrors the generator's JSON contract.
type candidatePayload struct {
	ComponentName  string `json:"component_name"`
	TypeScriptCode string `json:"typescript_code"`
	HTMLTemplate   string `json:"html_template"`
	SCSSStyles     string `json:"scss_styles"`
}

// fenceRegex strips markdown code fences the model sometimes leaks despite
// the JSON-only contract.
var fenceRegex = regexp.MustCompile("```[a-z]*")

// parseCandidatePayload extracts a JSON object from a potentially messy model
// response: it narrows to the outermost braces, retries once with fences
// stripped, and cleans up double-escaped quotes in the code fields.
func parseCandidatePayload(raw string) (candidatePayload, error) {
	text := strings.TrimSpace(raw)

	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start != -1 && end > start {
		text = text[start : end+1]
	}

	var payload candidatePayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		cleaned := strings.TrimSpace(fenceRegex.ReplaceAllString(text, ""))
		if err2 := json.Unmarshal([]byte(cleaned), &payload); err2 != nil {
			return candidatePayload{}, fmt.Errorf("JSON error: %v", err2)
		}
	}

	// Models occasionally double-escape quotes inside the code strings.
	payload.TypeScriptCode = strings.ReplaceAll(payload.TypeScriptCode, `\"`, `"`)
	payload.HTMLTemplate = strings.ReplaceAll(payload.HTMLTemplate, `\"`, `"`)
	payload.SCSSStyles = strings.ReplaceAll(payload.SCSSStyles, `\"`, `"`)

	if payload.TypeScriptCode == "" || payload.HTMLTemplate == "" {
		return candidatePayload{}, fmt.Errorf("JSON error: missing required code fields")
	}
	return payload, nil
}

var firstWordRegex = regexp.MustCompile(`[a-zA-Z0-9]+`)

// fallbackName derives an identifier-safe component name from the prompt when
// the model omits one.
func fallbackName(prompt string) string {
	if word := firstWordRegex.FindString(prompt); word != "" {
		return strings.ToUpper(word[:1]) + word[1:] + "Component"
	}
	return "GeneratedComponent"
}
