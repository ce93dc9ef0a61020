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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/Atelier/services/architect/datatypes"
)

// =============================================================================
// Payload Parsing Tests
// =============================================================================

// TestParseCandidatePayload_CleanJSON verifies the happy path.
func TestParseCandidatePayload_CleanJSON(t *testing.T) {
	raw := `{"component_name":"CardComponent","typescript_code":"class X {}","html_template":"<div></div>","scss_styles":".a {}"}`

	payload, err := parseCandidatePayload(raw)

	require.NoError(t, err)
	assert.Equal(t, "CardComponent", payload.ComponentName)
	assert.Equal(t, "class X {}", payload.TypeScriptCode)
}

// TestParseCandidatePayload_ProseAroundJSON verifies narrowing to the
// outermost braces when the model wraps the object in chatter.
func TestParseCandidatePayload_ProseAroundJSON(t *testing.T) {
	raw := `Sure! Here is your component:
{"component_name":"NavComponent","typescript_code":"class N {}","html_template":"<nav></nav>","scss_styles":""}
Let me know if you need changes.`

	payload, err := parseCandidatePayload(raw)

	require.NoError(t, err)
	assert.Equal(t, "NavComponent", payload.ComponentName)
}

// TestParseCandidatePayload_FencedJSON verifies markdown fences are stripped
// on the retry parse.
func TestParseCandidatePayload_FencedJSON(t *testing.T) {
	raw := "```json\n{\"component_name\":\"HeroComponent\",\"typescript_code\":\"class H {}\",\"html_template\":\"<div></div>\",\"scss_styles\":\"\"}\n```"

	payload, err := parseCandidatePayload(raw)

	require.NoError(t, err)
	assert.Equal(t, "HeroComponent", payload.ComponentName)
}

// TestParseCandidatePayload_DoubleEscapedQuotes verifies escaped quotes in
// code fields are normalized.
func TestParseCandidatePayload_DoubleEscapedQuotes(t *testing.T) {
	raw := `{"component_name":"BtnComponent","typescript_code":"const s = \\\"x\\\";","html_template":"<div class=\\\"p-4\\\"></div>","scss_styles":""}`

	payload, err := parseCandidatePayload(raw)

	require.NoError(t, err)
	assert.Equal(t, `const s = "x";`, payload.TypeScriptCode)
	assert.Equal(t, `<div class="p-4"></div>`, payload.HTMLTemplate)
}

// TestParseCandidatePayload_MissingCodeFields verifies a structurally valid
// object without both code fields is rejected.
func TestParseCandidatePayload_MissingCodeFields(t *testing.T) {
	raw := `{"component_name":"EmptyComponent","typescript_code":"","html_template":"","scss_styles":""}`

	_, err := parseCandidatePayload(raw)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required code fields")
}

// TestParseCandidatePayload_NoJSONAtAll verifies plain prose fails.
func TestParseCandidatePayload_NoJSONAtAll(t *testing.T) {
	_, err := parseCandidatePayload("I am unable to generate that component.")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON error")
}

// =============================================================================
// Fallback Name Tests
// =============================================================================

func TestFallbackName(t *testing.T) {
	assert.Equal(t, "PricingComponent", fallbackName("pricing card with a button"))
	assert.Equal(t, "DashboardComponent", fallbackName("  dashboard!! layout"))
	assert.Equal(t, "GeneratedComponent", fallbackName("!!!"))
}

// =============================================================================
// Generator Tests
// =============================================================================

// TestGenerate_UsesFallbackNameWhenOmitted verifies the prompt-derived name
// kicks in when the model omits component_name.
func TestGenerate_UsesFallbackNameWhenOmitted(t *testing.T) {
	client := &mockLLM{
		chatReplies: []stubReply{{
			text: `{"typescript_code":"class X {}","html_template":"<div></div>","scss_styles":""}`,
		}},
	}
	gen := NewGenerator(client, testRules(t))

	candidate, err := gen.Generate(context.Background(), datatypes.ComponentRequest{
		Prompt:    "checkout form with validation",
		SessionID: "sess-1",
	}, 0)

	require.NoError(t, err)
	assert.Equal(t, "CheckoutComponent", candidate.Name)
	assert.Equal(t, 0, candidate.Attempt)
}

// TestGenerate_ErrorSpellsOutContract verifies the corrective-instruction
// error on unparseable output.
func TestGenerate_ErrorSpellsOutContract(t *testing.T) {
	client := &mockLLM{chatReplies: []stubReply{{text: "no json here"}}}
	gen := NewGenerator(client, testRules(t))

	_, err := gen.Generate(context.Background(), testRequest(), 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "component_name, typescript_code, html_template, scss_styles")
}
