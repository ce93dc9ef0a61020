// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package preview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/Atelier/services/architect/datatypes"
	"github.com/AleutianAI/Atelier/services/architect/design"
)

func testBuilder(t *testing.T) *Builder {
	t.Helper()
	rules, err := design.NewRuleSet()
	require.NoError(t, err)
	return NewBuilder(rules)
}

// =============================================================================
// SCSS flattening
// =============================================================================

func TestFlattenSCSS_InlinesVariables(t *testing.T) {
	css := flattenSCSS("$primary: #6366f1;\n.card { color: $primary; }")

	assert.NotContains(t, css, "$primary:")
	assert.Contains(t, css, "color: #6366f1;")
}

func TestFlattenSCSS_RewritesRgbaHex(t *testing.T) {
	css := flattenSCSS(".card { background: rgba(#6366f1, 0.15); }")

	assert.Contains(t, css, "rgba(99,102,241,0.15)")
}

func TestFlattenSCSS_RgbaShorthandHex(t *testing.T) {
	css := flattenSCSS(".card { background: rgba(#fff, 0.5); }")

	assert.Contains(t, css, "rgba(255,255,255,0.5)")
}

func TestFlattenSCSS_CollapsesParentSelector(t *testing.T) {
	css := flattenSCSS(".btn { &:hover { opacity: 0.9; } }")

	assert.Contains(t, css, ":hover")
	assert.NotContains(t, css, "&:")
}

// =============================================================================
// Angular syntax stripping
// =============================================================================

func TestStripAngularSyntax_Directives(t *testing.T) {
	html := stripAngularSyntax(`<button *ngIf="visible" [disabled]="busy" (click)="toggle()">x</button>`)

	assert.NotContains(t, html, "*ngIf")
	assert.NotContains(t, html, "[disabled]")
	assert.NotContains(t, html, "(click)")
	assert.Contains(t, html, "<button")
	assert.Contains(t, html, ">x</button>")
}

func TestStripAngularSyntax_ControlFlowBlocks(t *testing.T) {
	html := stripAngularSyntax("@if (items.length) {<ul><li>item</li></ul>} @empty {<p>none</p>}")

	assert.NotContains(t, html, "@if")
	assert.NotContains(t, html, "@empty")
	assert.NotContains(t, html, "{")
	assert.NotContains(t, html, "}")
	assert.Contains(t, html, "<ul><li>item</li></ul>")
}

func TestStripAngularSyntax_Interpolation(t *testing.T) {
	html := stripAngularSyntax("<h1>{{ title }}</h1><p>{{ user.name }}</p>")

	assert.Equal(t, "<h1>…</h1><p>…</p>", html)
}

// =============================================================================
// Page assembly
// =============================================================================

func TestBuild_StandalonePage(t *testing.T) {
	b := testBuilder(t)
	c := datatypes.Candidate{
		Name:     "PricingCardComponent",
		Template: `<div class="card"><h2>{{ plan }}</h2></div>`,
		Styles:   "$accent: #06b6d4;\n.card { border-color: $accent; }",
	}

	page := b.Build(c)

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "PricingCardComponent")
	assert.Contains(t, page, "cdn.tailwindcss.com")
	assert.Contains(t, page, "border-color: #06b6d4;")
	assert.Contains(t, page, "…", "interpolation replaced with a placeholder")
	assert.NotContains(t, page, "{{", "no Angular interpolation survives")
	// Every design token is exposed as a CSS custom property.
	rules, err := design.NewRuleSet()
	require.NoError(t, err)
	for _, tok := range rules.Tokens {
		assert.Contains(t, page, "--"+tok.Name+": "+tok.Value+";")
	}
}
