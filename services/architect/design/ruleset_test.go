// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package design

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewRuleSet_EmbeddedPolicyParses verifies the shipped policy is usable.
func TestNewRuleSet_EmbeddedPolicyParses(t *testing.T) {
	rs, err := NewRuleSet()

	require.NoError(t, err)
	assert.NotEmpty(t, rs.Tokens)
	assert.NotEmpty(t, rs.RequiredMarkers)
	assert.True(t, rs.ColorAllowed("#6366f1"), "primary token must be on-palette")
	assert.True(t, rs.IsVoidTag("img"))
	assert.False(t, rs.IsVoidTag("div"))
}

// TestColorAllowed_Forms verifies case and shorthand handling.
func TestColorAllowed_Forms(t *testing.T) {
	rs, err := parseRuleSet([]byte(`
version: 1
tokens:
  - name: surface
    value: "#ffffff"
  - name: accent
    value: "#06b6d4"
void_tags: [img, br]
`))
	require.NoError(t, err)

	assert.True(t, rs.ColorAllowed("#ffffff"))
	assert.True(t, rs.ColorAllowed("#FFFFFF"), "case-insensitive")
	assert.True(t, rs.ColorAllowed("#fff"), "shorthand of an approved color")
	assert.True(t, rs.ColorAllowed("#06b6d4"))
	assert.False(t, rs.ColorAllowed("#06b"), "shorthand that expands off-palette")
	assert.False(t, rs.ColorAllowed("#123456"))
	assert.False(t, rs.ColorAllowed("fff"), "missing '#' is not a color literal")
}

// TestParseRuleSet_Rejections verifies malformed policies fail at startup.
func TestParseRuleSet_Rejections(t *testing.T) {
	_, err := parseRuleSet([]byte("version: 1\ntokens: []\n"))
	assert.Error(t, err, "a policy without tokens is unusable")

	_, err = parseRuleSet([]byte("version: 1\ntokens:\n  - name: bad\n    value: red\n"))
	assert.Error(t, err, "non-hex token values are rejected")

	_, err = parseRuleSet([]byte("{not yaml"))
	assert.Error(t, err)
}

// TestTokenPalette_Rendering verifies the prompt-facing renderings.
func TestTokenPalette_Rendering(t *testing.T) {
	rs, err := parseRuleSet([]byte(`
version: 1
tokens:
  - name: primary
    value: "#6366f1"
tailwind_classes:
  surface: bg-slate-900
  accent: text-cyan-500
`))
	require.NoError(t, err)

	palette := rs.TokenPalette()
	assert.Contains(t, palette, "primary: #6366f1")

	tailwind := rs.TailwindPalette()
	assert.Contains(t, tailwind, "accent: text-cyan-500")
	// sorted by key: accent before surface
	assert.Less(t, strings.Index(tailwind, "accent"), strings.Index(tailwind, "surface"))
}

// TestHexHelpers verifies the shorthand conversions both ways.
func TestHexHelpers(t *testing.T) {
	expanded, ok := expandHex("#abc")
	assert.True(t, ok)
	assert.Equal(t, "#aabbcc", expanded)

	_, ok = expandHex("#abcd")
	assert.False(t, ok)

	short, ok := collapseHex("#aabbcc")
	assert.True(t, ok)
	assert.Equal(t, "#abc", short)

	_, ok = collapseHex("#6366f1")
	assert.False(t, ok, "non-repeating channels do not collapse")
}
