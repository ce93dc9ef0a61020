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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/Atelier/services/architect/datatypes"
)

func compliantCandidate() datatypes.Candidate {
	return datatypes.Candidate{
		Name: "CardComponent",
		TypeScript: "import { Component } from '@angular/core';\n" +
			"@Component({ selector: 'app-card', standalone: true })\n" +
			"export class CardComponent {}",
		Template: `<div class="p-6"><h2>Title</h2><p>Body text</p><img src="x.png"></div>`,
		Styles:   ".card { color: #6366f1; border-color: #06b6d4; }",
	}
}

// TestValidate_CompliantCandidatePasses verifies a fully compliant candidate
// produces a passed result with zero violations.
func TestValidate_CompliantCandidatePasses(t *testing.T) {
	rv := NewRuleValidator(testRules(t))

	result := rv.Validate(compliantCandidate())

	assert.Equal(t, datatypes.StageRule, result.Stage)
	assert.True(t, result.Passed)
	assert.Empty(t, result.Violations)
}

// TestValidate_IsDeterministic verifies the same candidate yields the same
// result on repeated runs.
func TestValidate_IsDeterministic(t *testing.T) {
	rv := NewRuleValidator(testRules(t))
	c := compliantCandidate()
	c.Styles = ".card { color: #ff0000; background: #00ff00; }"

	first := rv.Validate(c)
	second := rv.Validate(c)

	assert.Equal(t, first, second)
}

// TestValidate_UnauthorizedColorReported verifies each distinct off-palette
// hex literal is one violation naming the literal.
func TestValidate_UnauthorizedColorReported(t *testing.T) {
	rv := NewRuleValidator(testRules(t))
	c := compliantCandidate()
	c.Styles = ".card { color: #ff0000; border: 1px solid #ff0000; background: #6366f1; }"

	result := rv.Validate(c)

	assert.False(t, result.Passed)
	require.Len(t, result.Violations, 1, "repeated literal is reported once")
	assert.Equal(t, datatypes.KindRuleViolation, result.Violations[0].Kind)
	assert.Contains(t, result.Violations[0].Message, "#ff0000")
	assert.Contains(t, result.Violations[0].Message, "design-token")
}

// TestValidate_ColorCaseInsensitive verifies palette matching ignores case.
func TestValidate_ColorCaseInsensitive(t *testing.T) {
	rv := NewRuleValidator(testRules(t))
	c := compliantCandidate()
	c.Styles = ".card { color: #6366F1; }"

	result := rv.Validate(c)

	assert.True(t, result.Passed, "uppercase token literal is still on-palette")
}

// TestValidate_ColorsCheckedInAllArtifacts verifies literals are scanned in
// the typescript and template artifacts too, not only the stylesheet.
func TestValidate_ColorsCheckedInAllArtifacts(t *testing.T) {
	rv := NewRuleValidator(testRules(t))
	c := compliantCandidate()
	c.Template = `<div style="color: #abcdef"><p>x</p></div>`

	result := rv.Validate(c)

	assert.False(t, result.Passed)
	require.Len(t, result.Violations, 1)
	assert.Contains(t, result.Violations[0].Message, "#abcdef")
}

// TestValidate_MissingMarkers verifies each missing structural marker is a
// separate violation.
func TestValidate_MissingMarkers(t *testing.T) {
	rv := NewRuleValidator(testRules(t))
	c := compliantCandidate()
	c.TypeScript = "export class CardComponent {}"

	result := rv.Validate(c)

	assert.False(t, result.Passed)
	assert.Len(t, result.Violations, 2, "decorator and standalone flag both missing")
}

// TestValidate_ExtraClosingBrace verifies exactly one violation for a
// stylesheet with one stray closing brace.
func TestValidate_ExtraClosingBrace(t *testing.T) {
	rv := NewRuleValidator(testRules(t))
	c := compliantCandidate()
	c.Styles = ".card { color: #6366f1; } }"

	result := rv.Validate(c)

	assert.False(t, result.Passed)
	require.Len(t, result.Violations, 1)
	assert.Contains(t, result.Violations[0].Message, "unexpected '}'")
}

// TestValidate_UnclosedBrace verifies the unclosed direction is reported with
// the open count.
func TestValidate_UnclosedBrace(t *testing.T) {
	rv := NewRuleValidator(testRules(t))
	c := compliantCandidate()
	c.Styles = ".card { .inner { color: #6366f1; }"

	result := rv.Validate(c)

	assert.False(t, result.Passed)
	require.Len(t, result.Violations, 1)
	assert.Contains(t, result.Violations[0].Message, "1 unclosed '{'")
}

// TestValidate_EmptyStylesSkipsBraceCheck verifies an absent stylesheet is
// not an imbalance.
func TestValidate_EmptyStylesSkipsBraceCheck(t *testing.T) {
	rv := NewRuleValidator(testRules(t))
	c := compliantCandidate()
	c.Styles = ""

	result := rv.Validate(c)

	assert.True(t, result.Passed)
}

// TestValidate_UnclosedTag verifies one violation naming the tag with its
// open and close counts.
func TestValidate_UnclosedTag(t *testing.T) {
	rv := NewRuleValidator(testRules(t))
	c := compliantCandidate()
	c.Template = "<div><section><p>text</p></div>"

	result := rv.Validate(c)

	assert.False(t, result.Passed)
	require.Len(t, result.Violations, 1)
	assert.Contains(t, result.Violations[0].Message, "<section>")
	assert.Contains(t, result.Violations[0].Message, "1 opened, 0 closed")
}

// TestValidate_VoidTagsIgnored verifies void elements never count toward tag
// balance.
func TestValidate_VoidTagsIgnored(t *testing.T) {
	rv := NewRuleValidator(testRules(t))
	c := compliantCandidate()
	c.Template = `<div><img src="a.png"><br><input type="text"><hr></div>`

	result := rv.Validate(c)

	assert.True(t, result.Passed)
}

// TestValidate_SelfClosingTagsBalanced verifies explicitly self-closed tags
// are balanced by definition.
func TestValidate_SelfClosingTagsBalanced(t *testing.T) {
	rv := NewRuleValidator(testRules(t))
	c := compliantCandidate()
	c.Template = `<div><app-icon name="star" /><p>x</p></div>`

	result := rv.Validate(c)

	assert.True(t, result.Passed)
}

// TestValidate_MultipleTagMismatchesSorted verifies every mismatched tag name
// is its own violation, reported in sorted order.
func TestValidate_MultipleTagMismatchesSorted(t *testing.T) {
	rv := NewRuleValidator(testRules(t))
	c := compliantCandidate()
	c.Template = "<div><span>one<p>two</div>"

	result := rv.Validate(c)

	assert.False(t, result.Passed)
	require.Len(t, result.Violations, 2)
	assert.Contains(t, result.Violations[0].Message, "<p>")
	assert.Contains(t, result.Violations[1].Message, "<span>")
}

// TestValidate_AllViolationsReportedTogether verifies the validator reports
// everything it finds in one pass rather than stopping at the first failure.
func TestValidate_AllViolationsReportedTogether(t *testing.T) {
	rv := NewRuleValidator(testRules(t))
	c := datatypes.Candidate{
		Name:       "BrokenComponent",
		TypeScript: "export class BrokenComponent {}",
		Template:   "<div><p>x</div>",
		Styles:     ".a { color: #123456;",
	}

	result := rv.Validate(c)

	assert.False(t, result.Passed)
	// off-palette color + two missing markers + brace imbalance + tag mismatch
	assert.Len(t, result.Violations, 5)
}
