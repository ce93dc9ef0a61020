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
	"regexp"
	"sort"
	"strings"

	"github.com/AleutianAI/Atelier/services/architect/datatypes"
	"github.com/AleutianAI/Atelier/services/architect/design"
)

// RuleValidator is the deterministic validation layer. It makes no model
// calls: the same Candidate and RuleSet always yield the same result, and
// every violation found is reported, not just the first.
type RuleValidator struct {
	rules *design.RuleSet
}

// NewRuleValidator binds the validator to the process-wide design policy.
func NewRuleValidator(rules *design.RuleSet) *RuleValidator {
	return &RuleValidator{rules: rules}
}

// hexColorRegex matches CSS hex color literals in any artifact.
var hexColorRegex = regexp.MustCompile(`#([0-9a-fA-F]{3,8})\b`)

// tagRegex matches opening and closing markup tags; group 1 is the closing
// slash, group 2 the tag name, group 3 the attribute tail.
var tagRegex = regexp.MustCompile(`<(/?)([a-zA-Z][a-zA-Z0-9-]*)([^<>]*)>`)

// Validate runs all rule checks over the candidate. Pure function of its
// inputs; no I/O.
func (rv *RuleValidator) Validate(c datatypes.Candidate) datatypes.ValidationResult {
	var violations []datatypes.Violation

	violations = append(violations, rv.checkColors(c)...)
	violations = append(violations, rv.checkMarkers(c)...)
	violations = append(violations, rv.checkBraces(c)...)
	violations = append(violations, rv.checkTags(c)...)

	return datatypes.ValidationResult{
		Stage:      datatypes.StageRule,
		Passed:     len(violations) == 0,
		Violations: violations,
	}
}

// checkColors reports every distinct hex literal outside the approved token
// palette, across all three artifacts.
func (rv *RuleValidator) checkColors(c datatypes.Candidate) []datatypes.Violation {
	var violations []datatypes.Violation
	seen := make(map[string]bool)
	for _, match := range hexColorRegex.FindAllString(c.AllSource(), -1) {
		literal := strings.ToLower(match)
		if seen[literal] {
			continue
		}
		seen[literal] = true
		if !rv.rules.ColorAllowed(literal) {
			violations = append(violations, datatypes.Violation{
				Kind:    datatypes.KindRuleViolation,
				Message: fmt.Sprintf("Unauthorized color: %s — use a design-token color", match),
			})
		}
	}
	return violations
}

// checkMarkers verifies the behavioral artifact carries every structural
// marker the policy requires. Each missing marker is its own violation.
func (rv *RuleValidator) checkMarkers(c datatypes.Candidate) []datatypes.Violation {
	var violations []datatypes.Violation
	for _, m := range rv.rules.RequiredMarkers {
		if !strings.Contains(c.TypeScript, m.Marker) {
			violations = append(violations, datatypes.Violation{
				Kind:    datatypes.KindRuleViolation,
				Message: m.Message,
			})
		}
	}
	return violations
}

// checkBraces verifies stylesheet brace nesting: every opening brace must be
// closed before end of input, and no close may appear without an open. An
// imbalance is one violation citing the artifact.
func (rv *RuleValidator) checkBraces(c datatypes.Candidate) []datatypes.Violation {
	if c.Styles == "" {
		return nil
	}
	depth := 0
	for _, r := range c.Styles {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return []datatypes.Violation{{
					Kind:    datatypes.KindRuleViolation,
					Message: "SCSS syntax error: unexpected '}' without a matching '{'",
				}}
			}
		}
	}
	if depth > 0 {
		return []datatypes.Violation{{
			Kind:    datatypes.KindRuleViolation,
			Message: fmt.Sprintf("SCSS syntax error: %d unclosed '{' in stylesheet", depth),
		}}
	}
	return nil
}

// checkTags verifies markup tag balance per tag name, ignoring void elements
// and explicitly self-closed tags. Each mismatched tag name is one violation.
func (rv *RuleValidator) checkTags(c datatypes.Candidate) []datatypes.Violation {
	if c.Template == "" {
		return nil
	}

	opens := make(map[string]int)
	closes := make(map[string]int)
	for _, match := range tagRegex.FindAllStringSubmatch(c.Template, -1) {
		closing, name, tail := match[1] != "", strings.ToLower(match[2]), match[3]
		if rv.rules.IsVoidTag(name) {
			continue
		}
		switch {
		case closing:
			closes[name]++
		case strings.HasSuffix(strings.TrimSpace(tail), "/"):
			// self-closing, balanced by definition
		default:
			opens[name]++
		}
	}

	var names []string
	for name := range opens {
		names = append(names, name)
	}
	for name := range closes {
		if _, ok := opens[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var violations []datatypes.Violation
	for _, name := range names {
		if opens[name] != closes[name] {
			violations = append(violations, datatypes.Violation{
				Kind: datatypes.KindRuleViolation,
				Message: fmt.Sprintf("HTML tag mismatch for <%s>: %d opened, %d closed",
					name, opens[name], closes[name]),
			})
		}
	}
	return violations
}
