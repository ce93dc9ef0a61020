// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"regexp"
	"strings"
)

// Candidate is one generated component attempt: a PascalCase name plus the
// three source artifacts. Candidates are immutable; a retry produces a new
// Candidate with an incremented Attempt index rather than mutating this one.
type Candidate struct {
	// Name is the PascalCase component name, e.g. "LoginCardComponent".
	Name string `json:"component_name"`

	// TypeScript is the full behavioral artifact (.component.ts).
	TypeScript string `json:"typescript_code"`

	// Template is the structural markup artifact (.component.html).
	Template string `json:"html_template"`

	// Styles is the stylesheet artifact (.component.scss).
	Styles string `json:"scss_styles"`

	// Attempt is the 0-based generation attempt that produced this candidate.
	Attempt int `json:"attempt"`
}

// componentNamePattern matches identifier-safe PascalCase component names.
var componentNamePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

// ValidName reports whether the candidate name is identifier-safe.
func (c Candidate) ValidName() bool {
	return componentNamePattern.MatchString(c.Name)
}

// AllSource concatenates the three artifacts. Used by validators that scan
// for color literals regardless of which artifact they appear in.
func (c Candidate) AllSource() string {
	return c.TypeScript + "\n" + c.Template + "\n" + c.Styles
}

var kebabBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// KebabName converts the PascalCase name to the kebab-case file stem used by
// the workspace writer: "LoginCardComponent" becomes "login-card".
func (c Candidate) KebabName() string {
	name := strings.TrimSuffix(strings.TrimSpace(c.Name), "Component")
	if name == "" {
		name = "component"
	}
	return strings.ToLower(kebabBoundary.ReplaceAllString(name, "${1}-${2}"))
}
