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
	"strings"

	"github.com/AleutianAI/Atelier/services/architect/datatypes"
	"github.com/AleutianAI/Atelier/services/architect/design"
)

// generatorSystemPrompt is the fixed part of the generator contract: a strict
// JSON-only response with exactly four keys, restricted to the token palette.
const generatorSystemPrompt = `You are an expert Angular component developer. Adhere to every rule below absolutely.

OUTPUT FORMAT:
  Respond ONLY with a valid JSON object.
  No markdown, no explanation, no code fences.

DESIGN SYSTEM:
  Use ONLY the colors and tokens defined below. No other colors are permitted.

FRAMEWORK:
  Generate Angular 17+ standalone components using Tailwind CSS utility classes.
  Do NOT use Angular Material — Tailwind only.

REQUIRED JSON KEYS (exactly these four, no others):
  component_name   — PascalCase name, e.g. "LoginCardComponent"
  typescript_code  — Full .component.ts file content
  html_template    — Full .component.html file content
  scss_styles      — Full .component.scss file content

DESIGN TOKENS (only these hex values allowed):
%s
TAILWIND CLASS MAPPINGS (prefer these exact classes):
%s
ANGULAR COMPONENT RULES:
  TypeScript:
    - Decorator: @Component with standalone: true, selector, and templateUrl / styleUrls
    - Import CommonModule in the imports array
    - Use proper TypeScript typing throughout

  HTML:
    - Use Tailwind utility classes for all layout and spacing
    - Every opened tag must be properly closed

  SCSS:
    - Minimal: prefer Tailwind classes; only add SCSS for complex animations
    - All color values in SCSS must match a design-token hex value exactly
    - Ensure all braces are balanced (every { must have a matching })
%s`

// buildGeneratorMessages assembles the full message list for one generator
// call: system contract, conversation history, optional prior-candidate edit
// context, then the user turn. On a retry the error block lists exactly the
// latest round's violations.
func buildGeneratorMessages(rs *design.RuleSet, req datatypes.ComponentRequest) []datatypes.Message {
	errorSection := ""
	if len(req.ErrorContext) > 0 {
		var lines strings.Builder
		for _, v := range req.ErrorContext {
			fmt.Fprintf(&lines, "- %s\n", v.Message)
		}
		errorSection = fmt.Sprintf(
			"\nPREVIOUS VALIDATION ERRORS — you MUST fix ALL of these before responding:\n%s",
			lines.String())
	}

	system := fmt.Sprintf(generatorSystemPrompt, rs.TokenPalette(), rs.TailwindPalette(), errorSection)

	messages := make([]datatypes.Message, 0, len(req.History)+3)
	messages = append(messages, datatypes.Message{Role: "system", Content: system})
	messages = append(messages, req.History...)

	if req.Prior != nil {
		messages = append(messages, datatypes.Message{
			Role: "assistant",
			Content: fmt.Sprintf(
				"Current component '%s' to correct:\nTypeScript:\n%s\n\nHTML:\n%s\n\nSCSS:\n%s",
				req.Prior.Name, req.Prior.TypeScript, req.Prior.Template, req.Prior.Styles),
		})
	}

	messages = append(messages, datatypes.Message{
		Role:    "user",
		Content: fmt.Sprintf("Generate an Angular component for: %s", req.Prompt),
	})
	return messages
}

// buildCriticPrompt assembles the secondary quality-gate prompt. The critic
// sees the full candidate plus the token palette and must answer with a JSON
// verdict only.
func buildCriticPrompt(rs *design.RuleSet, c datatypes.Candidate) string {
	return fmt.Sprintf(`You are a strict Angular code validator. Analyze the component below and return ONLY a JSON object.

DESIGN SYSTEM TOKENS:
%s
─── COMPONENT TO VALIDATE ───

TypeScript:
%s

HTML:
%s

SCSS:
%s

─────────────────────────────

Validation rules to check:
1. No hardcoded colors exist that are NOT in the design tokens list
   (check both HTML inline styles and SCSS rules).
2. TypeScript has a valid @Component decorator with selector and standalone: true.
3. HTML has no unclosed tags.
4. SCSS has no obvious syntax errors (unclosed braces).
5. Component uses Tailwind classes for layout (flex, grid, p-*, m-*, etc.).
6. Visual hierarchy is consistent with the token palette.
7. Interactive elements carry sensible accessibility attributes.

Return ONLY a JSON object with this exact structure — no explanation, no markdown:
{
  "passed": true,
  "errors": []
}

If any rule is violated set "passed" to false and list each violation in "errors".`,
		rs.TokenPalette(), c.TypeScript, c.Template, c.Styles)
}
