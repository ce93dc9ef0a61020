// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package preview renders a generated component as a standalone HTML page
// that needs no Angular runtime: Tailwind's CDN build handles utility
// classes, the stylesheet is down-converted to vanilla CSS, and Angular
// template syntax is stripped so the layout renders faithfully.
package preview

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/AleutianAI/Atelier/services/architect/datatypes"
	"github.com/AleutianAI/Atelier/services/architect/design"
)

// Builder renders preview pages against the process-wide design policy.
type Builder struct {
	rules *design.RuleSet
}

// NewBuilder creates a preview builder.
func NewBuilder(rules *design.RuleSet) *Builder {
	return &Builder{rules: rules}
}

// =============================================================================
// SCSS → CSS conversion
// =============================================================================

var (
	scssVarDeclRegex = regexp.MustCompile(`\$([a-zA-Z0-9_-]+)\s*:\s*([^;]+);`)
	rgbaHexRegex     = regexp.MustCompile(`rgba\(#([0-9a-fA-F]{3,6}),\s*([^)]+)\)`)
)

// flattenSCSS performs a light SCSS-to-CSS conversion: inlines $variables,
// rewrites rgba(#hex, a) to rgba(r,g,b,a), and collapses "&:" nesting
// shortcuts. It is intentionally approximate; previews favor fidelity of
// layout over a full SCSS compiler.
func flattenSCSS(styles string) string {
	css := styles

	vars := make(map[string]string)
	for _, m := range scssVarDeclRegex.FindAllStringSubmatch(css, -1) {
		vars[m[1]] = strings.TrimSpace(m[2])
	}
	css = scssVarDeclRegex.ReplaceAllString(css, "")
	for name, val := range vars {
		css = strings.ReplaceAll(css, "$"+name, val)
	}

	css = rgbaHexRegex.ReplaceAllStringFunc(css, func(match string) string {
		m := rgbaHexRegex.FindStringSubmatch(match)
		r, g, b, ok := hexChannels(m[1])
		if !ok {
			return match
		}
		return fmt.Sprintf("rgba(%d,%d,%d,%s)", r, g, b, strings.TrimSpace(m[2]))
	})

	return strings.ReplaceAll(css, "&:", ":")
}

// hexChannels decodes a 3- or 6-digit hex color into RGB channels.
func hexChannels(hex string) (int, int, int, bool) {
	if len(hex) == 3 {
		expanded := make([]byte, 0, 6)
		for i := 0; i < 3; i++ {
			expanded = append(expanded, hex[i], hex[i])
		}
		hex = string(expanded)
	}
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(val >> 16), int(val >> 8 & 0xff), int(val & 0xff), true
}

// =============================================================================
// Angular template stripping
// =============================================================================

var angularStripPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\s*\*ngIf="[^"]*"`),
	regexp.MustCompile(`\s*\*ngFor="[^"]*"`),
	regexp.MustCompile(`@if\s*\([^)]*\)\s*\{`),
	regexp.MustCompile(`@for\s*\([^)]*\)\s*\{`),
	regexp.MustCompile(`@empty\s*\{`),
	regexp.MustCompile(`@switch\s*\([^)]*\)\s*\{`),
	regexp.MustCompile(`@case\s*\([^)]*\)\s*\{`),
	regexp.MustCompile(`@default\s*\{`),
	regexp.MustCompile(`\s*\[\(ngModel\)\]="[^"]*"`),
	regexp.MustCompile(`\s*\(ngSubmit\)="[^"]*"`),
	regexp.MustCompile(`\s*\([a-zA-Z]+\)="[^"]*"`),
	regexp.MustCompile(`\s*\[[a-zA-Z]+\]="[^"]*"`),
}

var interpolationRegex = regexp.MustCompile(`\{\{[^}]*\}\}`)

// stripAngularSyntax removes structural directives, bindings, and
// interpolation so plain browsers render the markup.
func stripAngularSyntax(template string) string {
	html := template
	for _, re := range angularStripPatterns {
		html = re.ReplaceAllString(html, "")
	}
	// Closing braces left behind by @-block control flow.
	html = strings.ReplaceAll(html, "}", "")
	return interpolationRegex.ReplaceAllString(html, "…")
}

// =============================================================================
// Page assembly
// =============================================================================

// Build wraps a candidate's markup in a complete standalone preview page.
func (b *Builder) Build(c datatypes.Candidate) string {
	var cssVars strings.Builder
	for _, tok := range b.rules.Tokens {
		fmt.Fprintf(&cssVars, "  --%s: %s;\n", tok.Name, tok.Value)
	}

	css := flattenSCSS(c.Styles)
	html := stripAngularSyntax(c.Template)

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>Preview — %s</title>

  <script src="https://cdn.tailwindcss.com"></script>
  <script>
    tailwind.config = {
      theme: {
        extend: {
          fontFamily: { Inter: ['Inter', 'sans-serif'] },
          colors: {
            primary:   '#6366f1',
            'primary-hover': '#4f46e5',
            accent:    '#06b6d4',
            surface:   '#1e293b',
            bg:        '#0f172a',
          },
        },
      },
    };
  </script>

  <link rel="preconnect" href="https://fonts.googleapis.com" />
  <link
    href="https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600;700&display=swap"
    rel="stylesheet"
  />

  <style>
    /* Design system CSS custom properties */
    :root {
%s    }

    /* Component SCSS (converted to plain CSS) */
%s

    /* Preview chrome */
    body {
      min-height: 100vh;
      display: flex;
      flex-direction: column;
      align-items: center;
      background-color: #0f172a;
      font-family: 'Inter', sans-serif;
      padding: 16px;
    }
    .preview-banner {
      width: 100%%;
      max-width: 800px;
      background: rgba(99,102,241,0.15);
      border: 1px solid rgba(99,102,241,0.3);
      border-radius: 8px;
      padding: 8px 16px;
      margin-bottom: 40px;
      color: #94a3b8;
      font-size: 13px;
      display: flex;
      align-items: center;
      gap: 8px;
    }
    .preview-banner span.dot {
      width: 8px; height: 8px;
      background: #22c55e;
      border-radius: 50%%;
      display: inline-block;
    }
    .preview-area {
      width: 100%%;
      max-width: 800px;
      display: flex;
      justify-content: center;
    }
  </style>
</head>
<body>
  <div class="preview-banner">
    <span class="dot"></span>
    Atelier Preview &mdash; <strong style="color:#f8fafc">%s</strong>
    &nbsp;&bull;&nbsp; Design system tokens applied &nbsp;&bull;&nbsp; Angular syntax stripped
  </div>
  <div class="preview-area">
%s
  </div>
</body>
</html>
`, c.Name, cssVars.String(), css, c.Name, html)
}
