// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package design provides the static, versioned design rule policy consumed
// by the rule validator and the prompt builders.
//
// The policy is embedded YAML, parsed once at process start into an immutable
// RuleSet shared by every pipeline run. It is never re-parsed per call and
// never mutated after NewRuleSet returns.
package design

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Token is one approved design value, e.g. a palette color.
type Token struct {
	Name        string `yaml:"name" json:"name"`
	Value       string `yaml:"value" json:"value"`
	Description string `yaml:"description" json:"description,omitempty"`
}

// Marker is a structural requirement on the behavioral artifact.
type Marker struct {
	ID      string `yaml:"id" json:"id"`
	Marker  string `yaml:"marker" json:"marker"`
	Message string `yaml:"message" json:"message"`
}

// ruleFile mirrors the embedded YAML document.
type ruleFile struct {
	Version         int               `yaml:"version"`
	Tokens          []Token           `yaml:"tokens"`
	RequiredMarkers []Marker          `yaml:"required_markers"`
	VoidTags        []string          `yaml:"void_tags"`
	TailwindClasses map[string]string `yaml:"tailwind_classes"`
}

// RuleSet is the compiled, read-only design policy.
type RuleSet struct {
	Version         int
	Tokens          []Token
	RequiredMarkers []Marker
	TailwindClasses map[string]string

	allowedColors map[string]bool
	voidTags      map[string]bool
}

// NewRuleSet parses the embedded policy. Call once at process start.
func NewRuleSet() (*RuleSet, error) {
	return parseRuleSet(DesignRulesYAML)
}

func parseRuleSet(raw []byte) (*RuleSet, error) {
	var file ruleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal the embedded design rules: %w", err)
	}
	if len(file.Tokens) == 0 {
		return nil, fmt.Errorf("design rules declare no color tokens")
	}

	rs := &RuleSet{
		Version:         file.Version,
		Tokens:          file.Tokens,
		RequiredMarkers: file.RequiredMarkers,
		TailwindClasses: file.TailwindClasses,
		allowedColors:   make(map[string]bool, len(file.Tokens)*2),
		voidTags:        make(map[string]bool, len(file.VoidTags)),
	}

	for _, tok := range file.Tokens {
		val := strings.ToLower(strings.TrimSpace(tok.Value))
		if !strings.HasPrefix(val, "#") {
			return nil, fmt.Errorf("token %q has non-hex value %q", tok.Name, tok.Value)
		}
		rs.allowedColors[val] = true
		// Index the shorthand form too when the full form collapses cleanly,
		// so #ffffff in the policy also admits #fff in generated code.
		if short, ok := collapseHex(val); ok {
			rs.allowedColors[short] = true
		}
	}
	for _, tag := range file.VoidTags {
		rs.voidTags[strings.ToLower(tag)] = true
	}
	return rs, nil
}

// ColorAllowed reports whether a hex literal (with leading '#', any case,
// 3- or 6-digit form) belongs to the approved palette.
func (rs *RuleSet) ColorAllowed(hex string) bool {
	val := strings.ToLower(strings.TrimSpace(hex))
	if rs.allowedColors[val] {
		return true
	}
	if expanded, ok := expandHex(val); ok && rs.allowedColors[expanded] {
		return true
	}
	return false
}

// IsVoidTag reports whether a markup tag never takes a closing counterpart.
func (rs *RuleSet) IsVoidTag(tag string) bool {
	return rs.voidTags[strings.ToLower(tag)]
}

// TokenPalette renders the palette as "name: value" lines in declaration
// order, for embedding into model prompts.
func (rs *RuleSet) TokenPalette() string {
	var b strings.Builder
	for _, tok := range rs.Tokens {
		fmt.Fprintf(&b, "  %s: %s\n", tok.Name, tok.Value)
	}
	return b.String()
}

// TailwindPalette renders the preferred utility-class mappings sorted by key.
func (rs *RuleSet) TailwindPalette() string {
	keys := make([]string, 0, len(rs.TailwindClasses))
	for k := range rs.TailwindClasses {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s: %s\n", k, rs.TailwindClasses[k])
	}
	return b.String()
}

// expandHex turns "#abc" into "#aabbcc". Returns false for non-shorthand input.
func expandHex(val string) (string, bool) {
	if len(val) != 4 || !strings.HasPrefix(val, "#") {
		return "", false
	}
	var b strings.Builder
	b.WriteByte('#')
	for _, c := range val[1:] {
		b.WriteRune(c)
		b.WriteRune(c)
	}
	return b.String(), true
}

// collapseHex turns "#aabbcc" into "#abc" when each channel repeats.
func collapseHex(val string) (string, bool) {
	if len(val) != 7 || !strings.HasPrefix(val, "#") {
		return "", false
	}
	hex := val[1:]
	var b strings.Builder
	b.WriteByte('#')
	for i := 0; i < 6; i += 2 {
		if hex[i] != hex[i+1] {
			return "", false
		}
		b.WriteByte(hex[i])
	}
	return b.String(), true
}
