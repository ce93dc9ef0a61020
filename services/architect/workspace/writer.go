// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package workspace persists finalized components to disk. It is the
// pipeline's persistence collaborator: one directory per component under the
// workspace root, three files per component.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/AleutianAI/Atelier/services/architect/datatypes"
)

// Writer writes component artifacts beneath a fixed root directory.
type Writer struct {
	root string
}

// NewWriter creates a writer rooted at dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		return nil, fmt.Errorf("workspace root must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create workspace root %q: %w", dir, err)
	}
	return &Writer{root: dir}, nil
}

// Root returns the workspace root directory.
func (w *Writer) Root() string {
	return w.root
}

// Write persists the candidate's three artifacts as
//
//	<root>/components/<kebab>/<kebab>.component.{ts,html,scss}
//
// and returns the component directory.
func (w *Writer) Write(componentName string, c datatypes.Candidate) (string, error) {
	stem := c.KebabName()
	dir := filepath.Join(w.root, "components", stem)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create component directory %q: %w", dir, err)
	}

	files := map[string]string{
		stem + ".component.ts":   c.TypeScript,
		stem + ".component.html": c.Template,
		stem + ".component.scss": c.Styles,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return "", fmt.Errorf("failed to write %q: %w", path, err)
		}
	}

	slog.Info("Wrote component artifacts", "component", componentName, "dir", dir)
	return dir, nil
}
