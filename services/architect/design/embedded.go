// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

/*
This file bridges the build system and the runtime logic. It uses the Go embed
package to bake design_rules.yaml directly into the compiled binary, so the
design policy is immutable at runtime and travels with the executable.
*/

package design

import (
	_ "embed"
)

// DesignRulesYAML holds the raw byte content of the 'design_rules.yaml' file.
//
// Populated at compile time via the Go 'embed' directive. Baking the policy
// into the binary guarantees every process validates against the same rule
// set without any filesystem dependency.
//
//go:embed design_rules.yaml
var DesignRulesYAML []byte
