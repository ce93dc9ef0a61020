// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/Atelier/pkg/ux"
)

func runHealthCommand(cmd *cobra.Command, args []string) {
	client := newArchitectClient(serverURL, apiToken)

	start := time.Now()
	err := client.Health(cmd.Context())
	latency := time.Since(start)

	if err != nil {
		ux.Error(fmt.Sprintf("architect service unreachable at %s: %v", serverURL, err))
		os.Exit(1)
	}
	ux.Success(fmt.Sprintf("architect service is up (%s, %dms)", serverURL, latency.Milliseconds()))
}
