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

	"github.com/spf13/cobra"

	"github.com/AleutianAI/Atelier/pkg/ux"
)

var previewOutput string

func runPreviewCommand(cmd *cobra.Command, args []string) {
	if len(args) != 1 {
		ux.Error("Usage: atelier preview [session_id]")
		os.Exit(1)
	}
	client := newArchitectClient(serverURL, apiToken)

	html, err := client.Preview(cmd.Context(), args[0])
	if err != nil {
		ux.Error(fmt.Sprintf("Preview failed: %v", err))
		os.Exit(1)
	}

	if previewOutput == "" {
		fmt.Print(html)
		return
	}
	if err := os.WriteFile(previewOutput, []byte(html), 0o644); err != nil {
		ux.Error(fmt.Sprintf("Could not write %s: %v", previewOutput, err))
		os.Exit(1)
	}
	ux.Success("Preview written to " + previewOutput)
	ux.Muted("Open it in a browser to see the component.")
}
