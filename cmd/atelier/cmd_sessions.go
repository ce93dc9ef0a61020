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

func runListSessions(cmd *cobra.Command, args []string) {
	client := newArchitectClient(serverURL, apiToken)

	infos, err := client.ListSessions(cmd.Context())
	if err != nil {
		ux.Error(fmt.Sprintf("Failed to list sessions: %v", err))
		os.Exit(1)
	}
	if len(infos) == 0 {
		ux.Muted("No sessions yet. Start one with: atelier generate")
		return
	}

	ux.Title(fmt.Sprintf("Sessions (%d)", len(infos)))
	for _, info := range infos {
		fmt.Printf("%s %s  %s  %s\n",
			ux.IconBullet,
			ux.Styles.Bold.Render(info.SessionID),
			ux.Styles.Muted.Render(fmt.Sprintf("%d turns", info.Turns)),
			ux.Styles.Muted.Render(info.UpdatedAt.Format("2006-01-02 15:04:05")))
	}
}

func runSessionHistory(cmd *cobra.Command, args []string) {
	if len(args) != 1 {
		ux.Error("Usage: atelier session history [session_id]")
		os.Exit(1)
	}
	client := newArchitectClient(serverURL, apiToken)

	entries, err := client.SessionHistory(cmd.Context(), args[0])
	if err != nil {
		ux.Error(fmt.Sprintf("Failed to load session history: %v", err))
		os.Exit(1)
	}
	if len(entries) == 0 {
		ux.Muted("The session has no turns yet.")
		return
	}
	for _, entry := range entries {
		switch entry.Role {
		case "user":
			fmt.Printf("%s %s\n", ux.Styles.Highlight.Render("you:"), entry.Content)
		default:
			line := entry.Content
			if entry.Summary != "" {
				line = entry.Summary
			}
			fmt.Printf("%s %s\n", ux.Styles.Subtitle.Render("atelier:"), line)
		}
	}
}

func runDeleteSession(cmd *cobra.Command, args []string) {
	if len(args) != 1 {
		ux.Error("Usage: atelier session delete [session_id]")
		os.Exit(1)
	}
	client := newArchitectClient(serverURL, apiToken)

	if err := client.DeleteSession(cmd.Context(), args[0]); err != nil {
		ux.Error(fmt.Sprintf("Failed to delete session: %v", err))
		os.Exit(1)
	}
	ux.Success("Session deleted: " + args[0])
}
