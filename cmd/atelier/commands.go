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
	"os"

	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	serverURL string
	apiToken  string
	sessionID string

	rootCmd = &cobra.Command{
		Use:   "atelier",
		Short: "A cli to generate and preview Angular components with the Atelier service",
		Long: `Atelier turns plain-language UI descriptions into validated,
				design-system-compliant Angular components. The cli talks to a
				locally running architect service.`,
	}

	// --- Generation ---
	generateCmd = &cobra.Command{
		Use:     "generate [description]",
		Short:   "Starts an interactive component generation session",
		Aliases: []string{"gen", "g"},
		Run:     runGenerateCommand, // Defined in cmd_generate.go
	}

	// --- Preview ---
	previewCmd = &cobra.Command{
		Use:   "preview [session_id]",
		Short: "Render the latest component of a session as a standalone HTML page",
		Run:   runPreviewCommand, // Defined in cmd_preview.go
	}

	// --- Sessions ---
	sessionCmd = &cobra.Command{
		Use:   "session",
		Short: "Manage generation sessions",
	}
	listSessionsCmd = &cobra.Command{
		Use:   "list",
		Short: "List all generation sessions",
		Run:   runListSessions, // Defined in cmd_sessions.go
	}
	historySessionCmd = &cobra.Command{
		Use:   "history [session_id]",
		Short: "Show the conversation history of a session",
		Run:   runSessionHistory, // Defined in cmd_sessions.go
	}
	deleteSessionCmd = &cobra.Command{
		Use:   "delete [session_id]",
		Short: "Delete a specific generation session",
		Run:   runDeleteSession, // Defined in cmd_sessions.go
	}

	// --- Health ---
	healthCmd = &cobra.Command{
		Use:   "health",
		Short: "Check whether the architect service is up",
		Run:   runHealthCommand, // Defined in cmd_health.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServerURL(),
		"Base URL of the architect service")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", os.Getenv("ATELIER_API_TOKEN"),
		"Bearer token for the architect service (if configured)")

	generateCmd.Flags().StringVar(&sessionID, "session", "",
		"Continue an existing session instead of starting a new one")
	previewCmd.Flags().StringVarP(&previewOutput, "output", "o", "",
		"Write the preview HTML to a file instead of stdout")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(healthCmd)

	sessionCmd.AddCommand(listSessionsCmd)
	sessionCmd.AddCommand(historySessionCmd)
	sessionCmd.AddCommand(deleteSessionCmd)
}

func defaultServerURL() string {
	if url := os.Getenv("ATELIER_SERVER_URL"); url != "" {
		return url
	}
	return "http://localhost:12219"
}
