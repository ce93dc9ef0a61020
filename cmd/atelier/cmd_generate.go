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
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/Atelier/pkg/ux"
	"github.com/AleutianAI/Atelier/services/architect/datatypes"
)

// runGenerateCommand drives component generation.
//
// With an argument the command runs one generation and exits. Without
// arguments it starts a REPL where each line is a new description or a
// refinement of the previous component: 'new' starts a fresh session,
// 'exit' quits.
func runGenerateCommand(cmd *cobra.Command, args []string) {
	client := newArchitectClient(serverURL, apiToken)
	ctx := cmd.Context()

	if err := client.Health(ctx); err != nil {
		ux.Error(fmt.Sprintf("Cannot reach the architect service at %s: %v", serverURL, err))
		ux.Muted("Start it with: architect (or set --server)")
		os.Exit(1)
	}

	current := sessionID
	if current == "" {
		id, err := client.NewSession(ctx)
		if err != nil {
			ux.Error(fmt.Sprintf("Failed to create a session: %v", err))
			os.Exit(1)
		}
		current = id
	}

	if len(args) > 0 {
		prompt := strings.Join(args, " ")
		if !generateOnce(ctx, client, current, prompt) {
			os.Exit(1)
		}
		return
	}

	ux.Title("Atelier component generation")
	ux.Muted(fmt.Sprintf("session %s — type a description, 'new' for a fresh session, 'exit' to quit", current))

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print(ux.Styles.Highlight.Render("describe> "))
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "exit" || line == "quit":
			return
		case line == "new":
			id, err := client.NewSession(ctx)
			if err != nil {
				ux.Error(fmt.Sprintf("Failed to create a session: %v", err))
				continue
			}
			current = id
			ux.Success("Started fresh session " + current)
			continue
		}
		generateOnce(ctx, client, current, line)
	}
}

func generateOnce(ctx context.Context, client *architectClient, session, prompt string) bool {
	ux.Info("Generating... (this can take a minute)")
	resp, err := client.Generate(ctx, session, prompt)
	if err != nil {
		ux.Error(fmt.Sprintf("Generation failed: %v", err))
		return false
	}
	printResult(resp)
	return true
}

func printResult(resp *datatypes.GenerateResponse) {
	if resp.ValidationPassed {
		ux.Success(resp.Summary)
	} else {
		ux.Warning(resp.Summary)
		for _, v := range collectWarnings(resp.History) {
			fmt.Printf("  %s %s\n", ux.IconBullet, ux.Styles.Muted.Render(v))
		}
	}
	for i, result := range resp.History {
		detail := ""
		if n := len(result.Violations); n > 0 {
			detail = fmt.Sprintf("%d issue(s)", n)
		}
		ux.AttemptStatus(i+1, string(result.Stage), result.Passed, detail)
	}
	if resp.Location != "" {
		ux.Info("Files written to " + ux.Styles.Bold.Render(resp.Location))
	}
	ux.Muted(fmt.Sprintf("preview: atelier preview %s", resp.SessionID))
}

func collectWarnings(history []datatypes.ValidationResult) []string {
	var out []string
	for _, result := range history {
		for _, v := range result.Violations {
			out = append(out, v.Message)
		}
	}
	return out
}
