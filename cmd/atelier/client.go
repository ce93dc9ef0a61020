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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AleutianAI/Atelier/services/architect/datatypes"
)

// architectClient is a thin HTTP client for the architect service.
type architectClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newArchitectClient(baseURL, token string) *architectClient {
	return &architectClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		// Generation runs the full retry loop server-side, so the
		// client timeout must cover several LLM calls.
		http: &http.Client{Timeout: 10 * time.Minute},
	}
}

func (c *architectClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (HTTP %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("server returned HTTP %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (c *architectClient) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *architectClient) Generate(ctx context.Context, sessionID, prompt string) (*datatypes.GenerateResponse, error) {
	req := datatypes.GenerateRequest{SessionID: sessionID, Prompt: prompt}
	var resp datatypes.GenerateResponse
	if err := c.do(ctx, http.MethodPost, "/v1/components/generate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *architectClient) NewSession(ctx context.Context) (string, error) {
	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/sessions/new", nil, &resp); err != nil {
		return "", err
	}
	return resp.SessionID, nil
}

func (c *architectClient) ListSessions(ctx context.Context) ([]datatypes.SessionInfo, error) {
	var resp struct {
		Sessions []datatypes.SessionInfo `json:"sessions"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

func (c *architectClient) SessionHistory(ctx context.Context, id string) ([]datatypes.ChatEntry, error) {
	var resp struct {
		ChatLog []datatypes.ChatEntry `json:"chat_log"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/sessions/"+id+"/history", nil, &resp); err != nil {
		return nil, err
	}
	return resp.ChatLog, nil
}

func (c *architectClient) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/sessions/"+id, nil, nil)
}

func (c *architectClient) Preview(ctx context.Context, id string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/components/"+id+"/preview", nil)
	if err != nil {
		return "", err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("%s (HTTP %d)", apiErr.Error, resp.StatusCode)
		}
		return "", fmt.Errorf("server returned HTTP %d", resp.StatusCode)
	}
	return string(raw), nil
}
