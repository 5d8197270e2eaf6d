// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package policy evaluates operator actions against an external OPA-style
// decision service, with embedded local rules as the offline fallback.
//
// The client POSTs {"input": ...} to <base>/v1/data/<path> and reads the
// decision document with gjson, since OPA result shapes vary by policy
// (bare boolean, {"allow": bool}, or {"allow": bool, "reasons": [...]}).
// When the decision service is unreachable the local rule set answers
// instead, so chat screening keeps working in lightweight deployments.
package policy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Decision is the normalized answer from either backend.
type Decision struct {
	Allowed bool     `json:"allowed"`
	Reasons []string `json:"reasons,omitempty"`
	Source  string   `json:"source"` // "opa" or "local"
}

// Client queries the decision service, falling back to local rules.
//
// Thread Safety: safe for concurrent use; the local rule set has its own
// locking and http.Client is concurrency-safe.
type Client struct {
	baseURL string
	http    *http.Client
	local   *LocalRules
}

// NewClient builds a client from OPA_URL. An empty OPA_URL leaves the client
// in local-only mode, which is not an error.
func NewClient(local *LocalRules) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("OPA_URL")), "/")
	if baseURL == "" {
		slog.Info("OPA_URL not set, policy decisions use local rules only")
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
		local:   local,
	}
}

// NewClientWithURL is the injectable variant used by tests.
func NewClientWithURL(baseURL string, local *LocalRules) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
		local:   local,
	}
}

// Evaluate asks the decision service for the named policy path
// (e.g. "shieldops/chat/allow") with the given input document.
func (c *Client) Evaluate(ctx context.Context, path string, input any) (Decision, error) {
	if c.baseURL == "" {
		return c.localDecision(input), nil
	}

	body, err := json.Marshal(map[string]any{"input": input})
	if err != nil {
		return Decision{}, fmt.Errorf("marshal policy input: %w", err)
	}
	url := c.baseURL + "/v1/data/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Decision{}, fmt.Errorf("build policy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Warn("policy service unreachable, falling back to local rules", "error", err)
		return c.localDecision(input), nil
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Decision{}, fmt.Errorf("read policy response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Decision{}, fmt.Errorf("policy service returned %d", resp.StatusCode)
	}
	return parseDecision(raw), nil
}

// ScreenText is the chat-screening helper: it evaluates the configured chat
// policy against a message and never errors, degrading to local rules.
func (c *Client) ScreenText(ctx context.Context, text string) Decision {
	d, err := c.Evaluate(ctx, chatPolicyPath(), map[string]any{"message": text})
	if err != nil {
		slog.Warn("policy evaluation failed, using local rules", "error", err)
		return c.localDecision(map[string]any{"message": text})
	}
	return d
}

func chatPolicyPath() string {
	if p := os.Getenv("OPA_CHAT_POLICY"); p != "" {
		return p
	}
	return "shieldops/chat"
}

func (c *Client) localDecision(input any) Decision {
	if c.local == nil {
		return Decision{Allowed: true, Source: "local"}
	}
	return c.local.Decide(input)
}

// parseDecision normalizes the three result shapes OPA policies produce.
func parseDecision(raw []byte) Decision {
	result := gjson.GetBytes(raw, "result")
	if !result.Exists() {
		// Undefined decision: OPA returns {} when no rule matched.
		return Decision{Allowed: false, Reasons: []string{"policy decision undefined"}, Source: "opa"}
	}
	d := Decision{Source: "opa"}
	switch {
	case result.IsBool():
		d.Allowed = result.Bool()
	case result.Get("allow").Exists():
		d.Allowed = result.Get("allow").Bool()
	default:
		// Treat any other non-empty document as a denial with the raw doc as reason.
		d.Allowed = false
		d.Reasons = append(d.Reasons, result.Raw)
	}
	for _, r := range result.Get("reasons").Array() {
		d.Reasons = append(d.Reasons, r.String())
	}
	return d
}
