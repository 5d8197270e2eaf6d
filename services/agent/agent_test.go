// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/AleutianAI/shieldops/services/analytics"
	"github.com/AleutianAI/shieldops/services/escalation"
	"github.com/AleutianAI/shieldops/services/llm"
)

type recordingLLM struct {
	prompt string
	answer string
	err    error
}

func (r *recordingLLM) Generate(ctx context.Context, prompt string, params llm.GenerationParams) (string, error) {
	r.prompt = prompt
	return r.answer, r.err
}

func newTestAgent(client llm.Client) *Agent {
	engines := analytics.NewEngines(100)
	engines.AlertDedup.Record(analytics.Alert{
		Fingerprint: "fp-1", Source: "prometheus", Severity: analytics.SeverityHigh,
	})
	return New(engines, escalation.NewEngine(nil, 10), client)
}

func TestAgent_EngineIntents(t *testing.T) {
	mock := &recordingLLM{answer: "should not be called"}
	a := newTestAgent(mock)

	cases := []struct {
		message string
		intent  string
	}{
		{"why is the alert noise so bad today?", "alert_summary"},
		{"how is our error budget looking", "slo_forecast"},
		{"any spot interruptions overnight?", "spot_fleet"},
		{"do the maintenance windows conflict?", "change_conflicts"},
		{"what's our soc2 posture", "compliance_posture"},
		{"is it safe to deploy payments", "deploy_risk"},
		{"did cloud spend jump", "cost_anomalies"},
		{"any new CVE exposure", "vulnerability_exposure"},
		{"show config drift", "config_drift"},
		{"who is getting paged the most", "oncall_load"},
		{"how much capacity headroom is left", "capacity_forecast"},
		{"did the escalation chain work", "escalations"},
	}
	for _, tc := range cases {
		t.Run(tc.intent, func(t *testing.T) {
			reply, err := a.Respond(context.Background(), tc.message)
			if err != nil {
				t.Fatal(err)
			}
			if reply.Intent != tc.intent {
				t.Errorf("Intent = %q, want %q", reply.Intent, tc.intent)
			}
			if reply.Source != "engine" {
				t.Errorf("Source = %q, want engine", reply.Source)
			}
			if reply.Answer == "" {
				t.Error("engine answers should never be empty")
			}
		})
	}
	if mock.prompt != "" {
		t.Errorf("LLM should not be consulted for engine intents, got prompt %q", mock.prompt)
	}
}

func TestAgent_LLMFallback(t *testing.T) {
	t.Run("unmatched message goes to the llm", func(t *testing.T) {
		mock := &recordingLLM{answer: "42"}
		a := newTestAgent(mock)

		reply, err := a.Respond(context.Background(), "what is the meaning of life")
		if err != nil {
			t.Fatal(err)
		}
		if reply.Source != "llm" || reply.Intent != "llm_fallback" {
			t.Errorf("reply = %+v, want llm fallback", reply)
		}
		if !strings.Contains(mock.prompt, "meaning of life") {
			t.Errorf("prompt %q should carry the user message", mock.prompt)
		}
	})

	t.Run("llm errors surface", func(t *testing.T) {
		a := newTestAgent(&recordingLLM{err: errors.New("model offline")})
		if _, err := a.Respond(context.Background(), "tell me a story"); err == nil {
			t.Fatal("expected an error from the llm fallback")
		}
	})

	t.Run("nil client degrades to nop backend", func(t *testing.T) {
		a := newTestAgent(nil)
		reply, err := a.Respond(context.Background(), "hello there")
		if err != nil {
			t.Fatal(err)
		}
		if reply.Answer == "" {
			t.Error("nop backend should still answer")
		}
	})
}
