// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package agent answers operator chat messages.
//
// Routing is rule-based first: a keyword match against a known intent
// renders the matching engine's report as prose, with no model call. Only
// unmatched messages fall back to the configured LLM backend, so the chat
// endpoint stays useful (and cheap) without any model configured.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AleutianAI/shieldops/services/analytics"
	"github.com/AleutianAI/shieldops/services/escalation"
	"github.com/AleutianAI/shieldops/services/llm"
)

// Reply is the agent's answer to one message.
type Reply struct {
	Answer string `json:"answer"`
	Intent string `json:"intent"`          // matched intent, or "llm_fallback"
	Source string `json:"source"`          // "engine" or "llm"
	Model  string `json:"model,omitempty"` // set for llm answers when known
}

// Agent routes messages to engines or the LLM fallback.
type Agent struct {
	engines     *analytics.Engines
	escalations *escalation.Engine
	llm         llm.Client
	intents     []intent
}

type intent struct {
	name     string
	keywords []string
	answer   func(a *Agent) string
}

// New creates an agent over the shared engine set. A nil llm client
// degrades the fallback to the nop backend.
func New(engines *analytics.Engines, escalations *escalation.Engine, llmClient llm.Client) *Agent {
	if llmClient == nil {
		llmClient = llm.NewNopClient()
	}
	a := &Agent{engines: engines, escalations: escalations, llm: llmClient}
	a.intents = []intent{
		{"alert_summary", []string{"alert", "dedup", "noise", "noisy"}, summarizeAlerts},
		{"slo_forecast", []string{"slo", "error budget", "burn"}, summarizeSLO},
		{"spot_fleet", []string{"spot", "interruption", "preempt"}, summarizeSpot},
		{"change_conflicts", []string{"change", "conflict", "maintenance window"}, summarizeChanges},
		{"compliance_posture", []string{"compliance", "control", "framework", "soc2", "pci"}, summarizeCompliance},
		{"deploy_risk", []string{"deploy", "rollback", "release"}, summarizeDeploys},
		{"cost_anomalies", []string{"cost", "spend", "bill"}, summarizeCosts},
		{"vulnerability_exposure", []string{"vuln", "cve", "exposure"}, summarizeVulns},
		{"config_drift", []string{"drift", "unmanaged"}, summarizeDrift},
		{"oncall_load", []string{"on-call", "oncall", "page", "rotation"}, summarizeOnCall},
		{"capacity_forecast", []string{"capacity", "saturation", "utilization", "headroom"}, summarizeCapacity},
		{"escalations", []string{"escalation", "incident run"}, summarizeEscalations},
	}
	return a
}

// Respond answers one message. Errors only surface from the LLM fallback;
// engine-backed answers always succeed.
func (a *Agent) Respond(ctx context.Context, message string) (Reply, error) {
	lower := strings.ToLower(message)
	for _, in := range a.intents {
		for _, kw := range in.keywords {
			if strings.Contains(lower, kw) {
				slog.Debug("chat intent matched", "intent", in.name, "keyword", kw)
				return Reply{Answer: in.answer(a), Intent: in.name, Source: "engine"}, nil
			}
		}
	}

	slog.Debug("no chat intent matched, falling back to LLM")
	answer, err := a.llm.Generate(ctx, message, llm.GenerationParams{})
	if err != nil {
		return Reply{}, fmt.Errorf("llm fallback: %w", err)
	}
	return Reply{Answer: answer, Intent: "llm_fallback", Source: "llm"}, nil
}

func renderRecommendations(recs []string) string {
	if len(recs) == 0 {
		return "No recommendations."
	}
	var b strings.Builder
	b.WriteString("Recommendations:")
	for _, r := range recs {
		b.WriteString("\n- ")
		b.WriteString(r)
	}
	return b.String()
}

func summarizeAlerts(a *Agent) string {
	rep := a.engines.AlertDedup.Report()
	return fmt.Sprintf("Tracking %d alerts (%d unique, %.0f%% duplicates). %s",
		rep.TotalAlerts, rep.UniqueAlerts, rep.DedupRatio*100, renderRecommendations(rep.Recommendations))
}

func summarizeSLO(a *Agent) string {
	rep := a.engines.SLOForecast.Report()
	return fmt.Sprintf("%d SLO samples across %d services; %d at risk of budget exhaustion this week. %s",
		rep.TotalSamples, len(rep.ByService), len(rep.ServicesAtRisk), renderRecommendations(rep.Recommendations))
}

func summarizeSpot(a *Agent) string {
	rep := a.engines.SpotOps.Report()
	return fmt.Sprintf("Spot fleet: %d instances, %d interruptions, saving $%.2f/hour vs on-demand. %s",
		rep.TotalInstances, rep.Interruptions, rep.EstimatedSavings, renderRecommendations(rep.Recommendations))
}

func summarizeChanges(a *Agent) string {
	rep := a.engines.ChangeConflict.Report()
	return fmt.Sprintf("%d planned changes with %d window conflicts. %s",
		rep.TotalChanges, len(rep.Conflicts), renderRecommendations(rep.Recommendations))
}

func summarizeCompliance(a *Agent) string {
	rep := a.engines.Compliance.Report()
	parts := make([]string, 0, len(rep.Frameworks))
	for _, fw := range rep.Frameworks {
		parts = append(parts, fmt.Sprintf("%s %.0f%%", fw.Framework, fw.Score*100))
	}
	return fmt.Sprintf("Compliance over %d checks: %s. %s",
		rep.TotalChecks, strings.Join(parts, ", "), renderRecommendations(rep.Recommendations))
}

func summarizeDeploys(a *Agent) string {
	rep := a.engines.DeployRisk.Report()
	return fmt.Sprintf("%d deploys tracked (%d failed, %d rolled back). %s",
		rep.TotalDeploys, rep.ByOutcome[analytics.DeployFailed],
		rep.ByOutcome[analytics.DeployRolledBack], renderRecommendations(rep.Recommendations))
}

func summarizeCosts(a *Agent) string {
	rep := a.engines.CostAnomaly.Report()
	return fmt.Sprintf("Spend is $%.2f/day across %d services with %d anomalies. %s",
		rep.TotalDailyUSD, len(rep.ByService), len(rep.Anomalies), renderRecommendations(rep.Recommendations))
}

func summarizeVulns(a *Agent) string {
	rep := a.engines.VulnWatch.Report()
	return fmt.Sprintf("%d findings tracked, %d open, %d past SLA. %s",
		rep.TotalFindings, rep.ByStatus[analytics.VulnOpen], rep.SLABreaches,
		renderRecommendations(rep.Recommendations))
}

func summarizeDrift(a *Agent) string {
	rep := a.engines.ConfigDrift.Report()
	return fmt.Sprintf("%d drift events, %d unreconciled. %s",
		rep.TotalEvents, rep.Unreconciled, renderRecommendations(rep.Recommendations))
}

func summarizeOnCall(a *Agent) string {
	rep := a.engines.OnCallLoad.Report()
	return fmt.Sprintf("%d pages across %d responders. %s",
		rep.TotalPages, len(rep.Responders), renderRecommendations(rep.Recommendations))
}

func summarizeCapacity(a *Agent) string {
	rep := a.engines.Capacity.Report()
	return fmt.Sprintf("%d utilization samples across %d resources. %s",
		rep.TotalSamples, len(rep.ByResource), renderRecommendations(rep.Recommendations))
}

func summarizeEscalations(a *Agent) string {
	rep := a.escalations.Report()
	return fmt.Sprintf("%d escalation runs (%d completed, %d exhausted, %d timed out). %s",
		rep.TotalRuns, rep.ByStatus[escalation.RunCompleted], rep.ByStatus[escalation.RunExhausted],
		rep.ByStatus[escalation.RunTimedOut], renderRecommendations(rep.Recommendations))
}
