// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes defines the request bodies of the gateway API. Field
// validation happens through gin's binding layer; the custom "opsid" tag
// accepts the lowercase identifier grammar used across engines.
package datatypes

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/shieldops/pkg/validation"
)

// RegisterValidators installs the custom binding validators. Call once at
// startup before the router serves traffic.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("opsid", func(fl validator.FieldLevel) bool {
			return validation.IsIdentifier(fl.Field().String())
		})
	}
}

// =============================================================================
// Engine Ingestion Requests
// =============================================================================

// AlertRequest ingests one fired alert.
type AlertRequest struct {
	Fingerprint string    `json:"fingerprint" binding:"required"`
	Source      string    `json:"source" binding:"required,opsid"`
	Service     string    `json:"service" binding:"omitempty,opsid"`
	Severity    string    `json:"severity" binding:"required,oneof=critical high warning info"`
	Message     string    `json:"message"`
	FiredAt     time.Time `json:"fired_at"`
}

// SLOSampleRequest ingests one SLO window observation.
type SLOSampleRequest struct {
	Service     string    `json:"service" binding:"required,opsid"`
	Objective   float64   `json:"objective" binding:"required,gt=0,lte=1"`
	Actual      float64   `json:"actual" binding:"gte=0,lte=1"`
	WindowHours float64   `json:"window_hours" binding:"required,gt=0"`
	BudgetSpent float64   `json:"budget_spent" binding:"gte=0,lte=1"`
	ObservedAt  time.Time `json:"observed_at"`
}

// SpotInstanceRequest ingests one spot instance lifecycle observation.
type SpotInstanceRequest struct {
	InstanceID     string    `json:"instance_id" binding:"required,opsid"`
	Pool           string    `json:"pool" binding:"required"`
	Lifecycle      string    `json:"lifecycle" binding:"required,oneof=running interrupted terminated"`
	HourlySpot     float64   `json:"hourly_spot" binding:"gte=0"`
	HourlyOnDemand float64   `json:"hourly_on_demand" binding:"gte=0"`
	LaunchedAt     time.Time `json:"launched_at"`
}

// InterruptionRequest ingests one spot interruption notice.
type InterruptionRequest struct {
	InstanceID string    `json:"instance_id" binding:"required,opsid"`
	Pool       string    `json:"pool" binding:"required"`
	NoticeSecs int       `json:"notice_secs" binding:"gte=0"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PlannedChangeRequest ingests one planned change window.
type PlannedChangeRequest struct {
	Title    string    `json:"title" binding:"required"`
	System   string    `json:"system" binding:"required,opsid"`
	Team     string    `json:"team" binding:"required,opsid"`
	Risk     string    `json:"risk" binding:"required,oneof=low medium high"`
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at" binding:"required"`
}

// ControlCheckRequest ingests one compliance control evaluation.
type ControlCheckRequest struct {
	Framework string    `json:"framework" binding:"required,opsid"`
	ControlID string    `json:"control_id" binding:"required"`
	Resource  string    `json:"resource"`
	Outcome   string    `json:"outcome" binding:"required,oneof=passed failed skipped"`
	Weight    float64   `json:"weight" binding:"gte=0"`
	CheckedAt time.Time `json:"checked_at"`
}

// DeploymentRequest ingests one deployment outcome.
type DeploymentRequest struct {
	Service     string    `json:"service" binding:"required,opsid"`
	Version     string    `json:"version" binding:"required"`
	Outcome     string    `json:"outcome" binding:"required,oneof=succeeded failed rolled_back"`
	BlastRadius int       `json:"blast_radius" binding:"gte=0"`
	DeployedAt  time.Time `json:"deployed_at"`
}

// CostSampleRequest ingests one daily spend observation.
type CostSampleRequest struct {
	Service    string    `json:"service" binding:"required,opsid"`
	DailyUSD   float64   `json:"daily_usd" binding:"gte=0"`
	ObservedAt time.Time `json:"observed_at"`
}

// VulnerabilityRequest ingests one vulnerability finding.
type VulnerabilityRequest struct {
	CVE          string    `json:"cve" binding:"required"`
	Asset        string    `json:"asset" binding:"required,opsid"`
	CVSS         float64   `json:"cvss" binding:"gte=0,lte=10"`
	Criticality  int       `json:"criticality" binding:"required,gte=1,lte=5"`
	Status       string    `json:"status" binding:"omitempty,oneof=open mitigated remediated"`
	SLADays      int       `json:"sla_days" binding:"gte=0"`
	DiscoveredAt time.Time `json:"discovered_at"`
}

// DriftEventRequest ingests one configuration drift event.
type DriftEventRequest struct {
	Environment string    `json:"environment" binding:"required,opsid"`
	Resource    string    `json:"resource" binding:"required"`
	Kind        string    `json:"kind" binding:"required,oneof=modified missing unmanaged"`
	Reconciled  bool      `json:"reconciled"`
	DetectedAt  time.Time `json:"detected_at"`
}

// PageEventRequest ingests one on-call page.
type PageEventRequest struct {
	Responder string    `json:"responder" binding:"required,opsid"`
	Team      string    `json:"team" binding:"required,opsid"`
	Service   string    `json:"service" binding:"omitempty,opsid"`
	Acked     bool      `json:"acked"`
	PagedAt   time.Time `json:"paged_at"`
}

// UtilizationSampleRequest ingests one resource utilization sample.
type UtilizationSampleRequest struct {
	Resource   string    `json:"resource" binding:"required"`
	Used       float64   `json:"used" binding:"gte=0,lte=1"`
	ObservedAt time.Time `json:"observed_at"`
}

// =============================================================================
// Chat, Policy, and Escalation Requests
// =============================================================================

// ChatRequest carries one user message to the operations agent.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// PolicyEvalRequest evaluates an arbitrary document against a policy path.
type PolicyEvalRequest struct {
	Path  string `json:"path" binding:"required"`
	Input any    `json:"input" binding:"required"`
}

// EscalationStepRequest is one step of an escalation policy definition.
type EscalationStepRequest struct {
	Target      string `json:"target" binding:"required,opsid"`
	Channel     string `json:"channel" binding:"required,oneof=pager slack phone"`
	MaxAttempts int    `json:"max_attempts" binding:"required,gte=1,lte=10"`
	RetryDelay  string `json:"retry_delay" binding:"required"`
}

// EscalationPolicyRequest defines or replaces an escalation policy.
type EscalationPolicyRequest struct {
	ID      string                  `json:"id" binding:"required,opsid"`
	Name    string                  `json:"name" binding:"required"`
	Steps   []EscalationStepRequest `json:"steps" binding:"required,min=1,dive"`
	Timeout string                  `json:"timeout" binding:"required"`
}

// EscalateIncident identifies the incident being escalated.
type EscalateIncident struct {
	ID       string `json:"id" binding:"required"`
	Service  string `json:"service" binding:"required,opsid"`
	Severity string `json:"severity" binding:"required,oneof=critical high warning info"`
	Summary  string `json:"summary"`
}

// EscalateRequest triggers an escalation run for an incident.
type EscalateRequest struct {
	PolicyID string           `json:"policy_id" binding:"required,opsid"`
	Incident EscalateIncident `json:"incident" binding:"required"`
}

// =============================================================================
// Repository Requests
// =============================================================================

// InvestigationRequest opens a new investigation.
type InvestigationRequest struct {
	Title    string `json:"title" binding:"required"`
	Service  string `json:"service" binding:"required,opsid"`
	Severity string `json:"severity" binding:"required,oneof=critical high warning info"`
}

// ResolveRequest closes an open investigation.
type ResolveRequest struct {
	Findings string `json:"findings" binding:"required"`
}

// RemediationRequest records a remediation against an investigation.
type RemediationRequest struct {
	InvestigationID string `json:"investigation_id" binding:"required"`
	Action          string `json:"action" binding:"required"`
	Owner           string `json:"owner"`
}
