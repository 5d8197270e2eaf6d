// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/shieldops/services/escalation"
	"github.com/AleutianAI/shieldops/services/gateway/datatypes"
)

// PutEscalationPolicy defines or replaces an escalation policy. Durations
// come in as Go duration strings ("30s", "5m").
func PutEscalationPolicy(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.EscalationPolicyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		timeout, err := time.ParseDuration(req.Timeout)
		if err != nil || timeout <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timeout"})
			return
		}
		steps := make([]escalation.Step, 0, len(req.Steps))
		for _, s := range req.Steps {
			delay, err := time.ParseDuration(s.RetryDelay)
			if err != nil || delay < 0 {
				c.JSON(http.StatusBadRequest,
					gin.H{"error": "invalid retry_delay for target " + s.Target})
				return
			}
			steps = append(steps, escalation.Step{
				Target:      s.Target,
				Channel:     s.Channel,
				MaxAttempts: s.MaxAttempts,
				RetryDelay:  delay,
			})
		}
		stored := d.Escalations.SetPolicy(escalation.Policy{
			ID:      req.ID,
			Name:    req.Name,
			Steps:   steps,
			Timeout: timeout,
		})
		d.journal(c, "set_escalation_policy", stored.ID, stored.Name)
		c.JSON(http.StatusOK, stored)
	}
}

// GetEscalationPolicy serves one policy by ID.
func GetEscalationPolicy(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := d.Escalations.Policy(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "policy not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// ListEscalationPolicies serves every defined policy.
func ListEscalationPolicies(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, d.Escalations.Policies())
	}
}

// Escalate runs an escalation policy against an incident, walking the
// chain until a notification lands or the policy is exhausted.
func Escalate(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.EscalateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		run, err := d.Escalations.Execute(c.Request.Context(), req.PolicyID, escalation.Incident{
			ID:       req.Incident.ID,
			Service:  req.Incident.Service,
			Severity: req.Incident.Severity,
			Summary:  req.Incident.Summary,
		})
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		d.journal(c, "escalate", req.Incident.ID, string(run.Status))
		c.JSON(http.StatusOK, run)
	}
}

// EscalationHistory serves recorded runs, newest last.
func EscalationHistory(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, d.Escalations.History())
	}
}

// =============================================================================
// Policy Evaluation
// =============================================================================

// EvaluatePolicy evaluates an arbitrary input document against a policy
// path, delegating to OPA when configured and the local rule set otherwise.
func EvaluatePolicy(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.PolicyEvalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		decision, err := d.Policy.Evaluate(c.Request.Context(), req.Path, req.Input)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, decision)
	}
}
