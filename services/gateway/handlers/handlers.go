// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers implements the HTTP handlers of the gateway service.
//
// Every handler is a closure over *Deps returning a gin.HandlerFunc, so
// routes.SetupRoutes can wire the whole surface from one dependency bundle.
// Binding failures map to 400, missing records to 404, policy denials to 403.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/AleutianAI/shieldops/services/agent"
	"github.com/AleutianAI/shieldops/services/analytics"
	"github.com/AleutianAI/shieldops/services/audit"
	"github.com/AleutianAI/shieldops/services/escalation"
	"github.com/AleutianAI/shieldops/services/gateway/observability"
	"github.com/AleutianAI/shieldops/services/policy"
	"github.com/AleutianAI/shieldops/services/repository"
)

// =============================================================================
// Dependencies
// =============================================================================

// Deps bundles everything the handlers touch. All fields except Repo and
// Audit must be non-nil; Repo and Audit gate the endpoints that need them.
type Deps struct {
	Engines     *analytics.Engines
	Escalations *escalation.Engine
	Agent       *agent.Agent
	Policy      *policy.Client
	Repo        *repository.Repository
	Audit       *audit.Store
	Metrics     *observability.GatewayMetrics
}

// countOp bumps the per-engine request counter.
func (d *Deps) countOp(engine, op string) {
	d.Metrics.RequestsTotal.WithLabelValues(engine, op).Inc()
}

// countIngest bumps both the request and the ingestion counters.
func (d *Deps) countIngest(engine string) {
	d.countOp(engine, "record")
	d.Metrics.RecordsIngested.WithLabelValues(engine).Inc()
}

// journal writes an audit event if the audit store is configured.
func (d *Deps) journal(c *gin.Context, action, subject, detail string) {
	if d.Audit == nil {
		return
	}
	ev := audit.Event{
		Actor:   actorFrom(c),
		Action:  action,
		Subject: subject,
		Detail:  detail,
	}
	if _, err := d.Audit.Record(ev); err != nil {
		// Audit is best effort; the request already succeeded.
		_ = c.Error(err)
	}
}

// actorFrom mirrors middleware.GetActor without importing the package,
// keeping handlers free of a middleware dependency cycle in tests.
func actorFrom(c *gin.Context) string {
	if v, ok := c.Get("shieldops_actor"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "local-user"
}

// =============================================================================
// Generic Engine Operations
// =============================================================================

// engineReport serves an engine's analytical report and times its generation.
func engineReport(d *Deps, engine string, build func() any) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp(engine, "report")
		timer := prometheus.NewTimer(
			d.Metrics.ReportDurationSeconds.WithLabelValues(engine))
		body := build()
		timer.ObserveDuration()
		c.JSON(http.StatusOK, body)
	}
}

// engineStats serves an engine's record counters.
func engineStats(d *Deps, engine string, stats func() analytics.Stats) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp(engine, "stats")
		c.JSON(http.StatusOK, stats())
	}
}

// engineClear wipes an engine's records.
func engineClear(d *Deps, engine string, clear func()) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp(engine, "clear")
		clear()
		d.journal(c, "clear_records", engine, "")
		c.JSON(http.StatusOK, gin.H{"cleared": engine})
	}
}

// =============================================================================
// Service-Level Endpoints
// =============================================================================

// HealthCheck reports liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// StatsAll serves the record counters of every engine in one response.
func StatsAll(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := d.Engines.StatsAll()
		stats["escalations"] = d.Escalations.Stats()
		c.JSON(http.StatusOK, stats)
	}
}

// ClearAll wipes every engine. Intended for test rigs and demo resets.
func ClearAll(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.Engines.ClearAll()
		d.Escalations.Clear()
		d.journal(c, "clear_records", "all", "")
		c.JSON(http.StatusOK, gin.H{"cleared": "all"})
	}
}
