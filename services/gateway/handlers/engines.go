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

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/shieldops/services/analytics"
)

// engineOps binds one engine name to its shared operations.
type engineOps struct {
	report func() any
	stats  func() analytics.Stats
	clear  func()
}

// opsFor returns the shared operations of a named engine, or false for an
// unknown name. Names match the keys of analytics.Engines.StatsAll.
func opsFor(d *Deps, engine string) (engineOps, bool) {
	e := d.Engines
	switch engine {
	case "alerts":
		return engineOps{
			func() any { return e.AlertDedup.Report() },
			e.AlertDedup.Stats, e.AlertDedup.Clear}, true
	case "slo":
		return engineOps{
			func() any { return e.SLOForecast.Report() },
			e.SLOForecast.Stats, e.SLOForecast.Clear}, true
	case "spot":
		return engineOps{
			func() any { return e.SpotOps.Report() },
			e.SpotOps.Stats, e.SpotOps.Clear}, true
	case "changes":
		return engineOps{
			func() any { return e.ChangeConflict.Report() },
			e.ChangeConflict.Stats, e.ChangeConflict.Clear}, true
	case "compliance":
		return engineOps{
			func() any { return e.Compliance.Report() },
			e.Compliance.Stats, e.Compliance.Clear}, true
	case "deploys":
		return engineOps{
			func() any { return e.DeployRisk.Report() },
			e.DeployRisk.Stats, e.DeployRisk.Clear}, true
	case "costs":
		return engineOps{
			func() any { return e.CostAnomaly.Report() },
			e.CostAnomaly.Stats, e.CostAnomaly.Clear}, true
	case "vulns":
		return engineOps{
			func() any { return e.VulnWatch.Report() },
			e.VulnWatch.Stats, e.VulnWatch.Clear}, true
	case "drift":
		return engineOps{
			func() any { return e.ConfigDrift.Report() },
			e.ConfigDrift.Stats, e.ConfigDrift.Clear}, true
	case "oncall":
		return engineOps{
			func() any { return e.OnCallLoad.Report() },
			e.OnCallLoad.Stats, e.OnCallLoad.Clear}, true
	case "capacity":
		return engineOps{
			func() any { return e.Capacity.Report() },
			e.Capacity.Stats, e.Capacity.Clear}, true
	}
	return engineOps{}, false
}

// EngineReport serves the analytical report of a named engine.
func EngineReport(d *Deps, engine string) gin.HandlerFunc {
	ops, ok := opsFor(d, engine)
	if !ok {
		return unknownEngine(engine)
	}
	return engineReport(d, engine, ops.report)
}

// EngineStats serves the record counters of a named engine.
func EngineStats(d *Deps, engine string) gin.HandlerFunc {
	ops, ok := opsFor(d, engine)
	if !ok {
		return unknownEngine(engine)
	}
	return engineStats(d, engine, ops.stats)
}

// EngineClear wipes the records of a named engine.
func EngineClear(d *Deps, engine string) gin.HandlerFunc {
	ops, ok := opsFor(d, engine)
	if !ok {
		return unknownEngine(engine)
	}
	return engineClear(d, engine, ops.clear)
}

// EscalationReportRoute serves the escalation run report.
func EscalationReportRoute(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, d.Escalations.Report())
	}
}

// unknownEngine is only reachable through a routing mistake; it fails loud
// instead of panicking at wire-up time.
func unknownEngine(engine string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError,
			gin.H{"error": "unknown engine: " + engine})
	}
}
