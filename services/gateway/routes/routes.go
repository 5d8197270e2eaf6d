// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/shieldops/services/gateway/handlers"
)

// SetupRoutes wires the full gateway surface onto the router.
func SetupRoutes(router *gin.Engine, d *handlers.Deps) {

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	{
		v1.GET("/stats", handlers.StatsAll(d))
		v1.DELETE("/records", handlers.ClearAll(d))

		v1.POST("/chat", handlers.HandleChat(d))
		v1.GET("/chat/ws", handlers.HandleChatWebSocket(d))

		v1.POST("/batch", handlers.HandleBatch(d))
		v1.GET("/audit", handlers.RecentAuditEvents(d))
		v1.POST("/policy/evaluate", handlers.EvaluatePolicy(d))

		alerts := v1.Group("/alerts")
		{
			alerts.POST("/records", handlers.CreateAlert(d))
			alerts.GET("/records", handlers.ListAlerts(d))
			alerts.GET("/records/:id", handlers.GetAlert(d))
			alerts.GET("/duplicates", handlers.AlertDuplicates(d))
			alerts.GET("/sources", handlers.NoisiestSources(d))
			registerEngineOps(alerts, d, "alerts")
		}

		slo := v1.Group("/slo")
		{
			slo.POST("/records", handlers.CreateSLOSample(d))
			slo.GET("/records", handlers.ListSLOSamples(d))
			slo.GET("/forecasts", handlers.SLOForecasts(d))
			slo.GET("/forecasts/:service", handlers.ServiceForecast(d))
			registerEngineOps(slo, d, "slo")
		}

		spot := v1.Group("/spot")
		{
			spot.POST("/instances", handlers.CreateSpotInstance(d))
			spot.GET("/instances", handlers.ListSpotInstances(d))
			spot.POST("/interruptions", handlers.CreateInterruption(d))
			spot.GET("/interruptions", handlers.ListInterruptions(d))
			spot.GET("/pools", handlers.RiskyPools(d))
			registerEngineOps(spot, d, "spot")
		}

		changes := v1.Group("/changes")
		{
			changes.POST("/records", handlers.CreatePlannedChange(d))
			changes.GET("/records", handlers.ListPlannedChanges(d))
			changes.GET("/records/:id", handlers.GetPlannedChange(d))
			changes.GET("/conflicts", handlers.ChangeConflicts(d))
			registerEngineOps(changes, d, "changes")
		}

		compliance := v1.Group("/compliance")
		{
			compliance.POST("/records", handlers.CreateControlCheck(d))
			compliance.GET("/records", handlers.ListControlChecks(d))
			compliance.GET("/scores", handlers.ComplianceScores(d))
			compliance.GET("/worst", handlers.WorstControls(d))
			registerEngineOps(compliance, d, "compliance")
		}

		deploys := v1.Group("/deploys")
		{
			deploys.POST("/records", handlers.CreateDeployment(d))
			deploys.GET("/records", handlers.ListDeployments(d))
			deploys.GET("/risks", handlers.ServiceRisks(d))
			registerEngineOps(deploys, d, "deploys")
		}

		costs := v1.Group("/costs")
		{
			costs.POST("/records", handlers.CreateCostSample(d))
			costs.GET("/records", handlers.ListCostSamples(d))
			costs.GET("/anomalies", handlers.CostAnomalies(d))
			registerEngineOps(costs, d, "costs")
		}

		vulns := v1.Group("/vulns")
		{
			vulns.POST("/records", handlers.CreateVulnerability(d))
			vulns.GET("/records", handlers.ListVulnerabilities(d))
			vulns.GET("/exposures", handlers.TopExposures(d))
			registerEngineOps(vulns, d, "vulns")
		}

		drift := v1.Group("/drift")
		{
			drift.POST("/records", handlers.CreateDriftEvent(d))
			drift.GET("/records", handlers.ListDriftEvents(d))
			drift.GET("/hotspots", handlers.DriftHotspots(d))
			registerEngineOps(drift, d, "drift")
		}

		oncall := v1.Group("/oncall")
		{
			oncall.POST("/records", handlers.CreatePageEvent(d))
			oncall.GET("/records", handlers.ListPageEvents(d))
			oncall.GET("/loads", handlers.ResponderLoads(d))
			registerEngineOps(oncall, d, "oncall")
		}

		capacity := v1.Group("/capacity")
		{
			capacity.POST("/records", handlers.CreateUtilizationSample(d))
			capacity.GET("/records", handlers.ListUtilizationSamples(d))
			capacity.GET("/trends", handlers.CapacityTrends(d))
			capacity.GET("/trends/:resource", handlers.ResourceTrend(d))
			registerEngineOps(capacity, d, "capacity")
		}

		// Escalation administration routes
		escalations := v1.Group("/escalations")
		{
			escalations.PUT("/policies", handlers.PutEscalationPolicy(d))
			escalations.GET("/policies", handlers.ListEscalationPolicies(d))
			escalations.GET("/policies/:id", handlers.GetEscalationPolicy(d))
			escalations.POST("/runs", handlers.Escalate(d))
			escalations.GET("/runs", handlers.EscalationHistory(d))
			escalations.GET("/report", handlers.EscalationReportRoute(d))
		}

		// Investigation and remediation persistence routes
		investigations := v1.Group("/investigations")
		{
			investigations.POST("", handlers.CreateInvestigation(d))
			investigations.GET("", handlers.ListInvestigations(d))
			investigations.GET("/:id", handlers.GetInvestigation(d))
			investigations.POST("/:id/resolve", handlers.ResolveInvestigation(d))
		}
		remediations := v1.Group("/remediations")
		{
			remediations.POST("", handlers.CreateRemediation(d))
			remediations.GET("", handlers.ListRemediations(d))
			remediations.POST("/:id/complete", handlers.CompleteRemediation(d))
		}
	}
}

// registerEngineOps wires the report/stats/clear trio shared by every
// analytics engine group.
func registerEngineOps(group *gin.RouterGroup, d *handlers.Deps, engine string) {
	group.GET("/report", handlers.EngineReport(d, engine))
	group.GET("/stats", handlers.EngineStats(d, engine))
	group.DELETE("/records", handlers.EngineClear(d, engine))
}
