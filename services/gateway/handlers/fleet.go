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
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/shieldops/services/analytics"
	"github.com/AleutianAI/shieldops/services/gateway/datatypes"
)

// =============================================================================
// Deploy Risk
// =============================================================================

func CreateDeployment(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.DeploymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		stored := d.Engines.DeployRisk.Record(analytics.Deployment{
			Service:     req.Service,
			Version:     req.Version,
			Outcome:     analytics.DeployOutcome(req.Outcome),
			BlastRadius: req.BlastRadius,
			DeployedAt:  req.DeployedAt,
		})
		d.countIngest("deploys")
		c.JSON(http.StatusCreated, stored)
	}
}

func ListDeployments(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp("deploys", "list")
		if svc := c.Query("service"); svc != "" {
			c.JSON(http.StatusOK, d.Engines.DeployRisk.ForService(svc))
			return
		}
		c.JSON(http.StatusOK, d.Engines.DeployRisk.Deployments())
	}
}

// ServiceRisks serves per-service deploy risk scores, riskiest first.
func ServiceRisks(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp("deploys", "risks")
		c.JSON(http.StatusOK, d.Engines.DeployRisk.ServiceRisks())
	}
}

// =============================================================================
// Cost Anomaly
// =============================================================================

func CreateCostSample(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.CostSampleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		stored := d.Engines.CostAnomaly.Record(analytics.CostSample{
			Service:    req.Service,
			DailyUSD:   req.DailyUSD,
			ObservedAt: req.ObservedAt,
		})
		d.countIngest("costs")
		c.JSON(http.StatusCreated, stored)
	}
}

func ListCostSamples(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp("costs", "list")
		if svc := c.Query("service"); svc != "" {
			c.JSON(http.StatusOK, d.Engines.CostAnomaly.ForService(svc))
			return
		}
		c.JSON(http.StatusOK, d.Engines.CostAnomaly.Samples())
	}
}

// CostAnomalies serves services whose latest spend deviates from baseline.
func CostAnomalies(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp("costs", "anomalies")
		c.JSON(http.StatusOK, d.Engines.CostAnomaly.Anomalies())
	}
}

// =============================================================================
// Vulnerability Watch
// =============================================================================

func CreateVulnerability(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.VulnerabilityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status := analytics.VulnStatus(req.Status)
		if req.Status == "" {
			status = analytics.VulnOpen
		}
		stored := d.Engines.VulnWatch.Record(analytics.Vulnerability{
			CVE:          req.CVE,
			Asset:        req.Asset,
			CVSS:         req.CVSS,
			Criticality:  req.Criticality,
			Status:       status,
			SLADays:      req.SLADays,
			DiscoveredAt: req.DiscoveredAt,
		})
		d.countIngest("vulns")
		c.JSON(http.StatusCreated, stored)
	}
}

func ListVulnerabilities(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp("vulns", "list")
		if status := c.Query("status"); status != "" {
			c.JSON(http.StatusOK,
				d.Engines.VulnWatch.ByStatus(analytics.VulnStatus(status)))
			return
		}
		c.JSON(http.StatusOK, d.Engines.VulnWatch.Findings())
	}
}

// TopExposures serves open vulnerabilities ranked by CVSS times asset
// criticality. ?limit= caps the list, defaulting to 10.
func TopExposures(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 10
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
				return
			}
			limit = n
		}
		c.JSON(http.StatusOK, d.Engines.VulnWatch.TopExposures(limit))
	}
}

// =============================================================================
// Config Drift
// =============================================================================

func CreateDriftEvent(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.DriftEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		stored := d.Engines.ConfigDrift.Record(analytics.DriftEvent{
			Environment: req.Environment,
			Resource:    req.Resource,
			Kind:        analytics.DriftKind(req.Kind),
			Reconciled:  req.Reconciled,
			DetectedAt:  req.DetectedAt,
		})
		d.countIngest("drift")
		c.JSON(http.StatusCreated, stored)
	}
}

func ListDriftEvents(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp("drift", "list")
		if env := c.Query("environment"); env != "" {
			c.JSON(http.StatusOK, d.Engines.ConfigDrift.ForEnvironment(env))
			return
		}
		c.JSON(http.StatusOK, d.Engines.ConfigDrift.Events())
	}
}

// DriftHotspots serves per-environment drift pressure.
func DriftHotspots(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp("drift", "hotspots")
		c.JSON(http.StatusOK, d.Engines.ConfigDrift.Hotspots())
	}
}

// =============================================================================
// On-Call Load
// =============================================================================

func CreatePageEvent(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.PageEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		stored := d.Engines.OnCallLoad.Record(analytics.PageEvent{
			Responder: req.Responder,
			Team:      req.Team,
			Service:   req.Service,
			Acked:     req.Acked,
			PagedAt:   req.PagedAt,
		})
		d.countIngest("oncall")
		c.JSON(http.StatusCreated, stored)
	}
}

func ListPageEvents(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp("oncall", "list")
		if responder := c.Query("responder"); responder != "" {
			c.JSON(http.StatusOK, d.Engines.OnCallLoad.ForResponder(responder))
			return
		}
		c.JSON(http.StatusOK, d.Engines.OnCallLoad.Pages())
	}
}

// ResponderLoads serves paging load aggregated per responder.
func ResponderLoads(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp("oncall", "loads")
		c.JSON(http.StatusOK, d.Engines.OnCallLoad.Loads())
	}
}

// =============================================================================
// Capacity
// =============================================================================

func CreateUtilizationSample(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.UtilizationSampleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		stored := d.Engines.Capacity.Record(analytics.UtilizationSample{
			Resource:   req.Resource,
			Used:       req.Used,
			ObservedAt: req.ObservedAt,
		})
		d.countIngest("capacity")
		c.JSON(http.StatusCreated, stored)
	}
}

func ListUtilizationSamples(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp("capacity", "list")
		if res := c.Query("resource"); res != "" {
			c.JSON(http.StatusOK, d.Engines.Capacity.ForResource(res))
			return
		}
		c.JSON(http.StatusOK, d.Engines.Capacity.Samples())
	}
}

// CapacityTrends serves saturation projections for every resource.
func CapacityTrends(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp("capacity", "trends")
		c.JSON(http.StatusOK, d.Engines.Capacity.Trends())
	}
}

// ResourceTrend serves the projection for one resource. 404 when the
// resource has fewer than two samples.
func ResourceTrend(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		resource := c.Param("resource")
		trend, ok := d.Engines.Capacity.Trend(resource)
		if !ok {
			c.JSON(http.StatusNotFound,
				gin.H{"error": "not enough samples for resource " + resource})
			return
		}
		c.JSON(http.StatusOK, trend)
	}
}
