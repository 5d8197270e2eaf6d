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
	"github.com/AleutianAI/shieldops/services/gateway/datatypes"
)

// CreateSpotInstance ingests one spot instance lifecycle observation.
func CreateSpotInstance(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.SpotInstanceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		stored := d.Engines.SpotOps.RecordInstance(analytics.SpotInstance{
			InstanceID:     req.InstanceID,
			Pool:           req.Pool,
			Lifecycle:      analytics.SpotLifecycle(req.Lifecycle),
			HourlySpot:     req.HourlySpot,
			HourlyOnDemand: req.HourlyOnDemand,
			LaunchedAt:     req.LaunchedAt,
		})
		d.countIngest("spot")
		c.JSON(http.StatusCreated, stored)
	}
}

// CreateInterruption ingests one spot interruption notice.
func CreateInterruption(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.InterruptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		stored := d.Engines.SpotOps.RecordInterruption(analytics.InterruptionEvent{
			InstanceID: req.InstanceID,
			Pool:       req.Pool,
			NoticeSecs: req.NoticeSecs,
			OccurredAt: req.OccurredAt,
		})
		d.countIngest("spot")
		c.JSON(http.StatusCreated, stored)
	}
}

// ListSpotInstances serves recorded instance observations.
func ListSpotInstances(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp("spot", "list")
		c.JSON(http.StatusOK, d.Engines.SpotOps.Instances())
	}
}

// ListInterruptions serves recorded interruption notices.
func ListInterruptions(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp("spot", "list")
		c.JSON(http.StatusOK, d.Engines.SpotOps.Interruptions())
	}
}

// RiskyPools serves capacity pools ranked by interruption pressure.
func RiskyPools(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp("spot", "pools")
		c.JSON(http.StatusOK, d.Engines.SpotOps.RiskyPools())
	}
}
