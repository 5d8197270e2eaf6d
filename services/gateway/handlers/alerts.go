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

// CreateAlert ingests one fired alert into the dedup engine.
func CreateAlert(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.AlertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		stored := d.Engines.AlertDedup.Record(analytics.Alert{
			Fingerprint: req.Fingerprint,
			Source:      req.Source,
			Service:     req.Service,
			Severity:    analytics.AlertSeverity(req.Severity),
			Message:     req.Message,
			FiredAt:     req.FiredAt,
		})
		d.countIngest("alerts")
		c.JSON(http.StatusCreated, stored)
	}
}

// ListAlerts serves recorded alerts, optionally filtered by ?severity=.
func ListAlerts(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp("alerts", "list")
		if sev := c.Query("severity"); sev != "" {
			severity := analytics.AlertSeverity(sev)
			if !severity.Valid() {
				c.JSON(http.StatusBadRequest,
					gin.H{"error": "unknown severity: " + sev})
				return
			}
			c.JSON(http.StatusOK, d.Engines.AlertDedup.BySeverity(severity))
			return
		}
		c.JSON(http.StatusOK, d.Engines.AlertDedup.Alerts())
	}
}

// GetAlert serves one alert by ID.
func GetAlert(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, ok := d.Engines.AlertDedup.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

// AlertDuplicates serves fingerprint groups with more than one member.
func AlertDuplicates(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp("alerts", "duplicates")
		c.JSON(http.StatusOK, d.Engines.AlertDedup.DuplicateGroups())
	}
}

// NoisiestSources serves the top alert sources by volume. ?limit= caps the
// list, defaulting to 5.
func NoisiestSources(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 5
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
				return
			}
			limit = n
		}
		c.JSON(http.StatusOK, d.Engines.AlertDedup.NoisiestSources(limit))
	}
}
