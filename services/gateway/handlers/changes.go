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

// CreatePlannedChange ingests one planned change window. The window must
// end after it starts.
func CreatePlannedChange(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.PlannedChangeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !req.EndsAt.After(req.StartsAt) {
			c.JSON(http.StatusBadRequest,
				gin.H{"error": "ends_at must be after starts_at"})
			return
		}
		stored := d.Engines.ChangeConflict.Record(analytics.PlannedChange{
			Title:    req.Title,
			System:   req.System,
			Team:     req.Team,
			Risk:     analytics.ChangeRisk(req.Risk),
			StartsAt: req.StartsAt,
			EndsAt:   req.EndsAt,
		})
		d.countIngest("changes")
		c.JSON(http.StatusCreated, stored)
	}
}

// ListPlannedChanges serves recorded changes, optionally filtered by ?system=.
func ListPlannedChanges(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp("changes", "list")
		if system := c.Query("system"); system != "" {
			c.JSON(http.StatusOK, d.Engines.ChangeConflict.ForSystem(system))
			return
		}
		c.JSON(http.StatusOK, d.Engines.ChangeConflict.Changes())
	}
}

// GetPlannedChange serves one change by ID.
func GetPlannedChange(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		change, ok := d.Engines.ChangeConflict.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "change not found"})
			return
		}
		c.JSON(http.StatusOK, change)
	}
}

// ChangeConflicts serves pairs of changes with overlapping windows on the
// same system.
func ChangeConflicts(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp("changes", "conflicts")
		c.JSON(http.StatusOK, d.Engines.ChangeConflict.Conflicts())
	}
}
