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

// CreateControlCheck ingests one compliance control evaluation.
func CreateControlCheck(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.ControlCheckRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		stored := d.Engines.Compliance.Record(analytics.ControlCheck{
			Framework: req.Framework,
			ControlID: req.ControlID,
			Resource:  req.Resource,
			Outcome:   analytics.CheckOutcome(req.Outcome),
			Weight:    req.Weight,
			CheckedAt: req.CheckedAt,
		})
		d.countIngest("compliance")
		c.JSON(http.StatusCreated, stored)
	}
}

// ListControlChecks serves recorded checks, optionally filtered by
// ?framework=.
func ListControlChecks(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp("compliance", "list")
		if fw := c.Query("framework"); fw != "" {
			c.JSON(http.StatusOK, d.Engines.Compliance.ForFramework(fw))
			return
		}
		c.JSON(http.StatusOK, d.Engines.Compliance.Checks())
	}
}

// ComplianceScores serves the weighted pass score per framework.
func ComplianceScores(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp("compliance", "scores")
		c.JSON(http.StatusOK, d.Engines.Compliance.Scores())
	}
}

// WorstControls serves the most frequently failing controls. ?limit= caps
// the list, defaulting to 5.
func WorstControls(d *Deps) gin.HandlerFunc {
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
		c.JSON(http.StatusOK, d.Engines.Compliance.WorstControls(limit))
	}
}
