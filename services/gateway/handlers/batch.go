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
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/shieldops/services/repository"
)

// maxBatchOps bounds one batch request.
const maxBatchOps = 100

// batchRequest carries the operations of one batch call.
type batchRequest struct {
	Ops []repository.BatchOp `json:"ops" binding:"required,min=1,dive"`
}

// HandleBatch executes a mixed set of repository operations concurrently.
// Results come back in request order; individual failures are reported
// per-op rather than failing the whole batch.
func HandleBatch(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d.Repo == nil {
			c.JSON(http.StatusServiceUnavailable,
				gin.H{"error": "repository not configured"})
			return
		}
		var req batchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(req.Ops) > maxBatchOps {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("batch exceeds %d operations", maxBatchOps)})
			return
		}

		results, err := d.Repo.ExecuteBatch(c.Request.Context(), req.Ops)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		okCount := 0
		for _, r := range results {
			if r.OK {
				okCount++
				d.Metrics.BatchOpsTotal.WithLabelValues("ok").Inc()
			} else {
				d.Metrics.BatchOpsTotal.WithLabelValues("failed").Inc()
			}
		}
		d.journal(c, "batch_execute", "repository",
			fmt.Sprintf("%d ops, %d ok", len(results), okCount))

		c.JSON(http.StatusOK, gin.H{
			"results":   results,
			"total":     len(results),
			"succeeded": okCount,
		})
	}
}

// RecentAuditEvents serves the newest audit journal entries. ?limit= caps
// the list, defaulting to 50.
func RecentAuditEvents(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d.Audit == nil {
			c.JSON(http.StatusServiceUnavailable,
				gin.H{"error": "audit store not configured"})
			return
		}
		limit := 50
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
				return
			}
			limit = n
		}
		events, err := d.Audit.Recent(limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, events)
	}
}
