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

	"github.com/AleutianAI/shieldops/services/gateway/datatypes"
	"github.com/AleutianAI/shieldops/services/repository"
)

// requireRepo aborts with 503 when the repository is not configured.
func requireRepo(d *Deps, c *gin.Context) bool {
	if d.Repo == nil {
		c.JSON(http.StatusServiceUnavailable,
			gin.H{"error": "repository not configured"})
		return false
	}
	return true
}

// CreateInvestigation opens a new investigation.
func CreateInvestigation(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRepo(d, c) {
			return
		}
		var req datatypes.InvestigationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		inv, err := d.Repo.CreateInvestigation(c.Request.Context(), repository.Investigation{
			Title:    req.Title,
			Service:  req.Service,
			Severity: req.Severity,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		d.journal(c, "create_investigation", inv.ID, inv.Title)
		c.JSON(http.StatusCreated, inv)
	}
}

// GetInvestigation serves one investigation by ID.
func GetInvestigation(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRepo(d, c) {
			return
		}
		inv, err := d.Repo.GetInvestigation(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if inv == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "investigation not found"})
			return
		}
		c.JSON(http.StatusOK, inv)
	}
}

// ListInvestigations serves investigations, optionally filtered by ?status=.
func ListInvestigations(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRepo(d, c) {
			return
		}
		invs, err := d.Repo.ListInvestigations(c.Request.Context(), c.Query("status"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, invs)
	}
}

// ResolveInvestigation closes an open investigation with findings. Already
// resolved or unknown IDs return 404.
func ResolveInvestigation(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRepo(d, c) {
			return
		}
		var req datatypes.ResolveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		inv, err := d.Repo.ResolveInvestigation(c.Request.Context(), c.Param("id"), req.Findings)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if inv == nil {
			c.JSON(http.StatusNotFound,
				gin.H{"error": "no open investigation with that id"})
			return
		}
		d.journal(c, "resolve_investigation", inv.ID, req.Findings)
		c.JSON(http.StatusOK, inv)
	}
}

// CreateRemediation records a remediation against an open investigation.
func CreateRemediation(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRepo(d, c) {
			return
		}
		var req datatypes.RemediationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		rem, err := d.Repo.CreateRemediation(c.Request.Context(), repository.Remediation{
			InvestigationID: req.InvestigationID,
			Action:          req.Action,
			Owner:           req.Owner,
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		d.journal(c, "create_remediation", rem.ID, rem.Action)
		c.JSON(http.StatusCreated, rem)
	}
}

// ListRemediations serves remediations, optionally filtered by
// ?investigation_id=.
func ListRemediations(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRepo(d, c) {
			return
		}
		rems, err := d.Repo.ListRemediations(c.Request.Context(), c.Query("investigation_id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rems)
	}
}

// CompleteRemediation marks a pending remediation done. Already completed
// or unknown IDs return 404.
func CompleteRemediation(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRepo(d, c) {
			return
		}
		rem, err := d.Repo.CompleteRemediation(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if rem == nil {
			c.JSON(http.StatusNotFound,
				gin.H{"error": "no pending remediation with that id"})
			return
		}
		d.journal(c, "complete_remediation", rem.ID, "")
		c.JSON(http.StatusOK, rem)
	}
}
