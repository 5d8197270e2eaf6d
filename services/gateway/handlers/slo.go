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

// CreateSLOSample ingests one SLO window observation.
func CreateSLOSample(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.SLOSampleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		stored := d.Engines.SLOForecast.Record(analytics.SLOSample{
			Service:     req.Service,
			Objective:   req.Objective,
			Actual:      req.Actual,
			WindowHours: req.WindowHours,
			BudgetSpent: req.BudgetSpent,
			ObservedAt:  req.ObservedAt,
		})
		d.countIngest("slo")
		c.JSON(http.StatusCreated, stored)
	}
}

// ListSLOSamples serves recorded samples, optionally filtered by ?service=.
func ListSLOSamples(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp("slo", "list")
		if svc := c.Query("service"); svc != "" {
			c.JSON(http.StatusOK, d.Engines.SLOForecast.ServiceSamples(svc))
			return
		}
		c.JSON(http.StatusOK, d.Engines.SLOForecast.Samples())
	}
}

// SLOForecasts serves burn-rate projections for every observed service,
// most urgent first.
func SLOForecasts(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.countOp("slo", "forecasts")
		c.JSON(http.StatusOK, d.Engines.SLOForecast.Forecasts())
	}
}

// ServiceForecast serves the projection for one service. 404 when the
// service has no samples.
func ServiceForecast(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		service := c.Param("service")
		fc, ok := d.Engines.SLOForecast.Forecast(service)
		if !ok {
			c.JSON(http.StatusNotFound,
				gin.H{"error": "no samples for service " + service})
			return
		}
		c.JSON(http.StatusOK, fc)
	}
}
