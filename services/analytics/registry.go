// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package analytics

// Engines bundles every analytics engine behind one constructor so the
// gateway and the chat agent share a single set of instances.
type Engines struct {
	AlertDedup     *AlertDedupEngine
	SLOForecast    *SLOForecastEngine
	SpotOps        *SpotOpsEngine
	ChangeConflict *ChangeConflictEngine
	Compliance     *ComplianceEngine
	DeployRisk     *DeployRiskEngine
	CostAnomaly    *CostAnomalyEngine
	VulnWatch      *VulnWatchEngine
	ConfigDrift    *ConfigDriftEngine
	OnCallLoad     *OnCallLoadEngine
	Capacity       *CapacityEngine
}

// NewEngines creates all engines with a shared eviction bound.
func NewEngines(maxRecords int) *Engines {
	return &Engines{
		AlertDedup:     NewAlertDedupEngine(maxRecords),
		SLOForecast:    NewSLOForecastEngine(maxRecords),
		SpotOps:        NewSpotOpsEngine(maxRecords),
		ChangeConflict: NewChangeConflictEngine(maxRecords),
		Compliance:     NewComplianceEngine(maxRecords),
		DeployRisk:     NewDeployRiskEngine(maxRecords),
		CostAnomaly:    NewCostAnomalyEngine(maxRecords),
		VulnWatch:      NewVulnWatchEngine(maxRecords),
		ConfigDrift:    NewConfigDriftEngine(maxRecords),
		OnCallLoad:     NewOnCallLoadEngine(maxRecords),
		Capacity:       NewCapacityEngine(maxRecords),
	}
}

// ClearAll wipes every engine. Used by the admin surface and tests.
func (e *Engines) ClearAll() {
	e.AlertDedup.Clear()
	e.SLOForecast.Clear()
	e.SpotOps.Clear()
	e.ChangeConflict.Clear()
	e.Compliance.Clear()
	e.DeployRisk.Clear()
	e.CostAnomaly.Clear()
	e.VulnWatch.Clear()
	e.ConfigDrift.Clear()
	e.OnCallLoad.Clear()
	e.Capacity.Clear()
}

// StatsAll returns per-engine counters keyed by engine name.
func (e *Engines) StatsAll() map[string]Stats {
	return map[string]Stats{
		"alerts":     e.AlertDedup.Stats(),
		"slo":        e.SLOForecast.Stats(),
		"spot":       e.SpotOps.Stats(),
		"changes":    e.ChangeConflict.Stats(),
		"compliance": e.Compliance.Stats(),
		"deploys":    e.DeployRisk.Stats(),
		"costs":      e.CostAnomaly.Stats(),
		"vulns":      e.VulnWatch.Stats(),
		"drift":      e.ConfigDrift.Stats(),
		"oncall":     e.OnCallLoad.Stats(),
		"capacity":   e.Capacity.Stats(),
	}
}
