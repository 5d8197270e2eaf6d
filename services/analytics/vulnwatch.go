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

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// VulnStatus is the remediation state of a tracked vulnerability.
type VulnStatus string

const (
	VulnOpen       VulnStatus = "open"
	VulnMitigated  VulnStatus = "mitigated"
	VulnRemediated VulnStatus = "remediated"
)

func (s VulnStatus) Valid() bool {
	switch s {
	case VulnOpen, VulnMitigated, VulnRemediated:
		return true
	}
	return false
}

// Vulnerability is one finding against an asset.
type Vulnerability struct {
	ID           string     `json:"id"`
	CVE          string     `json:"cve"`
	Asset        string     `json:"asset"`
	CVSS         float64    `json:"cvss"`        // 0..10
	Criticality  int        `json:"criticality"` // asset criticality 1..5
	Status       VulnStatus `json:"status"`
	SLADays      int        `json:"sla_days"` // remediation SLA from discovery
	DiscoveredAt time.Time  `json:"discovered_at"`
}

// Exposure ranks an open vulnerability by CVSS x asset criticality.
type Exposure struct {
	ID          string  `json:"id"`
	CVE         string  `json:"cve"`
	Asset       string  `json:"asset"`
	Score       float64 `json:"score"`
	SLABreached bool    `json:"sla_breached"`
}

// VulnWatchReport summarizes vulnerability exposure.
type VulnWatchReport struct {
	GeneratedAt     time.Time          `json:"generated_at"`
	TotalFindings   int                `json:"total_findings"`
	ByStatus        map[VulnStatus]int `json:"by_status"`
	SLABreaches     int                `json:"sla_breaches"`
	TopExposures    []Exposure         `json:"top_exposures"`
	Recommendations []string           `json:"recommendations"`
}

// VulnWatchEngine tracks findings and ranks open exposure.
type VulnWatchEngine struct {
	log *Log[Vulnerability]
	now func() time.Time
}

func NewVulnWatchEngine(maxRecords int) *VulnWatchEngine {
	return &VulnWatchEngine{log: NewLog[Vulnerability](maxRecords), now: time.Now}
}

// Record stores a finding and returns the stored value.
func (e *VulnWatchEngine) Record(v Vulnerability) Vulnerability {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Criticality <= 0 {
		v.Criticality = 1
	}
	if v.DiscoveredAt.IsZero() {
		v.DiscoveredAt = e.now().UTC()
	}
	e.log.Append(v)
	return v
}

func (e *VulnWatchEngine) Findings() []Vulnerability {
	return e.log.Snapshot()
}

func (e *VulnWatchEngine) ByStatus(status VulnStatus) []Vulnerability {
	return e.log.Filter(func(v Vulnerability) bool { return v.Status == status })
}

// Get looks up a finding by ID. Absent IDs return (zero, false).
func (e *VulnWatchEngine) Get(id string) (Vulnerability, bool) {
	return e.log.Find(func(v Vulnerability) bool { return v.ID == id })
}

// TopExposures ranks open findings by CVSS x asset criticality, worst first.
func (e *VulnWatchEngine) TopExposures(n int) []Exposure {
	now := e.now().UTC()
	var out []Exposure
	for _, v := range e.log.Snapshot() {
		if v.Status != VulnOpen {
			continue
		}
		exp := Exposure{
			ID:    v.ID,
			CVE:   v.CVE,
			Asset: v.Asset,
			Score: v.CVSS * float64(v.Criticality),
		}
		exp.SLABreached = slaBreached(v, now)
		out = append(out, exp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].CVE < out[j].CVE
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func slaBreached(v Vulnerability, now time.Time) bool {
	return v.SLADays > 0 && now.After(v.DiscoveredAt.AddDate(0, 0, v.SLADays))
}

func (e *VulnWatchEngine) Report() VulnWatchReport {
	findings := e.log.Snapshot()
	now := e.now().UTC()
	rep := VulnWatchReport{
		GeneratedAt:   reportClock().UTC(),
		TotalFindings: len(findings),
		ByStatus:      map[VulnStatus]int{},
	}
	// Breaches count every open finding, not just the ranked exposures.
	for _, v := range findings {
		rep.ByStatus[v.Status]++
		if v.Status == VulnOpen && slaBreached(v, now) {
			rep.SLABreaches++
		}
	}
	rep.TopExposures = e.TopExposures(10)

	if rep.SLABreaches > 0 {
		rep.Recommendations = append(rep.Recommendations,
			"open findings have breached their remediation SLA; escalate to the asset owners")
	}
	for _, exp := range rep.TopExposures {
		if exp.Score >= 40 {
			rep.Recommendations = append(rep.Recommendations,
				"finding "+exp.CVE+" on "+exp.Asset+" combines critical CVSS with a critical asset; patch out of cycle")
			break
		}
	}
	if open := rep.ByStatus[VulnOpen]; rep.TotalFindings > 0 && open*2 > rep.TotalFindings {
		rep.Recommendations = append(rep.Recommendations,
			"more than half of tracked findings remain open; remediation is not keeping pace with discovery")
	}
	if len(rep.Recommendations) == 0 && rep.TotalFindings > 0 {
		rep.Recommendations = append(rep.Recommendations, "vulnerability exposure is within tolerances")
	}
	return rep
}

func (e *VulnWatchEngine) Clear() { e.log.Clear() }

func (e *VulnWatchEngine) Stats() Stats { return statsOf(e.log) }
