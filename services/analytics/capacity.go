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

// UtilizationSample is one utilization observation for a resource.
type UtilizationSample struct {
	ID         string    `json:"id"`
	Resource   string    `json:"resource"` // e.g. "db-primary/disk", "cache/memory"
	Used       float64   `json:"used"`     // fraction 0..1
	ObservedAt time.Time `json:"observed_at"`
}

// CapacityTrend is a per-resource linear projection to saturation.
type CapacityTrend struct {
	Resource         string   `json:"resource"`
	Latest           float64  `json:"latest"`
	SlopePerDay      float64  `json:"slope_per_day"`
	DaysToSaturation *float64 `json:"days_to_saturation,omitempty"` // nil when flat or shrinking
	Samples          int      `json:"samples"`
}

// CapacityReport summarizes headroom across resources.
type CapacityReport struct {
	GeneratedAt     time.Time       `json:"generated_at"`
	TotalSamples    int             `json:"total_samples"`
	ByResource      map[string]int  `json:"by_resource"`
	Trends          []CapacityTrend `json:"trends"`
	Recommendations []string        `json:"recommendations"`
}

// CapacityEngine fits a least-squares line per resource to project saturation.
type CapacityEngine struct {
	log *Log[UtilizationSample]
}

func NewCapacityEngine(maxRecords int) *CapacityEngine {
	return &CapacityEngine{log: NewLog[UtilizationSample](maxRecords)}
}

// Record stores a utilization sample and returns the stored value.
func (e *CapacityEngine) Record(s UtilizationSample) UtilizationSample {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.ObservedAt.IsZero() {
		s.ObservedAt = time.Now().UTC()
	}
	e.log.Append(s)
	return s
}

func (e *CapacityEngine) Samples() []UtilizationSample {
	return e.log.Snapshot()
}

func (e *CapacityEngine) ForResource(resource string) []UtilizationSample {
	return e.log.Filter(func(s UtilizationSample) bool { return s.Resource == resource })
}

// Trend fits a line through one resource's samples. Resources with fewer
// than 2 samples return (zero, false).
func (e *CapacityEngine) Trend(resource string) (CapacityTrend, bool) {
	samples := e.ForResource(resource)
	if len(samples) < 2 {
		return CapacityTrend{}, false
	}
	t := CapacityTrend{
		Resource: resource,
		Latest:   samples[len(samples)-1].Used,
		Samples:  len(samples),
	}
	// Least squares with x in days since the first sample.
	t0 := samples[0].ObservedAt
	var sumX, sumY, sumXY, sumXX float64
	for _, s := range samples {
		x := s.ObservedAt.Sub(t0).Hours() / 24
		sumX += x
		sumY += s.Used
		sumXY += x * s.Used
		sumXX += x * x
	}
	n := float64(len(samples))
	denom := n*sumXX - sumX*sumX
	if denom != 0 {
		t.SlopePerDay = (n*sumXY - sumX*sumY) / denom
	}
	switch {
	case t.Latest >= 1:
		days := 0.0
		t.DaysToSaturation = &days
	case t.SlopePerDay > 0:
		days := (1 - t.Latest) / t.SlopePerDay
		t.DaysToSaturation = &days
	}
	return t, true
}

// Trends projects every resource with enough samples, most urgent first.
func (e *CapacityEngine) Trends() []CapacityTrend {
	seen := map[string]bool{}
	var out []CapacityTrend
	for _, s := range e.log.Snapshot() {
		if seen[s.Resource] {
			continue
		}
		seen[s.Resource] = true
		if t, ok := e.Trend(s.Resource); ok {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].DaysToSaturation, out[j].DaysToSaturation
		switch {
		case di != nil && dj != nil && *di != *dj:
			return *di < *dj
		case (di == nil) != (dj == nil):
			// Flat or shrinking resources sort last.
			return di != nil
		}
		return out[i].Resource < out[j].Resource
	})
	return out
}

func (e *CapacityEngine) Report() CapacityReport {
	samples := e.log.Snapshot()
	rep := CapacityReport{
		GeneratedAt:  reportClock().UTC(),
		TotalSamples: len(samples),
		ByResource:   map[string]int{},
	}
	for _, s := range samples {
		rep.ByResource[s.Resource]++
	}
	rep.Trends = e.Trends()

	for _, t := range rep.Trends {
		switch {
		case t.DaysToSaturation != nil && *t.DaysToSaturation == 0:
			rep.Recommendations = append(rep.Recommendations,
				"resource "+t.Resource+" is saturated; expand capacity immediately")
		case t.DaysToSaturation != nil && *t.DaysToSaturation < 14:
			rep.Recommendations = append(rep.Recommendations,
				"resource "+t.Resource+" saturates within two weeks at the current growth rate; provision ahead of demand")
		case t.Latest > 0.85:
			rep.Recommendations = append(rep.Recommendations,
				"resource "+t.Resource+" is above 85% utilization; keep it on the capacity watchlist")
		}
	}
	if len(rep.Recommendations) == 0 && rep.TotalSamples > 0 {
		rep.Recommendations = append(rep.Recommendations, "capacity headroom is adequate for all tracked resources")
	}
	return rep
}

func (e *CapacityEngine) Clear() { e.log.Clear() }

func (e *CapacityEngine) Stats() Stats { return statsOf(e.log) }
