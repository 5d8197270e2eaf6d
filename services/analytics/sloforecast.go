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

// SLOSample is one observation of a service's SLO compliance.
type SLOSample struct {
	ID          string    `json:"id"`
	Service     string    `json:"service"`
	Objective   float64   `json:"objective"`    // target, e.g. 0.999
	Actual      float64   `json:"actual"`       // measured compliance for the window
	WindowHours float64   `json:"window_hours"` // length of the measured window
	BudgetSpent float64   `json:"budget_spent"` // fraction of error budget consumed so far (0..1)
	ObservedAt  time.Time `json:"observed_at"`
}

// SLOForecast is the projection for one service.
type SLOForecast struct {
	Service          string   `json:"service"`
	Objective        float64  `json:"objective"`
	LatestActual     float64  `json:"latest_actual"`
	BurnRate         float64  `json:"burn_rate"` // budget consumed per 24h at the current pace
	BudgetRemaining  float64  `json:"budget_remaining"`
	DaysToExhaustion *float64 `json:"days_to_exhaustion,omitempty"` // nil when not burning
	Samples          int      `json:"samples"`
}

// SLOForecastReport summarizes burn across all tracked services.
type SLOForecastReport struct {
	GeneratedAt     time.Time      `json:"generated_at"`
	TotalSamples    int            `json:"total_samples"`
	ByService       map[string]int `json:"by_service"`
	ServicesAtRisk  []string       `json:"services_at_risk"` // exhaustion projected inside 7 days
	Forecasts       []SLOForecast  `json:"forecasts"`
	Recommendations []string       `json:"recommendations"`
}

// SLOForecastEngine projects error-budget exhaustion from compliance samples.
type SLOForecastEngine struct {
	log *Log[SLOSample]
}

// NewSLOForecastEngine creates the engine with the given eviction bound.
func NewSLOForecastEngine(maxRecords int) *SLOForecastEngine {
	return &SLOForecastEngine{log: NewLog[SLOSample](maxRecords)}
}

// Record stores a compliance sample and returns the stored value.
func (e *SLOForecastEngine) Record(s SLOSample) SLOSample {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.ObservedAt.IsZero() {
		s.ObservedAt = time.Now().UTC()
	}
	e.log.Append(s)
	return s
}

// Samples returns all stored samples in insertion order.
func (e *SLOForecastEngine) Samples() []SLOSample {
	return e.log.Snapshot()
}

// ServiceSamples returns the samples recorded for one service.
func (e *SLOForecastEngine) ServiceSamples(service string) []SLOSample {
	return e.log.Filter(func(s SLOSample) bool { return s.Service == service })
}

// Forecast projects budget exhaustion for one service from its latest
// samples. Unknown services return (zero, false).
func (e *SLOForecastEngine) Forecast(service string) (SLOForecast, bool) {
	samples := e.ServiceSamples(service)
	if len(samples) == 0 {
		return SLOForecast{}, false
	}
	latest := samples[len(samples)-1]
	f := SLOForecast{
		Service:         service,
		Objective:       latest.Objective,
		LatestActual:    latest.Actual,
		BudgetRemaining: 1 - latest.BudgetSpent,
		Samples:         len(samples),
	}
	if f.BudgetRemaining < 0 {
		f.BudgetRemaining = 0
	}
	// Burn rate: budget consumed per day, averaged over the observed windows.
	var spent, hours float64
	first := samples[0]
	spent = latest.BudgetSpent - first.BudgetSpent
	for _, s := range samples {
		hours += s.WindowHours
	}
	if len(samples) == 1 {
		spent = latest.BudgetSpent
	}
	if hours > 0 && spent > 0 {
		f.BurnRate = spent / hours * 24
	}
	if f.BurnRate > 0 {
		days := f.BudgetRemaining / f.BurnRate
		f.DaysToExhaustion = &days
	}
	return f, true
}

// Forecasts returns projections for every tracked service, most urgent first.
func (e *SLOForecastEngine) Forecasts() []SLOForecast {
	seen := map[string]bool{}
	var out []SLOForecast
	for _, s := range e.log.Snapshot() {
		if seen[s.Service] {
			continue
		}
		seen[s.Service] = true
		if f, ok := e.Forecast(s.Service); ok {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].DaysToExhaustion, out[j].DaysToExhaustion
		switch {
		case di != nil && dj != nil && *di != *dj:
			return *di < *dj
		case (di == nil) != (dj == nil):
			// Services that are not burning sort last.
			return di != nil
		}
		return out[i].Service < out[j].Service
	})
	return out
}

// Report builds the cross-service burn summary.
func (e *SLOForecastEngine) Report() SLOForecastReport {
	samples := e.log.Snapshot()
	rep := SLOForecastReport{
		GeneratedAt:  reportClock().UTC(),
		TotalSamples: len(samples),
		ByService:    map[string]int{},
	}
	for _, s := range samples {
		rep.ByService[s.Service]++
	}
	rep.Forecasts = e.Forecasts()
	for _, f := range rep.Forecasts {
		if f.DaysToExhaustion != nil && *f.DaysToExhaustion < 7 {
			rep.ServicesAtRisk = append(rep.ServicesAtRisk, f.Service)
		}
	}

	for _, f := range rep.Forecasts {
		switch {
		case f.BudgetRemaining == 0:
			rep.Recommendations = append(rep.Recommendations,
				"service "+f.Service+" has exhausted its error budget; freeze non-essential deploys")
		case f.DaysToExhaustion != nil && *f.DaysToExhaustion < 2:
			rep.Recommendations = append(rep.Recommendations,
				"service "+f.Service+" burns its remaining budget inside 48h; page the owning team")
		case f.DaysToExhaustion != nil && *f.DaysToExhaustion < 7:
			rep.Recommendations = append(rep.Recommendations,
				"service "+f.Service+" is on pace to exhaust its budget this week; slow the release cadence")
		}
	}
	if len(rep.Recommendations) == 0 && rep.TotalSamples > 0 {
		rep.Recommendations = append(rep.Recommendations, "all tracked services are burning within budget")
	}
	return rep
}

// Clear drops all samples.
func (e *SLOForecastEngine) Clear() { e.log.Clear() }

// Stats returns the uniform counters block.
func (e *SLOForecastEngine) Stats() Stats { return statsOf(e.log) }
