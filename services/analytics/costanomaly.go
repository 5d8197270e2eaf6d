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

// CostSample is one observed daily spend figure for a service.
type CostSample struct {
	ID         string    `json:"id"`
	Service    string    `json:"service"`
	DailyUSD   float64   `json:"daily_usd"`
	ObservedAt time.Time `json:"observed_at"`
}

// CostAnomaly flags a service whose latest spend deviates from its baseline.
type CostAnomaly struct {
	Service   string  `json:"service"`
	Baseline  float64 `json:"baseline"` // mean of prior samples
	Latest    float64 `json:"latest"`
	Deviation float64 `json:"deviation"` // (latest-baseline)/baseline
}

// CostAnomalyReport summarizes spend deviations.
type CostAnomalyReport struct {
	GeneratedAt     time.Time      `json:"generated_at"`
	TotalSamples    int            `json:"total_samples"`
	ByService       map[string]int `json:"by_service"`
	TotalDailyUSD   float64        `json:"total_daily_usd"` // latest sample per service, summed
	Anomalies       []CostAnomaly  `json:"anomalies"`
	Recommendations []string       `json:"recommendations"`
}

// CostAnomalyEngine compares latest spend per service against its baseline.
type CostAnomalyEngine struct {
	log *Log[CostSample]
}

func NewCostAnomalyEngine(maxRecords int) *CostAnomalyEngine {
	return &CostAnomalyEngine{log: NewLog[CostSample](maxRecords)}
}

// Record stores a spend sample and returns the stored value.
func (e *CostAnomalyEngine) Record(s CostSample) CostSample {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.ObservedAt.IsZero() {
		s.ObservedAt = time.Now().UTC()
	}
	e.log.Append(s)
	return s
}

func (e *CostAnomalyEngine) Samples() []CostSample {
	return e.log.Snapshot()
}

func (e *CostAnomalyEngine) ForService(service string) []CostSample {
	return e.log.Filter(func(s CostSample) bool { return s.Service == service })
}

// Anomalies returns services deviating more than 30% from their baseline,
// requiring at least 3 samples to establish one. Sorted worst first.
func (e *CostAnomalyEngine) Anomalies() []CostAnomaly {
	byService := map[string][]CostSample{}
	for _, s := range e.log.Snapshot() {
		byService[s.Service] = append(byService[s.Service], s)
	}
	var out []CostAnomaly
	for svc, samples := range byService {
		if len(samples) < 3 {
			continue
		}
		latest := samples[len(samples)-1].DailyUSD
		var sum float64
		for _, s := range samples[:len(samples)-1] {
			sum += s.DailyUSD
		}
		baseline := sum / float64(len(samples)-1)
		if baseline <= 0 {
			continue
		}
		dev := (latest - baseline) / baseline
		if dev > 0.3 || dev < -0.3 {
			out = append(out, CostAnomaly{Service: svc, Baseline: baseline, Latest: latest, Deviation: dev})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].Deviation, out[j].Deviation
		if di < 0 {
			di = -di
		}
		if dj < 0 {
			dj = -dj
		}
		if di != dj {
			return di > dj
		}
		return out[i].Service < out[j].Service
	})
	return out
}

func (e *CostAnomalyEngine) Report() CostAnomalyReport {
	samples := e.log.Snapshot()
	rep := CostAnomalyReport{
		GeneratedAt:  reportClock().UTC(),
		TotalSamples: len(samples),
		ByService:    map[string]int{},
	}
	latest := map[string]float64{}
	for _, s := range samples {
		rep.ByService[s.Service]++
		latest[s.Service] = s.DailyUSD
	}
	for _, usd := range latest {
		rep.TotalDailyUSD += usd
	}
	rep.Anomalies = e.Anomalies()

	for _, a := range rep.Anomalies {
		if a.Deviation > 1.0 {
			rep.Recommendations = append(rep.Recommendations,
				"service "+a.Service+" spend more than doubled against baseline; check for runaway autoscaling or a misconfigured job")
		} else if a.Deviation > 0.3 {
			rep.Recommendations = append(rep.Recommendations,
				"service "+a.Service+" spend is 30% above baseline; review recent capacity changes")
		} else {
			rep.Recommendations = append(rep.Recommendations,
				"service "+a.Service+" spend dropped sharply; confirm workloads did not silently stop")
		}
	}
	if len(rep.Recommendations) == 0 && rep.TotalSamples > 0 {
		rep.Recommendations = append(rep.Recommendations, "spend is tracking baseline for all services")
	}
	return rep
}

func (e *CostAnomalyEngine) Clear() { e.log.Clear() }

func (e *CostAnomalyEngine) Stats() Stats { return statsOf(e.log) }
