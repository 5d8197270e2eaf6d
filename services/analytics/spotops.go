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

// SpotLifecycle is the lifecycle state of a tracked spot instance.
type SpotLifecycle string

const (
	SpotRunning     SpotLifecycle = "running"
	SpotInterrupted SpotLifecycle = "interrupted"
	SpotTerminated  SpotLifecycle = "terminated"
)

// Valid reports whether l is one of the fixed lifecycle values.
func (l SpotLifecycle) Valid() bool {
	switch l {
	case SpotRunning, SpotInterrupted, SpotTerminated:
		return true
	}
	return false
}

// SpotInstance is a tracked spot/preemptible instance.
type SpotInstance struct {
	ID             string        `json:"id"`
	InstanceID     string        `json:"instance_id"`
	Pool           string        `json:"pool"` // instance type + zone, e.g. "m5.large/us-east-1a"
	Lifecycle      SpotLifecycle `json:"lifecycle"`
	HourlySpot     float64       `json:"hourly_spot"`
	HourlyOnDemand float64       `json:"hourly_on_demand"`
	LaunchedAt     time.Time     `json:"launched_at"`
}

// InterruptionEvent records a capacity reclaim notice for a pool.
type InterruptionEvent struct {
	ID         string    `json:"id"`
	InstanceID string    `json:"instance_id"`
	Pool       string    `json:"pool"`
	NoticeSecs int       `json:"notice_secs"` // warning lead time, typically 120
	OccurredAt time.Time `json:"occurred_at"`
}

// PoolRisk ranks a capacity pool by observed interruption pressure.
type PoolRisk struct {
	Pool             string  `json:"pool"`
	Instances        int     `json:"instances"`
	Interruptions    int     `json:"interruptions"`
	InterruptionRate float64 `json:"interruption_rate"`
}

// SpotOpsReport summarizes the spot fleet.
type SpotOpsReport struct {
	GeneratedAt      time.Time             `json:"generated_at"`
	TotalInstances   int                   `json:"total_instances"`
	ByLifecycle      map[SpotLifecycle]int `json:"by_lifecycle"`
	Interruptions    int                   `json:"interruptions"`
	EstimatedSavings float64               `json:"estimated_savings"` // $/hour vs on-demand for running instances
	RiskyPools       []PoolRisk            `json:"risky_pools"`
	Recommendations  []string              `json:"recommendations"`
}

// SpotOpsEngine tracks spot instances and interruption notices.
type SpotOpsEngine struct {
	instances     *Log[SpotInstance]
	interruptions *Log[InterruptionEvent]
}

// NewSpotOpsEngine creates the engine with the given eviction bound,
// applied to instances and interruption events independently.
func NewSpotOpsEngine(maxRecords int) *SpotOpsEngine {
	return &SpotOpsEngine{
		instances:     NewLog[SpotInstance](maxRecords),
		interruptions: NewLog[InterruptionEvent](maxRecords),
	}
}

// RecordInstance stores a spot instance observation.
func (e *SpotOpsEngine) RecordInstance(s SpotInstance) SpotInstance {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.LaunchedAt.IsZero() {
		s.LaunchedAt = time.Now().UTC()
	}
	e.instances.Append(s)
	return s
}

// RecordInterruption stores a reclaim notice.
func (e *SpotOpsEngine) RecordInterruption(ev InterruptionEvent) InterruptionEvent {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	e.interruptions.Append(ev)
	return ev
}

// Instances returns all tracked instances in insertion order.
func (e *SpotOpsEngine) Instances() []SpotInstance {
	return e.instances.Snapshot()
}

// Interruptions returns all reclaim notices in insertion order.
func (e *SpotOpsEngine) Interruptions() []InterruptionEvent {
	return e.interruptions.Snapshot()
}

// RiskyPools ranks pools by interruption rate, worst first. Pools with no
// tracked instances are counted from notices alone with a rate of 1.
func (e *SpotOpsEngine) RiskyPools() []PoolRisk {
	byPool := map[string]*PoolRisk{}
	for _, s := range e.instances.Snapshot() {
		r, ok := byPool[s.Pool]
		if !ok {
			r = &PoolRisk{Pool: s.Pool}
			byPool[s.Pool] = r
		}
		r.Instances++
	}
	for _, ev := range e.interruptions.Snapshot() {
		r, ok := byPool[ev.Pool]
		if !ok {
			r = &PoolRisk{Pool: ev.Pool}
			byPool[ev.Pool] = r
		}
		r.Interruptions++
	}
	out := make([]PoolRisk, 0, len(byPool))
	for _, r := range byPool {
		if r.Instances > 0 {
			r.InterruptionRate = float64(r.Interruptions) / float64(r.Instances)
		} else if r.Interruptions > 0 {
			r.InterruptionRate = 1
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].InterruptionRate != out[j].InterruptionRate {
			return out[i].InterruptionRate > out[j].InterruptionRate
		}
		return out[i].Pool < out[j].Pool
	})
	return out
}

// Report builds the fleet summary.
func (e *SpotOpsEngine) Report() SpotOpsReport {
	instances := e.instances.Snapshot()
	rep := SpotOpsReport{
		GeneratedAt:    reportClock().UTC(),
		TotalInstances: len(instances),
		ByLifecycle:    map[SpotLifecycle]int{},
		Interruptions:  e.interruptions.Len(),
	}
	for _, s := range instances {
		rep.ByLifecycle[s.Lifecycle]++
		if s.Lifecycle == SpotRunning && s.HourlyOnDemand > s.HourlySpot {
			rep.EstimatedSavings += s.HourlyOnDemand - s.HourlySpot
		}
	}
	rep.RiskyPools = e.RiskyPools()

	for _, r := range rep.RiskyPools {
		if r.InterruptionRate >= 0.3 && r.Interruptions >= 3 {
			rep.Recommendations = append(rep.Recommendations,
				"pool "+r.Pool+" shows heavy reclaim pressure; diversify into additional pools or fall back to on-demand")
		}
	}
	if rep.TotalInstances > 0 && rep.ByLifecycle[SpotInterrupted]*3 > rep.TotalInstances {
		rep.Recommendations = append(rep.Recommendations,
			"over a third of the fleet is interrupted; widen the allocation strategy across zones")
	}
	if len(rep.Recommendations) == 0 && rep.TotalInstances > 0 {
		rep.Recommendations = append(rep.Recommendations, "spot fleet interruption pressure is within normal bounds")
	}
	return rep
}

// Clear drops all instances and interruption events.
func (e *SpotOpsEngine) Clear() {
	e.instances.Clear()
	e.interruptions.Clear()
}

// Stats returns counters across both record kinds.
func (e *SpotOpsEngine) Stats() Stats {
	return Stats{
		TotalRecords: e.instances.Len() + e.interruptions.Len(),
		MaxRecords:   e.instances.Max() + e.interruptions.Max(),
	}
}
