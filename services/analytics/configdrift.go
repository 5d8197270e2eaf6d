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

// DriftKind classifies how live state diverged from declared state.
type DriftKind string

const (
	DriftModified  DriftKind = "modified"
	DriftMissing   DriftKind = "missing"
	DriftUnmanaged DriftKind = "unmanaged"
)

func (k DriftKind) Valid() bool {
	switch k {
	case DriftModified, DriftMissing, DriftUnmanaged:
		return true
	}
	return false
}

// DriftEvent records one detected divergence between declared and live config.
type DriftEvent struct {
	ID          string    `json:"id"`
	Environment string    `json:"environment"`
	Resource    string    `json:"resource"`
	Kind        DriftKind `json:"kind"`
	Reconciled  bool      `json:"reconciled"`
	DetectedAt  time.Time `json:"detected_at"`
}

// DriftHotspot counts drift per environment.
type DriftHotspot struct {
	Environment  string `json:"environment"`
	Events       int    `json:"events"`
	Unreconciled int    `json:"unreconciled"`
}

// ConfigDriftReport summarizes drift pressure.
type ConfigDriftReport struct {
	GeneratedAt     time.Time         `json:"generated_at"`
	TotalEvents     int               `json:"total_events"`
	ByKind          map[DriftKind]int `json:"by_kind"`
	Unreconciled    int               `json:"unreconciled"`
	Hotspots        []DriftHotspot    `json:"hotspots"`
	Recommendations []string          `json:"recommendations"`
}

// ConfigDriftEngine tracks drift events per environment.
type ConfigDriftEngine struct {
	log *Log[DriftEvent]
}

func NewConfigDriftEngine(maxRecords int) *ConfigDriftEngine {
	return &ConfigDriftEngine{log: NewLog[DriftEvent](maxRecords)}
}

// Record stores a drift event and returns the stored value.
func (e *ConfigDriftEngine) Record(ev DriftEvent) DriftEvent {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.DetectedAt.IsZero() {
		ev.DetectedAt = time.Now().UTC()
	}
	e.log.Append(ev)
	return ev
}

func (e *ConfigDriftEngine) Events() []DriftEvent {
	return e.log.Snapshot()
}

func (e *ConfigDriftEngine) ForEnvironment(env string) []DriftEvent {
	return e.log.Filter(func(ev DriftEvent) bool { return ev.Environment == env })
}

// Hotspots ranks environments by drift volume, busiest first.
func (e *ConfigDriftEngine) Hotspots() []DriftHotspot {
	byEnv := map[string]*DriftHotspot{}
	for _, ev := range e.log.Snapshot() {
		h, ok := byEnv[ev.Environment]
		if !ok {
			h = &DriftHotspot{Environment: ev.Environment}
			byEnv[ev.Environment] = h
		}
		h.Events++
		if !ev.Reconciled {
			h.Unreconciled++
		}
	}
	out := make([]DriftHotspot, 0, len(byEnv))
	for _, h := range byEnv {
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Events != out[j].Events {
			return out[i].Events > out[j].Events
		}
		return out[i].Environment < out[j].Environment
	})
	return out
}

func (e *ConfigDriftEngine) Report() ConfigDriftReport {
	events := e.log.Snapshot()
	rep := ConfigDriftReport{
		GeneratedAt: reportClock().UTC(),
		TotalEvents: len(events),
		ByKind:      map[DriftKind]int{},
	}
	for _, ev := range events {
		rep.ByKind[ev.Kind]++
		if !ev.Reconciled {
			rep.Unreconciled++
		}
	}
	rep.Hotspots = e.Hotspots()

	if rep.TotalEvents > 0 && rep.Unreconciled*2 > rep.TotalEvents {
		rep.Recommendations = append(rep.Recommendations,
			"over half of detected drift remains unreconciled; enable auto-reconciliation or schedule a cleanup")
	}
	if rep.ByKind[DriftUnmanaged] > 5 {
		rep.Recommendations = append(rep.Recommendations,
			"unmanaged resources keep appearing; audit who is creating infrastructure outside the pipeline")
	}
	for _, h := range rep.Hotspots {
		if h.Events >= 10 {
			rep.Recommendations = append(rep.Recommendations,
				"environment "+h.Environment+" is a drift hotspot; lock down direct mutation access")
			break
		}
	}
	if len(rep.Recommendations) == 0 && rep.TotalEvents > 0 {
		rep.Recommendations = append(rep.Recommendations, "configuration drift is under control")
	}
	return rep
}

func (e *ConfigDriftEngine) Clear() { e.log.Clear() }

func (e *ConfigDriftEngine) Stats() Stats { return statsOf(e.log) }
