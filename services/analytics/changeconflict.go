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

// ChangeRisk classifies how disruptive a planned change could be.
type ChangeRisk string

const (
	ChangeRiskLow    ChangeRisk = "low"
	ChangeRiskMedium ChangeRisk = "medium"
	ChangeRiskHigh   ChangeRisk = "high"
)

// Valid reports whether r is one of the fixed risk values.
func (r ChangeRisk) Valid() bool {
	switch r {
	case ChangeRiskLow, ChangeRiskMedium, ChangeRiskHigh:
		return true
	}
	return false
}

// PlannedChange is a scheduled change window against a target system.
type PlannedChange struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	System   string     `json:"system"`
	Team     string     `json:"team"`
	Risk     ChangeRisk `json:"risk"`
	StartsAt time.Time  `json:"starts_at"`
	EndsAt   time.Time  `json:"ends_at"`
}

// ChangeConflict is a pair of changes whose windows overlap on one system.
type ChangeConflict struct {
	System       string        `json:"system"`
	FirstID      string        `json:"first_id"`
	SecondID     string        `json:"second_id"`
	OverlapStart time.Time     `json:"overlap_start"`
	OverlapEnd   time.Time     `json:"overlap_end"`
	Overlap      time.Duration `json:"overlap_ns"`
	CrossTeam    bool          `json:"cross_team"`
}

// ChangeConflictReport summarizes the change calendar.
type ChangeConflictReport struct {
	GeneratedAt     time.Time          `json:"generated_at"`
	TotalChanges    int                `json:"total_changes"`
	ByRisk          map[ChangeRisk]int `json:"by_risk"`
	Conflicts       []ChangeConflict   `json:"conflicts"`
	Recommendations []string           `json:"recommendations"`
}

// ChangeConflictEngine detects overlapping change windows per system.
type ChangeConflictEngine struct {
	log *Log[PlannedChange]
}

// NewChangeConflictEngine creates the engine with the given eviction bound.
func NewChangeConflictEngine(maxRecords int) *ChangeConflictEngine {
	return &ChangeConflictEngine{log: NewLog[PlannedChange](maxRecords)}
}

// Record stores a planned change and returns the stored value.
func (e *ChangeConflictEngine) Record(c PlannedChange) PlannedChange {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	e.log.Append(c)
	return c
}

// Changes returns all planned changes in insertion order.
func (e *ChangeConflictEngine) Changes() []PlannedChange {
	return e.log.Snapshot()
}

// ForSystem returns planned changes scheduled against one system.
func (e *ChangeConflictEngine) ForSystem(system string) []PlannedChange {
	return e.log.Filter(func(c PlannedChange) bool { return c.System == system })
}

// Get looks up a change by ID. Absent IDs return (zero, false).
func (e *ChangeConflictEngine) Get(id string) (PlannedChange, bool) {
	return e.log.Find(func(c PlannedChange) bool { return c.ID == id })
}

// Conflicts returns every overlapping pair of changes on the same system,
// largest overlap first.
func (e *ChangeConflictEngine) Conflicts() []ChangeConflict {
	changes := e.log.Snapshot()
	var out []ChangeConflict
	for i := 0; i < len(changes); i++ {
		for j := i + 1; j < len(changes); j++ {
			a, b := changes[i], changes[j]
			if a.System != b.System {
				continue
			}
			start := a.StartsAt
			if b.StartsAt.After(start) {
				start = b.StartsAt
			}
			end := a.EndsAt
			if b.EndsAt.Before(end) {
				end = b.EndsAt
			}
			if !start.Before(end) {
				continue
			}
			out = append(out, ChangeConflict{
				System:       a.System,
				FirstID:      a.ID,
				SecondID:     b.ID,
				OverlapStart: start,
				OverlapEnd:   end,
				Overlap:      end.Sub(start),
				CrossTeam:    a.Team != b.Team,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Overlap > out[j].Overlap })
	return out
}

// Report builds the calendar summary.
func (e *ChangeConflictEngine) Report() ChangeConflictReport {
	changes := e.log.Snapshot()
	rep := ChangeConflictReport{
		GeneratedAt:  reportClock().UTC(),
		TotalChanges: len(changes),
		ByRisk:       map[ChangeRisk]int{},
	}
	for _, c := range changes {
		rep.ByRisk[c.Risk]++
	}
	rep.Conflicts = e.Conflicts()

	crossTeam := 0
	for _, c := range rep.Conflicts {
		if c.CrossTeam {
			crossTeam++
		}
	}
	if len(rep.Conflicts) > 0 {
		rep.Recommendations = append(rep.Recommendations,
			"overlapping change windows detected; stagger the conflicting windows or merge the changes")
	}
	if crossTeam > 0 {
		rep.Recommendations = append(rep.Recommendations,
			"conflicting changes span multiple teams; require a shared approver for the affected systems")
	}
	if rep.ByRisk[ChangeRiskHigh] > 3 {
		rep.Recommendations = append(rep.Recommendations,
			"more than 3 high-risk changes are scheduled; spread them across separate windows")
	}
	if len(rep.Recommendations) == 0 && rep.TotalChanges > 0 {
		rep.Recommendations = append(rep.Recommendations, "change calendar is conflict free")
	}
	return rep
}

// Clear drops all planned changes.
func (e *ChangeConflictEngine) Clear() { e.log.Clear() }

// Stats returns the uniform counters block.
func (e *ChangeConflictEngine) Stats() Stats { return statsOf(e.log) }
