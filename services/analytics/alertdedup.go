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

// AlertSeverity classifies a fired alert.
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "critical"
	SeverityHigh     AlertSeverity = "high"
	SeverityWarning  AlertSeverity = "warning"
	SeverityInfo     AlertSeverity = "info"
)

// Valid reports whether s is one of the fixed severity values.
func (s AlertSeverity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// Alert is a single alert firing observed by the dedup engine.
type Alert struct {
	ID          string        `json:"id"`
	Fingerprint string        `json:"fingerprint"`
	Source      string        `json:"source"`
	Service     string        `json:"service"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message,omitempty"`
	FiredAt     time.Time     `json:"fired_at"`
}

// DuplicateGroup is a set of alerts sharing one fingerprint.
type DuplicateGroup struct {
	Fingerprint string    `json:"fingerprint"`
	Count       int       `json:"count"`
	FirstSeen   time.Time `json:"first_seen"`
	LastSeen    time.Time `json:"last_seen"`
	Services    []string  `json:"services"`
}

// SourceCount pairs an alert source with its firing count.
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// AlertDedupReport summarizes the current alert log.
type AlertDedupReport struct {
	GeneratedAt     time.Time             `json:"generated_at"`
	TotalAlerts     int                   `json:"total_alerts"`
	BySeverity      map[AlertSeverity]int `json:"by_severity"`
	UniqueAlerts    int                   `json:"unique_alerts"`
	DuplicateAlerts int                   `json:"duplicate_alerts"`
	DedupRatio      float64               `json:"dedup_ratio"`
	NoisiestSources []SourceCount         `json:"noisiest_sources"`
	Recommendations []string              `json:"recommendations"`
}

// AlertDedupEngine groups alert firings by fingerprint to surface noise.
type AlertDedupEngine struct {
	log *Log[Alert]
}

// NewAlertDedupEngine creates the engine with the given eviction bound.
func NewAlertDedupEngine(maxRecords int) *AlertDedupEngine {
	return &AlertDedupEngine{log: NewLog[Alert](maxRecords)}
}

// Record stores an alert firing, assigning an ID and timestamp when absent,
// and returns the stored value.
func (e *AlertDedupEngine) Record(a Alert) Alert {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.FiredAt.IsZero() {
		a.FiredAt = time.Now().UTC()
	}
	e.log.Append(a)
	return a
}

// Alerts returns all stored alerts in insertion order.
func (e *AlertDedupEngine) Alerts() []Alert {
	return e.log.Snapshot()
}

// BySeverity returns alerts with the given severity.
func (e *AlertDedupEngine) BySeverity(sev AlertSeverity) []Alert {
	return e.log.Filter(func(a Alert) bool { return a.Severity == sev })
}

// Get looks up an alert by ID. Absent IDs return (zero, false).
func (e *AlertDedupEngine) Get(id string) (Alert, bool) {
	return e.log.Find(func(a Alert) bool { return a.ID == id })
}

// DuplicateGroups returns fingerprints seen more than once, largest first.
func (e *AlertDedupEngine) DuplicateGroups() []DuplicateGroup {
	groups := map[string]*DuplicateGroup{}
	for _, a := range e.log.Snapshot() {
		g, ok := groups[a.Fingerprint]
		if !ok {
			g = &DuplicateGroup{Fingerprint: a.Fingerprint, FirstSeen: a.FiredAt}
			groups[a.Fingerprint] = g
		}
		g.Count++
		if a.FiredAt.After(g.LastSeen) {
			g.LastSeen = a.FiredAt
		}
		if a.FiredAt.Before(g.FirstSeen) {
			g.FirstSeen = a.FiredAt
		}
		if a.Service != "" && !containsString(g.Services, a.Service) {
			g.Services = append(g.Services, a.Service)
		}
	}
	var out []DuplicateGroup
	for _, g := range groups {
		if g.Count > 1 {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Fingerprint < out[j].Fingerprint
	})
	return out
}

// NoisiestSources returns the top n sources by firing count.
func (e *AlertDedupEngine) NoisiestSources(n int) []SourceCount {
	counts := map[string]int{}
	for _, a := range e.log.Snapshot() {
		counts[a.Source]++
	}
	out := make([]SourceCount, 0, len(counts))
	for src, c := range counts {
		out = append(out, SourceCount{Source: src, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Source < out[j].Source
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Report builds the dedup summary with threshold recommendations.
func (e *AlertDedupEngine) Report() AlertDedupReport {
	alerts := e.log.Snapshot()
	rep := AlertDedupReport{
		GeneratedAt: reportClock().UTC(),
		TotalAlerts: len(alerts),
		BySeverity:  map[AlertSeverity]int{},
	}
	fingerprints := map[string]int{}
	for _, a := range alerts {
		rep.BySeverity[a.Severity]++
		fingerprints[a.Fingerprint]++
	}
	rep.UniqueAlerts = len(fingerprints)
	rep.DuplicateAlerts = rep.TotalAlerts - rep.UniqueAlerts
	if rep.TotalAlerts > 0 {
		rep.DedupRatio = float64(rep.DuplicateAlerts) / float64(rep.TotalAlerts)
	}
	rep.NoisiestSources = e.NoisiestSources(5)

	if rep.DedupRatio > 0.5 {
		rep.Recommendations = append(rep.Recommendations,
			"over half of alert volume is duplicate firings; tighten grouping keys in the alert router")
	}
	if rep.BySeverity[SeverityCritical] > 10 {
		rep.Recommendations = append(rep.Recommendations,
			"more than 10 critical alerts in the window; review paging thresholds before alert fatigue sets in")
	}
	for _, src := range rep.NoisiestSources {
		if rep.TotalAlerts > 0 && src.Count*2 > rep.TotalAlerts {
			rep.Recommendations = append(rep.Recommendations,
				"source "+src.Source+" produces the majority of alerts; consider a dedicated suppression rule")
			break
		}
	}
	if len(rep.Recommendations) == 0 && rep.TotalAlerts > 0 {
		rep.Recommendations = append(rep.Recommendations, "alert volume and duplication are within normal bounds")
	}
	return rep
}

// Clear drops all alerts.
func (e *AlertDedupEngine) Clear() { e.log.Clear() }

// Stats returns the uniform counters block.
func (e *AlertDedupEngine) Stats() Stats { return statsOf(e.log) }

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
