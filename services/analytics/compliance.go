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

// CheckOutcome is the result of one compliance control check.
type CheckOutcome string

const (
	CheckPassed  CheckOutcome = "passed"
	CheckFailed  CheckOutcome = "failed"
	CheckSkipped CheckOutcome = "skipped"
)

// Valid reports whether o is one of the fixed outcome values.
func (o CheckOutcome) Valid() bool {
	switch o {
	case CheckPassed, CheckFailed, CheckSkipped:
		return true
	}
	return false
}

// ControlCheck is one evaluated compliance control.
type ControlCheck struct {
	ID        string       `json:"id"`
	Framework string       `json:"framework"` // e.g. "soc2", "cis", "pci"
	ControlID string       `json:"control_id"`
	Resource  string       `json:"resource"`
	Outcome   CheckOutcome `json:"outcome"`
	Weight    float64      `json:"weight"` // defaults to 1 when unset
	CheckedAt time.Time    `json:"checked_at"`
}

// FrameworkScore is the weighted pass score for one framework.
type FrameworkScore struct {
	Framework string  `json:"framework"`
	Checks    int     `json:"checks"`
	Failed    int     `json:"failed"`
	Score     float64 `json:"score"` // weighted passed / weighted evaluated, 0..1
}

// FailingControl ranks a control by how often and how heavily it fails.
type FailingControl struct {
	Framework string  `json:"framework"`
	ControlID string  `json:"control_id"`
	Failures  int     `json:"failures"`
	Weight    float64 `json:"weight"`
}

// ComplianceReport summarizes control posture across frameworks.
type ComplianceReport struct {
	GeneratedAt     time.Time            `json:"generated_at"`
	TotalChecks     int                  `json:"total_checks"`
	ByOutcome       map[CheckOutcome]int `json:"by_outcome"`
	Frameworks      []FrameworkScore     `json:"frameworks"`
	WorstControls   []FailingControl     `json:"worst_controls"`
	Recommendations []string             `json:"recommendations"`
}

// ComplianceEngine scores control checks per framework.
type ComplianceEngine struct {
	log *Log[ControlCheck]
}

// NewComplianceEngine creates the engine with the given eviction bound.
func NewComplianceEngine(maxRecords int) *ComplianceEngine {
	return &ComplianceEngine{log: NewLog[ControlCheck](maxRecords)}
}

// Record stores a control check and returns the stored value.
func (e *ComplianceEngine) Record(c ControlCheck) ControlCheck {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Weight <= 0 {
		c.Weight = 1
	}
	if c.CheckedAt.IsZero() {
		c.CheckedAt = time.Now().UTC()
	}
	e.log.Append(c)
	return c
}

// Checks returns all stored checks in insertion order.
func (e *ComplianceEngine) Checks() []ControlCheck {
	return e.log.Snapshot()
}

// ForFramework returns the checks recorded against one framework.
func (e *ComplianceEngine) ForFramework(framework string) []ControlCheck {
	return e.log.Filter(func(c ControlCheck) bool { return c.Framework == framework })
}

// Scores returns a weighted pass score per framework, lowest first.
// Skipped checks carry no weight in either direction.
func (e *ComplianceEngine) Scores() []FrameworkScore {
	type agg struct {
		passed, evaluated float64
		checks, failed    int
	}
	byFramework := map[string]*agg{}
	for _, c := range e.log.Snapshot() {
		a, ok := byFramework[c.Framework]
		if !ok {
			a = &agg{}
			byFramework[c.Framework] = a
		}
		a.checks++
		switch c.Outcome {
		case CheckPassed:
			a.passed += c.Weight
			a.evaluated += c.Weight
		case CheckFailed:
			a.failed++
			a.evaluated += c.Weight
		}
	}
	out := make([]FrameworkScore, 0, len(byFramework))
	for fw, a := range byFramework {
		score := FrameworkScore{Framework: fw, Checks: a.checks, Failed: a.failed}
		if a.evaluated > 0 {
			score.Score = a.passed / a.evaluated
		}
		out = append(out, score)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score < out[j].Score
		}
		return out[i].Framework < out[j].Framework
	})
	return out
}

// WorstControls ranks failing controls by failure count, then weight.
func (e *ComplianceEngine) WorstControls(n int) []FailingControl {
	byControl := map[string]*FailingControl{}
	for _, c := range e.log.Snapshot() {
		if c.Outcome != CheckFailed {
			continue
		}
		key := c.Framework + "/" + c.ControlID
		fc, ok := byControl[key]
		if !ok {
			fc = &FailingControl{Framework: c.Framework, ControlID: c.ControlID}
			byControl[key] = fc
		}
		fc.Failures++
		fc.Weight += c.Weight
	}
	out := make([]FailingControl, 0, len(byControl))
	for _, fc := range byControl {
		out = append(out, *fc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Failures != out[j].Failures {
			return out[i].Failures > out[j].Failures
		}
		return out[i].Weight > out[j].Weight
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Report builds the posture summary.
func (e *ComplianceEngine) Report() ComplianceReport {
	checks := e.log.Snapshot()
	rep := ComplianceReport{
		GeneratedAt: reportClock().UTC(),
		TotalChecks: len(checks),
		ByOutcome:   map[CheckOutcome]int{},
	}
	for _, c := range checks {
		rep.ByOutcome[c.Outcome]++
	}
	rep.Frameworks = e.Scores()
	rep.WorstControls = e.WorstControls(5)

	for _, fw := range rep.Frameworks {
		switch {
		case fw.Score < 0.7:
			rep.Recommendations = append(rep.Recommendations,
				"framework "+fw.Framework+" scores below 70%; schedule a remediation sprint for its failing controls")
		case fw.Score < 0.9:
			rep.Recommendations = append(rep.Recommendations,
				"framework "+fw.Framework+" scores below 90%; review its top failing controls")
		}
	}
	if skipped := rep.ByOutcome[CheckSkipped]; rep.TotalChecks > 0 && skipped*5 > rep.TotalChecks {
		rep.Recommendations = append(rep.Recommendations,
			"over 20% of checks were skipped; posture scores are understating real exposure")
	}
	if len(rep.Recommendations) == 0 && rep.TotalChecks > 0 {
		rep.Recommendations = append(rep.Recommendations, "compliance posture is healthy across tracked frameworks")
	}
	return rep
}

// Clear drops all checks.
func (e *ComplianceEngine) Clear() { e.log.Clear() }

// Stats returns the uniform counters block.
func (e *ComplianceEngine) Stats() Stats { return statsOf(e.log) }
