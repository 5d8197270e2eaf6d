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
	"testing"
	"time"
)

func changeAt(e *ChangeConflictEngine, system, team string, startHour, endHour int) PlannedChange {
	day := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)
	return e.Record(PlannedChange{
		Title:    "maintenance",
		System:   system,
		Team:     team,
		Risk:     ChangeRiskMedium,
		StartsAt: day.Add(time.Duration(startHour) * time.Hour),
		EndsAt:   day.Add(time.Duration(endHour) * time.Hour),
	})
}

func TestChangeConflictEngine_Conflicts(t *testing.T) {
	t.Run("overlapping windows on one system conflict", func(t *testing.T) {
		e := NewChangeConflictEngine(20)
		a := changeAt(e, "db-primary", "storage", 10, 12)
		b := changeAt(e, "db-primary", "platform", 11, 13)

		conflicts := e.Conflicts()
		if len(conflicts) != 1 {
			t.Fatalf("expected 1 conflict, got %d", len(conflicts))
		}
		c := conflicts[0]
		if c.FirstID != a.ID || c.SecondID != b.ID {
			t.Errorf("conflict pairs %q/%q, want %q/%q", c.FirstID, c.SecondID, a.ID, b.ID)
		}
		if c.Overlap != time.Hour {
			t.Errorf("Overlap = %v, want 1h", c.Overlap)
		}
		if !c.CrossTeam {
			t.Error("changes from different teams should be flagged cross-team")
		}
	})

	t.Run("different systems never conflict", func(t *testing.T) {
		e := NewChangeConflictEngine(20)
		changeAt(e, "db-primary", "storage", 10, 12)
		changeAt(e, "cache", "platform", 10, 12)
		if got := e.Conflicts(); len(got) != 0 {
			t.Errorf("expected no conflicts across systems, got %d", len(got))
		}
	})

	t.Run("touching windows do not conflict", func(t *testing.T) {
		e := NewChangeConflictEngine(20)
		changeAt(e, "db-primary", "storage", 10, 12)
		changeAt(e, "db-primary", "storage", 12, 14)
		if got := e.Conflicts(); len(got) != 0 {
			t.Errorf("back-to-back windows should not conflict, got %d", len(got))
		}
	})
}

func TestChangeConflictEngine_Report(t *testing.T) {
	e := NewChangeConflictEngine(20)
	changeAt(e, "db-primary", "storage", 10, 12)
	changeAt(e, "db-primary", "platform", 11, 13)
	changeAt(e, "cache", "platform", 9, 10)

	rep := e.Report()
	sum := 0
	for _, c := range rep.ByRisk {
		sum += c
	}
	if sum != rep.TotalChanges {
		t.Errorf("risk counts sum to %d, total is %d", sum, rep.TotalChanges)
	}
	if len(rep.Conflicts) != 1 {
		t.Errorf("expected 1 conflict in report, got %d", len(rep.Conflicts))
	}
	if len(rep.Recommendations) < 2 {
		t.Errorf("overlap + cross-team should each recommend, got %v", rep.Recommendations)
	}
}
