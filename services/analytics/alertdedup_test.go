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

func fireAlert(e *AlertDedupEngine, fp, source string, sev AlertSeverity) Alert {
	return e.Record(Alert{
		Fingerprint: fp,
		Source:      source,
		Service:     "checkout",
		Severity:    sev,
		FiredAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	})
}

func TestAlertDedupEngine_Record(t *testing.T) {
	e := NewAlertDedupEngine(10)

	stored := fireAlert(e, "fp-1", "prometheus", SeverityHigh)
	if stored.ID == "" {
		t.Error("Record should assign an ID")
	}
	if got, ok := e.Get(stored.ID); !ok || got.Fingerprint != "fp-1" {
		t.Errorf("Get(%q) = %+v, %v", stored.ID, got, ok)
	}
	if _, ok := e.Get("missing"); ok {
		t.Error("Get should report absence for unknown IDs")
	}
}

func TestAlertDedupEngine_DuplicateGroups(t *testing.T) {
	e := NewAlertDedupEngine(50)
	fireAlert(e, "fp-a", "prometheus", SeverityCritical)
	fireAlert(e, "fp-a", "prometheus", SeverityCritical)
	fireAlert(e, "fp-a", "grafana", SeverityCritical)
	fireAlert(e, "fp-b", "prometheus", SeverityInfo)
	fireAlert(e, "fp-b", "prometheus", SeverityInfo)
	fireAlert(e, "fp-c", "pingdom", SeverityWarning)

	groups := e.DuplicateGroups()
	if len(groups) != 2 {
		t.Fatalf("expected 2 duplicate groups, got %d", len(groups))
	}
	if groups[0].Fingerprint != "fp-a" || groups[0].Count != 3 {
		t.Errorf("largest group = %q x%d, want fp-a x3", groups[0].Fingerprint, groups[0].Count)
	}
}

func TestAlertDedupEngine_Report(t *testing.T) {
	e := NewAlertDedupEngine(50)
	for i := 0; i < 4; i++ {
		fireAlert(e, "fp-dup", "prometheus", SeverityHigh)
	}
	fireAlert(e, "fp-solo", "pingdom", SeverityInfo)

	rep := e.Report()

	t.Run("severity counts sum to total", func(t *testing.T) {
		sum := 0
		for _, c := range rep.BySeverity {
			sum += c
		}
		if sum != rep.TotalAlerts {
			t.Errorf("severity counts sum to %d, total is %d", sum, rep.TotalAlerts)
		}
	})

	t.Run("dedup arithmetic", func(t *testing.T) {
		if rep.UniqueAlerts != 2 {
			t.Errorf("UniqueAlerts = %d, want 2", rep.UniqueAlerts)
		}
		if rep.DuplicateAlerts != 3 {
			t.Errorf("DuplicateAlerts = %d, want 3", rep.DuplicateAlerts)
		}
		if rep.DedupRatio != 0.6 {
			t.Errorf("DedupRatio = %v, want 0.6", rep.DedupRatio)
		}
	})

	t.Run("noisy dominant source is flagged", func(t *testing.T) {
		found := false
		for _, r := range rep.Recommendations {
			if containsSubstr(r, "prometheus") {
				found = true
			}
		}
		if !found {
			t.Errorf("expected a recommendation about the dominant source, got %v", rep.Recommendations)
		}
	})

	t.Run("clear resets everything", func(t *testing.T) {
		e.Clear()
		if e.Stats().TotalRecords != 0 {
			t.Error("Stats should report zero records after Clear")
		}
		if rep := e.Report(); rep.TotalAlerts != 0 || len(rep.Recommendations) != 0 {
			t.Errorf("empty engine report = %+v", rep)
		}
	})
}

func TestAlertSeverity_Valid(t *testing.T) {
	for _, sev := range []AlertSeverity{SeverityCritical, SeverityHigh, SeverityWarning, SeverityInfo} {
		if !sev.Valid() {
			t.Errorf("%q should be valid", sev)
		}
	}
	if AlertSeverity("panic").Valid() {
		t.Error("unknown severity should be invalid")
	}
}

func containsSubstr(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
