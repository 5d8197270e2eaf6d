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
	"math"
	"testing"
)

func TestComplianceEngine_Scores(t *testing.T) {
	e := NewComplianceEngine(50)
	e.Record(ControlCheck{Framework: "soc2", ControlID: "CC6.1", Outcome: CheckPassed, Weight: 3})
	e.Record(ControlCheck{Framework: "soc2", ControlID: "CC6.2", Outcome: CheckFailed, Weight: 1})
	e.Record(ControlCheck{Framework: "soc2", ControlID: "CC7.1", Outcome: CheckSkipped, Weight: 5})
	e.Record(ControlCheck{Framework: "cis", ControlID: "1.1", Outcome: CheckPassed})

	scores := e.Scores()
	if len(scores) != 2 {
		t.Fatalf("expected scores for 2 frameworks, got %d", len(scores))
	}
	// Sorted lowest score first: soc2 (3/4) before cis (1/1).
	if scores[0].Framework != "soc2" {
		t.Errorf("lowest score should sort first, got %q", scores[0].Framework)
	}
	if math.Abs(scores[0].Score-0.75) > 1e-9 {
		t.Errorf("soc2 score = %v, want 0.75 (skipped checks carry no weight)", scores[0].Score)
	}
	if scores[1].Score != 1 {
		t.Errorf("cis score = %v, want 1", scores[1].Score)
	}
}

func TestComplianceEngine_WorstControls(t *testing.T) {
	e := NewComplianceEngine(50)
	for i := 0; i < 3; i++ {
		e.Record(ControlCheck{Framework: "pci", ControlID: "3.4", Outcome: CheckFailed, Weight: 2})
	}
	e.Record(ControlCheck{Framework: "pci", ControlID: "8.1", Outcome: CheckFailed})

	worst := e.WorstControls(5)
	if len(worst) != 2 {
		t.Fatalf("expected 2 failing controls, got %d", len(worst))
	}
	if worst[0].ControlID != "3.4" || worst[0].Failures != 3 {
		t.Errorf("worst control = %+v, want pci/3.4 with 3 failures", worst[0])
	}
}

func TestComplianceEngine_Report(t *testing.T) {
	e := NewComplianceEngine(50)
	e.Record(ControlCheck{Framework: "soc2", ControlID: "CC6.1", Outcome: CheckPassed})
	e.Record(ControlCheck{Framework: "soc2", ControlID: "CC6.2", Outcome: CheckFailed})

	rep := e.Report()
	sum := 0
	for _, c := range rep.ByOutcome {
		sum += c
	}
	if sum != rep.TotalChecks {
		t.Errorf("outcome counts sum to %d, total is %d", sum, rep.TotalChecks)
	}
	// soc2 at 50% is under the 70% threshold.
	if len(rep.Recommendations) == 0 {
		t.Error("a framework under 70% should generate a recommendation")
	}

	e.Clear()
	if e.Stats().TotalRecords != 0 {
		t.Error("Clear should empty the engine")
	}
}
