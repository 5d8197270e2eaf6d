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
	"fmt"
	"testing"
	"time"
)

func TestVulnWatchEngine_TopExposures(t *testing.T) {
	e := NewVulnWatchEngine(50)
	e.Record(Vulnerability{CVE: "CVE-2026-0001", Asset: "edge-proxy", CVSS: 9.8, Criticality: 5, Status: VulnOpen})
	e.Record(Vulnerability{CVE: "CVE-2026-0002", Asset: "build-agent", CVSS: 5.0, Criticality: 2, Status: VulnOpen})
	e.Record(Vulnerability{CVE: "CVE-2026-0003", Asset: "old-cms", CVSS: 9.0, Criticality: 5, Status: VulnRemediated})

	exps := e.TopExposures(10)
	if len(exps) != 2 {
		t.Fatalf("TopExposures = %+v, want only the 2 open findings", exps)
	}
	if exps[0].CVE != "CVE-2026-0001" {
		t.Errorf("worst exposure = %s, want CVE-2026-0001", exps[0].CVE)
	}
	if exps[0].Score != 49 {
		t.Errorf("Score = %v, want 49 (9.8 x 5)", exps[0].Score)
	}
}

func TestVulnWatchEngine_Report(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("breaches count all open findings", func(t *testing.T) {
		e := NewVulnWatchEngine(50)
		e.now = func() time.Time { return now }

		// Eleven high-score open findings, all inside their SLA.
		for i := 0; i < 11; i++ {
			e.Record(Vulnerability{
				CVE:          fmt.Sprintf("CVE-2026-1%03d", i),
				Asset:        "core-db",
				CVSS:         9.0,
				Criticality:  5,
				Status:       VulnOpen,
				SLADays:      30,
				DiscoveredAt: now.AddDate(0, 0, -1),
			})
		}
		// One low-score finding well past its SLA. It never ranks in the
		// top ten but must still count as a breach.
		e.Record(Vulnerability{
			CVE:          "CVE-2025-9999",
			Asset:        "wiki",
			CVSS:         2.0,
			Criticality:  1,
			Status:       VulnOpen,
			SLADays:      7,
			DiscoveredAt: now.AddDate(0, 0, -60),
		})

		rep := e.Report()
		if rep.SLABreaches != 1 {
			t.Errorf("SLABreaches = %d, want 1", rep.SLABreaches)
		}
		if len(rep.TopExposures) != 10 {
			t.Errorf("TopExposures has %d entries, want the cap of 10", len(rep.TopExposures))
		}
		if len(rep.Recommendations) == 0 {
			t.Error("a breached SLA should generate a recommendation")
		}
	})

	t.Run("resolved findings never breach", func(t *testing.T) {
		e := NewVulnWatchEngine(50)
		e.now = func() time.Time { return now }
		e.Record(Vulnerability{
			CVE:          "CVE-2025-0042",
			Asset:        "legacy-ftp",
			CVSS:         8.0,
			Criticality:  3,
			Status:       VulnRemediated,
			SLADays:      7,
			DiscoveredAt: now.AddDate(0, 0, -90),
		})
		rep := e.Report()
		if rep.SLABreaches != 0 {
			t.Errorf("SLABreaches = %d, want 0 for remediated findings", rep.SLABreaches)
		}
	})
}
