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
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestCapacityEngine_Trend(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("too few samples reports absence", func(t *testing.T) {
		e := NewCapacityEngine(10)
		e.Record(UtilizationSample{Resource: "db/disk", Used: 0.5, ObservedAt: start})
		if _, ok := e.Trend("db/disk"); ok {
			t.Error("one sample should not yield a trend")
		}
	})

	t.Run("linear growth projects saturation", func(t *testing.T) {
		e := NewCapacityEngine(10)
		// 1% per day starting at 50%.
		for day := 0; day < 5; day++ {
			e.Record(UtilizationSample{
				Resource:   "db/disk",
				Used:       0.5 + 0.01*float64(day),
				ObservedAt: start.AddDate(0, 0, day),
			})
		}
		tr, ok := e.Trend("db/disk")
		if !ok {
			t.Fatal("expected a trend")
		}
		if math.Abs(tr.SlopePerDay-0.01) > 1e-9 {
			t.Errorf("SlopePerDay = %v, want 0.01", tr.SlopePerDay)
		}
		// 46% headroom at 1%/day.
		if tr.DaysToSaturation == nil {
			t.Fatal("growing resource should project a saturation horizon")
		}
		if math.Abs(*tr.DaysToSaturation-46) > 1e-6 {
			t.Errorf("DaysToSaturation = %v, want 46", *tr.DaysToSaturation)
		}
	})

	t.Run("flat usage leaves the horizon unset", func(t *testing.T) {
		e := NewCapacityEngine(10)
		e.Record(UtilizationSample{Resource: "cache/memory", Used: 0.4, ObservedAt: start})
		e.Record(UtilizationSample{Resource: "cache/memory", Used: 0.4, ObservedAt: start.AddDate(0, 0, 1)})
		tr, ok := e.Trend("cache/memory")
		if !ok {
			t.Fatal("expected a trend")
		}
		if tr.DaysToSaturation != nil {
			t.Errorf("DaysToSaturation = %v, want nil for flat usage", *tr.DaysToSaturation)
		}
	})

	t.Run("flat-trend report marshals cleanly", func(t *testing.T) {
		e := NewCapacityEngine(10)
		e.Record(UtilizationSample{Resource: "cache/memory", Used: 0.4, ObservedAt: start})
		e.Record(UtilizationSample{Resource: "cache/memory", Used: 0.4, ObservedAt: start.AddDate(0, 0, 1)})
		raw, err := json.Marshal(e.Report())
		if err != nil {
			t.Fatalf("report with a flat resource failed to marshal: %v", err)
		}
		var rep CapacityReport
		if err := json.Unmarshal(raw, &rep); err != nil {
			t.Fatalf("round-trip failed: %v", err)
		}
	})
}

func TestCapacityEngine_Report(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	e := NewCapacityEngine(20)
	// Saturating inside two weeks: 90% and growing 2%/day.
	e.Record(UtilizationSample{Resource: "db/disk", Used: 0.88, ObservedAt: start})
	e.Record(UtilizationSample{Resource: "db/disk", Used: 0.90, ObservedAt: start.AddDate(0, 0, 1)})

	rep := e.Report()
	if rep.ByResource["db/disk"] != rep.TotalSamples {
		t.Errorf("resource counts should sum to total, got %v vs %d", rep.ByResource, rep.TotalSamples)
	}
	if len(rep.Trends) != 1 || rep.Trends[0].Resource != "db/disk" {
		t.Fatalf("Trends = %+v", rep.Trends)
	}
	if len(rep.Recommendations) == 0 {
		t.Error("imminent saturation should generate a recommendation")
	}
}
