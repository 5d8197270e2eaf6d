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
)

func TestSLOForecastEngine_Forecast(t *testing.T) {
	t.Run("unknown service reports absence", func(t *testing.T) {
		e := NewSLOForecastEngine(10)
		if _, ok := e.Forecast("ghost"); ok {
			t.Error("Forecast for an untracked service should return false")
		}
	})

	t.Run("steady burn projects exhaustion", func(t *testing.T) {
		e := NewSLOForecastEngine(10)
		// Two samples, 24h windows, burning 10% of budget per day.
		e.Record(SLOSample{Service: "api", Objective: 0.999, Actual: 0.998, WindowHours: 24, BudgetSpent: 0.1})
		e.Record(SLOSample{Service: "api", Objective: 0.999, Actual: 0.998, WindowHours: 24, BudgetSpent: 0.2})

		f, ok := e.Forecast("api")
		if !ok {
			t.Fatal("expected a forecast for api")
		}
		if math.Abs(f.BurnRate-0.05) > 1e-9 {
			t.Errorf("BurnRate = %v, want 0.05 (0.1 budget over 48h of windows)", f.BurnRate)
		}
		if math.Abs(f.BudgetRemaining-0.8) > 1e-9 {
			t.Errorf("BudgetRemaining = %v, want 0.8", f.BudgetRemaining)
		}
		if f.DaysToExhaustion == nil {
			t.Error("burning service should project an exhaustion horizon")
		} else if math.Abs(*f.DaysToExhaustion-16) > 1e-9 {
			t.Errorf("DaysToExhaustion = %v, want 16 (0.8 budget at 0.05/day)", *f.DaysToExhaustion)
		}
	})

	t.Run("no burn leaves the horizon unset", func(t *testing.T) {
		e := NewSLOForecastEngine(10)
		e.Record(SLOSample{Service: "static-site", Objective: 0.99, Actual: 1, WindowHours: 24, BudgetSpent: 0})
		f, ok := e.Forecast("static-site")
		if !ok {
			t.Fatal("expected a forecast")
		}
		if f.DaysToExhaustion != nil {
			t.Errorf("DaysToExhaustion = %v, want nil for a service that is not burning", *f.DaysToExhaustion)
		}
	})

	t.Run("no-burn forecast marshals cleanly", func(t *testing.T) {
		e := NewSLOForecastEngine(10)
		e.Record(SLOSample{Service: "static-site", Objective: 0.99, Actual: 1, WindowHours: 24, BudgetSpent: 0})
		raw, err := json.Marshal(e.Report())
		if err != nil {
			t.Fatalf("report with a non-burning service failed to marshal: %v", err)
		}
		var rep SLOForecastReport
		if err := json.Unmarshal(raw, &rep); err != nil {
			t.Fatalf("round-trip failed: %v", err)
		}
	})
}

func TestSLOForecastEngine_Report(t *testing.T) {
	e := NewSLOForecastEngine(20)
	// Burning fast: 40% per 24h window.
	e.Record(SLOSample{Service: "payments", Objective: 0.999, Actual: 0.99, WindowHours: 24, BudgetSpent: 0.4})
	e.Record(SLOSample{Service: "payments", Objective: 0.999, Actual: 0.99, WindowHours: 24, BudgetSpent: 0.8})
	// Healthy.
	e.Record(SLOSample{Service: "search", Objective: 0.99, Actual: 1, WindowHours: 24, BudgetSpent: 0})

	rep := e.Report()

	if sum := rep.ByService["payments"] + rep.ByService["search"]; sum != rep.TotalSamples {
		t.Errorf("per-service counts sum to %d, total is %d", sum, rep.TotalSamples)
	}
	if len(rep.ServicesAtRisk) != 1 || rep.ServicesAtRisk[0] != "payments" {
		t.Errorf("ServicesAtRisk = %v, want [payments]", rep.ServicesAtRisk)
	}
	if len(rep.Forecasts) == 0 || rep.Forecasts[0].Service != "payments" {
		t.Errorf("most urgent forecast should come first, got %+v", rep.Forecasts)
	}
	if len(rep.Recommendations) == 0 {
		t.Error("a service burning 40%/day should generate a recommendation")
	}
}
