// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package escalation

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeNotifier fails a fixed number of times per target before succeeding,
// or always fails when failures is negative.
type fakeNotifier struct {
	failures map[string]int
	calls    []string
}

func (f *fakeNotifier) Notify(ctx context.Context, target, channel, message string) error {
	f.calls = append(f.calls, target)
	n := f.failures[target]
	if n < 0 {
		return errors.New("unreachable")
	}
	if n > 0 {
		f.failures[target] = n - 1
		return errors.New("delivery failed")
	}
	return nil
}

func newTestEngine(n *fakeNotifier) *Engine {
	e := NewEngine(n, 16)
	e.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return e
}

func TestEngine_Execute(t *testing.T) {
	incident := Incident{Service: "checkout", Severity: "critical", Summary: "p99 latency"}

	t.Run("unknown policy errors", func(t *testing.T) {
		e := newTestEngine(&fakeNotifier{failures: map[string]int{}})
		if _, err := e.Execute(context.Background(), "nope", incident); err == nil {
			t.Fatal("expected an error for an unknown policy")
		}
	})

	t.Run("first step success completes the run", func(t *testing.T) {
		n := &fakeNotifier{failures: map[string]int{}}
		e := newTestEngine(n)
		p := e.SetPolicy(Policy{Name: "standard", Steps: []Step{
			{Target: "primary", Channel: "pager", MaxAttempts: 3},
			{Target: "secondary", Channel: "pager", MaxAttempts: 3},
		}})

		run, err := e.Execute(context.Background(), p.ID, incident)
		if err != nil {
			t.Fatal(err)
		}
		if run.Status != RunCompleted {
			t.Errorf("Status = %q, want %q", run.Status, RunCompleted)
		}
		if len(run.Steps) != 1 || !run.Steps[0].Notified {
			t.Errorf("Steps = %+v, want one notified step", run.Steps)
		}
		if len(n.calls) != 1 {
			t.Errorf("secondary should never be paged, calls = %v", n.calls)
		}
	})

	t.Run("retries within a step before escalating", func(t *testing.T) {
		n := &fakeNotifier{failures: map[string]int{"primary": 2}}
		e := newTestEngine(n)
		p := e.SetPolicy(Policy{Name: "retry", Steps: []Step{
			{Target: "primary", Channel: "pager", MaxAttempts: 3, RetryDelay: time.Millisecond},
		}})

		run, _ := e.Execute(context.Background(), p.ID, incident)
		if run.Status != RunCompleted {
			t.Fatalf("Status = %q, want completed after retries", run.Status)
		}
		if run.Steps[0].Attempts != 3 {
			t.Errorf("Attempts = %d, want 3", run.Steps[0].Attempts)
		}
	})

	t.Run("walks the chain when a step is unreachable", func(t *testing.T) {
		n := &fakeNotifier{failures: map[string]int{"primary": -1}}
		e := newTestEngine(n)
		p := e.SetPolicy(Policy{Name: "chain", Steps: []Step{
			{Target: "primary", Channel: "pager", MaxAttempts: 2},
			{Target: "secondary", Channel: "phone", MaxAttempts: 1},
		}})

		run, _ := e.Execute(context.Background(), p.ID, incident)
		if run.Status != RunCompleted {
			t.Fatalf("Status = %q, want completed at second step", run.Status)
		}
		if len(run.Steps) != 2 || run.Steps[0].Notified || !run.Steps[1].Notified {
			t.Errorf("Steps = %+v", run.Steps)
		}
	})

	t.Run("every step failing exhausts the run", func(t *testing.T) {
		n := &fakeNotifier{failures: map[string]int{"primary": -1, "secondary": -1}}
		e := newTestEngine(n)
		p := e.SetPolicy(Policy{Name: "doomed", Steps: []Step{
			{Target: "primary", Channel: "pager", MaxAttempts: 1},
			{Target: "secondary", Channel: "pager", MaxAttempts: 1},
		}})

		run, _ := e.Execute(context.Background(), p.ID, incident)
		if run.Status != RunExhausted {
			t.Errorf("Status = %q, want %q", run.Status, RunExhausted)
		}
	})

	t.Run("policy timeout marks the run timed out", func(t *testing.T) {
		n := &fakeNotifier{failures: map[string]int{"primary": -1}}
		e := NewEngine(n, 16) // real sleep so the deadline can fire
		p := e.SetPolicy(Policy{Name: "slow", Timeout: 5 * time.Millisecond, Steps: []Step{
			{Target: "primary", Channel: "pager", MaxAttempts: 10, RetryDelay: 20 * time.Millisecond},
		}})

		run, _ := e.Execute(context.Background(), p.ID, incident)
		if run.Status != RunTimedOut {
			t.Errorf("Status = %q, want %q", run.Status, RunTimedOut)
		}
	})
}

func TestEngine_ReportAndHistory(t *testing.T) {
	n := &fakeNotifier{failures: map[string]int{"dead": -1}}
	e := newTestEngine(n)
	ok := e.SetPolicy(Policy{Name: "ok", Steps: []Step{{Target: "primary", Channel: "pager"}}})
	bad := e.SetPolicy(Policy{Name: "bad", Steps: []Step{{Target: "dead", Channel: "pager"}}})

	e.Execute(context.Background(), ok.ID, Incident{Service: "a", Severity: "high", Summary: "x"})
	e.Execute(context.Background(), bad.ID, Incident{Service: "b", Severity: "high", Summary: "y"})

	if len(e.History()) != 2 {
		t.Fatalf("History len = %d, want 2", len(e.History()))
	}

	rep := e.Report()
	sum := 0
	for _, c := range rep.ByStatus {
		sum += c
	}
	if sum != rep.TotalRuns {
		t.Errorf("status counts sum to %d, total is %d", sum, rep.TotalRuns)
	}
	if rep.ByStatus[RunExhausted] != 1 {
		t.Errorf("ByStatus = %v, want one exhausted run", rep.ByStatus)
	}
	if len(rep.Recommendations) == 0 {
		t.Error("exhausted runs should generate a recommendation")
	}

	e.Clear()
	if e.Stats().TotalRecords != 0 {
		t.Error("Clear should drop history")
	}
	if _, found := e.Policy(ok.ID); !found {
		t.Error("Clear should keep policies")
	}
}
