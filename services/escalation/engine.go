// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package escalation executes incident escalation policies.
//
// A policy is an ordered list of steps. Each step notifies one target with a
// bounded number of attempts and a retry delay between attempts; the whole
// run is bounded by the policy timeout via a context deadline. A run stops at
// the first step whose notification lands, otherwise it walks the chain to
// the end. Completed runs land in a bounded in-memory history with the same
// eviction contract as the analytics engines.
package escalation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/shieldops/services/analytics"
)

// RunStatus is the terminal state of an escalation run.
type RunStatus string

const (
	RunCompleted RunStatus = "completed" // a step's notification landed
	RunExhausted RunStatus = "exhausted" // every step failed
	RunTimedOut  RunStatus = "timed_out" // policy timeout elapsed mid-run
)

// Step notifies one target, retrying up to MaxAttempts with RetryDelay
// between attempts.
type Step struct {
	Target      string        `json:"target"`
	Channel     string        `json:"channel"` // e.g. "pager", "slack", "phone"
	MaxAttempts int           `json:"max_attempts"`
	RetryDelay  time.Duration `json:"retry_delay_ns"`
}

// Policy is an ordered escalation chain with an overall timeout.
type Policy struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Steps   []Step        `json:"steps"`
	Timeout time.Duration `json:"timeout_ns"`
}

// Incident is the event being escalated.
type Incident struct {
	ID       string `json:"id"`
	Service  string `json:"service"`
	Severity string `json:"severity"`
	Summary  string `json:"summary"`
}

// StepResult records the outcome of one step in a run.
type StepResult struct {
	Target   string `json:"target"`
	Channel  string `json:"channel"`
	Attempts int    `json:"attempts"`
	Notified bool   `json:"notified"`
	Error    string `json:"error,omitempty"`
}

// Run is one policy execution against an incident.
type Run struct {
	ID         string       `json:"id"`
	PolicyID   string       `json:"policy_id"`
	IncidentID string       `json:"incident_id"`
	Status     RunStatus    `json:"status"`
	Steps      []StepResult `json:"steps"`
	StartedAt  time.Time    `json:"started_at"`
	EndedAt    time.Time    `json:"ended_at"`
}

// Report summarizes recorded runs.
type Report struct {
	GeneratedAt     time.Time         `json:"generated_at"`
	TotalRuns       int               `json:"total_runs"`
	ByStatus        map[RunStatus]int `json:"by_status"`
	MeanStepsUsed   float64           `json:"mean_steps_used"`
	Recommendations []string          `json:"recommendations"`
}

// Notifier delivers one escalation notification.
type Notifier interface {
	Notify(ctx context.Context, target, channel, message string) error
}

// LogNotifier writes notifications to slog. It stands in for real paging
// integrations in local deployments.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, target, channel, message string) error {
	slog.InfoContext(ctx, "escalation notification",
		"target", target, "channel", channel, "message", message)
	return nil
}

// Engine holds escalation policies and executes them.
//
// Thread Safety: safe for concurrent use. Policies are guarded by a mutex and
// run history shares the analytics Log locking.
type Engine struct {
	mu       sync.RWMutex
	policies map[string]Policy

	notifier Notifier
	history  *analytics.Log[Run]

	// sleep is swapped in tests to skip real retry delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewEngine creates an engine keeping at most maxRecords runs of history.
func NewEngine(notifier Notifier, maxRecords int) *Engine {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Engine{
		policies: map[string]Policy{},
		notifier: notifier,
		history:  analytics.NewLog[Run](maxRecords),
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// SetPolicy registers or replaces a policy, assigning an ID when absent.
func (e *Engine) SetPolicy(p Policy) Policy {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	e.mu.Lock()
	e.policies[p.ID] = p
	e.mu.Unlock()
	return p
}

// Policy looks up a policy by ID. Absent IDs return (zero, false).
func (e *Engine) Policy(id string) (Policy, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, ok := e.policies[id]
	return p, ok
}

// Policies returns all registered policies.
func (e *Engine) Policies() []Policy {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Policy, 0, len(e.policies))
	for _, p := range e.policies {
		out = append(out, p)
	}
	return out
}

// Execute runs a policy against an incident and records the run.
//
// The error return covers unknown policies only; notification failures are
// captured in the run's step results, not surfaced as errors.
func (e *Engine) Execute(ctx context.Context, policyID string, inc Incident) (Run, error) {
	policy, ok := e.Policy(policyID)
	if !ok {
		return Run{}, fmt.Errorf("unknown escalation policy %q", policyID)
	}
	if inc.ID == "" {
		inc.ID = uuid.NewString()
	}

	if policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, policy.Timeout)
		defer cancel()
	}

	run := Run{
		ID:         uuid.NewString(),
		PolicyID:   policy.ID,
		IncidentID: inc.ID,
		Status:     RunExhausted,
		StartedAt:  time.Now().UTC(),
	}
	message := fmt.Sprintf("[%s] %s: %s", inc.Severity, inc.Service, inc.Summary)

steps:
	for _, step := range policy.Steps {
		attempts := step.MaxAttempts
		if attempts <= 0 {
			attempts = 1
		}
		res := StepResult{Target: step.Target, Channel: step.Channel}
		for i := 0; i < attempts; i++ {
			if i > 0 {
				if err := e.sleep(ctx, step.RetryDelay); err != nil {
					res.Error = err.Error()
					run.Steps = append(run.Steps, res)
					run.Status = RunTimedOut
					break steps
				}
			}
			res.Attempts++
			err := e.notifier.Notify(ctx, step.Target, step.Channel, message)
			if err == nil {
				res.Notified = true
				res.Error = ""
				break
			}
			res.Error = err.Error()
			if ctx.Err() != nil {
				run.Steps = append(run.Steps, res)
				run.Status = RunTimedOut
				break steps
			}
		}
		run.Steps = append(run.Steps, res)
		if res.Notified {
			run.Status = RunCompleted
			break
		}
	}

	run.EndedAt = time.Now().UTC()
	e.history.Append(run)
	return run, nil
}

// History returns recorded runs in insertion order.
func (e *Engine) History() []Run {
	return e.history.Snapshot()
}

// Report summarizes run outcomes with threshold recommendations.
func (e *Engine) Report() Report {
	runs := e.history.Snapshot()
	rep := Report{
		GeneratedAt: time.Now().UTC(),
		TotalRuns:   len(runs),
		ByStatus:    map[RunStatus]int{},
	}
	steps := 0
	for _, r := range runs {
		rep.ByStatus[r.Status]++
		steps += len(r.Steps)
	}
	if rep.TotalRuns > 0 {
		rep.MeanStepsUsed = float64(steps) / float64(rep.TotalRuns)
	}

	if rep.ByStatus[RunExhausted] > 0 {
		rep.Recommendations = append(rep.Recommendations,
			"escalation chains have been exhausted without reaching anyone; add a final catch-all target")
	}
	if rep.TotalRuns > 0 && rep.ByStatus[RunTimedOut]*4 > rep.TotalRuns {
		rep.Recommendations = append(rep.Recommendations,
			"over a quarter of runs hit the policy timeout; lengthen timeouts or shorten retry delays")
	}
	if rep.MeanStepsUsed > 2 {
		rep.Recommendations = append(rep.Recommendations,
			"runs regularly walk past the second step; first responders are not answering pages")
	}
	if len(rep.Recommendations) == 0 && rep.TotalRuns > 0 {
		rep.Recommendations = append(rep.Recommendations, "escalations are resolving at the first step")
	}
	return rep
}

// Clear drops the run history. Policies are kept.
func (e *Engine) Clear() { e.history.Clear() }

// Stats returns the uniform counters block over run history.
func (e *Engine) Stats() analytics.Stats {
	return analytics.Stats{TotalRecords: e.history.Len(), MaxRecords: e.history.Max()}
}
