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

// DeployOutcome is the observed result of a deployment.
type DeployOutcome string

const (
	DeploySucceeded  DeployOutcome = "succeeded"
	DeployFailed     DeployOutcome = "failed"
	DeployRolledBack DeployOutcome = "rolled_back"
)

func (o DeployOutcome) Valid() bool {
	switch o {
	case DeploySucceeded, DeployFailed, DeployRolledBack:
		return true
	}
	return false
}

// Deployment is one recorded deploy of a service.
type Deployment struct {
	ID          string        `json:"id"`
	Service     string        `json:"service"`
	Version     string        `json:"version"`
	Outcome     DeployOutcome `json:"outcome"`
	BlastRadius int           `json:"blast_radius"` // downstream services affected
	DeployedAt  time.Time     `json:"deployed_at"`
}

// ServiceRisk scores a service's deploy risk from its history.
type ServiceRisk struct {
	Service     string  `json:"service"`
	Deploys     int     `json:"deploys"`
	Failures    int     `json:"failures"`
	FailureRate float64 `json:"failure_rate"`
	RiskScore   float64 `json:"risk_score"` // failure rate scaled by mean blast radius
}

// DeployRiskReport summarizes deploy health per service.
type DeployRiskReport struct {
	GeneratedAt     time.Time             `json:"generated_at"`
	TotalDeploys    int                   `json:"total_deploys"`
	ByOutcome       map[DeployOutcome]int `json:"by_outcome"`
	Services        []ServiceRisk         `json:"services"`
	Recommendations []string              `json:"recommendations"`
}

// DeployRiskEngine scores deployment risk from failure history.
type DeployRiskEngine struct {
	log *Log[Deployment]
}

func NewDeployRiskEngine(maxRecords int) *DeployRiskEngine {
	return &DeployRiskEngine{log: NewLog[Deployment](maxRecords)}
}

// Record stores a deployment and returns the stored value.
func (e *DeployRiskEngine) Record(d Deployment) Deployment {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.DeployedAt.IsZero() {
		d.DeployedAt = time.Now().UTC()
	}
	e.log.Append(d)
	return d
}

func (e *DeployRiskEngine) Deployments() []Deployment {
	return e.log.Snapshot()
}

func (e *DeployRiskEngine) ForService(service string) []Deployment {
	return e.log.Filter(func(d Deployment) bool { return d.Service == service })
}

// ServiceRisks ranks services by risk score, worst first.
func (e *DeployRiskEngine) ServiceRisks() []ServiceRisk {
	type agg struct {
		deploys, failures, blast int
	}
	byService := map[string]*agg{}
	for _, d := range e.log.Snapshot() {
		a, ok := byService[d.Service]
		if !ok {
			a = &agg{}
			byService[d.Service] = a
		}
		a.deploys++
		a.blast += d.BlastRadius
		if d.Outcome != DeploySucceeded {
			a.failures++
		}
	}
	out := make([]ServiceRisk, 0, len(byService))
	for svc, a := range byService {
		r := ServiceRisk{Service: svc, Deploys: a.deploys, Failures: a.failures}
		r.FailureRate = float64(a.failures) / float64(a.deploys)
		meanBlast := float64(a.blast) / float64(a.deploys)
		r.RiskScore = r.FailureRate * (1 + meanBlast)
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RiskScore != out[j].RiskScore {
			return out[i].RiskScore > out[j].RiskScore
		}
		return out[i].Service < out[j].Service
	})
	return out
}

func (e *DeployRiskEngine) Report() DeployRiskReport {
	deploys := e.log.Snapshot()
	rep := DeployRiskReport{
		GeneratedAt:  reportClock().UTC(),
		TotalDeploys: len(deploys),
		ByOutcome:    map[DeployOutcome]int{},
	}
	for _, d := range deploys {
		rep.ByOutcome[d.Outcome]++
	}
	rep.Services = e.ServiceRisks()

	for _, r := range rep.Services {
		if r.FailureRate >= 0.25 && r.Deploys >= 4 {
			rep.Recommendations = append(rep.Recommendations,
				"service "+r.Service+" fails a quarter of its deploys; require canary stages before full rollout")
		}
	}
	if rb := rep.ByOutcome[DeployRolledBack]; rep.TotalDeploys > 0 && rb*5 > rep.TotalDeploys {
		rep.Recommendations = append(rep.Recommendations,
			"rollback rate exceeds 20%; add pre-deploy verification to the pipeline")
	}
	if len(rep.Recommendations) == 0 && rep.TotalDeploys > 0 {
		rep.Recommendations = append(rep.Recommendations, "deploy failure rates are within normal bounds")
	}
	return rep
}

func (e *DeployRiskEngine) Clear() { e.log.Clear() }

func (e *DeployRiskEngine) Stats() Stats { return statsOf(e.log) }
