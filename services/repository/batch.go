// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package repository

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Batch operation kinds.
const (
	OpCreateInvestigation  = "create_investigation"
	OpResolveInvestigation = "resolve_investigation"
	OpCreateRemediation    = "create_remediation"
	OpCompleteRemediation  = "complete_remediation"
)

// BatchOp is one operation in a batch request.
type BatchOp struct {
	Kind string `json:"kind" binding:"required"`

	// create_investigation
	Title    string `json:"title,omitempty"`
	Service  string `json:"service,omitempty"`
	Severity string `json:"severity,omitempty"`

	// resolve_investigation / create_remediation / complete_remediation
	ID       string `json:"id,omitempty"`
	Findings string `json:"findings,omitempty"`
	Action   string `json:"action,omitempty"`
	Owner    string `json:"owner,omitempty"`
}

// BatchResult reports one operation's outcome. Results keep the request
// order regardless of execution order.
type BatchResult struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	OK    bool   `json:"ok"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// batchWorkers bounds concurrent operations per batch.
const batchWorkers = 4

// ExecuteBatch runs the operations concurrently. Individual failures are
// reported per-op; the returned error covers context cancellation only.
func (r *Repository) ExecuteBatch(ctx context.Context, ops []BatchOp) ([]BatchResult, error) {
	results := make([]BatchResult, len(ops))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)
	for i, op := range ops {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = BatchResult{Index: i, Kind: op.Kind, Error: err.Error()}
				return err
			}
			results[i] = r.executeOp(ctx, i, op)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("batch aborted: %w", err)
	}
	return results, nil
}

func (r *Repository) executeOp(ctx context.Context, index int, op BatchOp) BatchResult {
	res := BatchResult{Index: index, Kind: op.Kind}
	switch op.Kind {
	case OpCreateInvestigation:
		inv, err := r.CreateInvestigation(ctx, Investigation{
			Title: op.Title, Service: op.Service, Severity: op.Severity,
		})
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.OK, res.ID = true, inv.ID

	case OpResolveInvestigation:
		inv, err := r.ResolveInvestigation(ctx, op.ID, op.Findings)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		if inv == nil {
			res.Error = fmt.Sprintf("no open investigation %q", op.ID)
			return res
		}
		res.OK, res.ID = true, inv.ID

	case OpCreateRemediation:
		rem, err := r.CreateRemediation(ctx, Remediation{
			InvestigationID: op.ID, Action: op.Action, Owner: op.Owner,
		})
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.OK, res.ID = true, rem.ID

	case OpCompleteRemediation:
		rem, err := r.CompleteRemediation(ctx, op.ID)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		if rem == nil {
			res.Error = fmt.Sprintf("no pending remediation %q", op.ID)
			return res
		}
		res.OK, res.ID = true, rem.ID

	default:
		res.Error = fmt.Sprintf("unknown batch op kind %q", op.Kind)
	}
	return res
}
