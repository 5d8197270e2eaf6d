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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	r, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestInvestigationLifecycle(t *testing.T) {
	ctx := context.Background()
	r := openTestRepo(t)

	inv, err := r.CreateInvestigation(ctx, Investigation{
		Title: "elevated 5xx on checkout", Service: "checkout", Severity: "high",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, inv.ID)
	assert.Equal(t, "open", inv.Status)

	t.Run("get returns the stored row", func(t *testing.T) {
		got, err := r.GetInvestigation(ctx, inv.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, inv.Title, got.Title)
	})

	t.Run("unknown id returns nil, nil", func(t *testing.T) {
		got, err := r.GetInvestigation(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("resolve sets status and findings", func(t *testing.T) {
		got, err := r.ResolveInvestigation(ctx, inv.ID, "bad deploy, rolled back")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "resolved", got.Status)
		assert.NotNil(t, got.ResolvedAt)

		// Resolving twice is a no-op.
		again, err := r.ResolveInvestigation(ctx, inv.ID, "x")
		require.NoError(t, err)
		assert.Nil(t, again)
	})

	t.Run("list filters by status", func(t *testing.T) {
		open, err := r.ListInvestigations(ctx, "open")
		require.NoError(t, err)
		assert.Empty(t, open)

		resolved, err := r.ListInvestigations(ctx, "resolved")
		require.NoError(t, err)
		assert.Len(t, resolved, 1)
	})
}

func TestRemediationLifecycle(t *testing.T) {
	ctx := context.Background()
	r := openTestRepo(t)

	inv, err := r.CreateInvestigation(ctx, Investigation{Title: "t", Service: "s", Severity: "low"})
	require.NoError(t, err)

	t.Run("dangling remediation is rejected", func(t *testing.T) {
		_, err := r.CreateRemediation(ctx, Remediation{InvestigationID: "ghost", Action: "a", Owner: "o"})
		assert.Error(t, err)
	})

	rem, err := r.CreateRemediation(ctx, Remediation{
		InvestigationID: inv.ID, Action: "rotate credentials", Owner: "security",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", rem.Status)

	t.Run("complete transitions pending only", func(t *testing.T) {
		got, err := r.CompleteRemediation(ctx, rem.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "completed", got.Status)

		again, err := r.CompleteRemediation(ctx, rem.ID)
		require.NoError(t, err)
		assert.Nil(t, again)
	})

	t.Run("list by investigation", func(t *testing.T) {
		rems, err := r.ListRemediations(ctx, inv.ID)
		require.NoError(t, err)
		assert.Len(t, rems, 1)
	})

	t.Run("unfiltered list returns everything", func(t *testing.T) {
		rems, err := r.ListRemediations(ctx, "")
		require.NoError(t, err)
		assert.Len(t, rems, 1)
	})

	t.Run("filter by unknown investigation is empty", func(t *testing.T) {
		rems, err := r.ListRemediations(ctx, "no-such-investigation")
		require.NoError(t, err)
		assert.Empty(t, rems)
	})
}

func TestExecuteBatch(t *testing.T) {
	ctx := context.Background()
	r := openTestRepo(t)

	inv, err := r.CreateInvestigation(ctx, Investigation{Title: "seed", Service: "s", Severity: "low"})
	require.NoError(t, err)

	results, err := r.ExecuteBatch(ctx, []BatchOp{
		{Kind: OpCreateInvestigation, Title: "batch inv", Service: "api", Severity: "medium"},
		{Kind: OpCreateRemediation, ID: inv.ID, Action: "patch", Owner: "sre"},
		{Kind: OpResolveInvestigation, ID: "missing"},
		{Kind: "explode"},
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.True(t, results[0].OK)
	assert.NotEmpty(t, results[0].ID)
	assert.True(t, results[1].OK)
	assert.False(t, results[2].OK)
	assert.Contains(t, results[2].Error, "missing")
	assert.False(t, results[3].OK)
	assert.Contains(t, results[3].Error, "unknown batch op")

	// Results keep request order.
	for i, res := range results {
		assert.Equal(t, i, res.Index)
	}
}
