// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGatewayMetricsWith(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewGatewayMetricsWith(reg)

	m.RequestsTotal.WithLabelValues("alerts", "report").Inc()
	m.RecordsIngested.WithLabelValues("alerts").Inc()

	// The chat counter's label values are the answer sources the handlers
	// emit: the agent's "engine" and "llm", plus "blocked" for policy denials.
	for _, source := range []string{"engine", "llm", "blocked"} {
		m.ChatRequestsTotal.WithLabelValues(source).Inc()
	}

	assert.Equal(t, 3, testutil.CollectAndCount(m.ChatRequestsTotal))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.ChatRequestsTotal.WithLabelValues("engine")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["shieldops_gateway_requests_total"])
	assert.True(t, names["shieldops_gateway_chat_requests_total"])
}
