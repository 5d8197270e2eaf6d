// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the gateway service.
//
// # Description
//
// This package implements Prometheus metrics for monitoring the analytics
// ingestion and query surface. Metrics include:
//   - Request counters (by engine and operation)
//   - Record ingestion counters (by engine)
//   - Report generation latency histograms
//   - Chat request counters (by answer source)
//   - Active websocket session gauge
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Use with Prometheus +
// Grafana for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics
const metricsNamespace = "shieldops"

// Subsystem for the HTTP gateway
const gatewaySubsystem = "gateway"

// GatewayMetrics holds all Prometheus metrics for the gateway service.
//
// Initialize once at startup via NewGatewayMetrics(). Tests that need an
// isolated registry should use NewGatewayMetricsWith(prometheus.NewRegistry()).
type GatewayMetrics struct {
	// RequestsTotal counts API requests by engine and operation.
	// Labels: engine (alerts, slo, spot, ...), op (record, list, report, clear)
	RequestsTotal *prometheus.CounterVec

	// RecordsIngested counts accepted records per engine.
	// Labels: engine
	RecordsIngested *prometheus.CounterVec

	// ReportDurationSeconds measures report generation latency.
	// Labels: engine
	ReportDurationSeconds *prometheus.HistogramVec

	// ChatRequestsTotal counts chat requests by answer source.
	// Labels: source (engine, llm, blocked)
	ChatRequestsTotal *prometheus.CounterVec

	// BatchOpsTotal counts individual batch operations by outcome.
	// Labels: status (ok, failed)
	BatchOpsTotal *prometheus.CounterVec

	// ActiveWebsockets gauges currently open chat websocket sessions.
	ActiveWebsockets prometheus.Gauge
}

// NewGatewayMetrics creates and registers all gateway metrics on the default
// Prometheus registry.
func NewGatewayMetrics() *GatewayMetrics {
	return NewGatewayMetricsWith(prometheus.DefaultRegisterer)
}

// NewGatewayMetricsWith creates all gateway metrics on the given registerer.
func NewGatewayMetricsWith(reg prometheus.Registerer) *GatewayMetrics {
	factory := promauto.With(reg)

	return &GatewayMetrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "requests_total",
				Help:      "Total API requests by engine and operation.",
			},
			[]string{"engine", "op"},
		),
		RecordsIngested: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "records_ingested_total",
				Help:      "Total records accepted per engine.",
			},
			[]string{"engine"},
		),
		ReportDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "report_duration_seconds",
				Help:      "Report generation latency per engine.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"engine"},
		),
		ChatRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "chat_requests_total",
				Help:      "Chat requests by answer source.",
			},
			[]string{"source"},
		),
		BatchOpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "batch_ops_total",
				Help:      "Individual batch operations by outcome.",
			},
			[]string{"status"},
		),
		ActiveWebsockets: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "active_websockets",
				Help:      "Currently open chat websocket sessions.",
			},
		),
	}
}
