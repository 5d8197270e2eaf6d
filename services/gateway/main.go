// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/shieldops/pkg/logging"
	"github.com/AleutianAI/shieldops/services/agent"
	"github.com/AleutianAI/shieldops/services/analytics"
	"github.com/AleutianAI/shieldops/services/audit"
	"github.com/AleutianAI/shieldops/services/escalation"
	"github.com/AleutianAI/shieldops/services/gateway/datatypes"
	"github.com/AleutianAI/shieldops/services/gateway/handlers"
	"github.com/AleutianAI/shieldops/services/gateway/middleware"
	"github.com/AleutianAI/shieldops/services/gateway/observability"
	"github.com/AleutianAI/shieldops/services/gateway/routes"
	"github.com/AleutianAI/shieldops/services/llm"
	"github.com/AleutianAI/shieldops/services/policy"
	"github.com/AleutianAI/shieldops/services/repository"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	// Tracing is optional in local deployments.
	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		slog.Info("OTEL_EXPORTER_OTLP_ENDPOINT not set, tracing disabled")
		return func(context.Context) {}, nil
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("shieldops-gateway")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

// envInt reads an integer env var, warning and defaulting on bad input.
func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		slog.Warn("invalid env value, using default", "key", key, "value", raw,
			"default", def)
		return def
	}
	return n
}

func main() {
	port := os.Getenv("GATEWAY_PORT")
	if port == "" {
		port = "12310"
	}

	logger, closeLogs, err := logging.New(logging.Config{
		Level:   logging.ParseLevel(os.Getenv("SHIELDOPS_LOG_LEVEL")),
		Service: "shieldops-gateway",
		LogDir:  os.Getenv("SHIELDOPS_LOG_DIR"),
		JSON:    true,
	})
	if err != nil {
		log.Fatalf("failed to setup logging: %v", err)
	}
	defer closeLogs()
	slog.SetDefault(logger)

	// --- Init the tracer ---
	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	// --- Analytics and escalation engines ---
	maxRecords := envInt("SHIELDOPS_MAX_RECORDS", analytics.DefaultMaxRecords)
	engines := analytics.NewEngines(maxRecords)
	escalations := escalation.NewEngine(escalation.LogNotifier{}, maxRecords)

	// --- Policy screening (local rules, optionally backed by OPA) ---
	rules := policy.DefaultRules()
	if path := os.Getenv("SHIELDOPS_POLICY_RULES"); path != "" {
		loaded, err := policy.LoadRules(path)
		if err != nil {
			log.Fatalf("failed to load policy rules from %s: %v", path, err)
		}
		if err := loaded.Watch(); err != nil {
			slog.Warn("policy rule watching unavailable", "error", err)
		}
		defer loaded.Close()
		rules = loaded
	}
	policyClient := policy.NewClient(rules)

	// --- LLM fallback for the chat agent ---
	var llmClient llm.Client
	if os.Getenv("OPENAI_API_KEY") != "" {
		llmClient, err = llm.NewOpenAIClient()
		if err != nil {
			log.Fatalf("failed to init the OpenAI client: %v", err)
		}
	} else {
		slog.Info("OPENAI_API_KEY not set, chat falls back to canned answers")
		llmClient = llm.NopClient{}
	}
	chatAgent := agent.New(engines, escalations, llmClient)

	// --- SQLite repository for investigations and remediations ---
	var repo *repository.Repository
	dbPath := os.Getenv("SHIELDOPS_DB_PATH")
	if dbPath == "" {
		dbPath = "shieldops.db"
	}
	repo, err = repository.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open the repository at %s: %v", dbPath, err)
	}
	defer repo.Close()

	// --- Badger audit journal ---
	auditCfg := audit.InMemoryConfig()
	if path := os.Getenv("SHIELDOPS_AUDIT_PATH"); path != "" {
		auditCfg = audit.DefaultConfig(path)
	}
	auditStore, err := audit.Open(auditCfg)
	if err != nil {
		log.Fatalf("failed to open the audit store: %v", err)
	}
	defer auditStore.Close()

	deps := &handlers.Deps{
		Engines:     engines,
		Escalations: escalations,
		Agent:       chatAgent,
		Policy:      policyClient,
		Repo:        repo,
		Audit:       auditStore,
		Metrics:     observability.NewGatewayMetrics(),
	}

	datatypes.RegisterValidators()

	limiter := middleware.NewRateLimiter(
		float64(envInt("SHIELDOPS_RATE_RPS", 50)),
		envInt("SHIELDOPS_RATE_BURST", 100))
	defer limiter.Stop()

	router := gin.Default()
	router.Use(otelgin.Middleware("shieldops-gateway"))
	router.Use(limiter.Middleware())
	router.Use(middleware.AuthMiddleware(os.Getenv("SHIELDOPS_API_TOKEN")))

	routes.SetupRoutes(router, deps)

	slog.Info("gateway listening", "port", port, "max_records", maxRecords)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("gateway exited: %v", err)
	}
}
