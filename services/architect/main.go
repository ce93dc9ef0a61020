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
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/AleutianAI/Atelier/services/architect/design"
	"github.com/AleutianAI/Atelier/services/architect/pipeline"
	"github.com/AleutianAI/Atelier/services/architect/preview"
	"github.com/AleutianAI/Atelier/services/architect/routes"
	"github.com/AleutianAI/Atelier/services/architect/store"
	"github.com/AleutianAI/Atelier/services/architect/workspace"
	"github.com/AleutianAI/Atelier/services/llm"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		// No collector configured. Local-first deployments run without one.
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
		resource.WithAttributes(semconv.ServiceNameKey.String("architect-service")))
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

func main() {
	port := os.Getenv("ATELIER_PORT")
	if port == "" {
		port = "12219"
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// --- Init the tracer ---
	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	dataDir := os.Getenv("ATELIER_DATA_DIR")
	if dataDir == "" {
		dataDir = "./data/sessions"
	}
	sessions, err := store.Open(store.DefaultConfig(dataDir))
	if err != nil {
		log.Fatalf("FATAL: Could not open the session store: %v", err)
	}
	defer sessions.Close()

	workspaceDir := os.Getenv("ATELIER_WORKSPACE_DIR")
	if workspaceDir == "" {
		workspaceDir = "./workspace"
	}
	writer, err := workspace.NewWriter(workspaceDir)
	if err != nil {
		log.Fatalf("FATAL: Could not prepare the component workspace: %v", err)
	}

	rules, err := design.NewRuleSet()
	if err != nil {
		log.Fatalf("FATAL: Could not load the design rules: %v", err)
	}

	log.Println("Configuring the LLM Client")
	client, err := llm.NewOpenAIClient()
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	slog.Info("Using OpenAI LLM backend")

	ctrl := pipeline.NewController(pipeline.Config{},
		pipeline.NewGenerator(client, rules),
		pipeline.NewRuleValidator(rules),
		pipeline.NewCritic(client, rules),
		pipeline.NewFinalizer(writer))
	previews := preview.NewBuilder(rules)

	router := gin.Default()
	router.Use(otelgin.Middleware("architect-service"))
	routes.SetupRoutes(router, sessions, ctrl, previews, os.Getenv("ATELIER_API_TOKEN"))

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	gcStop := make(chan struct{})

	group.Go(func() error {
		log.Println("Starting the architect server on port ", port)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		sessions.RunGC(gcStop)
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		close(gcStop)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
	slog.Info("Architect service stopped")
}
