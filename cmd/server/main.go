// Copyright (c) 2026 gqlsql. All rights reserved.

/*
Server is the entry point for the gqlsql request-time HTTP adapter.

It loads a compiled schema artifact and exposes it over a single GraphQL
endpoint, backed by a pooled Postgres connection and a two-level plan/result
cache.

Usage:

	go run cmd/server/main.go [flags]

The flags/environment variables are:

	SERVER_PORT            Port to listen on (default: 8080)
	ENVIRONMENT             deployment environment (development, production)
	COMPILED_SCHEMA_PATH    path to the compiled schema artifact (required)
	POOL_HOST, POOL_PORT, POOL_DATABASE, POOL_USERNAME, POOL_PASSWORD
	REDIS_URL               Redis connection string (required)

Startup Sequence:

 1. Logger: Initialize structured JSON logging (slog).
 2. Config: Load and validate environment variables.
 3. Schema: Load and parse the compiled artifact from disk.
 4. Storage: Establish connections to Postgres and Redis.
 5. Migration: Run idempotent schema updates.
 6. Wiring: Build the request-time Engine and HTTP handler.
 7. Server: Bind HTTP listener and handle graceful shutdown.

No business logic lives here. This file is strictly for orchestration and
wiring.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/gqlsql/internal/cache"
	"github.com/taibuivan/gqlsql/internal/pipeline"
	"github.com/taibuivan/gqlsql/internal/platform/config"
	"github.com/taibuivan/gqlsql/internal/platform/constants"
	"github.com/taibuivan/gqlsql/internal/platform/httpapi"
	"github.com/taibuivan/gqlsql/internal/platform/middleware"
	"github.com/taibuivan/gqlsql/internal/platform/migration"
	redisstore "github.com/taibuivan/gqlsql/internal/platform/redis"
	"github.com/taibuivan/gqlsql/internal/platform/sec"
	"github.com/taibuivan/gqlsql/internal/pool"
	"github.com/taibuivan/gqlsql/internal/ql/where"
	"github.com/taibuivan/gqlsql/internal/schema"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application_startup_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	// # 1. Logger
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log := rawLog.With(slog.String("app", "gqlsql"))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// # 2. Configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
		log = debugLog.With(slog.String("app", "gqlsql"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// # 3. Compiled schema
	schemaBytes, err := os.ReadFile(cfg.CompiledSchemaPath)
	if err != nil {
		return fmt.Errorf("read compiled schema: %w", err)
	}
	compiled, err := schema.Unmarshal(schemaBytes)
	if err != nil {
		return fmt.Errorf("parse compiled schema: %w", err)
	}
	if issues := schema.Validate(compiled); len(issues) > 0 {
		return fmt.Errorf("compiled schema failed artifact invariants: %d issue(s), first: %s", len(issues), issues[0].Message)
	}

	// # 4. PostgreSQL
	pgPool, err := pool.New(startupCtx, cfg.Pool, log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer func() {
		log.Info("closing postgres pool")
		pgPool.Close()
	}()

	// # 5. Redis
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// # 6. Migrations
	if err := migration.RunUp(cfg.Pool.DSN(), cfg.MigrationPath, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// # 7. JWT verification
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	if err != nil {
		return fmt.Errorf("initialize jwt service: %w", err)
	}

	// # 8. Engine wiring
	dialect := where.Dialect(cfg.Compiler.DatabaseTarget)
	executor := pipeline.NewExecutor(pgPool)
	planCache := cache.NewPlanCache(cfg.Cache.MaxEntries)
	resultCache := cache.NewResultCache(cfg.Cache.MaxEntries, time.Duration(cfg.Cache.TTLSeconds)*time.Second, rdb, log)

	engine := pipeline.NewEngine(pipeline.Config{
		Validator: pipeline.ValidatorConfig{
			MaxDepth:         cfg.Validator.MaxDepth,
			MaxComplexity:    cfg.Validator.MaxComplexity,
			EnableDepth:      cfg.Validator.EnableDepth,
			EnableComplexity: cfg.Validator.EnableComplexity,
		},
		Dialect:          dialect,
		CacheListQueries: cfg.Cache.CacheListQueries,
		ResultCacheTTLMS: int64(cfg.Cache.TTLSeconds) * 1000,
	}, compiled, executor, planCache, resultCache)

	// # 9. HTTP assembly
	gqlHandler := httpapi.NewGraphQLHandler(engine, jwtSvc, log)

	router := chi.NewRouter()
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(log))
	router.Use(middleware.PanicRecovery(log))
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.RateLimit(context.Background()))

	router.Get("/healthz", httpapi.Liveness)
	router.Get("/readyz", httpapi.Readiness(httpapi.HealthDependencies{
		CheckDatabase: func() error { return pgPool.Ping(context.Background()) },
		CheckCache:    func() error { return rdb.Ping(context.Background()).Err() },
	}, log))
	// /graphql derives its own security context from the bearer token
	// (httpapi.securityContextFor): an invalid or missing token degrades to
	// an anonymous context rather than a hard 401, since authorization is
	// enforced per-field by the planner's projection scope, not at the
	// transport boundary.
	router.Post("/graphql", gqlHandler)

	// /admin/* requires authentication, mounted on this group only, ahead
	// of RequireRole, since
	// operator actions have no field-level fallback to degrade to.
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.Authenticate(jwtSvc))
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Post("/admin/cache/invalidate", httpapi.NewCacheInvalidationHandler(resultCache))
	})

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	shutdownErr := make(chan error, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			shutdownErr <- fmt.Errorf("http_server_crash: %w", err)
		}
	}()

	log.Info("gqlsql_server_running", slog.String("port", cfg.ServerPort))

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-shutdownErr:
		return err
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server_shutdown_failed: %w", err)
	}

	log.Info("graceful_shutdown_complete")
	return nil
}
