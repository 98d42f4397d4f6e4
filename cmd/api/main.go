// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

// Command api is the entry point for the IdentifyObjects pool API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to MongoDB.
//  4. Connect to Redis.
//  5. Ensure document-store indexes (idempotent).
//  6. Wire collaborators (embedding provider, image store).
//  7. Wire domain services and HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vishalsx/identify-objects/internal/api"
	"github.com/vishalsx/identify-objects/internal/catalog"
	"github.com/vishalsx/identify-objects/internal/discovery"
	"github.com/vishalsx/identify-objects/internal/embedding"
	"github.com/vishalsx/identify-objects/internal/imagestore"
	"github.com/vishalsx/identify-objects/internal/platform/config"
	"github.com/vishalsx/identify-objects/internal/platform/constants"
	"github.com/vishalsx/identify-objects/internal/platform/mongodb"
	redisstore "github.com/vishalsx/identify-objects/internal/platform/redis"
	"github.com/vishalsx/identify-objects/internal/platform/sec"
	"github.com/vishalsx/identify-objects/internal/pool"
	"github.com/vishalsx/identify-objects/internal/search"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. MongoDB ────────────────────────────────────────────────────────
	mongoClient, err := mongodb.Connect(startupCtx, cfg.MongoURI, log)
	must(log, err, "connect to mongodb")
	defer func() {
		log.Info("closing mongodb client")
		if cerr := mongoClient.Disconnect(context.Background()); cerr != nil {
			log.Error("mongodb disconnect error", slog.Any("error", cerr))
		}
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Indexes ────────────────────────────────────────────────────────
	store := catalog.NewMongoStore(mongoClient.Database(cfg.MongoDatabase), catalog.StoreOptions{
		VectorOversample: cfg.VectorOversample,
		FuzzyScanCeiling: cfg.FuzzyScanCeiling,
	})
	must(log, store.EnsureIndexes(startupCtx), "ensure indexes")

	// ── 6. Collaborators ──────────────────────────────────────────────────
	verifier, err := sec.NewTokenVerifier(cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize token verifier")

	gemini, err := embedding.NewGeminiProvider(startupCtx, cfg.EmbeddingModel)
	must(log, err, "initialize embedding provider")
	embedder := embedding.NewCachedProvider(gemini, rdb, log)

	s3store, err := imagestore.NewS3Store(cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint)
	must(log, err, "initialize image store")
	images := imagestore.NewCachedStore(s3store, rdb, log)

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckStore: func() error {
			return mongodb.Ping(context.Background(), mongoClient)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	engine := search.NewEngine(store, embedder, search.Config{
		VectorThresholdEnglish: cfg.VectorThresholdEnglish,
		VectorThresholdOther:   cfg.VectorThresholdOther,
		FuzzyRelaxFactor:       cfg.FuzzyRelaxFactor,
		VectorWeight:           cfg.VectorScoreWeight,
		TextWeight:             cfg.TextScoreWeight,
	}, log)
	ranker := discovery.NewRanker(store, log)
	assembler := pool.NewAssembler(images, store, cfg.AssemblerConcurrency, log)
	poolService := pool.NewService(engine, ranker, assembler, log)
	poolHandler := pool.NewHandler(poolService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Pool:      poolHandler,
	}

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	server := api.NewServer(appCtx, cfg, log, verifier, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
