package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/techjusticelab/Motion-Index/internal/config"
	"github.com/techjusticelab/Motion-Index/internal/db/opensearch"
	dbRedis "github.com/techjusticelab/Motion-Index/internal/db/redis"
	logpkg "github.com/techjusticelab/Motion-Index/internal/logger"
	"github.com/techjusticelab/Motion-Index/internal/metrics"
	documentrepo "github.com/techjusticelab/Motion-Index/internal/repository/document"
	facetrepo "github.com/techjusticelab/Motion-Index/internal/repository/facet"
	searchrepo "github.com/techjusticelab/Motion-Index/internal/repository/search"
	chiTransport "github.com/techjusticelab/Motion-Index/internal/transport/chi"
	facetuc "github.com/techjusticelab/Motion-Index/internal/usecase/facet"
	healthuc "github.com/techjusticelab/Motion-Index/internal/usecase/health"
	indexinguc "github.com/techjusticelab/Motion-Index/internal/usecase/indexing"
	searchuc "github.com/techjusticelab/Motion-Index/internal/usecase/search"
	"github.com/techjusticelab/Motion-Index/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting Motion-Index API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("search_addrs", cfg.Search.Addrs),
		zap.String("index", cfg.Search.Index),
	)

	cluster, err := opensearch.NewClient(opensearch.Config{
		Addrs:    cfg.Search.Addrs,
		Username: cfg.Search.Username,
		Password: cfg.Search.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create search client", zap.Error(err))
	}

	ctx := logpkg.WithContext(context.Background(), logger)
	if err := cluster.WaitForReady(ctx, time.Duration(cfg.Search.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Search cluster not ready", zap.Error(err))
	}
	logger.Info("Connected to search cluster")

	// Optional classification cache, also surfaced in /health.
	var cache *dbRedis.Store
	if len(cfg.Cache.Addrs) > 0 {
		cache, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cache.Close()
		logger.Info("Connected to classification cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// Create repositories
	docRepo := documentrepo.New(cluster, cfg.Search.Index)
	searchRepo := searchrepo.New(cluster, cfg.Search.Index)
	facetRepo := facetrepo.New(cluster, cfg.Search.Index)

	// Create use case services
	searchSvc := searchuc.New(searchRepo)
	facetSvc := facetuc.New(facetRepo)
	indexingSvc := indexinguc.New(docRepo, cfg.Processing.BulkChunkSize)

	// Pass nil interface (not typed nil pointer!) if cache is not configured.
	// Go gotcha: (*Store)(nil) wrapped in CachePinger != nil.
	var cachePinger healthuc.CachePinger
	if cache != nil {
		cachePinger = cache
	}
	healthSvc := healthuc.New(cluster, cachePinger)

	// Create the index with its mapping up front so first writes and
	// searches hit a properly typed index. Failure is logged inside and
	// does not block startup.
	indexingSvc.EnsureIndex(ctx)

	server := chiTransport.NewServer(searchSvc, facetSvc, indexingSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.WithContext(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
