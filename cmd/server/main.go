/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the debt-servicing engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and environment configuration
  2. Initialize structured logging
  3. Initialize SQLite store
  4. Connect the Redis projection cache (optional)
  5. Configure HTTP router
  6. Start server with graceful shutdown

CONFIGURATION (environment):
  PORT             HTTP server port (default: 8080)
  DB_PATH          SQLite database path (default: ./data/debts.db)
                   Use ":memory:" for an in-memory database
  REDIS_ADDR       Redis address; empty disables the projection cache
  LOG_LEVEL        debug | info | warn | error (default: info)
  APP_ENV          development for text logs, anything else for JSON
  ALLOWED_ORIGINS  CORS allowlist, comma-separated (default: *)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (configurable timeout)
  3. Close database and cache connections
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/warp/debt-engine/api"
	"github.com/warp/debt-engine/config"
	"github.com/warp/debt-engine/logging"
	"github.com/warp/debt-engine/store/rediscache"
	"github.com/warp/debt-engine/store/sqlite"
)

func main() {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Init("debt-engine", cfg.LogLevel, cfg.AppEnv)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	handler := api.NewHandler(store)

	if cfg.RedisAddr != "" {
		cache := rediscache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := cache.Ping(pingCtx)
		cancel()
		if err != nil {
			// The cache is an optimization; run uncached rather than die.
			logger.Warn("redis unavailable, projection cache disabled", "error", err)
		} else {
			handler.Cache = cache
			defer cache.Close()
			logger.Info("projection cache enabled", "addr", cfg.RedisAddr)
		}
	}

	router := api.NewRouter(handler, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "db", cfg.DBPath)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.ShutdownTimeoutS)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
