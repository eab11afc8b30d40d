package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fireplan/fireplan-backend/internal/adapter/httpapi"
	"github.com/fireplan/fireplan-backend/internal/config"
	"github.com/fireplan/fireplan-backend/internal/store"
	"github.com/fireplan/fireplan-backend/internal/usecase/session"
)

const defaultConfigPath = "fireplan.toml"

func main() {
	// 1. Configuration (file + env overrides)
	configPath := os.Getenv("FIREPLAN_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// 2. Core wiring: reducer + in-memory session store
	reducer := session.NewReducer(logger.Named("reducer"), time.Now)
	sessionStore := store.NewSessionStore(reducer)

	// 3. HTTP boundary
	authService := httpapi.NewAuthService(cfg.Auth, time.Now)
	handler := httpapi.NewHandler(sessionStore, logger.Named("api"))
	router := httpapi.NewRouter(handler, authService, cfg.Server.CORSOrigins, logger.Named("http"))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("fireplan server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(srv, logger)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully drains the
// server.
func waitForShutdown(srv *http.Server, logger *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
