// Package main is the entry point for the Hermes directory API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hermes/internal/config"
	"hermes/internal/domain/auth"
	"hermes/internal/infrastructure/directory"
	v1 "hermes/internal/infrastructure/http/v1"
	"hermes/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: !cfg.IsProduction(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	log.Infow("starting hermes server", "backend", cfg.Backend)

	backend, err := directory.Open(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open directory", "backend", cfg.Backend, "error", err)
	}
	defer backend.Close()

	routerCfg := v1.RouterConfig{
		Organizations: backend.Organizations,
		Employees:     backend.Employees,
		Backend:       backend.Name,
		Logger:        log,
		Debug:         !cfg.IsProduction() && cfg.LogLevel == "debug",
	}
	if backend.Pinger != nil {
		routerCfg.Pinger = backend.Pinger
	}
	if cfg.AuthEnabled() {
		jwtConfig := auth.DefaultJWTConfig(cfg.Auth.JWTSecret)
		jwtConfig.Issuer = cfg.Auth.JWTIssuer
		routerCfg.JWTValidator = auth.NewJWTService(jwtConfig)
	} else {
		log.Warn("JWT_SECRET not set, API is unauthenticated")
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      v1.NewRouter(routerCfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
