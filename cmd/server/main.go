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

	"go.uber.org/zap"

	"github.com/fixeruppera/backend/config"
	httpDelivery "github.com/fixeruppera/backend/internal/delivery/http"
	"github.com/fixeruppera/backend/internal/infrastructure/bunnings"
	"github.com/fixeruppera/backend/internal/infrastructure/cache"
	"github.com/fixeruppera/backend/internal/usecase"
)

var version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Server.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting",
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache", cfg.Cache.Type),
	)

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()
	defer memoryCache.Close()

	tokens := bunnings.NewTokenProvider(bunnings.TokenConfig{
		ClientID:     cfg.Bunnings.ClientID,
		ClientSecret: cfg.Bunnings.ClientSecret,
		TokenURL:     cfg.Bunnings.TokenURL,
		Scope:        cfg.Bunnings.Scope,
	}, logger.Named("bunnings"))

	if cfg.Bunnings.Configured() {
		logger.Info("bunnings api configured",
			zap.String("token_url", cfg.Bunnings.TokenURL),
			zap.String("item_base_url", cfg.Bunnings.ItemBaseURL))
	} else {
		logger.Warn("bunnings credentials missing, match and store routes will answer 503",
			zap.Strings("required", []string{"BUNNINGS_CLIENT_ID", "BUNNINGS_CLIENT_SECRET"}))
	}

	client := bunnings.NewClient(tokens, bunnings.Options{
		ItemBaseURL:       cfg.Bunnings.ItemBaseURL,
		PricingBaseURL:    cfg.Bunnings.PricingBaseURL,
		LocationBaseURL:   cfg.Bunnings.LocationBaseURL,
		InventoryBaseURL:  cfg.Bunnings.InventoryBaseURL,
		Country:           cfg.Bunnings.Country,
		CallTimeout:       cfg.Bunnings.CallTimeout,
		MaxAttempts:       cfg.Bunnings.MaxAttempts,
		RetryBackoff:      cfg.Bunnings.RetryBackoff,
		RequestsPerSecond: cfg.Bunnings.RequestsPerSecond,
		Burst:             cfg.Bunnings.Burst,
	}, logger.Named("bunnings"))

	// Initialize usecase layer
	matcher := usecase.NewMatchingService(client, memoryCache, usecase.MatchConfig{
		SearchCacheTTL: cfg.Cache.SearchTTL,
	}, logger.Named("matcher"))
	stores := usecase.NewStoreService(client, memoryCache, cfg.Cache.StoreTTL, logger.Named("stores"))

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(matcher, stores, tokens.Configured(), logger.Named("http"))
	router := httpDelivery.SetupRouter(cfg, handler, logger.Named("http"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
