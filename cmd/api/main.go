package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"jcbcommunity/cmd/app"
	"jcbcommunity/internal/config"
	handlers "jcbcommunity/internal/handler"
	"jcbcommunity/internal/logging"
	"jcbcommunity/internal/middleware"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterMaxIdle         = 10 * time.Minute
	shutdownTimeout        = 15 * time.Second
)

func main() {
	// setting up config
	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if cfg.JWTSecretKey == "" {
		logger.Fatal("JWT_SECRET_KEY is not set")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	deps, err := app.App(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.DB.CloseDB()

	handler := handlers.NewHandlers(deps.Services, cfg, logger)
	limiter := middleware.NewRateLimiter(cfg.RateLimit, logger, handlers.ExemptFromRateLimit...)
	router := handler.Routes(deps.Services.Auth, limiter, deps.Metrics)

	go cleanupLimiter(ctx, limiter, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           middleware.Chain(router, middleware.CORSMiddleware),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", httpServer.Addr),
			zap.String("database", cfg.DB.DbNAME),
			zap.String("bucket", cfg.MinIO.BucketName))
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func cleanupLimiter(ctx context.Context, limiter *middleware.RateLimiter, logger *zap.Logger) {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := limiter.Cleanup(limiterMaxIdle); removed > 0 {
				logger.Debug("rate limiter cleanup", zap.Int("removed", removed))
			}
		}
	}
}
