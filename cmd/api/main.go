package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/recipeverse/backend/config"
	"github.com/pageza/recipeverse/backend/internal/api"
	"github.com/pageza/recipeverse/backend/internal/cache"
	"github.com/pageza/recipeverse/backend/internal/database"
	"github.com/pageza/recipeverse/backend/internal/server"
	"github.com/pageza/recipeverse/backend/internal/service"
	"github.com/pageza/recipeverse/backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: cfg.Env.IsDevelopment(),
	})
	defer func() { _ = logr.Sync() }()

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx := context.Background()

	db, err := database.New(cfg, logr)
	if err != nil {
		return err
	}
	if cfg.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return err
		}
	}

	redisClient, err := database.NewRedisClient(cfg, logr)
	if err != nil {
		logr.Warn("redis unavailable, continuing without cache", zap.Error(err))
		redisClient = nil
	}

	var images service.IImageService
	s3Config, err := config.NewS3Config(ctx, cfg)
	switch {
	case err != nil:
		logr.Warn("S3 unavailable, image uploads disabled", zap.Error(err))
	case s3Config == nil:
		logr.Info("S3 bucket not configured, image uploads disabled")
	default:
		images = service.NewImageService(s3Config, logr)
	}

	discoveryCache := cache.NewDiscoveryCache(redisClient, cfg.DiscoveryCacheTTL, logr)
	srv := server.New(cfg, api.Dependencies{
		DB:      db,
		Redis:   redisClient,
		Recipes: service.NewRecipeService(db, discoveryCache, logr),
		Images:  images,
		Auth:    service.NewAuthService(cfg.JWTSecret),
		Log:     logr,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			return err
		}
	case sig := <-quit:
		logr.Info("received signal", zap.String("signal", sig.String()))
	}

	logr.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logr.Info("server stopped")
	return nil
}
