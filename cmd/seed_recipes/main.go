package main

import (
	"context"
	"flag"
	"log"
	"math"

	"go.uber.org/zap"

	"github.com/pageza/recipeverse/backend/config"
	"github.com/pageza/recipeverse/backend/internal/cache"
	"github.com/pageza/recipeverse/backend/internal/catalog"
	"github.com/pageza/recipeverse/backend/internal/database"
	"github.com/pageza/recipeverse/backend/internal/service"
	"github.com/pageza/recipeverse/backend/internal/types"
	"github.com/pageza/recipeverse/backend/pkg/logger"
)

func main() {
	path := flag.String("catalog", "data/recipes.yaml", "recipe catalog to load (JSON or YAML)")
	authorID := flag.String("author", "seed", "user ID recorded as the author of seeded recipes")
	flag.Parse()

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

	recipes, err := catalog.Load(*path)
	if err != nil {
		logr.Fatal("failed to load catalog", zap.Error(err))
	}

	db, err := database.New(cfg, logr)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		logr.Fatal("failed to migrate database", zap.Error(err))
	}

	// Creating through Redis bumps the cache version so a running API
	// stops serving listings that predate the seed.
	redisClient, err := database.NewRedisClient(cfg, logr)
	if err != nil {
		logr.Warn("redis unavailable, cached listings are not invalidated", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	ctx := context.Background()
	svc := service.NewRecipeService(db, cache.NewDiscoveryCache(redisClient, cfg.DiscoveryCacheTTL, logr), logr)

	existing, err := svc.GetUserRecipes(ctx, *authorID)
	if err != nil {
		logr.Fatal("failed to list existing recipes", zap.Error(err))
	}
	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		seen[r.Title] = true
	}

	author := service.Author{UserID: *authorID, DisplayName: "Recipeverse Kitchen"}
	created := 0
	for _, r := range recipes {
		if seen[r.Title] {
			logr.Debug("recipe already seeded", zap.String("title", r.Title))
			continue
		}

		_, err := svc.CreateRecipe(ctx, author, &types.CreateRecipeRequest{
			Title:       r.Title,
			Description: r.Description,
			Ingredients: r.Ingredients,
			Steps:       r.Steps,
			Veg:         r.Veg,
			Stars:       int(math.Round(r.Stars)),
			ImageURL:    r.ImageURL,
		})
		if err != nil {
			logr.Error("failed to seed recipe", zap.String("title", r.Title), zap.Error(err))
			continue
		}
		created++
	}

	logr.Info("seeding complete",
		zap.Int("created", created),
		zap.Int("skipped", len(recipes)-created))
}
