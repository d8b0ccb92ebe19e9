package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/recipeverse/backend/config"
)

// NewRedisClient connects to Redis. It returns a nil client and no error when
// Redis is not configured; callers then run without caching and fall back to
// in-process rate limiting.
func NewRedisClient(cfg *config.Config, log *zap.Logger) (*redis.Client, error) {
	if cfg.RedisURL == "" && cfg.RedisHost == "" {
		log.Info("redis not configured, continuing without it")
		return nil, nil
	}

	opts := &redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	// Use Redis URL if provided (for production deployments)
	if cfg.RedisURL != "" {
		parsedOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		if parsedOpts.Password == "" {
			parsedOpts.Password = cfg.RedisPassword
		}
		opts = parsedOpts
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolTimeout = 4 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("successfully connected to redis", zap.String("addr", opts.Addr))
	return client, nil
}
