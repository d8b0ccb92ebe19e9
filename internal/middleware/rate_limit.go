package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pageza/recipeverse/backend/internal/metrics"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
	// Name labels rejections in metrics
	Name string
}

// RateLimiter counts requests per caller in fixed Redis windows. Without a
// Redis client, or when Redis fails, it falls back to an in-process token
// bucket per caller with the same average rate.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	log    *zap.Logger

	mu        sync.Mutex
	local     map[string]*localLimiter
	lastSweep time.Time
}

type localLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter instance. redisClient may be nil.
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig, log *zap.Logger) *RateLimiter {
	if config.Name == "" {
		config.Name = config.KeyPrefix
	}
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		log:    log,
		local:  make(map[string]*localLimiter),
	}
}

// NewRecipeCreationRateLimiter allows 5 new recipes per user per hour.
func NewRecipeCreationRateLimiter(redisClient *redis.Client, log *zap.Logger) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     5,
		KeyPrefix: "rate_limit:recipe_creation",
		Name:      "recipe_creation",
	}, log)
}

// NewRatingRateLimiter allows 30 ratings per user per hour.
func NewRatingRateLimiter(redisClient *redis.Client, log *zap.Logger) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     30,
		KeyPrefix: "rate_limit:recipe_rating",
		Name:      "recipe_rating",
	}, log)
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting.
// Authenticated callers are keyed by user ID, anonymous ones by client IP.
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := UserID(c)
		if !ok {
			key = "ip:" + c.ClientIP()
		}

		allowed, remaining, resetTime := rl.Allow(c.Request.Context(), key)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			metrics.RateLimitRejects.WithLabelValues(rl.config.Name).Inc()
			retryAfter := int(time.Until(resetTime).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("rate limit of %d requests per %v exceeded", rl.config.Limit, rl.config.Window),
				"code":        "TOO_MANY_REQUESTS",
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}

// Allow records one request for key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time) {
	if rl.redis != nil {
		allowed, remaining, resetTime, err := rl.IsAllowed(ctx, key)
		if err == nil {
			return allowed, remaining, resetTime
		}
		rl.log.Warn("rate limit check failed, using local limiter",
			zap.String("limiter", rl.config.Name), zap.Error(err))
	}
	return rl.allowLocal(key)
}

// IsAllowed checks if a request from the given key is allowed
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	now := time.Now()
	windowStart := now.Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}

func (rl *RateLimiter) allowLocal(key string) (bool, int, time.Time) {
	return rl.allowLocalAt(key, time.Now())
}

func (rl *RateLimiter) allowLocalAt(key string, now time.Time) (bool, int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.sweepLocked(now)

	entry, ok := rl.local[key]
	if !ok {
		entry = &localLimiter{
			limiter: rate.NewLimiter(rate.Every(rl.interval()), rl.config.Limit),
		}
		rl.local[key] = entry
	}
	entry.lastSeen = now

	allowed := entry.limiter.AllowN(now, 1)
	remaining := int(entry.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining, now.Add(rl.interval())
}

// sweepLocked drops callers idle for a full window. Their buckets have
// refilled by then, so a fresh limiter behaves the same.
func (rl *RateLimiter) sweepLocked(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.config.Window {
		return
	}
	for key, entry := range rl.local {
		if now.Sub(entry.lastSeen) >= rl.config.Window {
			delete(rl.local, key)
		}
	}
	rl.lastSweep = now
}

func (rl *RateLimiter) interval() time.Duration {
	return rl.config.Window / time.Duration(rl.config.Limit)
}

// Limit is the number of requests allowed per window.
func (rl *RateLimiter) Limit() int {
	return rl.config.Limit
}

// Window is the length of one rate limit window.
func (rl *RateLimiter) Window() time.Duration {
	return rl.config.Window
}

// GetRemainingRequests returns the number of remaining requests for key
// without consuming one. Like Allow, it answers from the local limiter when
// Redis is absent or failing.
func (rl *RateLimiter) GetRemainingRequests(ctx context.Context, key string) (int, time.Time, error) {
	if rl.redis == nil {
		return rl.remainingLocal(key, time.Now())
	}

	windowStart := time.Now().Truncate(rl.config.Window)
	resetTime := windowStart.Add(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	count, err := rl.redis.Get(ctx, redisKey).Int()
	if errors.Is(err, redis.Nil) {
		return rl.config.Limit, resetTime, nil
	}
	if err != nil {
		rl.log.Warn("rate limit status failed, using local limiter",
			zap.String("limiter", rl.config.Name), zap.Error(err))
		return rl.remainingLocal(key, time.Now())
	}

	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, resetTime, nil
}

func (rl *RateLimiter) remainingLocal(key string, now time.Time) (int, time.Time, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.local[key]
	if !ok {
		return rl.config.Limit, now, nil
	}

	remaining := int(entry.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return remaining, now.Add(rl.interval()), nil
}

