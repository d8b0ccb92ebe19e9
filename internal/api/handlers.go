package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipeverse/backend/internal/middleware"
)

// RegisterRateLimitRoutes registers endpoints for checking rate limit status
func RegisterRateLimitRoutes(router *gin.RouterGroup, auth middleware.TokenValidator, log *zap.Logger, creationLimiter, ratingLimiter *middleware.RateLimiter) {
	rateLimits := router.Group("/rate-limits")
	rateLimits.Use(middleware.AuthMiddleware(auth))
	{
		rateLimits.GET("/recipe-creation", rateLimitStatus(creationLimiter, log))
		rateLimits.GET("/recipe-rating", rateLimitStatus(ratingLimiter, log))
	}
}

func rateLimitStatus(rl *middleware.RateLimiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		remaining, resetTime, err := rl.GetRemainingRequests(c.Request.Context(), userID)
		if err != nil {
			log.Warn("rate limit status failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check rate limit", "code": "INTERNAL_ERROR"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"limit":      rl.Limit(),
			"remaining":  remaining,
			"reset_time": resetTime.Unix(),
			"window":     rl.Window().String(),
		})
	}
}
