package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipeverse/backend/internal/middleware"
	"github.com/pageza/recipeverse/backend/internal/service"
)

// Dependencies are the collaborators the HTTP layer is built from. Images,
// Redis and DB may be nil.
type Dependencies struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Recipes service.IRecipeService
	Images  service.IImageService
	Auth    middleware.TokenValidator
	Log     *zap.Logger
}

// SetupAPI registers the health, metrics and /api/v1 routes.
func SetupAPI(router *gin.Engine, deps Dependencies) {
	health := NewHealthHandler(deps.DB, deps.Redis)
	router.GET("/health", health.Health)
	router.GET("/api/health", health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	creationLimiter := middleware.NewRecipeCreationRateLimiter(deps.Redis, deps.Log)
	ratingLimiter := middleware.NewRatingRateLimiter(deps.Redis, deps.Log)

	v1 := router.Group("/api/v1")
	{
		recipeHandler := NewRecipeHandler(deps.Recipes, deps.Images, deps.Auth, deps.Log).
			WithRateLimiters(creationLimiter, ratingLimiter)
		recipeHandler.RegisterRoutes(v1)

		RegisterRateLimitRoutes(v1, deps.Auth, deps.Log, creationLimiter, ratingLimiter)
	}
}
