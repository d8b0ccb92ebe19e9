package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/recipeverse/backend/internal/discovery"
	"github.com/pageza/recipeverse/backend/internal/middleware"
	"github.com/pageza/recipeverse/backend/internal/model"
	"github.com/pageza/recipeverse/backend/internal/service"
	"github.com/pageza/recipeverse/backend/internal/types"
	apperrors "github.com/pageza/recipeverse/backend/pkg/errors"
)

type RecipeHandler struct {
	recipes       service.IRecipeService
	images        service.IImageService
	auth          middleware.TokenValidator
	createLimiter *middleware.RateLimiter
	ratingLimiter *middleware.RateLimiter
	log           *zap.Logger
}

// NewRecipeHandler creates a recipe handler. images may be nil, in which
// case uploads answer 503.
func NewRecipeHandler(recipes service.IRecipeService, images service.IImageService, auth middleware.TokenValidator, log *zap.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		images:  images,
		auth:    auth,
		log:     log,
	}
}

// WithRateLimiters limits recipe creation and rating.
func (h *RecipeHandler) WithRateLimiters(create, rating *middleware.RateLimiter) *RecipeHandler {
	h.createLimiter = create
	h.ratingLimiter = rating
	return h
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.auth)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", middleware.OptionalAuth(h.auth), h.GetRecipe)
		recipes.GET("/:id/nutrition", h.GetNutrition)
		recipes.GET("/:id/similar", h.GetSimilar)
		recipes.POST("", requireAuth, limit(h.createLimiter), h.CreateRecipe)
		recipes.DELETE("/:id", requireAuth, h.DeleteRecipe)
		recipes.PATCH("/:id/rate", requireAuth, limit(h.ratingLimiter), h.RateRecipe)
		recipes.POST("/:id/favorite", requireAuth, h.FavoriteRecipe)
		recipes.DELETE("/:id/favorite", requireAuth, h.UnfavoriteRecipe)
		recipes.GET("/user/:userId", requireAuth, h.GetUserRecipes)
		recipes.POST("/images", requireAuth, h.UploadImage)
	}

	router.POST("/nutrition/estimate", h.EstimateNutrition)
}

func limit(rl *middleware.RateLimiter) gin.HandlerFunc {
	if rl == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return rl.RateLimitMiddleware()
}

func (h *RecipeHandler) recipeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.log, apperrors.NewValidationError("invalid recipe id"))
		return uuid.Nil, false
	}
	return id, true
}

// ListRecipes runs the discovery pipeline over the catalog.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	state, err := parseFilterState(c)
	if err != nil {
		respondError(c, h.log, apperrors.NewValidationError(err.Error()))
		return
	}

	results, err := h.recipes.Discover(c.Request.Context(), state)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": toSummaries(results),
		"count":   len(results),
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := h.recipeID(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	report := service.EstimateNutrition(recipe.Ingredients)
	detail := types.RecipeDetail{
		Recipe:            recipe.ToDiscovery(),
		AuthorDisplayName: recipe.AuthorDisplayName,
		AuthorPhotoURL:    recipe.AuthorPhotoURL,
		RatingCount:       len(recipe.Ratings),
		Nutrition:         report.Nutrition,
		Health:            report.Health,
		HealthScore:       report.Health.FormattedScore(),
	}

	if userID, ok := middleware.UserID(c); ok {
		if mine, rated := detail.Ratings[userID]; rated {
			detail.MyRating = &mine
		}
		fav, err := h.recipes.IsFavorite(c.Request.Context(), id, userID)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		detail.IsFavorite = fav
	}

	c.JSON(http.StatusOK, detail)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, apperrors.NewValidationError(err.Error()))
		return
	}

	userID, _ := middleware.UserID(c)
	author := service.Author{
		UserID:      userID,
		DisplayName: c.GetString(middleware.ContextDisplayName),
		PhotoURL:    c.GetString(middleware.ContextPhotoURL),
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), author, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": recipe.ToDiscovery()})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := h.recipeID(c)
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	if err := h.recipes.DeleteRecipe(c.Request.Context(), id, userID); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted"})
}

func (h *RecipeHandler) RateRecipe(c *gin.Context) {
	id, ok := h.recipeID(c)
	if !ok {
		return
	}

	var req types.RateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, apperrors.NewValidationError(err.Error()))
		return
	}
	userID, _ := middleware.UserID(c)

	recipe, err := h.recipes.RateRecipe(c.Request.Context(), id, userID, req.Rating)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stars":       recipe.Stars,
		"ratingCount": len(recipe.Ratings),
		"myRating":    req.Rating,
	})
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	h.setFavorite(c, true)
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	h.setFavorite(c, false)
}

func (h *RecipeHandler) setFavorite(c *gin.Context, favorite bool) {
	id, ok := h.recipeID(c)
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	var err error
	if favorite {
		err = h.recipes.FavoriteRecipe(c.Request.Context(), id, userID)
	} else {
		err = h.recipes.UnfavoriteRecipe(c.Request.Context(), id, userID)
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorited": favorite})
}

// GetUserRecipes returns the caller's favorites and authored recipes.
func (h *RecipeHandler) GetUserRecipes(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	if c.Param("userId") != userID {
		respondError(c, h.log, apperrors.NewForbiddenError("You can only view your own recipes"))
		return
	}

	ctx := c.Request.Context()
	favorites, err := h.recipes.GetFavoriteRecipes(ctx, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	mine, err := h.recipes.GetUserRecipes(ctx, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := types.UserRecipesResponse{
		Favorites:       make([]uuid.UUID, len(favorites)),
		FavoriteRecipes: toDiscoveryList(favorites),
		Recipes:         toDiscoveryList(mine),
	}
	for i, r := range favorites {
		resp.Favorites[i] = r.ID
	}

	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) GetSimilar(c *gin.Context) {
	id, ok := h.recipeID(c)
	if !ok {
		return
	}

	limit := service.DefaultSimilarLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(c, h.log, apperrors.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	similar, err := h.recipes.Similar(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": toDiscoveryList(similar)})
}

func (h *RecipeHandler) GetNutrition(c *gin.Context) {
	id, ok := h.recipeID(c)
	if !ok {
		return
	}

	report, err := h.recipes.Nutrition(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// EstimateNutrition scores an ingredient list that has not been saved yet,
// e.g. while a recipe form is being filled in.
func (h *RecipeHandler) EstimateNutrition(c *gin.Context) {
	var req types.EstimateNutritionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, apperrors.NewValidationError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, service.EstimateNutrition(service.CleanIngredients(req.Ingredients)))
}

// UploadImage stores the multipart "image" field and returns its URL.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	if h.images == nil {
		respondError(c, h.log, apperrors.New(apperrors.CodeServiceUnavailable, "Image uploads are not configured"))
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, h.log, apperrors.NewValidationError("image file is required"))
		return
	}
	if fileHeader.Size > service.MaxImageSize {
		respondError(c, h.log, apperrors.New(apperrors.CodePayloadTooLarge, "Image must be 2MB or smaller"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, h.log, apperrors.NewValidationError("image could not be read"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxImageSize+1))
	if err != nil {
		respondError(c, h.log, apperrors.NewValidationError("image could not be read"))
		return
	}

	url, err := h.images.UploadRecipeImage(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, types.UploadImageResponse{ImageURL: url})
}

func toDiscoveryList(recipes []*model.Recipe) []discovery.Recipe {
	out := make([]discovery.Recipe, len(recipes))
	for i, r := range recipes {
		out[i] = r.ToDiscovery()
	}
	return out
}
