package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipeverse/backend/internal/cache"
	"github.com/pageza/recipeverse/backend/internal/discovery"
	"github.com/pageza/recipeverse/backend/internal/metrics"
	"github.com/pageza/recipeverse/backend/internal/model"
	"github.com/pageza/recipeverse/backend/internal/types"
	apperrors "github.com/pageza/recipeverse/backend/pkg/errors"
)

const (
	MaxDescriptionLength = 100
	MinRating            = 1
	MaxRating            = 5
	DefaultStars         = 5

	DefaultSimilarLimit = 5
	MaxSimilarLimit     = 20
)

// RecipeService handles recipe operations
type RecipeService struct {
	db    *gorm.DB
	cache *cache.DiscoveryCache
	log   *zap.Logger
}

// NewRecipeService creates a new RecipeService instance. discoveryCache may be nil.
func NewRecipeService(db *gorm.DB, discoveryCache *cache.DiscoveryCache, log *zap.Logger) *RecipeService {
	return &RecipeService{
		db:    db,
		cache: discoveryCache,
		log:   log,
	}
}

func recipeNotFound() *apperrors.AppError {
	return apperrors.New(apperrors.CodeRecipeNotFound, "Recipe not found")
}

// CleanIngredients trims every entry and drops empty ones.
func CleanIngredients(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func cleanSteps(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// CreateRecipe validates and stores a recipe. The author's initial star
// value is recorded as their own rating so later ratings average with it.
func (s *RecipeService) CreateRecipe(ctx context.Context, author Author, req *types.CreateRecipeRequest) (*model.Recipe, error) {
	if author.UserID == "" {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "Authentication required")
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	ingredients := CleanIngredients(req.Ingredients)
	stars := req.Stars
	if stars == 0 {
		stars = DefaultStars
	}

	switch {
	case title == "":
		return nil, apperrors.NewValidationError("title is required")
	case utf8.RuneCountInString(description) > MaxDescriptionLength:
		return nil, apperrors.NewValidationError(fmt.Sprintf("description must be at most %d characters", MaxDescriptionLength))
	case len(ingredients) == 0:
		return nil, apperrors.NewValidationError("at least one ingredient is required")
	case stars < MinRating || stars > MaxRating:
		return nil, apperrors.NewValidationError(fmt.Sprintf("stars must be between %d and %d", MinRating, MaxRating))
	}

	recipe := &model.Recipe{
		Title:             title,
		Description:       description,
		Ingredients:       model.JSONBStringArray(ingredients),
		Steps:             model.JSONBStringArray(cleanSteps(req.Steps)),
		Veg:               req.Veg,
		Stars:             float64(stars),
		ImageURL:          strings.TrimSpace(req.ImageURL),
		AuthorID:          author.UserID,
		AuthorDisplayName: firstNonEmpty(author.DisplayName, req.DisplayName),
		AuthorPhotoURL:    firstNonEmpty(author.PhotoURL, req.PhotoURL),
		Embedding:         GenerateEmbedding(title, ingredients),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		rating := model.RecipeRating{RecipeID: recipe.ID, UserID: author.UserID, Value: float64(stars)}
		if err := tx.Create(&rating).Error; err != nil {
			return err
		}
		recipe.Ratings = []model.RecipeRating{rating}
		return nil
	})
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to create recipe", err)
	}

	s.cache.Invalidate(ctx)
	s.log.Info("recipe created",
		zap.String("recipe_id", recipe.ID.String()),
		zap.String("author_id", author.UserID))
	return recipe, nil
}

// GetRecipe retrieves a recipe by ID with its ratings
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).Preload("Ratings").First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, recipeNotFound()
		}
		return nil, apperrors.NewInternalError("Failed to fetch recipe", err)
	}
	return &recipe, nil
}

// ListRecipes returns every recipe, newest first, in the engine's shape.
func (s *RecipeService) ListRecipes(ctx context.Context) ([]discovery.Recipe, error) {
	var recipes []model.Recipe
	if err := s.db.WithContext(ctx).Preload("Ratings").Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, apperrors.NewInternalError("Failed to fetch recipes", err)
	}

	out := make([]discovery.Recipe, len(recipes))
	for i := range recipes {
		out[i] = recipes[i].ToDiscovery()
	}
	return out, nil
}

// Discover runs the filter engine over the whole catalog.
func (s *RecipeService) Discover(ctx context.Context, state discovery.FilterState) ([]discovery.RankedRecipe, error) {
	metrics.DiscoveryRequests.WithLabelValues(metrics.ModeLabel(string(state.Mode))).Inc()

	cached, cacheKey, ok := s.cache.Get(ctx, state)
	if ok {
		metrics.DiscoveryResults.Observe(float64(len(cached)))
		return cached, nil
	}

	recipes, err := s.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}

	results := discovery.Apply(recipes, state)
	s.cache.Set(ctx, cacheKey, results)

	metrics.DiscoveryResults.Observe(float64(len(results)))
	s.log.Debug("discovery evaluated",
		zap.String("category", string(state.Category)),
		zap.String("mode", metrics.ModeLabel(string(state.Mode))),
		zap.Int("candidates", len(recipes)),
		zap.Int("results", len(results)))
	return results, nil
}

// DeleteRecipe removes a recipe together with its ratings and favorites.
// Only the author may delete.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID, userID string) error {
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return err
	}
	if recipe.AuthorID != userID {
		return apperrors.NewForbiddenError("Only the author can delete this recipe")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&model.RecipeRating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&model.RecipeFavorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Recipe{}, "id = ?", id).Error
	})
	if err != nil {
		return apperrors.NewInternalError("Failed to delete recipe", err)
	}

	s.cache.Invalidate(ctx)
	s.log.Info("recipe deleted", zap.String("recipe_id", id.String()), zap.String("user_id", userID))
	return nil
}

// RateRecipe records a user's 1-5 rating and recomputes the recipe's stars
// as the mean of all ratings. Each user may rate a recipe once.
func (s *RecipeService) RateRecipe(ctx context.Context, id uuid.UUID, userID string, rating int) (*model.Recipe, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, apperrors.NewValidationError(fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating))
	}
	if _, err := s.GetRecipe(ctx, id); err != nil {
		return nil, err
	}

	// The unique (recipe, user) index decides, so concurrent first ratings
	// from one user cannot both succeed.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model.RecipeRating{RecipeID: id, UserID: userID, Value: float64(rating)}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.New(apperrors.CodeAlreadyRated, "You have already rated this recipe")
			}
			return err
		}

		var avg float64
		if err := tx.Model(&model.RecipeRating{}).
			Select("COALESCE(AVG(value), 0)").
			Where("recipe_id = ?", id).
			Scan(&avg).Error; err != nil {
			return err
		}

		return tx.Model(&model.Recipe{}).Where("id = ?", id).
			Update("stars", math.Round(avg*10)/10).Error
	})
	if err != nil {
		if _, ok := apperrors.As(err); ok {
			return nil, err
		}
		return nil, apperrors.NewInternalError("Failed to rate recipe", err)
	}

	metrics.RatingsSubmitted.Inc()
	s.cache.Invalidate(ctx)
	return s.GetRecipe(ctx, id)
}

// FavoriteRecipe marks a recipe as a favorite of userID. Repeating it is a no-op.
func (s *RecipeService) FavoriteRecipe(ctx context.Context, id uuid.UUID, userID string) error {
	if _, err := s.GetRecipe(ctx, id); err != nil {
		return err
	}

	fav := model.RecipeFavorite{RecipeID: id, UserID: userID}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fav).Error; err != nil {
		return apperrors.NewInternalError("Failed to favorite recipe", err)
	}
	return nil
}

// UnfavoriteRecipe removes a favorite. Missing favorites are not an error.
func (s *RecipeService) UnfavoriteRecipe(ctx context.Context, id uuid.UUID, userID string) error {
	if err := s.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", id, userID).
		Delete(&model.RecipeFavorite{}).Error; err != nil {
		return apperrors.NewInternalError("Failed to unfavorite recipe", err)
	}
	return nil
}

func (s *RecipeService) IsFavorite(ctx context.Context, id uuid.UUID, userID string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.RecipeFavorite{}).
		Where("recipe_id = ? AND user_id = ?", id, userID).
		Count(&count).Error; err != nil {
		return false, apperrors.NewInternalError("Failed to check favorite", err)
	}
	return count > 0, nil
}

// GetFavoriteRecipes returns the recipes userID favorited, most recent first.
func (s *RecipeService) GetFavoriteRecipes(ctx context.Context, userID string) ([]*model.Recipe, error) {
	var recipes []*model.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ratings").
		Joins("JOIN recipe_favorites ON recipe_favorites.recipe_id = recipes.id").
		Where("recipe_favorites.user_id = ?", userID).
		Order("recipe_favorites.created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to fetch favorites", err)
	}
	return recipes, nil
}

// GetUserRecipes returns the recipes written by authorID.
func (s *RecipeService) GetUserRecipes(ctx context.Context, authorID string) ([]*model.Recipe, error) {
	var recipes []*model.Recipe
	if err := s.db.WithContext(ctx).
		Preload("Ratings").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&recipes).Error; err != nil {
		return nil, apperrors.NewInternalError("Failed to fetch user recipes", err)
	}
	return recipes, nil
}

// Similar returns the recipes whose embeddings are nearest to id's.
func (s *RecipeService) Similar(ctx context.Context, id uuid.UUID, limit int) ([]*model.Recipe, error) {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}
	if limit > MaxSimilarLimit {
		limit = MaxSimilarLimit
	}

	target, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	var recipes []*model.Recipe
	query := s.db.WithContext(ctx).Where("id <> ?", id)

	if s.db.Dialector.Name() == "postgres" {
		err = query.Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{target.Embedding}},
		}).Limit(limit).Find(&recipes).Error
		if err != nil {
			return nil, apperrors.NewInternalError("Failed to find similar recipes", err)
		}
		return recipes, nil
	}

	if err := query.Find(&recipes).Error; err != nil {
		return nil, apperrors.NewInternalError("Failed to find similar recipes", err)
	}
	sort.SliceStable(recipes, func(i, j int) bool {
		return EmbeddingDistance(target.Embedding, recipes[i].Embedding) <
			EmbeddingDistance(target.Embedding, recipes[j].Embedding)
	})
	if len(recipes) > limit {
		recipes = recipes[:limit]
	}
	return recipes, nil
}

// Nutrition estimates a stored recipe's macros and health score.
func (s *RecipeService) Nutrition(ctx context.Context, id uuid.UUID) (*types.NutritionReport, error) {
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	report := EstimateNutrition(recipe.Ingredients)
	return &report, nil
}

// EstimateNutrition computes the nutrition report for an ingredient list.
func EstimateNutrition(ingredients []string) types.NutritionReport {
	totals := discovery.Estimate(ingredients)
	return types.NutritionReport{
		Nutrition: totals,
		Health:    discovery.AssessHealth(totals),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
