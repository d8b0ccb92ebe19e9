package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipeverse/backend/internal/discovery"
	"github.com/pageza/recipeverse/backend/internal/model"
	"github.com/pageza/recipeverse/backend/internal/service"
	"github.com/pageza/recipeverse/backend/internal/testhelpers"
	"github.com/pageza/recipeverse/backend/internal/types"
	apperrors "github.com/pageza/recipeverse/backend/pkg/errors"
)

var chef = service.Author{UserID: "chef-1", DisplayName: "Chef One"}

func setupRecipeService(t *testing.T) (*service.RecipeService, *gorm.DB) {
	db := testhelpers.SetupSQLiteDB(t)
	return service.NewRecipeService(db, nil, zap.NewNop()), db
}

func createRecipe(t *testing.T, svc *service.RecipeService, author service.Author, title string, veg bool, ingredients ...string) *model.Recipe {
	t.Helper()
	recipe, err := svc.CreateRecipe(context.Background(), author, &types.CreateRecipeRequest{
		Title:       title,
		Description: title + " description",
		Ingredients: ingredients,
		Steps:       []string{"cook"},
		Veg:         veg,
	})
	require.NoError(t, err)
	return recipe
}

func TestCreateRecipe(t *testing.T) {
	svc, db := setupRecipeService(t)
	ctx := context.Background()

	recipe, err := svc.CreateRecipe(ctx, chef, &types.CreateRecipeRequest{
		Title:       "  Egg Fried Rice ",
		Description: "Quick lunch",
		Ingredients: []string{" egg", "", "rice ", "  "},
		Steps:       []string{"Boil rice", "", "\t  Fry with egg\r"},
		Stars:       4,
		DisplayName: "ignored",
		PhotoURL:    "http://example.com/p.png",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, recipe.ID)
	assert.Equal(t, "Egg Fried Rice", recipe.Title)
	assert.Equal(t, model.JSONBStringArray{"egg", "rice"}, recipe.Ingredients)
	assert.Equal(t, model.JSONBStringArray{"Boil rice", "Fry with egg"}, recipe.Steps)
	assert.Equal(t, 4.0, recipe.Stars)
	assert.Equal(t, "Chef One", recipe.AuthorDisplayName)
	assert.Equal(t, "http://example.com/p.png", recipe.AuthorPhotoURL)
	assert.Len(t, recipe.Embedding.Slice(), model.EmbeddingDimensions)

	var ratings []model.RecipeRating
	require.NoError(t, db.Where("recipe_id = ?", recipe.ID).Find(&ratings).Error)
	require.Len(t, ratings, 1)
	assert.Equal(t, "chef-1", ratings[0].UserID)
	assert.Equal(t, 4.0, ratings[0].Value)
}

func TestCreateRecipeDefaultsStars(t *testing.T) {
	svc, _ := setupRecipeService(t)
	recipe := createRecipe(t, svc, chef, "Tomato Soup", true, "tomato", "onion")
	assert.Equal(t, float64(service.DefaultStars), recipe.Stars)
}

func TestCreateRecipeValidation(t *testing.T) {
	svc, _ := setupRecipeService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  types.CreateRecipeRequest
	}{
		{"blank title", types.CreateRecipeRequest{Title: "  ", Ingredients: []string{"egg"}}},
		{"long description", types.CreateRecipeRequest{Title: "x", Description: strings.Repeat("a", 101), Ingredients: []string{"egg"}}},
		{"no ingredients", types.CreateRecipeRequest{Title: "x", Ingredients: []string{" ", ""}}},
		{"stars too high", types.CreateRecipeRequest{Title: "x", Ingredients: []string{"egg"}, Stars: 6}},
		{"stars negative", types.CreateRecipeRequest{Title: "x", Ingredients: []string{"egg"}, Stars: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateRecipe(ctx, chef, &tt.req)
			assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed), "got %v", err)
		})
	}

	_, err := svc.CreateRecipe(ctx, service.Author{}, &types.CreateRecipeRequest{Title: "x", Ingredients: []string{"egg"}})
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
}

func TestGetRecipeNotFound(t *testing.T) {
	svc, _ := setupRecipeService(t)
	_, err := svc.GetRecipe(context.Background(), uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.CodeRecipeNotFound))
}

func TestRateRecipe(t *testing.T) {
	svc, _ := setupRecipeService(t)
	ctx := context.Background()
	recipe := createRecipe(t, svc, chef, "Paneer Tikka", true, "paneer", "onion")

	rated, err := svc.RateRecipe(ctx, recipe.ID, "user-2", 4)
	require.NoError(t, err)
	assert.Equal(t, 4.5, rated.Stars)
	assert.Equal(t, map[string]float64{"chef-1": 5, "user-2": 4}, rated.RatingsByUser())

	rated, err = svc.RateRecipe(ctx, recipe.ID, "user-3", 3)
	require.NoError(t, err)
	assert.Equal(t, 4.0, rated.Stars)

	_, err = svc.RateRecipe(ctx, recipe.ID, "user-2", 5)
	assert.True(t, apperrors.Is(err, apperrors.CodeAlreadyRated))

	_, err = svc.RateRecipe(ctx, recipe.ID, "user-4", 0)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed))

	_, err = svc.RateRecipe(ctx, uuid.New(), "user-4", 3)
	assert.True(t, apperrors.Is(err, apperrors.CodeRecipeNotFound))
}

func TestRateRecipeConcurrentDuplicates(t *testing.T) {
	svc, db := setupRecipeService(t)
	ctx := context.Background()
	recipe := createRecipe(t, svc, chef, "Aloo Sabzi", true, "potato", "onion")

	const attempts = 5
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RateRecipe(ctx, recipe.ID, "user-2", 3)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperrors.Is(err, apperrors.CodeAlreadyRated), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	var count int64
	require.NoError(t, db.Model(&model.RecipeRating{}).
		Where("recipe_id = ? AND user_id = ?", recipe.ID, "user-2").
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err := svc.RateRecipe(ctx, recipe.ID, chef.UserID, 1)
	assert.True(t, apperrors.Is(err, apperrors.CodeAlreadyRated), "the author's initial stars count as a rating")
}

func TestRateRecipeRoundsToOneDecimal(t *testing.T) {
	svc, _ := setupRecipeService(t)
	ctx := context.Background()
	recipe := createRecipe(t, svc, chef, "Chicken Curry", false, "chicken", "onion", "oil")

	_, err := svc.RateRecipe(ctx, recipe.ID, "user-2", 4)
	require.NoError(t, err)
	rated, err := svc.RateRecipe(ctx, recipe.ID, "user-3", 4)
	require.NoError(t, err)
	assert.Equal(t, 4.3, rated.Stars)
}

func TestFavorites(t *testing.T) {
	svc, _ := setupRecipeService(t)
	ctx := context.Background()
	first := createRecipe(t, svc, chef, "Egg Fried Rice", false, "egg", "rice")
	second := createRecipe(t, svc, chef, "Tomato Rice", true, "tomato", "rice")

	require.NoError(t, svc.FavoriteRecipe(ctx, first.ID, "user-2"))
	require.NoError(t, svc.FavoriteRecipe(ctx, first.ID, "user-2"))
	require.NoError(t, svc.FavoriteRecipe(ctx, second.ID, "user-2"))

	fav, err := svc.IsFavorite(ctx, first.ID, "user-2")
	require.NoError(t, err)
	assert.True(t, fav)

	favorites, err := svc.GetFavoriteRecipes(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, favorites, 2)

	require.NoError(t, svc.UnfavoriteRecipe(ctx, first.ID, "user-2"))
	require.NoError(t, svc.UnfavoriteRecipe(ctx, first.ID, "user-2"))

	fav, err = svc.IsFavorite(ctx, first.ID, "user-2")
	require.NoError(t, err)
	assert.False(t, fav)

	favorites, err = svc.GetFavoriteRecipes(ctx, "user-2")
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, second.ID, favorites[0].ID)

	err = svc.FavoriteRecipe(ctx, uuid.New(), "user-2")
	assert.True(t, apperrors.Is(err, apperrors.CodeRecipeNotFound))
}

func TestGetUserRecipes(t *testing.T) {
	svc, _ := setupRecipeService(t)
	ctx := context.Background()
	createRecipe(t, svc, chef, "Egg Fried Rice", false, "egg", "rice")
	createRecipe(t, svc, service.Author{UserID: "chef-2"}, "Tomato Rice", true, "tomato", "rice")

	mine, err := svc.GetUserRecipes(ctx, "chef-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Egg Fried Rice", mine[0].Title)
}

func TestDeleteRecipe(t *testing.T) {
	svc, db := setupRecipeService(t)
	ctx := context.Background()
	recipe := createRecipe(t, svc, chef, "Egg Fried Rice", false, "egg", "rice")
	require.NoError(t, svc.FavoriteRecipe(ctx, recipe.ID, "user-2"))

	err := svc.DeleteRecipe(ctx, recipe.ID, "user-2")
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))

	require.NoError(t, svc.DeleteRecipe(ctx, recipe.ID, "chef-1"))

	_, err = svc.GetRecipe(ctx, recipe.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeRecipeNotFound))

	var favorites int64
	require.NoError(t, db.Model(&model.RecipeFavorite{}).Count(&favorites).Error)
	assert.Zero(t, favorites)
}

func TestDiscover(t *testing.T) {
	svc, _ := setupRecipeService(t)
	ctx := context.Background()
	curry := createRecipe(t, svc, chef, "Chicken Curry", false, "chicken", "onion", "oil")
	tikka := createRecipe(t, svc, chef, "Paneer Tikka", true, "paneer", "onion")
	createRecipe(t, svc, chef, "Egg Fried Rice", false, "egg", "rice")

	results, err := svc.Discover(ctx, discovery.FilterState{
		IngredientQuery: discovery.ParseIngredientQuery("onion,oil"),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, curry.ID.String(), results[0].ID)
	assert.Equal(t, tikka.ID.String(), results[1].ID)
	assert.Equal(t, "2/3 ingredients", results[0].Match.String())

	results, err = svc.Discover(ctx, discovery.FilterState{Category: discovery.CategoryVeg})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Paneer Tikka", results[0].Title)
}

func TestSimilar(t *testing.T) {
	svc, _ := setupRecipeService(t)
	ctx := context.Background()
	target := createRecipe(t, svc, chef, "Egg Fried Rice", false, "egg", "rice", "oil")
	twin := createRecipe(t, svc, chef, "Egg Rice Bowl", false, "egg", "rice", "oil")
	createRecipe(t, svc, chef, "Tomato Soup", true, "tomato", "onion")

	similar, err := svc.Similar(ctx, target.ID, 1)
	require.NoError(t, err)
	require.Len(t, similar, 1)
	assert.Equal(t, twin.ID, similar[0].ID)

	similar, err = svc.Similar(ctx, target.ID, 0)
	require.NoError(t, err)
	assert.Len(t, similar, 2)
	for _, r := range similar {
		assert.NotEqual(t, target.ID, r.ID)
	}
}

func TestSimilarOnPostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)
	svc := service.NewRecipeService(db, nil, zap.NewNop())
	ctx := context.Background()

	target := createRecipe(t, svc, chef, "Egg Fried Rice", false, "egg", "rice", "oil")
	twin := createRecipe(t, svc, chef, "Egg Rice Bowl", false, "egg", "rice", "oil")
	createRecipe(t, svc, chef, "Tomato Soup", true, "tomato", "onion")

	similar, err := svc.Similar(ctx, target.ID, 1)
	require.NoError(t, err)
	require.Len(t, similar, 1)
	assert.Equal(t, twin.ID, similar[0].ID)
}

func TestNutrition(t *testing.T) {
	svc, _ := setupRecipeService(t)
	recipe := createRecipe(t, svc, chef, "Egg Fried Rice", false, "rice", "egg")

	report, err := svc.Nutrition(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, discovery.NutritionTotals{Calories: 143, Protein: 8, Carbs: 15, Fat: 6}, report.Nutrition)
	assert.Equal(t, "Low protein", report.Health.Reason)
	assert.Equal(t, 9.0, report.Health.Score)
}
