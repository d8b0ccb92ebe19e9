package api

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/recipeverse/backend/internal/discovery"
	"github.com/pageza/recipeverse/backend/internal/types"
)

// parseFilterState reads the listing query:
// ?category=veg&q=curry&ingredients=onion,oil&mode=ingredient&empty=unranked
func parseFilterState(c *gin.Context) (discovery.FilterState, error) {
	category, err := discovery.ParseCategory(c.Query("category"))
	if err != nil {
		return discovery.FilterState{}, err
	}
	mode, err := discovery.ParseSearchMode(c.Query("mode"))
	if err != nil {
		return discovery.FilterState{}, err
	}
	empty, err := discovery.ParseEmptyIngredientPolicy(c.Query("empty"))
	if err != nil {
		return discovery.FilterState{}, err
	}

	return discovery.FilterState{
		Category:         category,
		SearchText:       c.Query("q"),
		IngredientQuery:  discovery.ParseIngredientQuery(c.Query("ingredients")),
		Mode:             mode,
		EmptyIngredients: empty,
	}, nil
}

func toSummaries(results []discovery.RankedRecipe) []types.RecipeSummary {
	out := make([]types.RecipeSummary, len(results))
	for i, r := range results {
		out[i] = types.RecipeSummary{Recipe: r.Recipe}
		if r.Match != nil {
			score := r.Match.Score
			out[i].MatchScore = &score
			out[i].MatchText = r.Match.String()
		}
	}
	return out
}
