// Package discovery holds the recipe scoring and filtering engine: nutrition
// estimation, ingredient matching and the ordered filter pipeline used by the
// recipe listing. Everything here is pure and safe for concurrent use.
package discovery

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFilter is returned when a filter value cannot be parsed.
var ErrInvalidFilter = errors.New("invalid filter value")

// Recipe is the read-only view of a recipe consumed by the engine.
type Recipe struct {
	ID          string             `json:"id" yaml:"id"`
	Title       string             `json:"title" yaml:"title"`
	Description string             `json:"description" yaml:"description"`
	Ingredients []string           `json:"ingredients" yaml:"ingredients"`
	Steps       []string           `json:"steps" yaml:"steps"`
	Veg         bool               `json:"veg" yaml:"veg"`
	Stars       float64            `json:"stars" yaml:"stars"`
	ImageURL    string             `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	AuthorID    string             `json:"authorID,omitempty" yaml:"authorID,omitempty"`
	Ratings     map[string]float64 `json:"ratings,omitempty" yaml:"ratings,omitempty"`
}

// NutritionTotals are whole-number macro estimates for a recipe.
type NutritionTotals struct {
	Calories int     `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fat      float64 `json:"fat" yaml:"fat"`
}

// HealthAssessment is a 0-10 score with the reason that last affected it.
type HealthAssessment struct {
	Score  float64 `json:"score" yaml:"score"`
	Reason string  `json:"reason" yaml:"reason"`
}

// FormattedScore renders the score with one decimal, e.g. "8.5".
func (h HealthAssessment) FormattedScore() string {
	return fmt.Sprintf("%.1f", h.Score)
}

// MatchResult describes how many recipe ingredients the user has.
type MatchResult struct {
	MatchedCount int     `json:"matchedCount" yaml:"matchedCount"`
	TotalCount   int     `json:"totalCount" yaml:"totalCount"`
	Score        float64 `json:"score" yaml:"score"`
}

func (m MatchResult) String() string {
	return fmt.Sprintf("%d/%d ingredients", m.MatchedCount, m.TotalCount)
}

// Category narrows recipes by dietary flag or rating.
type Category string

const (
	CategoryAll      Category = "all"
	CategoryVeg      Category = "veg"
	CategoryNonVeg   Category = "nonveg"
	CategoryTopRated Category = "top"
)

// ParseCategory maps a query value to a Category. Empty means all.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return CategoryAll, nil
	case "veg":
		return CategoryVeg, nil
	case "nonveg", "non-veg":
		return CategoryNonVeg, nil
	case "top", "toprated", "top-rated":
		return CategoryTopRated, nil
	default:
		return "", fmt.Errorf("%w: category %q", ErrInvalidFilter, s)
	}
}

// SearchMode selects which search inputs the engine honours.
type SearchMode string

const (
	// SearchModeAny applies every populated search input in order.
	SearchModeAny        SearchMode = ""
	SearchModeNone       SearchMode = "none"
	SearchModeText       SearchMode = "text"
	SearchModeIngredient SearchMode = "ingredient"
)

// ParseSearchMode maps a query value to a SearchMode.
func ParseSearchMode(s string) (SearchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return SearchModeAny, nil
	case "none":
		return SearchModeNone, nil
	case "text":
		return SearchModeText, nil
	case "ingredient", "ingredients":
		return SearchModeIngredient, nil
	default:
		return "", fmt.Errorf("%w: mode %q", ErrInvalidFilter, s)
	}
}

func (m SearchMode) allowsText() bool {
	return m == SearchModeAny || m == SearchModeText
}

func (m SearchMode) allowsIngredients() bool {
	return m == SearchModeAny || m == SearchModeIngredient
}

// EmptyIngredientPolicy decides what ingredient ranking does with recipes
// that list no ingredients.
type EmptyIngredientPolicy string

const (
	// EmptyIngredientsExclude drops them from ranked results.
	EmptyIngredientsExclude EmptyIngredientPolicy = ""
	// EmptyIngredientsUnranked keeps them after every ranked recipe.
	EmptyIngredientsUnranked EmptyIngredientPolicy = "unranked"
)

// ParseEmptyIngredientPolicy maps a query value to a policy.
func ParseEmptyIngredientPolicy(s string) (EmptyIngredientPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exclude":
		return EmptyIngredientsExclude, nil
	case "unranked", "include":
		return EmptyIngredientsUnranked, nil
	default:
		return "", fmt.Errorf("%w: empty ingredient policy %q", ErrInvalidFilter, s)
	}
}

// FilterState is the caller-owned description of what to show.
type FilterState struct {
	Category         Category              `json:"category,omitempty"`
	SearchText       string                `json:"searchText,omitempty"`
	IngredientQuery  []string              `json:"ingredientQuery,omitempty"`
	Mode             SearchMode            `json:"mode,omitempty"`
	EmptyIngredients EmptyIngredientPolicy `json:"emptyIngredients,omitempty"`
}

// RankedRecipe is one element of the engine output. Match is nil when the
// recipe was not scored against an ingredient query.
type RankedRecipe struct {
	Recipe `yaml:",inline"`
	Match *MatchResult `json:"match,omitempty" yaml:"match,omitempty"`
}
