package discovery

import (
	"sort"
	"strings"
)

// TopRatedThreshold is the minimum star rating for the top-rated category.
const TopRatedThreshold = 4.8

// ParseIngredientQuery splits comma separated user input. Tokens are kept
// as typed; normalization happens during matching. Blank input yields nil.
func ParseIngredientQuery(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// Apply runs the category filter, text search and ingredient ranking in that
// order and returns a new slice. The input is never modified.
func Apply(recipes []Recipe, state FilterState) []RankedRecipe {
	out := make([]RankedRecipe, 0, len(recipes))
	for _, r := range recipes {
		if matchesCategory(r, state.Category) {
			out = append(out, RankedRecipe{Recipe: r})
		}
	}

	if state.SearchText != "" && state.Mode.allowsText() {
		out = searchText(out, state.SearchText)
	}

	if len(state.IngredientQuery) > 0 && state.Mode.allowsIngredients() {
		out = rankByIngredients(out, state.IngredientQuery, state.EmptyIngredients)
	}

	return out
}

func matchesCategory(r Recipe, c Category) bool {
	switch c {
	case CategoryVeg:
		return r.Veg
	case CategoryNonVeg:
		return !r.Veg
	case CategoryTopRated:
		return r.Stars >= TopRatedThreshold
	default:
		return true
	}
}

func searchText(in []RankedRecipe, text string) []RankedRecipe {
	needle := strings.ToLower(text)
	out := in[:0]
	for _, r := range in {
		if strings.Contains(strings.ToLower(r.Title), needle) ||
			strings.Contains(strings.ToLower(r.Description), needle) {
			out = append(out, r)
		}
	}
	return out
}

func rankByIngredients(in []RankedRecipe, query []string, policy EmptyIngredientPolicy) []RankedRecipe {
	ranked := make([]RankedRecipe, 0, len(in))
	var unranked []RankedRecipe

	for _, r := range in {
		if len(r.Ingredients) == 0 {
			if policy == EmptyIngredientsUnranked {
				unranked = append(unranked, r)
			}
			continue
		}
		m := Score(r.Ingredients, query)
		if m.Score <= 0 {
			continue
		}
		r.Match = &m
		ranked = append(ranked, r)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Match.Score > ranked[j].Match.Score
	})

	return append(ranked, unranked...)
}
