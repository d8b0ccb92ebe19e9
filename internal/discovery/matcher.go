package discovery

// Score reports how many recipe ingredients appear in the user's list.
// Membership is set-based: one user ingredient satisfies every repeated
// recipe entry with the same name. A recipe without ingredients scores 0.
func Score(recipeIngredients, userIngredients []string) MatchResult {
	have := make(map[string]struct{}, len(userIngredients))
	for _, u := range userIngredients {
		have[normalize(u)] = struct{}{}
	}

	matched := 0
	for _, r := range recipeIngredients {
		if _, ok := have[normalize(r)]; ok {
			matched++
		}
	}

	res := MatchResult{MatchedCount: matched, TotalCount: len(recipeIngredients)}
	if res.TotalCount > 0 {
		res.Score = float64(matched) / float64(res.TotalCount)
	}
	return res
}
