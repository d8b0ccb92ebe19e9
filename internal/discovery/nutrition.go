package discovery

import (
	"math"
	"sort"
	"strings"
)

// NutrientProfile is the macro content of 100g of an ingredient.
type NutrientProfile struct {
	Calories float64 `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fat      float64 `json:"fat" yaml:"fat"`
}

const (
	defaultPortion = 0.5
	oilPortion     = 0.1

	balancedReason   = "Balanced recipe"
	highFatReason    = "High fat content"
	highCarbReason   = "High carbohydrates"
	lowProteinReason = "Low protein"
)

var nutritionTable = map[string]NutrientProfile{
	"onion":   {Calories: 40, Protein: 1.1, Carbs: 9, Fat: 0.1},
	"tomato":  {Calories: 18, Protein: 0.9, Carbs: 3.9, Fat: 0.2},
	"rice":    {Calories: 130, Protein: 2.7, Carbs: 28, Fat: 0.3},
	"oil":     {Calories: 884, Protein: 0, Carbs: 0, Fat: 100},
	"potato":  {Calories: 77, Protein: 2, Carbs: 17, Fat: 0.1},
	"egg":     {Calories: 155, Protein: 13, Carbs: 1.1, Fat: 11},
	"chicken": {Calories: 239, Protein: 27, Carbs: 0, Fat: 14},
	"paneer":  {Calories: 265, Protein: 18, Carbs: 1.2, Fat: 20},
}

// LookupNutrient returns the per-100g profile of a known ingredient.
func LookupNutrient(name string) (NutrientProfile, bool) {
	p, ok := nutritionTable[normalize(name)]
	return p, ok
}

// KnownIngredients lists the ingredients the estimator can price, sorted.
func KnownIngredients() []string {
	names := make([]string, 0, len(nutritionTable))
	for name := range nutritionTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func portionFor(name string) float64 {
	if name == "oil" {
		return oilPortion
	}
	return defaultPortion
}

// Estimate sums the macros of every known ingredient at its fixed portion and
// rounds each total to the nearest whole number. Unknown ingredients add nothing.
func Estimate(ingredients []string) NutritionTotals {
	var sum NutrientProfile
	for _, raw := range ingredients {
		name := normalize(raw)
		p, ok := nutritionTable[name]
		if !ok {
			continue
		}
		portion := portionFor(name)
		sum.Calories += p.Calories * portion
		sum.Protein += p.Protein * portion
		sum.Carbs += p.Carbs * portion
		sum.Fat += p.Fat * portion
	}

	// Totals are never negative, so math.Round matches round-half-up.
	return NutritionTotals{
		Calories: int(math.Round(sum.Calories)),
		Protein:  math.Round(sum.Protein),
		Carbs:    math.Round(sum.Carbs),
		Fat:      math.Round(sum.Fat),
	}
}

// AssessHealth scores totals out of 10. Each rule applies independently and
// the reason reports the last rule that fired.
func AssessHealth(t NutritionTotals) HealthAssessment {
	score := 10.0
	reason := balancedReason

	if t.Fat > 25 {
		score -= 2
		reason = highFatReason
	}
	if t.Carbs > 60 {
		score -= 1.5
		reason = highCarbReason
	}
	if t.Protein < 10 {
		score -= 1
		reason = lowProteinReason
	}

	return HealthAssessment{
		Score:  math.Round(score*10) / 10,
		Reason: reason,
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
