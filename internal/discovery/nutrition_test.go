package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		name        string
		ingredients []string
		want        NutritionTotals
	}{
		{
			name:        "rice and egg",
			ingredients: []string{"rice", "egg"},
			want:        NutritionTotals{Calories: 143, Protein: 8, Carbs: 15, Fat: 6},
		},
		{
			name:        "oil uses the small portion and is normalized",
			ingredients: []string{"Oil", " oil "},
			want:        NutritionTotals{Calories: 177, Protein: 0, Carbs: 0, Fat: 20},
		},
		{
			name:        "unknown ingredients contribute nothing",
			ingredients: []string{"saffron", "", "  "},
			want:        NutritionTotals{},
		},
		{
			name:        "empty list",
			ingredients: nil,
			want:        NutritionTotals{},
		},
		{
			name:        "repeated entries count each time",
			ingredients: []string{"chicken", "chicken", "CHICKEN"},
			want:        NutritionTotals{Calories: 359, Protein: 41, Carbs: 0, Fat: 21},
		},
		{
			name:        "mixed known and unknown",
			ingredients: []string{"paneer", "tomato", "onion", "garam masala"},
			want:        NutritionTotals{Calories: 162, Protein: 10, Carbs: 7, Fat: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Estimate(tt.ingredients))
		})
	}
}

func TestEstimateTotalsAreWholeNumbers(t *testing.T) {
	got := Estimate([]string{"potato", "tomato", "onion", "egg", "rice"})
	assert.Equal(t, float64(int(got.Protein)), got.Protein)
	assert.Equal(t, float64(int(got.Carbs)), got.Carbs)
	assert.Equal(t, float64(int(got.Fat)), got.Fat)
	assert.GreaterOrEqual(t, got.Calories, 0)
}

func TestAssessHealth(t *testing.T) {
	tests := []struct {
		name   string
		totals NutritionTotals
		score  float64
		reason string
	}{
		{"balanced", NutritionTotals{Protein: 20, Carbs: 10, Fat: 5}, 10, "Balanced recipe"},
		{"all penalties, last reason wins", NutritionTotals{Fat: 30, Carbs: 70, Protein: 5}, 5.5, "Low protein"},
		{"high fat only", NutritionTotals{Fat: 30, Protein: 20}, 8, "High fat content"},
		{"fat and carbs", NutritionTotals{Fat: 30, Carbs: 70, Protein: 20}, 6.5, "High carbohydrates"},
		{"empty recipe is low protein", NutritionTotals{}, 9, "Low protein"},
		{"thresholds are exclusive", NutritionTotals{Fat: 25, Carbs: 60, Protein: 10}, 10, "Balanced recipe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssessHealth(tt.totals)
			assert.InDelta(t, tt.score, got.Score, 1e-9)
			assert.Equal(t, tt.reason, got.Reason)
		})
	}
}

func TestHealthAssessmentFormattedScore(t *testing.T) {
	assert.Equal(t, "5.5", AssessHealth(NutritionTotals{Fat: 30, Carbs: 70, Protein: 5}).FormattedScore())
	assert.Equal(t, "10.0", AssessHealth(NutritionTotals{Protein: 12}).FormattedScore())
}

func TestLookupNutrient(t *testing.T) {
	p, ok := LookupNutrient("  Paneer ")
	assert.True(t, ok)
	assert.Equal(t, 265.0, p.Calories)

	_, ok = LookupNutrient("tofu")
	assert.False(t, ok)

	assert.Equal(t, []string{"chicken", "egg", "oil", "onion", "paneer", "potato", "rice", "tomato"}, KnownIngredients())
}
