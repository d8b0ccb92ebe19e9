package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/recipeverse/backend/internal/cache"
	"github.com/pageza/recipeverse/backend/internal/discovery"
	"github.com/pageza/recipeverse/backend/internal/testhelpers"
)

var sampleResults = []discovery.RankedRecipe{
	{
		Recipe: discovery.Recipe{ID: "1", Title: "Chicken Curry", Ingredients: []string{"chicken", "onion"}, Stars: 4.9},
		Match:  &discovery.MatchResult{MatchedCount: 1, TotalCount: 2, Score: 0.5},
	},
	{Recipe: discovery.Recipe{ID: "2", Title: "Paneer Tikka", Veg: true}},
}

func TestStateHash(t *testing.T) {
	a := discovery.FilterState{Category: discovery.CategoryVeg, IngredientQuery: []string{"onion"}}
	b := discovery.FilterState{Category: discovery.CategoryVeg, IngredientQuery: []string{"onion"}}
	c := discovery.FilterState{Category: discovery.CategoryVeg, IngredientQuery: []string{"onion "}}

	assert.Equal(t, cache.StateHash(a), cache.StateHash(b))
	assert.NotEqual(t, cache.StateHash(a), cache.StateHash(c))
	assert.Len(t, cache.StateHash(a), 32)
}

func TestNilCacheIsDisabled(t *testing.T) {
	ctx := context.Background()
	var c *cache.DiscoveryCache

	_, key, ok := c.Get(ctx, discovery.FilterState{})
	assert.False(t, ok)
	assert.Empty(t, key)
	c.Set(ctx, "recipes:discover:0:abc", sampleResults)
	c.Invalidate(ctx)

	noClient := cache.NewDiscoveryCache(nil, time.Minute, zap.NewNop())
	_, key, ok = noClient.Get(ctx, discovery.FilterState{})
	assert.False(t, ok)
	assert.Empty(t, key)
	noClient.Set(ctx, key, sampleResults)
}

func TestDiscoveryCacheRoundTrip(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	c := cache.NewDiscoveryCache(client, time.Minute, zap.NewNop())
	ctx := context.Background()
	state := discovery.FilterState{IngredientQuery: []string{"onion"}}

	_, key, ok := c.Get(ctx, state)
	assert.False(t, ok)
	require.NotEmpty(t, key)

	c.Set(ctx, key, sampleResults)
	got, hitKey, ok := c.Get(ctx, state)
	require.True(t, ok)
	assert.Equal(t, sampleResults, got)
	assert.Equal(t, key, hitKey)

	_, _, ok = c.Get(ctx, discovery.FilterState{Category: discovery.CategoryTopRated})
	assert.False(t, ok, "different state must not share an entry")

	c.Invalidate(ctx)
	_, _, ok = c.Get(ctx, state)
	assert.False(t, ok, "invalidation must hide earlier entries")
}

func TestDiscoveryCacheWriteBetweenMissAndStore(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	c := cache.NewDiscoveryCache(client, time.Minute, zap.NewNop())
	ctx := context.Background()
	state := discovery.FilterState{Category: discovery.CategoryVeg}

	// A reader misses and starts computing from the current catalog.
	_, key, ok := c.Get(ctx, state)
	require.False(t, ok)

	// A recipe write commits before the reader stores its results.
	c.Invalidate(ctx)
	c.Set(ctx, key, sampleResults)

	_, newKey, ok := c.Get(ctx, state)
	assert.False(t, ok, "results computed before the write must not be served afterwards")
	assert.NotEqual(t, key, newKey)

	fresh := sampleResults[1:]
	c.Set(ctx, newKey, fresh)
	got, _, ok := c.Get(ctx, state)
	require.True(t, ok)
	assert.Equal(t, fresh, got)
}
