package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/pageza/recipeverse/backend/internal/catalog"
	"github.com/pageza/recipeverse/backend/internal/discovery"
)

func discoverCmd() *cli.Command {
	return &cli.Command{
		Name:  "discover",
		Usage: "Filter and rank a recipe catalog",
		Description: `Runs the discovery pipeline over a catalog file: category filter,
then free-text search, then ranking by the ingredients you have.

  recipectl discover -f data/recipes.yaml --ingredients "onion, oil"
  recipectl discover --category veg --search rice --format yaml`,
		Flags: []cli.Flag{
			catalogFlag(),
			&cli.StringFlag{
				Name:  "category",
				Usage: "Category filter (all, veg, nonveg, top)",
			},
			&cli.StringFlag{
				Name:    "search",
				Aliases: []string{"q"},
				Usage:   "Free-text search over title and description",
			},
			&cli.StringFlag{
				Name:    "ingredients",
				Aliases: []string{"i"},
				Usage:   "Comma separated ingredients you have",
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "Search mode (any, none, text, ingredient)",
			},
			&cli.StringFlag{
				Name:  "empty",
				Usage: "Recipes without ingredients during ranking (exclude, unranked)",
			},
			formatFlag(),
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}

			state, err := buildFilterStateFromCmd(cmd)
			if err != nil {
				return err
			}

			recipes, err := catalog.Load(cmd.String("catalog"))
			if err != nil {
				return err
			}

			return writeOutput(cmd, newDiscoveryResult(discovery.Apply(recipes, state)))
		},
	}
}

type discoveryResult struct {
	Count   int                      `json:"count" yaml:"count"`
	Recipes []discovery.RankedRecipe `json:"recipes" yaml:"recipes"`
}

func newDiscoveryResult(ranked []discovery.RankedRecipe) discoveryResult {
	if ranked == nil {
		ranked = []discovery.RankedRecipe{}
	}
	return discoveryResult{Count: len(ranked), Recipes: ranked}
}

func buildFilterStateFromCmd(cmd *cli.Command) (discovery.FilterState, error) {
	var state discovery.FilterState
	var err error

	if state.Category, err = discovery.ParseCategory(cmd.String("category")); err != nil {
		return state, fmt.Errorf("invalid category: %w", err)
	}
	if state.Mode, err = discovery.ParseSearchMode(cmd.String("mode")); err != nil {
		return state, fmt.Errorf("invalid mode: %w", err)
	}
	if state.EmptyIngredients, err = discovery.ParseEmptyIngredientPolicy(cmd.String("empty")); err != nil {
		return state, fmt.Errorf("invalid empty ingredient policy: %w", err)
	}
	state.SearchText = cmd.String("search")
	state.IngredientQuery = discovery.ParseIngredientQuery(cmd.String("ingredients"))

	return state, nil
}
