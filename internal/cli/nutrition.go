package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/pageza/recipeverse/backend/internal/catalog"
	"github.com/pageza/recipeverse/backend/internal/discovery"
	"github.com/pageza/recipeverse/backend/internal/service"
)

func nutritionCmd() *cli.Command {
	return &cli.Command{
		Name:  "nutrition",
		Usage: "Estimate nutrition and health score",
		Description: `Estimates macros for an ingredient list, or for one recipe of a catalog.

  recipectl nutrition --ingredients "rice, egg"
  recipectl nutrition -f data/recipes.yaml --recipe egg-bhurji
  recipectl nutrition --list`,
		Flags: []cli.Flag{
			catalogFlag(),
			&cli.StringFlag{
				Name:    "ingredients",
				Aliases: []string{"i"},
				Usage:   "Comma separated ingredients",
			},
			&cli.StringFlag{
				Name:    "recipe",
				Aliases: []string{"r"},
				Usage:   "ID of a catalog recipe to estimate",
			},
			&cli.BoolFlag{
				Name:  "list",
				Usage: "List the ingredients the estimator knows, per 100g",
			},
			formatFlag(),
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}

			if cmd.Bool("list") {
				return writeOutput(cmd, knownIngredients())
			}

			ingredients, err := nutritionInput(cmd)
			if err != nil {
				return err
			}

			return writeOutput(cmd, service.EstimateNutrition(ingredients))
		},
	}
}

func nutritionInput(cmd *cli.Command) ([]string, error) {
	raw, id := cmd.String("ingredients"), cmd.String("recipe")
	switch {
	case raw != "" && id != "":
		return nil, errors.New("--ingredients and --recipe are mutually exclusive")
	case raw != "":
		return discovery.ParseIngredientQuery(raw), nil
	case id != "":
		recipes, err := catalog.Load(cmd.String("catalog"))
		if err != nil {
			return nil, err
		}
		for _, r := range recipes {
			if r.ID == id {
				return r.Ingredients, nil
			}
		}
		return nil, fmt.Errorf("recipe %q not found in %s", id, cmd.String("catalog"))
	default:
		return nil, errors.New("one of --ingredients or --recipe is required")
	}
}

type ingredientInfo struct {
	Name    string                    `json:"name" yaml:"name"`
	Per100g discovery.NutrientProfile `json:"per100g" yaml:"per100g"`
}

func knownIngredients() []ingredientInfo {
	names := discovery.KnownIngredients()
	out := make([]ingredientInfo, 0, len(names))
	for _, name := range names {
		profile, _ := discovery.LookupNutrient(name)
		out = append(out, ingredientInfo{Name: name, Per100g: profile})
	}
	return out
}
