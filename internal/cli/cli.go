// Package cli implements recipectl, the operator command line for working
// with recipe catalogs offline and minting development tokens.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/pageza/recipeverse/backend/internal/catalog"
)

const name = "recipectl"

// overridden during build with ldflags
var version = "dev"

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(catalog.FormatJSON),
		Usage:   "Output format (json, yaml)",
	}
}

func catalogFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "catalog",
		Aliases: []string{"f"},
		Value:   "data/recipes.yaml",
		Usage:   "Path to a JSON or YAML recipe catalog",
	}
}

// New builds the root command. Output goes to out.
func New(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Recipe discovery tooling",
		Version: version,
		Writer:  out,
		Commands: []*cli.Command{
			discoverCmd(),
			nutritionCmd(),
			tokenCmd(),
		},
	}
}

// Execute runs recipectl with the process arguments.
func Execute(ctx context.Context) error {
	return New(os.Stdout).Run(ctx, os.Args)
}

func parseOutputFormat(cmd *cli.Command) (catalog.Format, error) {
	return catalog.ParseFormat(cmd.String("format"))
}

func writeOutput(cmd *cli.Command, v any) error {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}
	return catalog.Write(cmd.Root().Writer, format, v)
}
