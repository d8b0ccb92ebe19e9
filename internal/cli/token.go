package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/pageza/recipeverse/backend/internal/service"
	"github.com/pageza/recipeverse/backend/internal/types"
)

func tokenCmd() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Mint a bearer token for local development",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "user",
				Aliases:  []string{"u"},
				Usage:    "User ID to put in the token",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "Display name",
			},
			&cli.StringFlag{
				Name:  "email",
				Usage: "Email address",
			},
			&cli.StringFlag{
				Name:    "secret",
				Usage:   "HMAC signing secret, must match the API's JWT_SECRET",
				Sources: cli.EnvVars("JWT_SECRET"),
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Value: 24 * time.Hour,
				Usage: "Token lifetime",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			secret := cmd.String("secret")
			if secret == "" {
				return errors.New("--secret or JWT_SECRET is required")
			}
			if cmd.Duration("ttl") <= 0 {
				return errors.New("--ttl must be positive")
			}

			token, err := service.NewAuthService(secret).GenerateToken(types.TokenClaims{
				UserID:      cmd.String("user"),
				DisplayName: cmd.String("name"),
				Email:       cmd.String("email"),
			}, cmd.Duration("ttl"))
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}

			_, err = fmt.Fprintln(cmd.Root().Writer, token)
			return err
		},
	}
}
