package testhelpers

import (
	"testing"
	"time"

	"github.com/pageza/recipeverse/backend/internal/service"
	"github.com/pageza/recipeverse/backend/internal/types"
)

// IssueToken signs a one-hour bearer token for userID.
func IssueToken(t *testing.T, secret, userID string) string {
	t.Helper()
	token, err := service.NewAuthService(secret).GenerateToken(types.TokenClaims{
		UserID:      userID,
		DisplayName: "Test " + userID,
	}, time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}
