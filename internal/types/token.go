package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims in a bearer token. UserID is the
// identity provider's stable user identifier.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}
