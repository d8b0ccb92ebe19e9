package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pageza/recipeverse/backend/internal/types"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrMissingSubject = errors.New("token has no user id")
)

const tokenIssuer = "recipeverse"

// AuthService signs and verifies the HS256 bearer tokens issued to users
// after they sign in with the identity provider.
type AuthService struct {
	jwtSecret []byte
}

func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{jwtSecret: []byte(jwtSecret)}
}

// GenerateToken issues a token for the given identity.
func (s *AuthService) GenerateToken(identity types.TokenClaims, ttl time.Duration) (string, error) {
	if identity.UserID == "" {
		return "", ErrMissingSubject
	}

	now := time.Now()
	claims := identity
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   identity.UserID,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken parses and verifies a token string.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}
