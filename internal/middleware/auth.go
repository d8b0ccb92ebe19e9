package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipeverse/backend/internal/types"
)

// Context keys set by the auth middleware.
const (
	ContextUserID      = "user_id"
	ContextDisplayName = "display_name"
	ContextPhotoURL    = "photo_url"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// AuthMiddleware creates a middleware that validates JWT tokens
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header", "code": "UNAUTHORIZED"})
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format", "code": "UNAUTHORIZED"})
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token", "code": "UNAUTHORIZED"})
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth records the caller's identity when a valid token is sent and
// lets anonymous requests through otherwise.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := validator.ValidateToken(token); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

// UserID returns the authenticated user's ID, if any.
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextUserID)
	return id, id != ""
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setIdentity(c *gin.Context, claims *types.TokenClaims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextDisplayName, claims.DisplayName)
	c.Set(ContextPhotoURL, claims.PhotoURL)
}
