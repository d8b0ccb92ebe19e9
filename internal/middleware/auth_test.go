package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/recipeverse/backend/internal/middleware"
	"github.com/pageza/recipeverse/backend/internal/mocks"
	"github.com/pageza/recipeverse/backend/internal/service"
	"github.com/pageza/recipeverse/backend/internal/testhelpers"
	"github.com/pageza/recipeverse/backend/internal/types"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func whoAmI(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	c.JSON(http.StatusOK, gin.H{
		"user_id":      userID,
		"display_name": c.GetString(middleware.ContextDisplayName),
	})
}

func TestAuthMiddleware(t *testing.T) {
	router := gin.New()
	router.GET("/me", middleware.AuthMiddleware(service.NewAuthService(testSecret)), whoAmI)

	valid := testhelpers.IssueToken(t, testSecret, "user-1")
	forged := testhelpers.IssueToken(t, "wrong-secret", "user-1")

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, `"user_id":"user-1"`},
		{"missing header", "", http.StatusUnauthorized, "missing authorization header"},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, "invalid authorization header format"},
		{"no token", "Bearer ", http.StatusUnauthorized, "invalid authorization header format"},
		{"forged token", "Bearer " + forged, http.StatusUnauthorized, "invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	router := gin.New()
	router.GET("/me", middleware.OptionalAuth(service.NewAuthService(testSecret)), whoAmI)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":""`)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":""`)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+testhelpers.IssueToken(t, testSecret, "user-2"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"user-2"`)
	assert.Contains(t, w.Body.String(), `"display_name":"Test user-2"`)
}

func TestAuthMiddlewarePassesIdentity(t *testing.T) {
	validator := new(mocks.MockAuthService)
	validator.On("ValidateToken", "opaque-token").Return(&types.TokenClaims{
		UserID:      "user-9",
		DisplayName: "Priya",
		PhotoURL:    "https://example.com/p.png",
	}, nil)

	router := gin.New()
	router.GET("/me", middleware.AuthMiddleware(validator), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"display_name": c.GetString(middleware.ContextDisplayName),
			"photo_url":    c.GetString(middleware.ContextPhotoURL),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer opaque-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"display_name":"Priya","photo_url":"https://example.com/p.png"}`, w.Body.String())
	validator.AssertExpectations(t)
}
