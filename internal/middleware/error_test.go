package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pageza/recipeverse/backend/internal/middleware"
)

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Recovery(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error","code":"INTERNAL_ERROR"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, 1, logs.FilterMessage("Panic recovered").Len())
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.RequestLogger(zap.New(core)))
	router.GET("/recipes/:id", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/recipes/123", nil)
	req.Header.Set("X-Request-ID", "req-1")
	router.ServeHTTP(httptest.NewRecorder(), req)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "Client error", entries[0].Message)
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, int64(http.StatusNotFound), fields["status"])
	}
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(middleware.CORS([]string{"http://app.example.com"}))
	router.GET("/recipes", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/recipes", nil)
	req.Header.Set("Origin", "http://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/recipes", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
