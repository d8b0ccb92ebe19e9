package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipeverse/backend/config"
	"github.com/pageza/recipeverse/backend/internal/api"
	"github.com/pageza/recipeverse/backend/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	log    *zap.Logger
}

// New builds the router with the global middleware chain and every route.
func New(cfg *config.Config, deps api.Dependencies) *Server {
	if cfg.Env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(deps.Log),
		middleware.RequestLogger(deps.Log),
		middleware.CORS(cfg.CORSOrigins()),
	)

	api.SetupAPI(router, deps)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		log: deps.Log,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
