package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wablastdev/wablast/internal/app"
	"github.com/wablastdev/wablast/internal/config"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	srv    *http.Server
	app    *app.App
	config *config.Config
}

// NewServer creates a new server instance
func NewServer(app *app.App, config *config.Config) *Server {
	if config.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = zap.NewStdLog(app.Logger).Writer()
	gin.DefaultErrorWriter = zap.NewStdLog(app.Logger).Writer()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(config.GetCorsConfig()))

	return &Server{
		router: r,
		app:    app,
		config: config,
	}
}

// Router returns the gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:    ":" + s.config.ServerPort,
		Handler: s.router,
	}

	go func() {
		s.app.Logger.Info("server listening", zap.String("port", s.config.ServerPort))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.app.Logger.Error("server error", zap.Error(err))
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	s.app.Logger.Info("shutting down server")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.app.Logger.Info("server exited")
	return nil
}
