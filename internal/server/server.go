package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"messagely/config"
	"messagely/internal/handler"
	"messagely/internal/middleware"
	"messagely/internal/redis"
	"messagely/internal/services"
	"messagely/internal/transport/httpdto"
	"messagely/pkg/database"
	"messagely/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
	auth       *services.AuthService
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

const shutdownTimeout = 5 * time.Second

type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Message *handler.MessageHandler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	if l == nil {
		l = logger.NewNop()
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.AppPort),
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

// Handler exposes the engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// SetupRoutes registers middleware and routes. limiter and db may be nil.
func (s *Server) SetupRoutes(handlers *Handlers, authService *services.AuthService, limiter *redis.RateLimiter, db *sql.DB) {
	s.auth = authService

	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))
	s.engine.Use(middleware.RateLimitMiddleware(limiter, s.logger))
	s.engine.Use(middleware.Authenticate(authService))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.PingResponse{Status: "pong"})
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse("database not configured", http.StatusServiceUnavailable, "UNHEALTHY"))
			return
		}
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), http.StatusServiceUnavailable, "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.PingResponse{Status: "healthy"})
	})

	auth := s.engine.Group("/auth")
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/register", handlers.Auth.Register)
	}

	users := s.engine.Group("/users")
	{
		users.GET("", middleware.EnsureLoggedIn(), handlers.User.List)
		users.GET("/:username", middleware.EnsureCorrectUser(), handlers.User.Get)
		users.GET("/:username/to", middleware.EnsureCorrectUser(), handlers.User.MessagesTo)
		users.GET("/:username/from", middleware.EnsureCorrectUser(), handlers.User.MessagesFrom)
	}

	messages := s.engine.Group("/messages", middleware.EnsureLoggedIn())
	{
		messages.POST("", handlers.Message.Send)
		messages.GET("/:id", handlers.Message.Get)
		messages.POST("/:id/read", handlers.Message.MarkRead)
	}
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests and
// pending last-login updates.
func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		s.logger.Errorf("Error in starting the server: %s", err)
		return err
	case <-quit:
	}

	s.logger.Infof("Quitting signal received.. Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Errorf("Error in the graceful shutdown of the server: %s", err)
		return err
	}
	if s.auth != nil {
		s.auth.Wait()
	}

	s.logger.Infof("Server stopped gracefully")
	return nil
}
