// Package server provides the HTTP server for the mudra gesture service.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ayusman/mudra/internal/server/api"
)

// Config holds the server configuration.
type Config struct {
	StaticDir          string
	Service            api.Service
	Hub                *Hub
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
}

// Server represents the HTTP server for the mudra application.
type Server struct {
	config Config
	engine *gin.Engine
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		engine: gin.New(),
		start:  time.Now(),
	}
	s.engine.HandleMethodNotAllowed = true
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.engine.Use(gin.Recovery(), requestLogger())
	if s.config.MaxRequestBodySize > 0 {
		s.engine.Use(requestSizeLimiter(s.config.MaxRequestBodySize))
	}

	s.engine.GET("/api/health", s.handleHealth)

	if s.config.Service != nil {
		api.NewReadingsHandler(s.config.Service, s.config.RequestTimeout).Register(s.engine)
	}

	if s.config.Hub != nil {
		s.engine.GET("/api/stream", gin.WrapH(s.config.Hub))
	}

	// Serve static files (presentation page, gesture images) for anything else.
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.engine.NoRoute(gin.WrapH(fs))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	})
}
