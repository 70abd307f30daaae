// Package server wires the gin engine: CORS, the JSON API and the embedded
// single-page UI.
package server

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iranzi17/ibc-15kv-reporting/internal/api"
	"github.com/iranzi17/ibc-15kv-reporting/internal/config"
)

//go:embed static
var staticFiles embed.FS

// Server is the HTTP front of the tool.
type Server struct {
	router *gin.Engine
	api    *api.Handler
}

// New builds the server around an already-wired API handler.
func New(cfg *config.Settings, handler *api.Handler, log *zap.SugaredLogger) *Server {
	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router: gin.New(),
		api:    handler,
	}
	s.router.Use(gin.Recovery(), requestLogger(log))
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Single operator on localhost, but the UI may be opened from another
	// machine on the site network.
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	s.api.RegisterRoutes(apiGroup)

	// http.FileServer redirects /index.html to ./, so the page is served
	// straight from the embedded bytes.
	index, _ := fs.ReadFile(staticFiles, "static/index.html")
	serveIndex := func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	}
	s.router.GET("/", serveIndex)
	s.router.NoRoute(serveIndex)
}

// Run blocks serving HTTP on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the engine for httptest.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func requestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Request.URL.Path == "/api/status" {
			return // polled by the UI, too chatty to log
		}
		log.Infow("http",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}
