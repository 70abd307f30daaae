// Package api carries the JSON endpoints behind the embedded web UI.
package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iranzi17/ibc-15kv-reporting/internal/config"
	"github.com/iranzi17/ibc-15kv-reporting/internal/model"
	"github.com/iranzi17/ibc-15kv-reporting/internal/render"
	"github.com/iranzi17/ibc-15kv-reporting/internal/sheets"
	"github.com/iranzi17/ibc-15kv-reporting/internal/summarizer"
)

// Handler bundles the collaborators every endpoint needs.
type Handler struct {
	settings  *config.Settings
	schema    *model.Schema
	source    *sheets.Source
	renderer  *render.Renderer
	provider  summarizer.Provider
	downloads *downloadStore
	log       *zap.SugaredLogger
}

// NewHandler creates the API handler. provider may be nil when no hosted
// model is configured; structuring then runs locally and summaries are
// reported as unavailable.
func NewHandler(settings *config.Settings, schema *model.Schema, source *sheets.Source,
	renderer *render.Renderer, provider summarizer.Provider, log *zap.SugaredLogger) *Handler {
	return &Handler{
		settings:  settings,
		schema:    schema,
		source:    source,
		renderer:  renderer,
		provider:  provider,
		downloads: newDownloadStore(),
		log:       log,
	}
}

// RegisterRoutes mounts every endpoint under the given group.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)

	router.GET("/reports", h.ListReports)
	router.POST("/refresh", h.Refresh)

	router.POST("/uploads", h.PutUpload)

	router.POST("/generate", h.Generate)
	router.GET("/download/:token", h.Download)

	router.POST("/import", h.Import)
	router.GET("/export", h.Export)

	router.POST("/summary", h.Summary)
	router.POST("/structure", h.Structure)
}

// selection is the site/date filter most POST endpoints accept.
type selection struct {
	Sites []string `json:"sites"`
	Dates []string `json:"dates"`
}
