package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const downloadTTL = 15 * time.Minute

// Generate renders one report document per selected record and parks the
// resulting zip behind a one-time download token.
// POST /api/generate
func (h *Handler) Generate(c *gin.Context) {
	var sel selection
	if err := c.ShouldBindJSON(&sel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	records := h.selectRecords(c, sel)
	if len(records) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "select at least one site and date"})
		return
	}

	archive, err := h.renderer.RenderAll(records, h.source.Uploads)
	if err != nil {
		h.log.Errorw("report generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("report generation failed: %v", err)})
		return
	}

	exportDir := filepath.Join(h.settings.DataDir, "exports")
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare export directory"})
		return
	}
	filePath := filepath.Join(exportDir, fmt.Sprintf("reports_%s.zip", uuid.New().String()))
	if err := os.WriteFile(filePath, archive, 0644); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write archive"})
		return
	}

	token := h.downloads.put(filePath, "reports.zip", downloadTTL)
	c.JSON(http.StatusOK, gin.H{
		"reports":  len(records),
		"token":    token,
		"download": "/api/download/" + token,
	})
}

// Download streams a generated archive once, then invalidates the token and
// removes the file.
// GET /api/download/:token
func (h *Handler) Download(c *gin.Context) {
	token := c.Param("token")
	d, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "download expired or unknown"})
		return
	}

	c.FileAttachment(d.filePath, d.name)

	h.downloads.delete(token)
	if err := os.Remove(d.filePath); err != nil {
		h.log.Warnw("failed to remove served archive", "path", d.filePath, "error", err)
	}
}
