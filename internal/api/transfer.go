package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iranzi17/ibc-15kv-reporting/internal/exporter"
	"github.com/iranzi17/ibc-15kv-reporting/internal/importer"
	"github.com/iranzi17/ibc-15kv-reporting/internal/mapper"
)

// Import reads report rows from an uploaded Excel workbook and appends them
// to the sheet.
// POST /api/import (multipart: file)
func (h *Handler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no workbook uploaded"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open upload"})
		return
	}
	defer f.Close()

	res, err := importer.ReadWorkbook(f, h.settings.SheetName, h.schema)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("workbook rejected: %v", err)})
		return
	}
	if len(res.Rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "workbook contained no data rows"})
		return
	}

	if err := h.source.Append(c.Request.Context(), res.Rows); err != nil {
		h.log.Errorw("import append failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("sheet append failed: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sheet":    res.Sheet,
		"imported": len(res.Rows),
		"skipped":  res.Skipped,
	})
}

// Export streams the (filtered) mapped rows as an xlsx snapshot.
// GET /api/export
func (h *Handler) Export(c *gin.Context) {
	rows, _ := h.source.Rows(c.Request.Context())
	records := mapper.Filter(mapper.MapRows(h.schema, rows),
		splitParam(c.Query("sites")), splitParam(c.Query("dates")))

	name := fmt.Sprintf("reports_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := exporter.WriteWorkbook(c.Writer, h.settings.SheetName, h.schema, records); err != nil {
		h.log.Errorw("xlsx export failed", "error", err)
	}
}
