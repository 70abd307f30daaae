package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/iranzi17/ibc-15kv-reporting/internal/mapper"
	"github.com/iranzi17/ibc-15kv-reporting/internal/model"
)

// GetStatus reports what the UI needs to draw its header.
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	rows, offline := h.source.Rows(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"schema":          h.schema.Name,
		"columns":         h.schema.Columns,
		"sheetName":       h.settings.SheetName,
		"offline":         offline,
		"rows":            len(rows),
		"summaryProvider": h.providerName(),
	})
}

func (h *Handler) providerName() string {
	if h.provider == nil {
		return "local"
	}
	return h.settings.SummaryProvider
}

// ListReports returns mapped records plus the distinct sites and dates for
// the pickers. ?sites= and ?dates= take comma-separated filters.
// GET /api/reports
func (h *Handler) ListReports(c *gin.Context) {
	rows, offline := h.source.Rows(c.Request.Context())
	records := mapper.MapRows(h.schema, rows)
	sites, dates := mapper.UniqueSitesAndDates(records)

	filtered := mapper.Filter(records, splitParam(c.Query("sites")), splitParam(c.Query("dates")))

	c.JSON(http.StatusOK, gin.H{
		"offline": offline,
		"sites":   sites,
		"dates":   dates,
		"total":   len(records),
		"records": recordMaps(filtered),
	})
}

// Refresh forces a refetch; a successful fetch rewrites the offline cache.
// POST /api/refresh
func (h *Handler) Refresh(c *gin.Context) {
	rows, offline := h.source.Rows(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"offline": offline, "rows": len(rows)})
}

// PutUpload attaches images to a site/date pair for the next generation run.
// POST /api/uploads (multipart: site, date, file...)
func (h *Handler) PutUpload(c *gin.Context) {
	site := strings.TrimSpace(c.PostForm("site"))
	date := strings.TrimSpace(c.PostForm("date"))
	if site == "" || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "site and date are required"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return
	}
	files := form.File["file"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
		return
	}

	stored := 0
	for _, fh := range files {
		data, err := readMultipartFile(fh)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
			return
		}
		if err := h.source.PutUpload(site, date, upload(fh.Filename, data)); err != nil {
			h.log.Warnw("upload store failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
			return
		}
		stored++
	}
	c.JSON(http.StatusOK, gin.H{"stored": stored})
}

func (h *Handler) selectRecords(c *gin.Context, sel selection) []*model.Record {
	rows, _ := h.source.Rows(c.Request.Context())
	return mapper.Filter(mapper.MapRows(h.schema, rows), sel.Sites, sel.Dates)
}

func recordMaps(records []*model.Record) []map[string]string {
	out := make([]map[string]string, len(records))
	for i, r := range records {
		out[i] = r.Context()
	}
	return out
}

func splitParam(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
