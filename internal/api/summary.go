package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/iranzi17/ibc-15kv-reporting/internal/model"
	"github.com/iranzi17/ibc-15kv-reporting/internal/summarizer"
)

// Summary condenses the selected daily reports into one weekly summary via
// the hosted model. Failures surface to the operator; there is no silent
// degradation here.
// POST /api/summary
func (h *Handler) Summary(c *gin.Context) {
	var sel selection
	if err := c.ShouldBindJSON(&sel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	records := h.selectRecords(c, sel)
	if len(records) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "select at least one report to summarize"})
		return
	}

	if h.provider == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": summarizer.FallbackMessage})
		return
	}

	text, err := h.provider.Summarize(c.Request.Context(), summarizer.BuildReportText(records))
	if err != nil {
		h.log.Warnw("summarization failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": summarizer.FallbackMessage})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": text, "reports": len(records)})
}

type structureRequest struct {
	Text   string `json:"text"`
	Append bool   `json:"append"`
}

// Structure maps raw pasted report text into schema records, via the hosted
// model when one is configured and the local line parser otherwise.
// Optionally appends the result to the sheet.
// POST /api/structure
func (h *Handler) Structure(c *gin.Context) {
	var req structureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "report text is empty"})
		return
	}

	records, err := h.structureText(c, req.Text)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	appended := 0
	if req.Append {
		rows := make([][]string, len(records))
		for i, r := range records {
			rows[i] = r.Values
		}
		if err := h.source.Append(c.Request.Context(), rows); err != nil {
			h.log.Errorw("structured append failed", "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "structured reports could not be appended to the sheet"})
			return
		}
		appended = len(rows)
	}

	c.JSON(http.StatusOK, gin.H{
		"records":  recordMaps(records),
		"appended": appended,
	})
}

func (h *Handler) structureText(c *gin.Context, text string) ([]*model.Record, error) {
	if h.provider != nil {
		records, err := h.provider.Structure(c.Request.Context(), text)
		if err == nil {
			return records, nil
		}
		// The local parser is good enough to keep the operator moving when
		// the hosted model misbehaves.
		h.log.Warnw("hosted structuring failed, using local parser", "error", err)
	}
	return summarizer.StructureLocally(h.schema, text)
}
