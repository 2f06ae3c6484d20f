// Package dashboard serves the admin result views: per-model MOS summaries,
// pairwise A/B reports with confidence bounds, and CSV export of the MOS
// summary table.
package dashboard

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tts-eval-platform/backend/internal/coreengine/aggregationengine"
)

// Handler serves the dashboard endpoints.
type Handler struct {
	aggregator *aggregationengine.Engine
	logger     zerolog.Logger
}

// NewHandler creates a dashboard handler.
func NewHandler(aggregator *aggregationengine.Engine, logger zerolog.Logger) *Handler {
	return &Handler{
		aggregator: aggregator,
		logger:     logger.With().Str("component", "dashboard").Logger(),
	}
}

// MOSSummaryHandler returns per-model attribute means, optionally filtered to
// a comma-separated subset of models and attributes.
func (h *Handler) MOSSummaryHandler(c *gin.Context) {
	models, attributes := summaryFilters(c)

	rows, err := h.aggregator.SummarizeMOS(models, attributes)
	if err != nil {
		if strings.Contains(err.Error(), "unknown MOS attribute") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error().Err(err).Msg("MOS summary failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate MOS ratings"})
		return
	}

	if len(attributes) == 0 {
		attributes = aggregationengine.AttributeKeys()
	}
	c.JSON(http.StatusOK, gin.H{
		"rows":       rows,
		"attributes": attributes,
	})
}

// ABSummaryHandler returns the pairwise comparison reports. Each stored
// ordered model pair is its own row; reversed orientations are not merged.
func (h *Handler) ABSummaryHandler(c *gin.Context) {
	reports, err := h.aggregator.SummarizeAB()
	if err != nil {
		h.logger.Error().Err(err).Msg("A/B summary failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate A/B results"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comparisons": reports})
}

// MOSExportHandler streams the MOS summary table as CSV. Columns: model name,
// the selected metrics in display order, then the total rating count.
func (h *Handler) MOSExportHandler(c *gin.Context) {
	models, attributes := summaryFilters(c)

	rows, err := h.aggregator.SummarizeMOS(models, attributes)
	if err != nil {
		if strings.Contains(err.Error(), "unknown MOS attribute") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error().Err(err).Msg("MOS export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate MOS ratings"})
		return
	}

	if len(attributes) == 0 {
		attributes = aggregationengine.AttributeKeys()
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="mos_results.csv"`)

	w := csv.NewWriter(c.Writer)
	header := []string{"model_name"}
	for _, attr := range attributes {
		header = append(header, aggregationengine.AttributeLabel(attr))
	}
	header = append(header, "total_ratings")
	_ = w.Write(header)

	for _, row := range rows {
		record := []string{row.ModelName}
		for _, attr := range attributes {
			if mean, ok := row.Means[attr]; ok {
				record = append(record, fmt.Sprintf("%.2f", mean))
			} else {
				record = append(record, "")
			}
		}
		record = append(record, fmt.Sprintf("%d", row.RatingCount))
		_ = w.Write(record)
	}
	w.Flush()
}

func summaryFilters(c *gin.Context) (models []string, attributes []string) {
	if raw := c.Query("models"); raw != "" {
		models = strings.Split(raw, ",")
	}
	if raw := c.Query("attributes"); raw != "" {
		attributes = strings.Split(raw, ",")
	}
	return models, attributes
}
