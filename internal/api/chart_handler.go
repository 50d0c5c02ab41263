package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/data-analyzer-api/internal/models"
	"github.com/data-analyzer-api/internal/service"
	"github.com/data-analyzer-api/internal/validation"
)

// ChartHandler handles chart creation and export
type ChartHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewChartHandler creates a new ChartHandler
func NewChartHandler(services *service.Services, log zerolog.Logger) *ChartHandler {
	return &ChartHandler{
		services: services,
		log:      log.With().Str("handler", "chart").Logger(),
	}
}

// CreateChart handles POST /v1/charts. The built chart is retained so a
// later export request does not have to rebuild it.
func (h *ChartHandler) CreateChart(c *gin.Context) {
	var req models.ChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	chart, err := h.services.Workspace.BuildChart(&req)
	if err != nil {
		if validation.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// column type mismatches and other build failures are user input
		// problems too, not server faults
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"kind":  string(chart.Kind),
		"title": chart.Title,
	})
}

// ExportChart handles GET /v1/charts/export?format=&filename=. When the
// requested format cannot be rendered, the response degrades to an HTML
// export and says so in the X-Export-Fallback header.
func (h *ChartHandler) ExportChart(c *gin.Context) {
	format := c.DefaultQuery("format", "png")
	filename := c.DefaultQuery("filename", "chart")

	export, err := h.services.Workspace.ExportChart(format)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoChart):
			c.JSON(http.StatusNotFound, gin.H{"error": "no chart has been created"})
		case validation.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.log.Error().Err(err).Str("format", format).Msg("Chart export failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "chart export failed"})
		}
		return
	}

	if export.Fallback {
		c.Header("X-Export-Fallback", "html")
	}
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s.%s", filename, export.Extension))
	c.Data(http.StatusOK, export.ContentType, export.Data)
}
