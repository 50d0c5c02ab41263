package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/data-analyzer-api/internal/config"
	"github.com/data-analyzer-api/internal/models"
	"github.com/data-analyzer-api/internal/service"
	"github.com/data-analyzer-api/internal/validation"
)

// DatasetHandler handles dataset upload, listing and analysis
type DatasetHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewDatasetHandler creates a new DatasetHandler
func NewDatasetHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *DatasetHandler {
	return &DatasetHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "dataset").Logger(),
	}
}

// ListDatasets handles GET /v1/datasets
func (h *DatasetHandler) ListDatasets(c *gin.Context) {
	datasets := h.services.Workspace.List()
	c.JSON(http.StatusOK, gin.H{"datasets": datasets, "count": len(datasets)})
}

// Upload handles POST /v1/datasets. Accepts one or more files under the
// "files" multipart field; each file succeeds or fails independently and a
// failure never aborts the rest of the batch.
func (h *DatasetHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form upload is required"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one file is required"})
		return
	}
	if len(files) > h.cfg.Upload.MaxFiles {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("too many files, max is %d", h.cfg.Upload.MaxFiles),
		})
		return
	}

	results := make([]models.UploadResult, 0, len(files))
	for _, header := range files {
		result := models.UploadResult{Name: header.Filename}

		if header.Size > h.cfg.Upload.MaxUploadSize {
			result.Error = fmt.Sprintf("file too large, max size is %d MB", h.cfg.Upload.MaxUploadSize/(1024*1024))
			results = append(results, result)
			continue
		}

		file, err := header.Open()
		if err != nil {
			result.Error = "failed to open uploaded file"
			results = append(results, result)
			continue
		}

		table, err := h.services.Workspace.Upload(header.Filename, file)
		file.Close()
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Rows = table.NumRows()
			result.Columns = table.NumColumns()
		}
		results = append(results, result)
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Analyze handles POST /v1/analysis
func (h *DatasetHandler) Analyze(c *gin.Context) {
	var req models.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.services.Workspace.Analyze(&req)
	if err != nil {
		if validation.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error().Err(err).Msg("Analysis failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dataset": req.Dataset,
		"columns": result.Columns,
		"rows":    result.Rows,
		"count":   result.NumRows(),
	})
}

// ExportAnalysis handles GET /v1/analysis/export, downloading the retained
// analysis result as CSV
func (h *DatasetHandler) ExportAnalysis(c *gin.Context) {
	_, table, ok := h.services.Workspace.LastAnalysis()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no analysis result available"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=dashboard_data.csv")
	if err := table.WriteCSV(c.Writer); err != nil {
		h.log.Error().Err(err).Msg("Analysis export failed")
	}
}
