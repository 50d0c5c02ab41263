package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/data-analyzer-api/internal/config"
	"github.com/data-analyzer-api/internal/models"
	"github.com/data-analyzer-api/internal/service"
	"github.com/data-analyzer-api/internal/validation"
)

// FeedbackHandler handles feedback submission and the admin surface
type FeedbackHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewFeedbackHandler creates a new FeedbackHandler
func NewFeedbackHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "feedback").Logger(),
	}
}

// Submit handles POST /v1/feedback. The logged-in username wins over any
// name supplied in the body.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req models.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	username := req.Username
	if user := currentUser(c); user != nil {
		username = user.Username
	}

	fb, err := h.services.Feedback.Save(c.Request.Context(), username, req.Text)
	if err != nil {
		if validation.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error().Err(err).Msg("Feedback save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save feedback"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"feedback": fb})
}

// AdminList handles GET /v1/admin/feedback?limit=
func (h *FeedbackHandler) AdminList(c *gin.Context) {
	limit := h.cfg.Storage.FeedbackListMax
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	rows, err := h.services.Feedback.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Feedback listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedback": rows, "count": len(rows)})
}

// AdminDelete handles DELETE /v1/admin/feedback
func (h *FeedbackHandler) AdminDelete(c *gin.Context) {
	var req struct {
		IDs []int64 `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids is required"})
		return
	}

	deleted, err := h.services.Feedback.Delete(c.Request.Context(), req.IDs)
	if err != nil {
		h.log.Error().Err(err).Msg("Feedback delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// AdminExport handles GET /v1/admin/feedback/export
func (h *FeedbackHandler) AdminExport(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=feedback_export.csv")
	if err := h.services.Feedback.ExportCSV(c.Request.Context(), c.Writer, h.cfg.Storage.FeedbackListMax); err != nil {
		h.log.Error().Err(err).Msg("Feedback export failed")
	}
}
