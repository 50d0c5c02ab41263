package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/data-analyzer-api/internal/models"
	"github.com/data-analyzer-api/internal/service"
	"github.com/data-analyzer-api/internal/session"
	"github.com/data-analyzer-api/internal/validation"
)

// AuthHandler handles signup, login, logout and session inspection
type AuthHandler struct {
	services *service.Services
	sessions *session.Manager
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, sessions *session.Manager, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services: services,
		sessions: sessions,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// Signup handles POST /v1/auth/signup. A successful signup also logs the
// new account in, mirroring the original flow.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.services.Auth.CreateAccount(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case validation.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrUsernameTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
		default:
			h.log.Error().Err(err).Msg("Signup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		}
		return
	}

	if err := h.sessions.SetCurrent(user.Username); err != nil {
		h.log.Error().Err(err).Msg("Failed to write session marker")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := validation.ValidateCredentials(req.Username, req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := h.services.Auth.VerifyCredentials(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.log.Error().Err(err).Msg("Login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify credentials"})
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if err := h.sessions.SetCurrent(req.Username); err != nil {
		h.log.Error().Err(err).Msg("Failed to write session marker")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": req.Username})
}

// Logout handles POST /v1/auth/logout; clearing is idempotent
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Clear(); err != nil {
		h.log.Error().Err(err).Msg("Failed to clear session marker")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear session"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Session handles GET /v1/auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	user, err := h.sessions.Current(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Session resolution failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve session"})
		return
	}
	if user == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "admin": user.IsAdmin()})
}
