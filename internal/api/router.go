package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/data-analyzer-api/internal/config"
	"github.com/data-analyzer-api/internal/models"
	"github.com/data-analyzer-api/internal/service"
	"github.com/data-analyzer-api/internal/session"
)

const userContextKey = "current_user"

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, sessions *session.Manager, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	authHandler := NewAuthHandler(services, sessions, log)
	datasetHandler := NewDatasetHandler(services, cfg, log)
	chartHandler := NewChartHandler(services, log)
	feedbackHandler := NewFeedbackHandler(services, cfg, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services))

	// API v1
	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/session", authHandler.Session)
		}

		// everything below requires a logged-in session
		authed := v1.Group("")
		authed.Use(requireAuth(sessions, log))
		{
			authed.GET("/datasets", datasetHandler.ListDatasets)
			authed.POST("/datasets", datasetHandler.Upload)
			authed.POST("/analysis", datasetHandler.Analyze)
			authed.GET("/analysis/export", datasetHandler.ExportAnalysis)

			authed.POST("/charts", chartHandler.CreateChart)
			authed.GET("/charts/export", chartHandler.ExportChart)

			authed.POST("/feedback", feedbackHandler.Submit)

			admin := authed.Group("/admin")
			admin.Use(requireAdmin())
			{
				admin.GET("/feedback", feedbackHandler.AdminList)
				admin.DELETE("/feedback", feedbackHandler.AdminDelete)
				admin.GET("/feedback/export", feedbackHandler.AdminExport)
			}
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "data-analyzer-api",
	})
}

// metricsHandler returns store row counts
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		usersCount, _ := services.Auth.Count(ctx)
		feedbackCount, _ := services.Feedback.Count(ctx)

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"users":    usersCount,
				"feedback": feedbackCount,
			},
			"datasets":  len(services.Workspace.List()),
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// requireAuth resolves the current session and rejects unauthenticated
// requests. The resolved user is stored on the request context.
func requireAuth(sessions *session.Manager, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := sessions.Current(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Msg("Session resolution failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve session"})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// requireAdmin gates the admin surface on the admin identity. Denials
// carry no data beyond the refusal itself.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentUser(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// currentUser returns the session user resolved by requireAuth
func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(requestIDContextKey)).
			Msg("Request completed")
	}
}

const (
	requestIDHeader     = "X-Request-ID"
	requestIDContextKey = "request_id"
)

// requestIDMiddleware tags every request with an id for log correlation
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDContextKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
