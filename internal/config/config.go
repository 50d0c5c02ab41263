package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Storage configuration (database and flat files)
	Storage StorageConfig

	// Upload configuration
	Upload UploadConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// StorageConfig holds the embedded database path and the flat files that
// sit alongside it: the session marker, the append-only mirror logs, and
// the legacy combined users CSV consumed once at startup.
type StorageConfig struct {
	DataDir         string
	DatabasePath    string
	SessionFile     string
	UsersExportLog  string
	FeedbackLog     string
	ActivityLog     string
	LegacyUsersCSV  string
	FeedbackListMax int
}

// UploadConfig holds dataset upload settings
type UploadConfig struct {
	MaxUploadSize int64 // in bytes, per file
	MaxFiles      int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	dataDir := getEnv("DATA_DIR", "./data")

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Storage: StorageConfig{
			DataDir:         dataDir,
			DatabasePath:    getEnv("DB_PATH", filepath.Join(dataDir, "app.db")),
			SessionFile:     getEnv("SESSION_FILE", filepath.Join(dataDir, "current_user.txt")),
			UsersExportLog:  getEnv("USERS_EXPORT_LOG", filepath.Join(dataDir, "users_export.csv")),
			FeedbackLog:     getEnv("FEEDBACK_LOG", filepath.Join(dataDir, "feedback_log.csv")),
			ActivityLog:     getEnv("USER_ACTIVITY_LOG", filepath.Join(dataDir, "user_activity.csv")),
			LegacyUsersCSV:  getEnv("LEGACY_USERS_CSV", filepath.Join(dataDir, "users.csv")),
			FeedbackListMax: getIntEnv("FEEDBACK_LIST_MAX", 200),
		},
		Upload: UploadConfig{
			MaxUploadSize: getInt64Env("MAX_UPLOAD_SIZE", 50*1024*1024), // 50MB
			MaxFiles:      getIntEnv("MAX_UPLOAD_FILES", 20),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if c.Storage.SessionFile == "" {
		return fmt.Errorf("SESSION_FILE is required")
	}
	if c.Upload.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}
	return nil
}

// EnsureDataDir creates the data directory if it does not exist yet
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.Storage.DataDir, 0755)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
