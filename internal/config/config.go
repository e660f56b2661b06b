// Package config handles application configuration.
//
// Go Pattern: Configuration via environment variables with sensible defaults.
// A struct holds the values and one function loads them. An optional .env
// file in the working directory is read first with godotenv; variables
// already set in the environment win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Shimizu-Technology/ocr-api/internal/services/ocr"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Port    string
	GinMode string // "debug", "release", or "test"

	// Database settings. Empty DatabaseURL disables extraction history.
	DatabaseURL    string
	MigrationsPath string

	// OCR settings
	TesseractPath string // Empty means the binary was not found
	OCRLanguage   string
	OCRTimeout    time.Duration // 0 = no limit

	// Upload settings
	MaxUploadMB int
	UploadDir   string // Scratch directory for uploaded files

	// Worker settings
	WorkerCount  int // Number of extraction worker goroutines
	JobQueueSize int // Size of the in-memory job queue buffer

	// Rate limiting
	RateLimit int // Requests per hour per client IP, 0 disables

	// CORS
	AllowedOrigins []string

	corsFromEnv bool
}

// Load reads configuration from the environment.
//
// Go Pattern: Functions that can fail return (value, error) and the caller
// must handle the error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("⚠️  Could not load .env file: %v", err)
	}

	_, corsSet := os.LookupEnv("CORS_ORIGIN")

	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),

		TesseractPath: getEnv("TESSERACT_PATH", ocr.FindTesseract()),
		OCRLanguage:   getEnv("OCR_LANGUAGE", "eng"),
		OCRTimeout:    getEnvDuration("OCR_TIMEOUT", 2*time.Minute),

		MaxUploadMB: getEnvInt("MAX_UPLOAD_MB", 10),
		UploadDir:   getEnv("UPLOAD_DIR", os.TempDir()),

		WorkerCount:  getEnvInt("WORKER_COUNT", 3),
		JobQueueSize: getEnvInt("JOB_QUEUE_SIZE", 100),

		RateLimit: getEnvInt("RATE_LIMIT", 100),

		AllowedOrigins: []string{
			getEnv("CORS_ORIGIN", "http://localhost:3000"),
		},
		corsFromEnv: corsSet,
	}

	if cfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", cfg.MaxUploadMB)
	}
	if cfg.OCRTimeout < 0 {
		return nil, fmt.Errorf("OCR_TIMEOUT must not be negative, got %s", cfg.OCRTimeout)
	}

	return cfg, nil
}

// ValidateServer checks the settings only the HTTP server needs.
func (c *Config) ValidateServer() error {
	if c.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount)
	}
	if c.JobQueueSize < 0 {
		return fmt.Errorf("JOB_QUEUE_SIZE must not be negative, got %d", c.JobQueueSize)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("RATE_LIMIT must not be negative, got %d", c.RateLimit)
	}

	// In release mode the browser origin must be chosen on purpose.
	if c.GinMode == "release" && !c.corsFromEnv {
		return fmt.Errorf("CORS_ORIGIN must be set in production")
	}
	return nil
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// HistoryEnabled reports whether extractions are persisted.
func (c *Config) HistoryEnabled() bool {
	return c.DatabaseURL != ""
}

// getEnv reads an environment variable with a fallback default.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt reads an integer environment variable with a fallback.
func getEnvInt(key string, fallback int) int {
	str := getEnv(key, "")
	if str == "" {
		return fallback
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return fallback
	}
	return val
}

// getEnvDuration reads a duration like "90s" or "2m". A bare number is
// taken as seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	str := getEnv(key, "")
	if str == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(str); err == nil {
		return time.Duration(secs) * time.Second
	}
	val, err := time.ParseDuration(str)
	if err != nil {
		return fallback
	}
	return val
}
