// Package handlers contains HTTP handler functions for the API.
//
// Go Pattern: Handlers in Gin receive a *gin.Context which provides
// request data (params, query, multipart body) and response helpers.
// Related handlers hang off one struct (Handler) that holds shared
// dependencies.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/ocr-api/internal/models"
	"github.com/Shimizu-Technology/ocr-api/internal/services/extract"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Pool runs extractions with bounded concurrency. *worker.Pool satisfies it.
type Pool interface {
	Do(ctx context.Context, upload extract.UploadedFile) (*extract.Result, error)
	WorkerCount() int
	QueueSize() int
}

// History persists extraction outcomes. *database.DB satisfies it.
type History interface {
	HealthCheck(ctx context.Context) error
	CreateExtraction(ctx context.Context, e *models.Extraction) error
	GetExtraction(ctx context.Context, id string) (*models.Extraction, error)
	ListExtractions(ctx context.Context, params models.ExtractionListParams) ([]models.Extraction, error)
}

// OCRStatus reports whether the OCR engine can run. *ocr.Tesseract satisfies it.
type OCRStatus interface {
	Available() bool
}

// Handler holds shared dependencies for all HTTP handlers.
// Go Pattern: Dependency injection via struct fields. Tests build a Handler
// with fakes for any of them.
type Handler struct {
	History        History // nil when history is disabled
	Worker         Pool
	OCR            OCRStatus
	UploadDir      string
	MaxUploadBytes int64
}

// NewHandler creates a new handler with all dependencies.
// Pass a nil history to run without persistence.
func NewHandler(history History, wp Pool, ocr OCRStatus, uploadDir string, maxUploadBytes int64) *Handler {
	return &Handler{
		History:        history,
		Worker:         wp,
		OCR:            ocr,
		UploadDir:      uploadDir,
		MaxUploadBytes: maxUploadBytes,
	}
}

// HealthCheck returns the API health status.
// GET /health, GET /api/health
func (h *Handler) HealthCheck(c *gin.Context) {
	dbStatus := "disabled"
	if h.History != nil {
		dbStatus = "healthy"
		if err := h.History.HealthCheck(c.Request.Context()); err != nil {
			dbStatus = "unhealthy: " + err.Error()
		}
	}

	tesseract := "not installed"
	if h.OCR != nil && h.OCR.Available() {
		tesseract = "available"
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "ok",
		Version:   Version,
		Database:  dbStatus,
		Workers:   h.Worker.WorkerCount(),
		Queue:     h.Worker.QueueSize(),
		Tesseract: tesseract,
	})
}
