// Package models defines the data structures used throughout the application.
//
// Go Pattern: Models are plain structs with JSON tags for serialization.
// The `db` tags work with sqlx for database column mapping; the database
// package handles persistence.
package models

import "time"

// ExtractionStatus represents the outcome of an extraction.
// Go Pattern: Go has no enums, so a named string type plus constants is used.
type ExtractionStatus string

const (
	StatusCompleted ExtractionStatus = "completed"
	StatusFailed    ExtractionStatus = "failed"
)

// Extraction is one recorded /api/ocr outcome.
type Extraction struct {
	ID           string           `json:"id" db:"id"`
	OriginalName string           `json:"original_name" db:"original_name"`
	FileKind     string           `json:"file_type" db:"file_kind"`
	SizeBytes    int64            `json:"size_bytes" db:"size_bytes"`
	Status       ExtractionStatus `json:"status" db:"status"`
	Strategy     string           `json:"strategy,omitempty" db:"strategy"` // PDF fallback strategy that produced the text
	TextContent  string           `json:"text_content,omitempty" db:"text_content"`
	CharCount    int              `json:"char_count" db:"char_count"`
	WordCount    int              `json:"word_count" db:"word_count"`
	ErrorMessage string           `json:"error_message,omitempty" db:"error_message"`
	DurationMs   int64            `json:"duration_ms" db:"duration_ms"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
}

// --- Request/Response DTOs ---

// OCRResponse is the success body for POST /api/ocr.
type OCRResponse struct {
	Text         string `json:"text"`
	FileType     string `json:"file_type"`
	Filename     string `json:"filename"`
	Length       int    `json:"length"`
	Strategy     string `json:"strategy,omitempty"`
	ExtractionID string `json:"extraction_id,omitempty"` // Set only when history is enabled
}

// ExtractionListParams holds query parameters for listing extractions.
type ExtractionListParams struct {
	Limit    int    `form:"limit"`     // Max rows, 1..100 (default 20)
	FileType string `form:"file_type"` // pdf, docx or image
}

// ExtractionListResponse wraps a list of history rows.
type ExtractionListResponse struct {
	Data  []Extraction `json:"data"`
	Count int          `json:"count"`
}

// ErrorResponse is the error format for all API errors.
// Clients of the upload endpoint only read `error`.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Database  string `json:"database"`
	Workers   int    `json:"workers"`
	Queue     int    `json:"queue"`
	Tesseract string `json:"tesseract"`
}
