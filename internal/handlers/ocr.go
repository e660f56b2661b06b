// ocr.go handles the upload endpoint.
//
// POST /api/ocr: multipart upload (field "file") of a PDF, Word document or
// image; responds with the extracted plain text.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Shimizu-Technology/ocr-api/internal/models"
	"github.com/Shimizu-Technology/ocr-api/internal/services/extract"
	"github.com/Shimizu-Technology/ocr-api/internal/services/worker"
)

// multipartOverhead is the slack allowed on top of the file size for
// boundaries and part headers.
const multipartOverhead = 1 << 20

// ExtractText handles a file upload and returns its text.
// POST /api/ocr
//
// The upload is saved under UploadDir with a random name and handed to the
// worker pool, which owns deleting it from then on.
func (h *Handler) ExtractText(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
			return
		}
		respondError(c, http.StatusBadRequest, "No file uploaded")
		return
	}
	if header.Size > h.MaxUploadBytes {
		respondError(c, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
		return
	}

	kind := extract.Classify(header.Filename)
	if kind == extract.KindUnknown {
		respondError(c, http.StatusBadRequest, extract.MsgUnsupportedType)
		return
	}

	// Go Pattern: the client's filename is only used for classification and
	// display. The scratch path is ours, so path tricks in the name are moot.
	scratch := filepath.Join(h.UploadDir, uuid.New().String()+strings.ToLower(filepath.Ext(header.Filename)))
	if err := c.SaveUploadedFile(header, scratch); err != nil {
		log.Printf("❌ Failed to save upload %s: %v", header.Filename, err)
		os.Remove(scratch)
		respondError(c, http.StatusInternalServerError, "Failed to save uploaded file")
		return
	}

	upload := extract.UploadedFile{
		Path:         scratch,
		OriginalName: header.Filename,
		SizeBytes:    header.Size,
	}

	start := time.Now()
	result, err := h.Worker.Do(c.Request.Context(), upload)
	elapsed := time.Since(start)

	// The history write should survive the client hanging up.
	saveCtx := context.WithoutCancel(c.Request.Context())

	if err != nil {
		msg := extract.Message(err)
		log.Printf("❌ Extraction failed for %s (%s): %v", header.Filename, kind, err)
		h.record(saveCtx, &models.Extraction{
			OriginalName: header.Filename,
			FileKind:     string(kind),
			SizeBytes:    header.Size,
			Status:       models.StatusFailed,
			ErrorMessage: msg,
			DurationMs:   elapsed.Milliseconds(),
		})
		respondError(c, statusFor(err), msg)
		return
	}

	text := result.Text
	if strings.TrimSpace(text) == "" {
		text = extract.MsgNoTextExtracted
	}

	rec := &models.Extraction{
		OriginalName: header.Filename,
		FileKind:     string(result.Kind),
		SizeBytes:    header.Size,
		Status:       models.StatusCompleted,
		Strategy:     result.Strategy,
		TextContent:  text,
		CharCount:    utf8.RuneCountInString(text),
		WordCount:    countWords(text),
		DurationMs:   elapsed.Milliseconds(),
	}
	h.record(saveCtx, rec)

	c.JSON(http.StatusOK, models.OCRResponse{
		Text:         text,
		FileType:     string(result.Kind),
		Filename:     header.Filename,
		Length:       rec.CharCount,
		Strategy:     result.Strategy,
		ExtractionID: rec.ID,
	})
}

// record saves an outcome when history is enabled. Failures are logged only;
// the caller still gets the extraction result.
func (h *Handler) record(ctx context.Context, e *models.Extraction) {
	if h.History == nil {
		return
	}
	if err := h.History.CreateExtraction(ctx, e); err != nil {
		log.Printf("⚠️  Failed to save extraction record for %s: %v", e.OriginalName, err)
	}
}

func (h *Handler) tooLargeMessage() string {
	return fmt.Sprintf("File too large. Maximum size is %dMB.", h.MaxUploadBytes>>20)
}

// statusFor maps an extraction error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, worker.ErrQueueFull), errors.Is(err, worker.ErrPoolStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, extract.ErrUnsupportedType):
		return http.StatusBadRequest
	// An empty upload is the client's mistake; an empty document body is not.
	case errors.Is(err, extract.ErrEmptyExtraction) && extract.Message(err) == extract.MsgEmptyFile:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, models.ErrorResponse{Error: msg, Code: status})
}

// countWords counts whitespace-separated words.
// Go Pattern: strings.Fields splits on any run of Unicode whitespace.
func countWords(text string) int {
	return len(strings.Fields(text))
}
