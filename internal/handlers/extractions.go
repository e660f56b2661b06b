// extractions.go serves the extraction history.
//
// GET /api/extractions      lists recent extractions, newest first
// GET /api/extractions/:id  returns one extraction including its text
package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/ocr-api/internal/database"
	"github.com/Shimizu-Technology/ocr-api/internal/models"
	"github.com/Shimizu-Technology/ocr-api/internal/services/extract"
)

const msgHistoryDisabled = "Extraction history is disabled. Set DATABASE_URL to enable it."

// ListExtractions returns recent extractions.
// GET /api/extractions?limit=20&file_type=pdf
func (h *Handler) ListExtractions(c *gin.Context) {
	if h.History == nil {
		respondError(c, http.StatusServiceUnavailable, msgHistoryDisabled)
		return
	}

	var params models.ExtractionListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid query parameters: "+err.Error())
		return
	}
	if params.FileType != "" {
		if _, err := extract.ParseKind(params.FileType); err != nil {
			respondError(c, http.StatusBadRequest, extract.Message(err))
			return
		}
	}

	extractions, err := h.History.ListExtractions(c.Request.Context(), params)
	if err != nil {
		log.Printf("❌ Failed to list extractions: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to list extractions")
		return
	}
	if extractions == nil {
		extractions = []models.Extraction{}
	}

	c.JSON(http.StatusOK, models.ExtractionListResponse{
		Data:  extractions,
		Count: len(extractions),
	})
}

// GetExtraction returns a single extraction by ID.
// GET /api/extractions/:id
func (h *Handler) GetExtraction(c *gin.Context) {
	if h.History == nil {
		respondError(c, http.StatusServiceUnavailable, msgHistoryDisabled)
		return
	}

	e, err := h.History.GetExtraction(c.Request.Context(), c.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Extraction not found")
		return
	}
	if err != nil {
		log.Printf("❌ Failed to get extraction %s: %v", c.Param("id"), err)
		respondError(c, http.StatusInternalServerError, "Failed to get extraction")
		return
	}

	c.JSON(http.StatusOK, e)
}
