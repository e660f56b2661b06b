// export.go downloads a stored extraction as a file.
//
// Supported formats:
//   - txt:  the extracted text only
//   - md:   Markdown with a metadata table
//   - json: the text plus all metadata
//
// Go Pattern: One formatter function per format and a switch to pick one.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/ocr-api/internal/database"
	"github.com/Shimizu-Technology/ocr-api/internal/models"
)

// ExportExtraction downloads an extraction in the requested format.
// GET /api/extractions/:id/export?format=txt|md|json
func (h *Handler) ExportExtraction(c *gin.Context) {
	if h.History == nil {
		respondError(c, http.StatusServiceUnavailable, msgHistoryDisabled)
		return
	}

	// Validate format before doing any database work
	format := c.DefaultQuery("format", "txt")
	validFormats := map[string]bool{"txt": true, "md": true, "json": true}
	if !validFormats[format] {
		respondError(c, http.StatusBadRequest, "Supported formats: txt, md, json")
		return
	}

	e, err := h.History.GetExtraction(c.Request.Context(), c.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Extraction not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to get extraction")
		return
	}

	// Failed extractions have no text worth downloading.
	if e.Status != models.StatusCompleted {
		respondError(c, http.StatusNotFound, "Extraction did not complete (status: "+string(e.Status)+")")
		return
	}

	filename := sanitizeFilename(strings.TrimSuffix(e.OriginalName, filepath.Ext(e.OriginalName)))
	if filename == "" {
		filename = e.ID
	}

	switch format {
	case "txt":
		exportTXT(c, e, filename)
	case "md":
		exportMarkdown(c, e, filename)
	case "json":
		exportJSON(c, e, filename)
	}
}

// exportTXT returns the extracted text as plain text.
func exportTXT(c *gin.Context, e *models.Extraction, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.txt"`, filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(e.TextContent))
}

// exportMarkdown returns the text under a table of extraction metadata.
func exportMarkdown(c *gin.Context, e *models.Extraction, filename string) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", e.OriginalName)
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	fmt.Fprintf(&sb, "| Type | %s |\n", e.FileKind)
	if e.Strategy != "" {
		fmt.Fprintf(&sb, "| PDF strategy | %s |\n", e.Strategy)
	}
	fmt.Fprintf(&sb, "| Characters | %d |\n", e.CharCount)
	fmt.Fprintf(&sb, "| Words | %d |\n", e.WordCount)
	fmt.Fprintf(&sb, "| Processing time | %s |\n", formatDuration(e.DurationMs))
	fmt.Fprintf(&sb, "| Extracted | %s |\n", e.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	sb.WriteString("\n---\n\n")
	sb.WriteString("## Text\n\n")
	sb.WriteString(e.TextContent)
	sb.WriteString("\n")

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.md"`, filename))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(sb.String()))
}

// exportJSON returns the extraction with a few derived fields.
func exportJSON(c *gin.Context, e *models.Extraction, filename string) {
	exportData := map[string]interface{}{
		"id":            e.ID,
		"original_name": e.OriginalName,
		"file_type":     e.FileKind,
		"strategy":      e.Strategy,
		"text":          e.TextContent,
		"char_count":    e.CharCount,
		"word_count":    e.WordCount,
		"reading_time":  fmt.Sprintf("%d min", int(math.Ceil(float64(e.WordCount)/200.0))),
		"duration_ms":   e.DurationMs,
		"created_at":    e.CreatedAt,
	}

	jsonBytes, err := json.MarshalIndent(exportData, "", "  ")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate JSON export")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.json"`, filename))
	c.Data(http.StatusOK, "application/json; charset=utf-8", jsonBytes)
}

// --- Helper Functions ---

// formatDuration renders a processing time in milliseconds for people.
func formatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", ms)
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		m := int(d / time.Minute)
		s := int((d % time.Minute) / time.Second)
		return fmt.Sprintf("%dm %ds", m, s)
	}
}

// sanitizeFilename replaces characters that are unsafe in a
// Content-Disposition filename with hyphens.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "-", "\"", "-", "<", "-", ">", "-",
		"|", "-", "\n", " ", "\r", "",
	)
	name = replacer.Replace(name)

	for strings.Contains(name, "  ") {
		name = strings.ReplaceAll(name, "  ", " ")
	}
	for strings.Contains(name, "--") {
		name = strings.ReplaceAll(name, "--", "-")
	}

	name = strings.TrimSpace(name)
	if len(name) > 100 {
		name = name[:100]
	}
	return name
}
