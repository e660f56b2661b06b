// Package pipeline assembles the extraction dispatcher from configuration.
// The HTTP server, the MCP server and the CLI all build it the same way.
package pipeline

import (
	"github.com/Shimizu-Technology/ocr-api/internal/config"
	"github.com/Shimizu-Technology/ocr-api/internal/services/docx"
	"github.com/Shimizu-Technology/ocr-api/internal/services/extract"
	"github.com/Shimizu-Technology/ocr-api/internal/services/ocr"
	"github.com/Shimizu-Technology/ocr-api/internal/services/pdf"
)

// New builds a dispatcher wired to the PDF fallback strategies, the DOCX
// reader and Tesseract. progress receives OCR progress; pass ocr.NoProgress
// when nobody is watching. The Tesseract adapter is returned so callers can
// report whether OCR is available.
func New(cfg *config.Config, progress ocr.ProgressFunc) (*extract.Dispatcher, *ocr.Tesseract) {
	tess := ocr.New(cfg.TesseractPath,
		ocr.WithLanguage(cfg.OCRLanguage),
		ocr.WithTimeout(cfg.OCRTimeout),
		ocr.WithProgress(progress),
	)
	return extract.NewDispatcher(pdf.NewFallback(), docx.New(), tess), tess
}
