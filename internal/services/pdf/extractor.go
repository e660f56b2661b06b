// Package pdf provides the PDF text extraction strategies.
//
// Two libraries back the strategies:
//   - ledongthuc/pdf: pure Go, fast, handles well-formed documents
//     (strategies "default" and "max0").
//   - pdfcpu: slower, but repairs broken cross-reference tables and is lenient
//     about structure (strategy "pagerender").
//
// Neither needs CGO, so the server still ships as a single binary.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Shimizu-Technology/ocr-api/internal/services/extract"
)

// Strategy names, in the order they run.
const (
	StrategyDefault    = "default"
	StrategyMaxPages0  = "max0"
	StrategyPageRender = "pagerender"
)

// Strategies returns the PDF strategies in their fixed order.
func Strategies() []extract.Strategy {
	return []extract.Strategy{
		{Name: StrategyDefault, Parse: parseDefault},
		{Name: StrategyMaxPages0, Parse: parseAllPages},
		{Name: StrategyPageRender, Parse: parsePageRender},
	}
}

// NewFallback is a convenience for extract.NewFallback(Strategies()...).
func NewFallback() *extract.Fallback {
	return extract.NewFallback(Strategies()...)
}

// parseDefault asks ledongthuc/pdf for the whole document's plain text in
// one call. Any page that fails aborts the strategy.
func parseDefault(_ context.Context, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	r, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read text: %w", err)
	}

	text, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read text: %w", err)
	}
	return string(text), nil
}

// parseAllPages walks every page with no page cap. Unlike parseDefault, a
// page that cannot be decoded (image-only pages, broken font dictionaries)
// is skipped instead of failing the whole document.
func parseAllPages(ctx context.Context, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	pageCount := reader.NumPage()
	if pageCount == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	// Fonts are shared across pages; caching them avoids re-parsing each one.
	fonts := make(map[string]*pdf.Font)

	var allText strings.Builder
	var failed int
	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}

		text, err := page.GetPlainText(fonts)
		if err != nil {
			failed++
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if allText.Len() > 0 {
			allText.WriteString("\n\n")
		}
		allText.WriteString(text)
	}

	if allText.Len() == 0 && failed > 0 {
		return "", fmt.Errorf("text extraction failed on %d of %d pages", failed, pageCount)
	}
	return allText.String(), nil
}
