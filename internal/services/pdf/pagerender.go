package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu otherwise creates a config directory under the user's home.
	model.ConfigPath = "disable"
}

// newConfiguration returns a lenient pdfcpu configuration: relaxed
// validation accepts many of the format violations real-world writers produce.
func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// readContext parses and validates PDF bytes with pdfcpu.
func readContext(data []byte) (*model.Context, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), newConfiguration())
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}
	return ctx, nil
}

// parsePageRender renders each page through a custom text callback: the
// page content stream is decoded by pdfcpu and the strings shown by text
// operators are joined with single spaces. Pages are separated by a blank line.
func parsePageRender(ctx context.Context, data []byte) (string, error) {
	pctx, err := readContext(data)
	if err != nil {
		return "", err
	}

	var pages []string
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := renderPageText(pctx, pageNr)
		if err != nil || text == "" {
			continue
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n\n"), nil
}

// renderPageText extracts the text items of a single page.
func renderPageText(pctx *model.Context, pageNr int) (string, error) {
	r, err := pdfcpu.ExtractPageContent(pctx, pageNr)
	if err != nil {
		return "", err
	}
	if r == nil {
		return "", nil
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.Join(textItems(content), " "), nil
}
