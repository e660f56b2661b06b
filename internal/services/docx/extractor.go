// Package docx extracts raw text from Word (.docx) documents.
//
// The container is opened with nguyenthenguyen/docx, which hands back the
// main document part (word/document.xml). The part is then walked token by
// token: paragraphs become blocks separated by a blank line, tabs and line
// breaks are preserved, and everything else (styles, drawings, field codes)
// is dropped. Table cells are paragraphs too, so their text is included.
package docx

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// Extractor reads .docx files from disk.
type Extractor struct{}

// New creates a DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the raw text of the document at path.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open document: %w", err)
	}
	defer doc.Close()

	return RawText(doc.Editable().GetContent())
}

// RawText converts the XML of a WordprocessingML document part to plain text.
func RawText(documentXML string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(documentXML))

	var paragraphs []string
	// Paragraphs nest when a text box is anchored inside a paragraph, so
	// keep one buffer per open paragraph.
	var open []*strings.Builder
	inText := false
	props := 0 // inside pPr/rPr, where <w:tab> is a tab stop, not a tab

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("malformed document.xml: %w", err)
		}

		var current *strings.Builder
		if len(open) > 0 {
			current = open[len(open)-1]
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				open = append(open, &strings.Builder{})
			case "pPr", "rPr":
				props++
			case "t":
				inText = true
			case "tab":
				if current != nil && props == 0 {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if current != nil && props == 0 {
					current.WriteByte('\n')
				}
			}

		case xml.CharData:
			if current != nil && inText {
				current.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "pPr", "rPr":
				if props > 0 {
					props--
				}
			case "p":
				if current != nil {
					paragraphs = append(paragraphs, current.String())
					open = open[:len(open)-1]
				}
			}
		}
	}

	return strings.TrimSpace(strings.Join(paragraphs, "\n\n")), nil
}
