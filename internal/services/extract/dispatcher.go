// Package extract routes a document to the right text extractor.
//
// The three back-ends (PDF parsing, DOCX parsing, OCR) live in their own
// packages and are plugged in through the Extractor interface, so nothing in
// here depends on a particular library. This package owns the policy: which
// extractor handles which kind, how a PDF parse is retried, what the caller
// sees when something goes wrong, and when an uploaded file is deleted.
package extract

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
)

// Extractor turns the file at path into plain text.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// ExtractorFunc adapts a plain function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, path string) (string, error)

// Extract calls f.
func (f ExtractorFunc) Extract(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// UploadedFile is a scratch copy of an upload waiting to be extracted.
// OriginalName is only used to classify the file.
type UploadedFile struct {
	Path         string
	OriginalName string
	SizeBytes    int64
}

// Result is a successful extraction.
type Result struct {
	Text     string `json:"text"`
	Kind     Kind   `json:"file_type"`
	Strategy string `json:"strategy,omitempty"` // PDF strategy that produced the text
}

// Dispatcher picks the extractor for a Kind and normalises its outcome.
// It holds no per-request state and is safe for concurrent use.
type Dispatcher struct {
	pdf    *Fallback
	docx   Extractor
	image  Extractor
	remove func(string) error
}

// NewDispatcher wires the PDF strategies and the DOCX and image extractors.
func NewDispatcher(pdf *Fallback, docx, image Extractor) *Dispatcher {
	return &Dispatcher{
		pdf:    pdf,
		docx:   docx,
		image:  image,
		remove: os.Remove,
	}
}

// PDFStrategies returns the names of the PDF strategies in the order they run.
func (d *Dispatcher) PDFStrategies() []string {
	return d.pdf.Strategies()
}

// Extract runs the extractor for kind against path.
//
// The file at path is never modified or removed here; see ExtractUpload for
// the variant that owns a scratch file.
func (d *Dispatcher) Extract(ctx context.Context, kind Kind, path string) (*Result, error) {
	switch kind {
	case KindPDF:
		text, strategy, err := d.pdf.Extract(ctx, path)
		if err != nil {
			return nil, err
		}
		return &Result{Text: text, Kind: kind, Strategy: strategy}, nil

	case KindDOCX:
		text, err := d.docx.Extract(ctx, path)
		if err != nil {
			return nil, wrapDocxError(err)
		}
		if strings.TrimSpace(text) == "" {
			return nil, newError(ErrEmptyExtraction, MsgDocxEmpty, nil)
		}
		return &Result{Text: text, Kind: kind}, nil

	case KindImage:
		text, err := d.image.Extract(ctx, path)
		if err != nil {
			return nil, newError(ErrExtractorFailure, "Failed to perform OCR on image: "+err.Error(), err)
		}
		if strings.TrimSpace(text) == "" {
			return &Result{Text: MsgNoTextInImage, Kind: kind}, nil
		}
		return &Result{Text: text, Kind: kind}, nil

	default:
		return nil, newError(ErrUnsupportedType, MsgUnsupportedType, nil)
	}
}

// ExtractUpload classifies an uploaded file, extracts it, and deletes the
// scratch copy. The delete is attempted exactly once whatever the outcome,
// and a failed delete never changes the result.
func (d *Dispatcher) ExtractUpload(ctx context.Context, f UploadedFile) (*Result, error) {
	defer d.release(f.Path)

	kind := Classify(f.OriginalName)
	if kind == KindUnknown {
		return nil, newError(ErrUnsupportedType, MsgUnsupportedType, nil)
	}
	if f.SizeBytes == 0 {
		return nil, newError(ErrEmptyExtraction, MsgEmptyFile, nil)
	}

	return d.Extract(ctx, kind, f.Path)
}

// Discard deletes an uploaded file that will never reach ExtractUpload,
// e.g. because the extraction queue was full.
func (d *Dispatcher) Discard(f UploadedFile) {
	d.release(f.Path)
}

func (d *Dispatcher) release(path string) {
	if path == "" {
		return
	}
	if err := d.remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠️  Failed to remove temp file %s: %v", path, err)
	}
}

// wrapDocxError rewrites a DOCX library error into a user-facing message.
// Legacy binary .doc files fail at the zip layer with "not a valid zip file".
func wrapDocxError(err error) error {
	if strings.Contains(err.Error(), "not a valid") {
		return newError(ErrExtractorFailure, MsgDocxInvalid, err)
	}
	return newError(ErrExtractorFailure, "Failed to extract text from Word document: "+err.Error(), err)
}

// CheckFile verifies that a caller-named file exists and is not empty.
// Used at the tool boundary, where the file is the caller's and not a scratch copy.
func CheckFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newError(ErrExtractorFailure, "File not found: "+path, err)
		}
		return newError(ErrExtractorFailure, "Unable to access file: "+err.Error(), err)
	}
	if info.IsDir() {
		return newError(ErrExtractorFailure, "Not a file: "+path, nil)
	}
	if info.Size() == 0 {
		return newError(ErrEmptyExtraction, MsgEmptyFile, nil)
	}
	return nil
}
