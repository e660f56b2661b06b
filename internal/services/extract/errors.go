package extract

import "errors"

// Error kinds. Every failure returned by this package wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	ErrUnsupportedType   = errors.New("unsupported file type")
	ErrEmptyExtraction   = errors.New("empty extraction")
	ErrExtractorFailure  = errors.New("extractor failure")
	ErrExhaustedFallback = errors.New("all pdf strategies failed")
)

// User-facing messages.
const (
	MsgUnsupportedType  = "Unsupported file type"
	MsgEmptyFile        = "The uploaded file is empty."
	MsgNoTextExtracted  = "No text could be extracted from the file."
	MsgNoTextInImage    = "No text could be detected in the image. Please ensure the image contains clear, readable text."
	MsgDocxEmpty        = "No text content found in the Word document. Please ensure it is a valid .docx file (not .doc)."
	MsgDocxInvalid      = "Unable to read this Word document. Please ensure it is a valid .docx file (not .doc). Try saving it as .docx in Word."
	MsgPDFUnextractable = "Unable to extract text from this PDF. It may be scanned, image-based, or have structural issues. Try: 1) Converting to image and using OCR, 2) Re-saving the PDF, or 3) Using a different PDF."
)

// Error is an extraction failure carrying a message that is safe to show to
// the caller. Kind is one of the Err* sentinels above; Err is the cause, if any.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func newError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Message returns the user-facing text for err. Errors that did not come from
// this package are reported as-is.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
