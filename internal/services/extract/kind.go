package extract

import (
	"path/filepath"
	"strings"
)

// Kind is the logical document family an upload belongs to.
// Go Pattern: string constants instead of enums, same as models.ExtractionStatus.
type Kind string

const (
	KindPDF     Kind = "pdf"
	KindDOCX    Kind = "docx"
	KindImage   Kind = "image"
	KindUnknown Kind = "unknown"
)

// imageExtensions lists the raster formats handed to OCR.
var imageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"bmp":  true,
	"tiff": true,
	"webp": true,
}

// Classify maps a file name to its Kind using only the lower-cased extension.
// No magic-byte sniffing: "A.PDF" and "a.pdf" are both KindPDF, and a name
// without an extension is KindUnknown.
func Classify(fileName string) Kind {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	switch {
	case ext == "":
		return KindUnknown
	case ext == "pdf":
		return KindPDF
	case ext == "docx" || ext == "doc":
		return KindDOCX
	case imageExtensions[ext]:
		return KindImage
	default:
		return KindUnknown
	}
}

// ParseKind validates a kind supplied explicitly by a caller (the MCP tool
// takes file_type as an argument instead of sniffing the extension).
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindPDF, KindDOCX, KindImage:
		return k, nil
	default:
		return KindUnknown, newError(ErrUnsupportedType, "Unsupported file type: "+s, nil)
	}
}

// SupportedKinds returns the kinds the dispatcher can extract.
func SupportedKinds() []Kind {
	return []Kind{KindPDF, KindDOCX, KindImage}
}
