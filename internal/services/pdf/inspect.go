package pdf

import (
	"bytes"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

// Info describes the structure of a PDF. It is used by the ocrcheck
// diagnostic tool to explain why extraction failed.
type Info struct {
	Header       string // first bytes of the file, e.g. "%PDF-1.7"
	ValidHeader  bool
	HasXref      bool
	HasStartxref bool
	SizeBytes    int

	// Filled from pdfcpu when the document parses.
	Version    string
	PageCount  int
	Encrypted  bool
	ImagePages []int // pages that carry image XObjects
	TextPages  int   // pages with at least one text item
}

// LikelyScanned reports whether every page carries images but none carries text.
func (i *Info) LikelyScanned() bool {
	return i.PageCount > 0 && i.TextPages == 0 && len(i.ImagePages) == i.PageCount
}

// Inspect reports the structure of data. The raw byte checks are always
// filled in; the returned error is pdfcpu's parse error, if any.
func Inspect(data []byte) (*Info, error) {
	info := &Info{
		SizeBytes:    len(data),
		ValidHeader:  bytes.HasPrefix(data, []byte("%PDF-")),
		HasXref:      bytes.Contains(data, []byte("xref")),
		HasStartxref: bytes.Contains(data, []byte("startxref")),
	}
	header := data
	if len(header) > 8 {
		header = header[:8]
	}
	info.Header = string(bytes.TrimSpace(header))

	pctx, err := readContext(data)
	if err != nil {
		return info, err
	}

	info.Version = pctx.VersionString()
	info.PageCount = pctx.PageCount
	info.Encrypted = pctx.Encrypt != nil

	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		if len(pdfcpu.ImageObjNrs(pctx, pageNr)) > 0 {
			info.ImagePages = append(info.ImagePages, pageNr)
		}
		if text, err := renderPageText(pctx, pageNr); err == nil && text != "" {
			info.TextPages++
		}
	}
	return info, nil
}
