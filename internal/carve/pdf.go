package carve

import (
	"bytes"
	"errors"
)

// PDFScanWindow bounds the per-candidate search for the end-of-file marker.
// Without a cap, every "%PDF" candidate would force a scan to the end of
// the input buffer.
const PDFScanWindow = 10 << 20

var (
	pdfHeader  = []byte("%PDF")
	pdfEOFMark = []byte("%%EOF")
)

// ErrNoEOFMarker is returned when no "%%EOF" marker occurs within the
// search window.
var ErrNoEOFMarker = errors.New("pdf: no %%EOF marker within search window")

// PDF carves PDF documents.
type PDF struct{ magic }

func NewPDF() PDF {
	return PDF{magic{
		ext:  "pdf",
		desc: "Portable Document Format",
		sig:  pdfHeader,
	}}
}

// Carve searches for the last "%%EOF" within the window. Incrementally
// updated PDFs contain one marker per update, and only the last one closes
// the file.
func (p PDF) Carve(data []byte, off int) (uint64, error) {
	if !p.MatchesHeader(data, off) {
		return 0, ErrHeaderMismatch
	}

	end := min(len(data), off+PDFScanWindow)

	idx := bytes.LastIndex(data[off:end], pdfEOFMark)
	if idx < 0 {
		return 0, ErrNoEOFMarker
	}
	return uint64(idx + len(pdfEOFMark)), nil
}
