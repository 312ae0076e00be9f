// Package format identifies what kind of file an input is before any PDF
// parsing is attempted, so non-PDF uploads are rejected with a useful name.
package format

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format represents a recognized file kind.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// ZIP indicates a ZIP container, the usual wrapper of office documents
	// uploaded in place of a PDF.
	ZIP
	// HTML indicates an HTML document.
	HTML
	// PNG indicates a PNG image.
	PNG
	// JPEG indicates a JPEG image.
	JPEG
)

// probeSize is how much of a file is read for magic detection. PDF allows
// the header anywhere in the first 1024 bytes.
const probeSize = 1024

var names = map[Format]string{
	PDF:  "PDF",
	ZIP:  "ZIP",
	HTML: "HTML",
	PNG:  "PNG",
	JPEG: "JPEG",
}

// String returns the string representation of the format.
func (f Format) String() string {
	if n, ok := names[f]; ok {
		return n
	}
	return "Unknown"
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDF
	case ".zip", ".docx", ".xlsx", ".pptx", ".odt":
		return ZIP
	case ".html", ".htm":
		return HTML
	case ".png":
		return PNG
	case ".jpg", ".jpeg":
		return JPEG
	}
	return Unknown
}

// HasPDFHeader reports whether "%PDF-" occurs in the first 1024 bytes
func HasPDFHeader(data []byte) bool {
	if len(data) > probeSize {
		data = data[:probeSize]
	}
	return bytes.Contains(data, []byte("%PDF-"))
}

// DetectFromMagic determines the format from leading bytes.
func DetectFromMagic(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return ZIP
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return PNG
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return JPEG
	case HasPDFHeader(data):
		return PDF
	case looksLikeHTML(data):
		return HTML
	}
	return Unknown
}

func looksLikeHTML(data []byte) bool {
	if len(data) > probeSize {
		data = data[:probeSize]
	}
	head := bytes.ToLower(bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}

// DetectFromReader reads the probe window from r and detects its format.
func DetectFromReader(r io.Reader) (Format, error) {
	buf := make([]byte, probeSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return Unknown, err
	}
	return DetectFromMagic(buf[:n]), nil
}

// DetectFile opens a file and detects its format from content.
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return DetectFromReader(f)
}
