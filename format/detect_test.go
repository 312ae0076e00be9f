package format

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"resume.pdf", PDF},
		{"RESUME.PDF", PDF},
		{"report.docx", ZIP},
		{"index.htm", HTML},
		{"scan.JPG", JPEG},
		{"notes.txt", Unknown},
		{"noext", Unknown},
	}
	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"pdf", []byte("%PDF-1.7\n%\xe2\xe3"), PDF},
		{"pdf after junk", append(bytes.Repeat([]byte{' '}, 500), "%PDF-1.4"...), PDF},
		{"pdf header too late", append(bytes.Repeat([]byte{' '}, 1100), "%PDF-1.4"...), Unknown},
		{"zip", []byte("PK\x03\x04\x14\x00"), ZIP},
		{"png", []byte("\x89PNG\r\n\x1a\n...."), PNG},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, JPEG},
		{"html", []byte("  <!DOCTYPE html><html>"), HTML},
		{"html with bom", []byte("\xef\xbb\xbf<html><body>"), HTML},
		{"text", []byte("hello world"), Unknown},
		{"empty", nil, Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic(tt.data); got != tt.want {
				t.Errorf("DetectFromMagic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "renamed.pdf")
	if err := os.WriteFile(path, []byte("PK\x03\x04rest"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := DetectFile(path)
	if err != nil {
		t.Fatalf("DetectFile: %v", err)
	}
	if got != ZIP {
		t.Errorf("DetectFile() = %v, want ZIP", got)
	}

	if _, err := DetectFile(filepath.Join(dir, "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDetectFromReaderShortInput(t *testing.T) {
	got, err := DetectFromReader(strings.NewReader("%PDF-1.4"))
	if err != nil || got != PDF {
		t.Errorf("DetectFromReader() = %v, %v", got, err)
	}
}

func TestFormatString(t *testing.T) {
	if PDF.String() != "PDF" || Format(99).String() != "Unknown" {
		t.Errorf("unexpected names %q %q", PDF.String(), Format(99).String())
	}
}
