package reader

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/tsawler/pdfcomply/core"
	"github.com/tsawler/pdfcomply/internal/testpdf"
)

func TestOpenResume(t *testing.T) {
	for _, compress := range []bool{false, true} {
		doc := testpdf.Resume()
		doc.Compress = compress
		path := testpdf.WriteFile(t, "resume.pdf", doc)

		r, err := Open(path)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if r.Version().String() != "1.4" {
			t.Errorf("Version() = %s", r.Version())
		}
		if r.Rebuilt() {
			t.Error("a well-formed file should not need an xref rebuild")
		}
		n, err := r.PageCount()
		if err != nil || n != 4 {
			t.Fatalf("PageCount() = %d, %v", n, err)
		}

		first, err := r.PageText(0)
		if err != nil {
			t.Fatalf("PageText(0): %v", err)
		}
		lines := strings.Split(first, "\n")
		if len(lines) != 4 || lines[1] != "SUMMARY" || lines[0] != testpdf.FullLine {
			t.Errorf("page 1 lines = %q", lines)
		}

		last, err := r.PageText(3)
		if err != nil {
			t.Fatalf("PageText(3): %v", err)
		}
		if last != "SKILLS:\nGo, SQL, Kubernetes" {
			t.Errorf("page 4 text = %q", last)
		}
	}
}

func TestPageFragmentsGeometry(t *testing.T) {
	r, err := NewReader(testpdf.Doc{Pages: []testpdf.Page{testpdf.CompliantPage()}}.Bytes())
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	frags, err := r.PageFragments(0)
	if err != nil {
		t.Fatalf("PageFragments: %v", err)
	}
	if len(frags) != 2 {
		t.Fatalf("got %d fragments", len(frags))
	}
	top := frags[0]
	if top.FontName != "Times-Roman" || top.FontSize != 12 || top.X != 72 || top.Y != 708 {
		t.Errorf("top fragment = %+v", top)
	}
	if box := top.BBox(); box.Right() != 540 || box.Top() != 720 {
		t.Errorf("top box = %+v", box)
	}
	if box := frags[1].BBox(); box.Bottom() != 72 {
		t.Errorf("bottom box = %+v", box)
	}
}

func TestInfo(t *testing.T) {
	doc := testpdf.Doc{Pages: []testpdf.Page{testpdf.TextPage("x")}, Info: map[string]string{"Title": "My CV", "Producer": "test"}}
	r, err := NewReader(doc.Bytes())
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	info := r.Info()
	if info["Title"] != "My CV" || info["Producer"] != "test" {
		t.Errorf("Info() = %v", info)
	}
}

func TestRebuildDamagedXRef(t *testing.T) {
	data := testpdf.Resume().Bytes()

	tests := []struct {
		name string
		data []byte
	}{
		{"bad startxref", bytes.Replace(data, []byte("startxref\n"), []byte("startxref\n9"), 1)},
		{"shifted offsets", bytes.Replace(data, []byte("%PDF-1.4\n"), []byte("%PDF-1.4\n%padding padding\n"), 1)},
		{"no xref at all", data[:bytes.LastIndex(data, []byte("xref\n0 "))]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(tt.data)
			if err != nil {
				t.Fatalf("NewReader: %v", err)
			}
			if n, err := r.PageCount(); err != nil || n != 4 {
				t.Fatalf("PageCount() = %d, %v", n, err)
			}
			txt, err := r.PageText(3)
			if err != nil || !strings.HasPrefix(txt, "SKILLS:") {
				t.Errorf("PageText(3) = %q, %v", txt, err)
			}
		})
	}
}

func TestNotPDF(t *testing.T) {
	if _, err := NewReader([]byte("PK\x03\x04 this is a zip")); !errors.Is(err, ErrNotPDF) {
		t.Errorf("expected ErrNotPDF, got %v", err)
	}
	if _, err := Open("/nonexistent/file.pdf"); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestHeaderAfterJunk(t *testing.T) {
	v, err := parseHeader([]byte("\x00\x00junk%PDF-1.7\n"))
	if err != nil || v.Major != 1 || v.Minor != 7 {
		t.Errorf("parseHeader = %v, %v", v, err)
	}
	v, err = parseHeader([]byte("%PDF-\n"))
	if err != nil || v.String() != "1.4" {
		t.Errorf("bare header = %v, %v", v, err)
	}
}

func TestEncrypted(t *testing.T) {
	data := bytes.Replace(testpdf.Resume().Bytes(), []byte("/Root 1 0 R"), []byte("/Root 1 0 R /Encrypt << /Filter /Standard /V 1 >>"), 1)
	if _, err := NewReader(data); !errors.Is(err, ErrEncrypted) {
		t.Errorf("expected ErrEncrypted, got %v", err)
	}
}

func TestOpenDecryptsOwnerPasswordOnly(t *testing.T) {
	for _, aes := range []bool{true, false} {
		locked := testpdf.Encrypt(t, testpdf.Resume().Bytes(), "", aes)
		if _, err := NewReader(locked); !errors.Is(err, ErrEncrypted) {
			t.Fatalf("aes=%v: NewReader err = %v, want ErrEncrypted", aes, err)
		}

		r, err := Open(testpdf.WriteBytes(t, "locked.pdf", locked))
		if err != nil {
			t.Fatalf("aes=%v: Open: %v", aes, err)
		}
		if n, err := r.PageCount(); err != nil || n != 4 {
			t.Errorf("aes=%v: PageCount() = %d, %v", aes, n, err)
		}
		txt, err := r.PageText(3)
		if err != nil || !strings.Contains(txt, "SKILLS:") {
			t.Errorf("aes=%v: PageText(3) = %q, %v", aes, txt, err)
		}
		if bytes.Contains(r.Bytes(), []byte("/Encrypt")) {
			t.Errorf("aes=%v: decrypted bytes still carry /Encrypt", aes)
		}
	}
}

func TestOpenNeedsUserPassword(t *testing.T) {
	locked := testpdf.Encrypt(t, testpdf.Resume().Bytes(), "secret", true)
	if _, err := Open(testpdf.WriteBytes(t, "locked.pdf", locked)); !errors.Is(err, ErrEncrypted) {
		t.Errorf("err = %v, want ErrEncrypted", err)
	}
}

func TestNoPages(t *testing.T) {
	r, err := NewReader(testpdf.Doc{}.Bytes())
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if _, err := r.PageCount(); !errors.Is(err, ErrNoPages) {
		t.Errorf("expected ErrNoPages, got %v", err)
	}
}

func TestMissingObjectIsNull(t *testing.T) {
	r, err := NewReader(testpdf.Resume().Bytes())
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	obj, err := r.GetObject(9999)
	if err != nil || obj == nil || obj.Type() != core.ObjNull {
		t.Errorf("GetObject(9999) = %v, %v", obj, err)
	}
}
