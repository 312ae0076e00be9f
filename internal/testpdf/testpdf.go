// Package testpdf writes small, well-formed PDF documents for tests.
//
// Every document carries two simple fonts with explicit metrics so text
// geometry is predictable: /F1 is Times-Roman and /F2 is Helvetica, both
// with every printable ASCII glyph 500 units wide and a descent of zero.
// At 12pt a character is therefore 6pt wide and a glyph box spans exactly
// baseline to baseline+12.
package testpdf

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Letter page size in points
const (
	LetterWidth  = 612
	LetterHeight = 792
)

// FullLine is 78 characters, 468pt at 12pt: it spans a Letter page between
// one-inch margins.
var FullLine = strings.Repeat("Lorem ipsum ", 6) + "dolor."

// Text is one string drawn at a baseline position
type Text struct {
	X, Y  float64
	Size  float64
	Font  string // "F1" or "F2"; empty means F1
	Value string
}

// Page is one page of a document
type Page struct {
	Width, Height float64 // zero means Letter
	Texts         []Text
}

// Doc describes a document to write
type Doc struct {
	Pages []Page
	Info  map[string]string
	// Compress stores content streams with FlateDecode
	Compress bool
	// StandardFonts writes F1 and F2 as bare standard 14 fonts without
	// /Widths or a descriptor, so readers fall back to built-in metrics:
	// real Times and Helvetica widths and descents.
	StandardFonts bool
}

// Column lays lines out at x=72 in 12pt Times, starting at baseline top and
// going down 14pt per line.
func Column(top float64, lines ...string) []Text {
	out := make([]Text, len(lines))
	for i, l := range lines {
		out[i] = Text{X: 72, Y: top - float64(i)*14, Size: 12, Font: "F1", Value: l}
	}
	return out
}

// TextPage builds a Letter page whose lines start at the top margin
func TextPage(lines ...string) Page {
	return Page{Texts: Column(708, lines...)}
}

// CompliantPage builds a Letter page in 12pt Times whose content box sits
// exactly on one-inch margins: a full-width line at the top margin, the
// given lines below it and a full-width line on the bottom margin.
func CompliantPage(lines ...string) Page {
	texts := Column(708, append([]string{FullLine}, lines...)...)
	texts = append(texts, Text{X: 72, Y: 72, Size: 12, Font: "F1", Value: FullLine})
	return Page{Texts: texts}
}

// Bytes renders the document
func (d Doc) Bytes() []byte {
	var objs []string
	add := func(body string) int {
		objs = append(objs, body)
		return len(objs)
	}

	catalog := add("") // filled in below
	pagesObj := add("")

	widths := strings.TrimSpace(strings.Repeat("500 ", 95))
	times := add("") // font, descriptor follows
	timesFD := add("<< /Type /FontDescriptor /FontName /Times-Roman /Flags 34 /FontBBox [-168 -218 1000 898] /ItalicAngle 0 /Ascent 683 /Descent 0 /CapHeight 662 /StemV 84 >>")
	objs[times-1] = fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Times-Roman /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s] /FontDescriptor %d 0 R >>", widths, timesFD)
	helv := add("")
	helvFD := add("<< /Type /FontDescriptor /FontName /Helvetica /Flags 32 /FontBBox [-166 -225 1000 931] /ItalicAngle 0 /Ascent 718 /Descent 0 /CapHeight 718 /StemV 88 >>")
	objs[helv-1] = fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s] /FontDescriptor %d 0 R >>", widths, helvFD)
	if d.StandardFonts {
		objs[times-1] = "<< /Type /Font /Subtype /Type1 /BaseFont /Times-Roman /Encoding /WinAnsiEncoding >>"
		objs[helv-1] = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"
	}

	var kids []string
	for _, p := range d.Pages {
		w, h := p.Width, p.Height
		if w == 0 || h == 0 {
			w, h = LetterWidth, LetterHeight
		}
		content := add(d.stream(p.content()))
		page := add(fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox [0 0 %s %s] /Resources << /Font << /F1 %d 0 R /F2 %d 0 R >> >> /Contents %d 0 R >>",
			pagesObj, num(w), num(h), times, helv, content))
		kids = append(kids, fmt.Sprintf("%d 0 R", page))
	}
	objs[catalog-1] = fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesObj)
	objs[pagesObj-1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids))

	info := 0
	if len(d.Info) > 0 {
		keys := make([]string, 0, len(d.Info))
		for k := range d.Info {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString("<<")
		for _, k := range keys {
			fmt.Fprintf(&b, " /%s (%s)", k, escape(d.Info[k]))
		}
		b.WriteString(" >>")
		info = add(b.String())
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R", len(objs)+1, catalog)
	if info > 0 {
		fmt.Fprintf(&buf, " /Info %d 0 R", info)
	}
	fmt.Fprintf(&buf, " >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

func (d Doc) stream(data []byte) string {
	if !d.Compress {
		return fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(data), data)
	}
	var z bytes.Buffer
	w := zlib.NewWriter(&z)
	w.Write(data)
	w.Close()
	return fmt.Sprintf("<< /Length %d /Filter /FlateDecode >>\nstream\n%s\nendstream", z.Len(), z.Bytes())
}

func (p Page) content() []byte {
	var b bytes.Buffer
	for _, t := range p.Texts {
		f := t.Font
		if f == "" {
			f = "F1"
		}
		fmt.Fprintf(&b, "BT /%s %s Tf 1 0 0 1 %s %s Tm (%s) Tj ET\n", f, num(t.Size), num(t.X), num(t.Y), escape(t.Value))
	}
	return b.Bytes()
}

// Encrypt locks a document with the owner password "owner" and the given
// user password, using AES-256 or RC4-128.
func Encrypt(tb testing.TB, data []byte, userPW string, aes bool) []byte {
	tb.Helper()
	api.DisableConfigDir()
	conf := model.NewRC4Configuration(userPW, "owner", 128)
	if aes {
		conf = model.NewAESConfiguration(userPW, "owner", 256)
	}
	conf.ValidationMode = model.ValidationRelaxed

	var out bytes.Buffer
	if err := api.Encrypt(bytes.NewReader(data), &out, conf); err != nil {
		tb.Fatalf("encrypt: %v", err)
	}
	return out.Bytes()
}

func num(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", f), "0"), ".")
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)
	return r.Replace(s)
}

// WriteFile writes the document into a temporary directory and returns
// its path
func WriteFile(tb testing.TB, name string, d Doc) string {
	tb.Helper()
	return WriteBytes(tb, name, d.Bytes())
}

// WriteBytes writes raw bytes into a temporary directory and returns the path
func WriteBytes(tb testing.TB, name string, data []byte) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("write %s: %v", name, err)
	}
	return path
}

// Resume is the four page example document: a SUMMARY heading on page 1,
// two body pages, and a SKILLS: heading on page 4.
func Resume() Doc {
	return Doc{Pages: []Page{
		CompliantPage("SUMMARY", "Engineer with ten years of experience."),
		TextPage("Led the platform team and shipped the billing system."),
		TextPage("Mentored four junior developers."),
		TextPage("SKILLS:", "Go, SQL, Kubernetes"),
	}}
}
