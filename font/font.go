package font

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/tsawler/pdfcomply/core"
)

// Resolver resolves indirect references found inside font dictionaries
type Resolver interface {
	Resolve(obj core.Object) (core.Object, error)
}

// Font is a loaded PDF font ready to decode shown strings
type Font struct {
	BaseFont string
	Subtype  string

	// Ascent and Descent are in glyph space (thousandths of an em).
	// Descent is negative.
	Ascent  float64
	Descent float64

	composite bool
	vertical  bool
	family    string

	enc       *Encoding
	toUnicode *CMap

	firstChar    int
	widths       []float64
	missingWidth float64

	cidWidths    map[uint32]float64
	defaultWidth float64

	// converts glyph-space widths to text space; 0.001 except for Type 3
	widthScale float64
}

// Glyph is one decoded character code
type Glyph struct {
	Code uint32
	Text string
	// Width is the horizontal advance for a font size of 1
	Width float64
	// Space is set for the single-byte code 32, the only code word spacing applies to
	Space bool
}

// Load reads a font dictionary. A nil resolver is allowed when the
// dictionary holds only direct objects.
func Load(dict core.Dict, res Resolver) (*Font, error) {
	if dict == nil {
		return nil, errors.New("nil font dictionary")
	}
	subtype, _ := dict.GetName("Subtype")
	base, _ := dict.GetName("BaseFont")
	f := &Font{
		BaseFont:   string(base),
		Subtype:    string(subtype),
		widthScale: 0.001,
	}
	f.family, _ = StandardFamily(f.BaseFont)

	if s, ok := resolve(res, dict.Get("ToUnicode")).(*core.Stream); ok {
		if data, err := s.Decode(); err == nil {
			f.toUnicode = ParseCMap(data)
		}
	}

	if subtype == "Type0" {
		if err := f.loadComposite(dict, res); err != nil {
			return nil, fmt.Errorf("font %s: %w", f.BaseFont, err)
		}
	} else {
		f.loadSimple(dict, res)
	}

	if f.Descent == 0 && f.Ascent == 0 {
		if m, ok := StandardMetrics(f.BaseFont); ok {
			f.Ascent, f.Descent = m.Ascent, m.Descent
		}
	}
	return f, nil
}

func (f *Font) loadSimple(dict core.Dict, res Resolver) {
	f.enc = StandardEncoding
	switch e := resolve(res, dict.Get("Encoding")).(type) {
	case core.Name:
		f.enc = GetEncoding(string(e))
	case core.Dict:
		if baseEnc, ok := e.GetName("BaseEncoding"); ok {
			f.enc = GetEncoding(string(baseEnc))
		}
		if diffs, ok := resolve(res, e.Get("Differences")).(core.Array); ok {
			f.enc = f.enc.WithDifferences(diffs)
		}
	}

	if fc, ok := dict.GetNumber("FirstChar"); ok {
		f.firstChar = int(fc)
	}
	if w, ok := resolve(res, dict.Get("Widths")).(core.Array); ok {
		f.widths = make([]float64, len(w))
		for i, o := range w {
			f.widths[i], _ = core.Number(resolve(res, o))
		}
	}

	if f.Subtype == "Type3" {
		if m, ok := resolve(res, dict.Get("FontMatrix")).(core.Array); ok {
			if vals, ok := m.Floats(); ok && len(vals) == 6 && vals[0] != 0 {
				f.widthScale = vals[0]
			}
		}
	}

	f.loadDescriptor(resolve(res, dict.Get("FontDescriptor")))
}

func (f *Font) loadComposite(dict core.Dict, res Resolver) error {
	f.composite = true
	if enc, ok := dict.GetName("Encoding"); ok {
		f.vertical = enc == "Identity-V" || (len(enc) > 2 && enc[len(enc)-2:] == "-V")
	}

	kids, ok := resolve(res, dict.Get("DescendantFonts")).(core.Array)
	if !ok || len(kids) == 0 {
		return errors.New("missing DescendantFonts")
	}
	cid, ok := resolve(res, kids[0]).(core.Dict)
	if !ok {
		return errors.New("descendant font is not a dictionary")
	}

	f.defaultWidth = 1000
	if dw, ok := cid.GetNumber("DW"); ok {
		f.defaultWidth = dw
	}
	f.cidWidths = map[uint32]float64{}
	if w, ok := resolve(res, cid.Get("W")).(core.Array); ok {
		f.parseCIDWidths(w, res)
	}
	f.loadDescriptor(resolve(res, cid.Get("FontDescriptor")))
	return nil
}

// parseCIDWidths reads /W entries of the forms "c [w1 w2 ...]" and
// "cfirst clast w".
func (f *Font) parseCIDWidths(w core.Array, res Resolver) {
	for i := 0; i < len(w); {
		start, ok := core.Number(resolve(res, w[i]))
		if !ok || i+1 >= len(w) {
			return
		}
		if list, ok := resolve(res, w[i+1]).(core.Array); ok {
			for j, o := range list {
				if v, ok := core.Number(resolve(res, o)); ok {
					f.cidWidths[uint32(start)+uint32(j)] = v
				}
			}
			i += 2
			continue
		}
		if i+2 >= len(w) {
			return
		}
		end, ok1 := core.Number(resolve(res, w[i+1]))
		v, ok2 := core.Number(resolve(res, w[i+2]))
		if ok1 && ok2 && end >= start && end-start < 65536 {
			for c := uint32(start); c <= uint32(end); c++ {
				f.cidWidths[c] = v
			}
		}
		i += 3
	}
}

func (f *Font) loadDescriptor(obj core.Object) {
	fd, ok := obj.(core.Dict)
	if !ok {
		return
	}
	scale := f.widthScale * 1000
	if v, ok := fd.GetNumber("Ascent"); ok {
		f.Ascent = v * scale
	}
	if v, ok := fd.GetNumber("Descent"); ok {
		// some producers write a positive descent
		if v > 0 {
			v = -v
		}
		f.Descent = v * scale
	}
	if v, ok := fd.GetNumber("MissingWidth"); ok {
		f.missingWidth = v
	}
}

// IsComposite reports whether the font uses multi-byte CID codes
func (f *Font) IsComposite() bool { return f.composite }

// IsVertical reports vertical writing mode
func (f *Font) IsVertical() bool { return f.vertical }

// Decode splits a shown string into glyphs
func (f *Font) Decode(data []byte) []Glyph {
	var glyphs []Glyph
	for len(data) > 0 {
		var code uint32
		n := 1
		if f.composite {
			code, n = f.toUnicode.NextCode(data, 2)
		} else {
			code = uint32(data[0])
		}
		data = data[n:]

		g := Glyph{Code: code, Space: !f.composite && code == 32}
		g.Text = f.text(code)
		g.Width = f.width(code, g.Text) * f.widthScale
		glyphs = append(glyphs, g)
	}
	return glyphs
}

// DecodeString returns the Unicode text of a shown string
func (f *Font) DecodeString(data []byte) string {
	var out []byte
	for _, g := range f.Decode(data) {
		out = append(out, g.Text...)
	}
	return NormalizeUnicode(string(out))
}

func (f *Font) text(code uint32) string {
	if s, ok := f.toUnicode.Lookup(code); ok {
		return s
	}
	if f.composite || code > 255 {
		return ""
	}
	if r := f.enc.Decode(byte(code)); r != utf8.RuneError {
		return string(r)
	}
	return ""
}

func (f *Font) width(code uint32, text string) float64 {
	if f.composite {
		if w, ok := f.cidWidths[code]; ok {
			return w
		}
		return f.defaultWidth
	}
	if idx := int(code) - f.firstChar; idx >= 0 && idx < len(f.widths) {
		return f.widths[idx]
	}
	if f.family != "" {
		r, _ := utf8.DecodeRuneInString(text)
		if text == "" {
			r = rune(code)
		}
		return standardWidth(f.family, r)
	}
	if f.missingWidth > 0 {
		return f.missingWidth
	}
	return 500
}

func resolve(res Resolver, obj core.Object) core.Object {
	if obj == nil {
		return nil
	}
	if _, isRef := obj.(core.IndirectRef); !isRef || res == nil {
		return obj
	}
	out, err := res.Resolve(obj)
	if err != nil {
		return nil
	}
	return out
}
