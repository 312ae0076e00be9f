package font

import (
	"strings"
	"unicode/utf8"

	"github.com/tsawler/pdfcomply/core"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

// Encoding maps one-byte character codes of a simple font to runes.
// Unmapped codes hold utf8.RuneError.
type Encoding struct {
	name  string
	table [256]rune
}

// Name returns the PDF name of the encoding
func (e *Encoding) Name() string { return e.name }

// Decode maps a single code
func (e *Encoding) Decode(code byte) rune { return e.table[code] }

// DecodeString maps every byte of data and drops unmapped codes
func (e *Encoding) DecodeString(data []byte) string {
	var b strings.Builder
	for _, c := range data {
		if r := e.table[c]; r != utf8.RuneError {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WithDifferences returns a copy with a /Differences array applied. The
// array alternates a starting code with the glyph names that follow it.
func (e *Encoding) WithDifferences(diffs core.Array) *Encoding {
	out := *e
	out.name = e.name + "+Differences"
	code := 0
	for _, d := range diffs {
		switch v := d.(type) {
		case core.Int:
			code = int(v)
		case core.Name:
			if code >= 0 && code < 256 {
				if r, ok := GlyphToRune(string(v)); ok {
					out.table[code] = r
				} else {
					out.table[code] = utf8.RuneError
				}
			}
			code++
		}
	}
	return &out
}

func fromCharmap(name string, cm *charmap.Charmap) *Encoding {
	e := &Encoding{name: name}
	for i := 0; i < 256; i++ {
		e.table[i] = cm.DecodeByte(byte(i))
	}
	return e
}

// WinAnsiEncoding is Windows code page 1252
var WinAnsiEncoding = func() *Encoding {
	e := fromCharmap("WinAnsiEncoding", charmap.Windows1252)
	// PDF maps the undefined cp1252 slots to bullet
	for _, c := range []byte{0x7F, 0x81, 0x8D, 0x8F, 0x90, 0x9D} {
		e.table[c] = '•'
	}
	// and 0xA0/0xAD to space and hyphen
	e.table[0xA0] = ' '
	e.table[0xAD] = '-'
	return e
}()

// MacRomanEncoding is the classic Mac OS Roman character set
var MacRomanEncoding = fromCharmap("MacRomanEncoding", charmap.Macintosh)

// StandardEncoding is Adobe's built-in encoding for Type 1 text fonts
var StandardEncoding = func() *Encoding {
	e := &Encoding{name: "StandardEncoding"}
	for i := range e.table {
		e.table[i] = utf8.RuneError
	}
	for i := 0x20; i < 0x7F; i++ {
		e.table[i] = rune(i)
	}
	e.table[0x27] = '’'
	e.table[0x60] = '‘'
	high := map[byte]rune{
		0xA1: '¡', 0xA2: '¢', 0xA3: '£', 0xA4: '⁄', 0xA5: '¥', 0xA6: 'ƒ', 0xA7: '§',
		0xA8: '¤', 0xA9: '\'', 0xAA: '“', 0xAB: '«', 0xAC: '‹', 0xAD: '›', 0xAE: 'ﬁ',
		0xAF: 'ﬂ', 0xB1: '–', 0xB2: '†', 0xB3: '‡', 0xB4: '·', 0xB6: '¶', 0xB7: '•',
		0xB8: '‚', 0xB9: '„', 0xBA: '”', 0xBB: '»', 0xBC: '…', 0xBD: '‰', 0xBF: '¿',
		0xC1: '`', 0xC2: '´', 0xC3: 'ˆ', 0xC4: '˜', 0xC5: '¯', 0xC6: '˘', 0xC7: '˙',
		0xC8: '¨', 0xCA: '˚', 0xCB: '¸', 0xCD: '˝', 0xCE: '˛', 0xCF: 'ˇ', 0xD0: '—',
		0xE1: 'Æ', 0xE3: 'ª', 0xE8: 'Ł', 0xE9: 'Ø', 0xEA: 'Œ', 0xEB: 'º', 0xF1: 'æ',
		0xF5: 'ı', 0xF8: 'ł', 0xF9: 'ø', 0xFA: 'œ', 0xFB: 'ß',
	}
	for c, r := range high {
		e.table[c] = r
	}
	return e
}()

// PDFDocEncoding is used for text strings outside content streams
var PDFDocEncoding = func() *Encoding {
	e := fromCharmap("PDFDocEncoding", charmap.ISO8859_1)
	special := []rune{'•', '†', '‡', '…', '—', '–', 'ƒ', '⁄', '‹', '›', '−', '‰', '„', '“', '”', '‘',
		'’', '‚', '™', 'ﬁ', 'ﬂ', 'Ł', 'Œ', 'Š', 'Ÿ', 'Ž', 'ı', 'ł', 'œ', 'š', 'ž'}
	for i, r := range special {
		e.table[0x80+i] = r
	}
	e.table[0xA0] = '€'
	return e
}()

// GetEncoding returns a predefined encoding by PDF name. Unknown names fall
// back to StandardEncoding.
func GetEncoding(name string) *Encoding {
	switch name {
	case "WinAnsiEncoding":
		return WinAnsiEncoding
	case "MacRomanEncoding", "MacExpertEncoding":
		return MacRomanEncoding
	case "PDFDocEncoding":
		return PDFDocEncoding
	}
	return StandardEncoding
}

// DecodeTextString decodes a PDF text string (document metadata, outline
// titles): UTF-16 when it starts with a byte order mark, UTF-8 with its BOM,
// PDFDocEncoding otherwise.
func DecodeTextString(data []byte) string {
	switch {
	case len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF:
		return decodeUTF16(data, xunicode.BigEndian)
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE:
		return decodeUTF16(data, xunicode.LittleEndian)
	case len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF:
		return string(data[3:])
	}
	return PDFDocEncoding.DecodeString(data)
}

// DecodeUTF16BE decodes big-endian UTF-16 without a byte order mark
func DecodeUTF16BE(data []byte) string {
	return decodeUTF16(data, xunicode.BigEndian)
}

func decodeUTF16(data []byte, order xunicode.Endianness) string {
	dec := xunicode.UTF16(order, xunicode.ExpectBOM).NewDecoder()
	if !(len(data) >= 2 && (data[0] == 0xFE && data[1] == 0xFF || data[0] == 0xFF && data[1] == 0xFE)) {
		dec = xunicode.UTF16(order, xunicode.IgnoreBOM).NewDecoder()
	}
	out, err := dec.Bytes(data)
	if err != nil {
		return ""
	}
	return string(out)
}

// NormalizeUnicode applies NFC so decomposed accents from glyph-by-glyph
// output compare equal to their precomposed forms.
func NormalizeUnicode(s string) string {
	return norm.NFC.String(s)
}
