// Package font turns the bytes shown by text operators into Unicode text
// and glyph advances.
//
// # Font Types
//
// [Load] reads any PDF font dictionary. Simple fonts (Type1, MMType1,
// TrueType, Type3) use one-byte codes resolved through a base encoding plus
// /Differences. Composite fonts (Type0 with a CIDFont descendant) use the
// code lengths declared by their CMap, two bytes for Identity-H/V.
//
//	f, err := font.Load(fontDict, resolver)
//	for _, g := range f.Decode(shown) {
//	    advance := g.Width * fontSize
//	}
//
// # Unicode Mapping
//
// An embedded /ToUnicode [CMap] always wins. Otherwise simple fonts map
// codes through [Encoding] tables (WinAnsi and MacRoman come from
// golang.org/x/text/encoding/charmap) and Adobe glyph names; accented glyph
// names such as "eacute" are composed with NFC normalization.
//
// # Metrics
//
// Widths come from /Widths or /W. For the standard 14 fonts, which usually
// omit them, built-in metrics supply widths, ascent and descent.
package font
