package font

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// glyphNames covers the non-letter names that show up in /Differences arrays
// of text fonts. Letters are handled directly and accented letters are
// composed from their base letter and accent name.
var glyphNames = map[string]rune{
	"space": ' ', "exclam": '!', "quotedbl": '"', "numbersign": '#', "dollar": '$',
	"percent": '%', "ampersand": '&', "quotesingle": '\'', "quoteright": '’',
	"parenleft": '(', "parenright": ')', "asterisk": '*', "plus": '+', "comma": ',',
	"hyphen": '-', "minus": '−', "period": '.', "slash": '/', "colon": ':',
	"semicolon": ';', "less": '<', "equal": '=', "greater": '>', "question": '?',
	"at": '@', "bracketleft": '[', "backslash": '\\', "bracketright": ']',
	"asciicircum": '^', "underscore": '_', "grave": '`', "quoteleft": '‘',
	"braceleft": '{', "bar": '|', "braceright": '}', "asciitilde": '~',
	"zero": '0', "one": '1', "two": '2', "three": '3', "four": '4', "five": '5',
	"six": '6', "seven": '7', "eight": '8', "nine": '9',
	"bullet": '•', "endash": '–', "emdash": '—', "ellipsis": '…', "dagger": '†',
	"daggerdbl": '‡', "quotedblleft": '“', "quotedblright": '”', "quotesinglbase": '‚',
	"quotedblbase": '„', "guillemotleft": '«', "guillemotright": '»',
	"guilsinglleft": '‹', "guilsinglright": '›', "trademark": '™', "copyright": '©',
	"registered": '®', "degree": '°', "section": '§', "paragraph": '¶',
	"periodcentered": '·', "nbspace": '\u00A0', "sfthyphen": '\u00AD',
	"fi": 'ﬁ', "fl": 'ﬂ', "ff": 'ﬀ', "ffi": 'ﬃ', "ffl": 'ﬄ',
	"AE": 'Æ', "ae": 'æ', "OE": 'Œ', "oe": 'œ', "germandbls": 'ß', "Oslash": 'Ø',
	"oslash": 'ø', "Lslash": 'Ł', "lslash": 'ł', "dotlessi": 'ı', "Eth": 'Ð', "eth": 'ð',
	"Thorn": 'Þ', "thorn": 'þ', "florin": 'ƒ', "fraction": '⁄', "perthousand": '‰',
	"euro": '€', "Euro": '€', "sterling": '£', "yen": '¥', "cent": '¢', "currency": '¤',
	"exclamdown": '¡', "questiondown": '¿', "multiply": '×', "divide": '÷',
	"plusminus": '±', "onehalf": '½', "onequarter": '¼', "threequarters": '¾',
	"mu": 'µ', "logicalnot": '¬', "brokenbar": '¦', "ordfeminine": 'ª',
	"ordmasculine": 'º', "dieresis": '¨', "acute": '´', "cedilla": '¸', "macron": '¯',
	"circumflex": 'ˆ', "tilde": '˜', "caron": 'ˇ', "breve": '˘', "ring": '˚',
	"dotaccent": '˙', "hungarumlaut": '˝', "ogonek": '˛',
}

// combining accents keyed by the suffix used in Adobe glyph names
var accentSuffixes = []struct {
	suffix string
	mark   rune
}{
	{"hungarumlaut", '\u030B'},
	{"circumflex", '\u0302'},
	{"dotaccent", '\u0307'},
	{"dieresis", '\u0308'},
	{"cedilla", '\u0327'},
	{"macron", '\u0304'},
	{"ogonek", '\u0328'},
	{"acute", '\u0301'},
	{"grave", '\u0300'},
	{"tilde", '\u0303'},
	{"caron", '\u030C'},
	{"breve", '\u0306'},
	{"ring", '\u030A'},
}

// GlyphToRune maps an Adobe glyph name to a rune. Names carrying no Unicode
// information (g42, cid17, glyph3) report false.
func GlyphToRune(name string) (rune, bool) {
	if i := strings.IndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	if r, ok := glyphNames[name]; ok {
		return r, true
	}
	if len(name) == 1 && isASCIILetter(name[0]) {
		return rune(name[0]), true
	}
	if r, ok := parseUniName(name); ok {
		return r, true
	}
	for _, a := range accentSuffixes {
		base := strings.TrimSuffix(name, a.suffix)
		if base == name || len(base) != 1 || !isASCIILetter(base[0]) {
			continue
		}
		composed := norm.NFC.String(base + string(a.mark))
		if utf8.RuneCountInString(composed) == 1 {
			r, _ := utf8.DecodeRuneInString(composed)
			return r, true
		}
	}
	return 0, false
}

// parseUniName handles "uniXXXX" and "uXXXX" to "uXXXXXX"
func parseUniName(name string) (rune, bool) {
	var hex string
	switch {
	case strings.HasPrefix(name, "uni") && len(name) >= 7:
		hex = name[3:7]
	case strings.HasPrefix(name, "u") && len(name) >= 5 && len(name) <= 7:
		hex = name[1:]
	default:
		return 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || v > utf8.MaxRune || (v >= 0xD800 && v <= 0xDFFF) {
		return 0, false
	}
	return rune(v), true
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
