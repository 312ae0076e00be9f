package font

import (
	"github.com/tsawler/pdfcomply/core"
)

// CMap maps character codes to Unicode text. It reads the parts of a
// ToUnicode CMap that matter for extraction: codespace ranges, bfchar and
// bfrange.
type CMap struct {
	codespaces []codespace
	chars      map[uint32]string
	ranges     []bfRange
}

type codespace struct {
	low, high []byte
}

type bfRange struct {
	lo, hi uint32
	dst    []byte   // UTF-16BE start value, last code unit incremented per code
	list   []string // explicit array form
}

// NewCMap creates an empty CMap
func NewCMap() *CMap {
	return &CMap{chars: map[uint32]string{}}
}

// ParseCMap reads CMap program text
func ParseCMap(data []byte) *CMap {
	cm := NewCMap()
	lex := core.NewLexer(data)
	var operands []core.Token
	for {
		tok, err := lex.NextToken()
		if err != nil {
			// skip the offending byte and keep scanning
			lex.Seek(lex.Pos() + 1)
			continue
		}
		if tok.Type == core.TokenEOF {
			return cm
		}
		if tok.Type != core.TokenKeyword {
			operands = append(operands, tok)
			continue
		}
		switch string(tok.Value) {
		case "begincodespacerange", "beginbfchar", "beginbfrange":
			operands = operands[:0]
		case "endcodespacerange":
			for i := 0; i+1 < len(operands); i += 2 {
				cm.codespaces = append(cm.codespaces, codespace{low: operands[i].Value, high: operands[i+1].Value})
			}
			operands = operands[:0]
		case "endbfchar":
			for i := 0; i+1 < len(operands); i += 2 {
				if dst, ok := tokenText(operands[i+1]); ok {
					cm.chars[codeValue(operands[i].Value)] = dst
				}
			}
			operands = operands[:0]
		case "endbfrange":
			cm.parseRanges(operands)
			operands = operands[:0]
		default:
			operands = operands[:0]
		}
	}
}

// parseRanges handles both "<lo> <hi> <dst>" and "<lo> <hi> [<d1> <d2> ...]"
func (cm *CMap) parseRanges(ops []core.Token) {
	for i := 0; i+2 < len(ops); {
		lo, hi := codeValue(ops[i].Value), codeValue(ops[i+1].Value)
		if ops[i+2].Type == core.TokenArrayStart {
			r := bfRange{lo: lo, hi: hi}
			j := i + 3
			for ; j < len(ops) && ops[j].Type != core.TokenArrayEnd; j++ {
				s, _ := tokenText(ops[j])
				r.list = append(r.list, s)
			}
			cm.ranges = append(cm.ranges, r)
			i = j + 1
			continue
		}
		if ops[i+2].Type == core.TokenHexString && hi >= lo {
			cm.ranges = append(cm.ranges, bfRange{lo: lo, hi: hi, dst: ops[i+2].Value})
		}
		i += 3
	}
}

// Lookup returns the Unicode text for a code
func (cm *CMap) Lookup(code uint32) (string, bool) {
	if cm == nil {
		return "", false
	}
	if s, ok := cm.chars[code]; ok {
		return s, true
	}
	for _, r := range cm.ranges {
		if code < r.lo || code > r.hi {
			continue
		}
		off := code - r.lo
		if r.list != nil {
			if int(off) < len(r.list) {
				return r.list[off], true
			}
			return "", false
		}
		dst := append([]byte(nil), r.dst...)
		if n := len(dst); n > 0 {
			// carry into the preceding byte so ranges may cross a 256 boundary
			v := uint32(dst[n-1]) + off
			dst[n-1] = byte(v)
			if n > 1 {
				dst[n-2] += byte(v >> 8)
			}
		}
		return utf16Text(dst), true
	}
	return "", false
}

// NextCode splits the first character code off data using the codespace
// ranges. Without codespaces, defaultLen bytes are taken.
func (cm *CMap) NextCode(data []byte, defaultLen int) (uint32, int) {
	if len(data) == 0 {
		return 0, 0
	}
	if cm != nil && len(cm.codespaces) > 0 {
		for n := 1; n <= 4 && n <= len(data); n++ {
			for _, cs := range cm.codespaces {
				if len(cs.low) == n && inCodespace(data[:n], cs) {
					return codeValue(data[:n]), n
				}
			}
		}
	}
	n := defaultLen
	if n > len(data) {
		n = len(data)
	}
	return codeValue(data[:n]), n
}

func inCodespace(b []byte, cs codespace) bool {
	if len(cs.high) != len(b) {
		return false
	}
	for i := range b {
		if b[i] < cs.low[i] || b[i] > cs.high[i] {
			return false
		}
	}
	return true
}

func codeValue(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v
}

// tokenText converts a bfchar destination: a UTF-16BE hex string or a glyph name
func tokenText(tok core.Token) (string, bool) {
	switch tok.Type {
	case core.TokenHexString, core.TokenString:
		return utf16Text(tok.Value), true
	case core.TokenName:
		if r, ok := GlyphToRune(string(tok.Value)); ok {
			return string(r), true
		}
	}
	return "", false
}

func utf16Text(b []byte) string {
	if len(b) == 1 {
		return string(rune(b[0]))
	}
	return DecodeUTF16BE(b)
}
